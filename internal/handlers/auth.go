// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/oauth"
	"folio/internal/render"
	"folio/internal/session"
)

// totpIssuer names the site in authenticator apps.
const totpIssuer = "Folio"

// oauthStateKey holds the pending OAuth state in the flash cookie.
const oauthStateKey = "oauth_state"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	flashes  *session.Flashes
	users    UserStore
	google   *oauth.Google // nil when Google sign-in is disabled
}

// NewAuth creates a new Auth handler group. google may be nil.
func NewAuth(renderer *render.Renderer, sessions *session.Store, flashes *session.Flashes, users UserStore, google *oauth.Google) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		flashes:  flashes,
		users:    users,
		google:   google,
	}
}

func (a *Auth) loginPage(w http.ResponseWriter, r *http.Request, email, errMsg string) {
	a.renderer.Page(w, r, "admin/login", &render.PageData{
		Title: "Sign In",
		Data: map[string]any{
			"Email":         email,
			"Error":         errMsg,
			"GoogleEnabled": a.google != nil,
		},
	})
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in with 2FA complete, go straight to the gate.
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	a.loginPage(w, r, "", "")
}

// LoginSubmit processes the password login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		a.loginPage(w, r, email, "Email and password are required.")
		return
	}

	user, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.loginPage(w, r, email, "An unexpected error occurred.")
		return
	}
	if user == nil || !a.users.CheckPassword(user, password) {
		slog.Info("login rejected", "email", email)
		a.loginPage(w, r, email, "Invalid email or password.")
		return
	}

	// Replace any previous session.
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("destroy previous session failed", "error", err)
	}

	// TwoFADone starts false only for accounts with TOTP enabled.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Provider:    session.ProviderPassword,
		TwoFADone:   !user.RequiresTOTP(),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		a.loginPage(w, r, email, "Could not start a session. Please try again.")
		return
	}

	if user.RequiresTOTP() {
		http.Redirect(w, r, "/admin/2fa/verify", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// GoogleLogin starts the Google OAuth flow.
func (a *Auth) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if a.google == nil {
		a.flashes.Add(w, r, session.FlashError, "Google sign-in is not configured.")
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	state := uuid.NewString()
	if err := a.flashes.SetValue(w, r, oauthStateKey, state); err != nil {
		slog.Error("store oauth state failed", "error", err)
		a.flashes.Add(w, r, session.FlashError, "Could not start Google sign-in.")
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, a.google.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback completes the OAuth flow and signs the identity in. The
// allow-list is enforced by the dashboard gate, not here.
func (a *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if a.google == nil {
		http.NotFound(w, r)
		return
	}

	fail := func(msg string) {
		a.flashes.Add(w, r, session.FlashError, msg)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	}

	want := a.flashes.TakeValue(w, r, oauthStateKey)
	q := r.URL.Query()
	if want == "" || q.Get("state") != want {
		fail("Sign-in expired. Please try again.")
		return
	}
	if q.Get("error") != "" {
		fail("Google sign-in was cancelled.")
		return
	}

	id, err := a.google.Exchange(r.Context(), q.Get("code"))
	if errors.Is(err, oauth.ErrUnverifiedEmail) {
		fail("Your Google account email is not verified.")
		return
	}
	if err != nil {
		slog.Error("google exchange failed", "error", err)
		fail("Google sign-in failed. Please try again.")
		return
	}

	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("destroy previous session failed", "error", err)
	}
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		Email:       id.Email,
		DisplayName: id.Name,
		Provider:    session.ProviderGoogle,
		TwoFADone:   true,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		fail("Could not start a session. Please try again.")
		return
	}

	slog.Info("google sign-in", "email", id.Email)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("logout failed", "error", err)
	}
	a.flashes.Add(w, r, session.FlashSuccess, "You have been signed out.")
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// TwoFAVerifyPage renders the 2FA code entry form.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	if sess.TwoFADone {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "admin/2fa_verify", &render.PageData{
		Title: "Two-Factor Authentication",
	})
}

// TwoFAVerifySubmit validates the TOTP code and completes sign-in.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || sess.UserID == 0 {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	if user.RequiresTOTP() && !totp.Validate(strings.TrimSpace(r.FormValue("code")), *user.TOTPSecret) {
		a.renderer.Page(w, r, "admin/2fa_verify", &render.PageData{
			Title: "Two-Factor Authentication",
			Data:  map[string]any{"Error": "Invalid code. Please try again."},
		})
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// passwordUser returns the signed-in password account, or redirects to the
// settings tab with a message.
func (a *Auth) passwordUser(w http.ResponseWriter, r *http.Request) *models.User {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || sess.UserID == 0 {
		a.flashes.Add(w, r, session.FlashError, "Two-factor authentication is only available for password accounts.")
		http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
		return nil
	}
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "error", err)
		a.flashes.Add(w, r, session.FlashError, "Could not load your account.")
		http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
		return nil
	}
	return user
}

// TwoFASetupPage generates a TOTP secret and displays the QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	user := a.passwordUser(w, r)
	if user == nil {
		return
	}
	if user.RequiresTOTP() {
		a.flashes.Add(w, r, session.FlashError, "Two-factor authentication is already enabled.")
		http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := a.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.setupPage(w, r, key.URL(), key.Secret(), "")
}

// TwoFASetupSubmit confirms enrollment with a first valid code.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	user := a.passwordUser(w, r)
	if user == nil {
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
		return
	}

	if !totp.Validate(strings.TrimSpace(r.FormValue("code")), *user.TOTPSecret) {
		a.setupPage(w, r, otpURL(user.Email, *user.TOTPSecret), *user.TOTPSecret, "Invalid code. Please try again.")
		return
	}

	if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		a.flashes.Add(w, r, session.FlashError, "Could not enable two-factor authentication.")
		http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
		return
	}

	slog.Info("totp enabled", "user_id", user.ID)
	a.flashes.Add(w, r, session.FlashSuccess, "Two-factor authentication is now enabled.")
	http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
}

// TwoFADisable turns TOTP off after checking a current code.
func (a *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	user := a.passwordUser(w, r)
	if user == nil {
		return
	}
	if !user.RequiresTOTP() {
		http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
		return
	}

	if !totp.Validate(strings.TrimSpace(r.FormValue("code")), *user.TOTPSecret) {
		a.flashes.Add(w, r, session.FlashError, "Invalid code. Two-factor authentication is still enabled.")
		http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
		return
	}

	if err := a.users.DisableTOTP(r.Context(), user.ID); err != nil {
		slog.Error("disable totp failed", "error", err)
		a.flashes.Add(w, r, session.FlashError, "Could not disable two-factor authentication.")
		http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
		return
	}

	slog.Info("totp disabled", "user_id", user.ID)
	a.flashes.Add(w, r, session.FlashSuccess, "Two-factor authentication is now disabled.")
	http.Redirect(w, r, tabURL(TabSettings), http.StatusSeeOther)
}

func (a *Auth) setupPage(w http.ResponseWriter, r *http.Request, keyURL, secret, errMsg string) {
	qrPNG, err := qrcode.Encode(keyURL, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "admin/2fa_setup", &render.PageData{
		Title:   "Set Up Two-Factor Authentication",
		Section: TabSettings,
		Data: map[string]any{
			"QRCode": base64.StdEncoding.EncodeToString(qrPNG),
			"Secret": secret,
			"Error":  errMsg,
		},
	})
}

// otpURL rebuilds the provisioning URI for a stored secret.
func otpURL(email, secret string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", totpIssuer)
	return fmt.Sprintf("otpauth://totp/%s:%s?%s", url.PathEscape(totpIssuer), url.PathEscape(email), v.Encode())
}
