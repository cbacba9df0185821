// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// portfolio. It organizes routes into public, sign-in and gated admin
// groups with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/session"
	"folio/web"
)

// Deps are the handler groups and shared middleware state. Limiters may be
// nil to disable rate limiting.
type Deps struct {
	Sessions *session.Store
	Flashes  *session.Flashes
	Gate     middleware.Checker

	Admin  *handlers.Admin
	Auth   *handlers.Auth
	Public *handlers.Public

	LoginLimiter   *middleware.RateLimiter
	ContactLimiter *middleware.RateLimiter

	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(d.SecureCookies))
	r.Use(middleware.NewCSRF(d.SecureCookies))
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check, no auth.
	r.Get("/health", healthHandler)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("router: static assets missing: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.NotFound(d.Public.NotFound)

	// Public site.
	r.Get("/", d.Public.Home)
	r.Get("/projects", d.Public.Projects)
	r.Get("/projects/{id}", d.Public.Project)
	r.Get("/blog", d.Public.Blog)
	r.Get("/blog/{slug}", d.Public.Post)
	r.With(limit(d.ContactLimiter)).Post("/contact", d.Public.Contact)
	r.Post("/theme", d.Public.Theme)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		})

		// Sign-in, accessible without a session.
		r.Get("/login", d.Auth.LoginPage)
		r.With(limit(d.LoginLimiter)).Post("/login", d.Auth.LoginSubmit)
		r.Post("/logout", d.Auth.Logout)
		r.Get("/login/google", d.Auth.GoogleLogin)
		r.Get("/oauth/callback", d.Auth.GoogleCallback)
		r.Get("/2fa/verify", d.Auth.TwoFAVerifyPage)
		r.With(limit(d.LoginLimiter)).Post("/2fa/verify", d.Auth.TwoFAVerifySubmit)

		// Dashboard, behind the auth gate.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Gate(d.Gate, d.Sessions, d.Flashes))

			r.Get("/dashboard", d.Admin.Dashboard)

			r.Post("/projects", d.Admin.ProjectCreate)
			r.Post("/projects/{id}", d.Admin.ProjectUpdate)
			r.Post("/projects/{id}/delete", d.Admin.ProjectDelete)

			r.Post("/skills", d.Admin.SkillCreate)
			r.Post("/skills/bulk-delete", d.Admin.SkillBulkDelete)
			r.Post("/skills/{id}", d.Admin.SkillUpdate)
			r.Post("/skills/{id}/delete", d.Admin.SkillDelete)

			r.Post("/blog", d.Admin.BlogCreate)
			r.Post("/blog/{id}", d.Admin.BlogUpdate)
			r.Post("/blog/{id}/delete", d.Admin.BlogDelete)

			r.Post("/profile", d.Admin.ProfileUpdate)
			r.Post("/settings", d.Admin.SettingsUpdate)
			r.Post("/analytics", d.Admin.AnalyticsUpdate)
			r.Post("/media", d.Admin.MediaUpload)

			r.Get("/2fa/setup", d.Auth.TwoFASetupPage)
			r.Post("/2fa/setup", d.Auth.TwoFASetupSubmit)
			r.Post("/2fa/disable", d.Auth.TwoFADisable)
		})
	})

	return r
}

// limit applies rl, or nothing when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
