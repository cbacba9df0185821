// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"folio/internal/authz"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/session"
)

func (a *Admin) settingsData(ctx context.Context, data map[string]any) {
	if err := a.Settings.Refresh(ctx); err != nil {
		slog.Error("load settings failed", "error", err)
		data["LoadFailed"] = true
	}
	data["ContactEnabled"] = a.Settings.ContactFormEnabled(a.ContactDefault)
	data["AdminEmails"] = strings.Join(authz.ParseList(a.Settings.AdminEmails()), "\n")
	data["ContactHelp"] = a.Settings.Description(models.ConfigEmailFormEnabled)
	data["AdminEmailsHelp"] = a.Settings.Description(models.ConfigAdminEmails)
	data["StaticAdmins"] = a.StaticAdmins

	sess := middleware.SessionFromCtx(ctx)
	if sess == nil || sess.UserID == 0 {
		return
	}
	u, err := a.Users.FindByID(ctx, sess.UserID)
	if err != nil {
		slog.Error("load user for settings failed", "error", err)
		return
	}
	data["User"] = u
}

// SettingsUpdate saves the contact-form toggle and the runtime admin
// allow-list together: both are validated first, then written in one
// upsert. On any failure the tab is shown again with what was submitted.
func (a *Admin) SettingsUpdate(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("admin_emails")
	contact := checked(r, "contact_enabled")
	submitted := map[string]any{
		"ContactEnabled": contact,
		"AdminEmails":    raw,
	}

	emails := authz.ParseList(raw)
	for _, e := range emails {
		if err := validate.Var(e, "email"); err != nil {
			submitted["Errors"] = FormErrors{"Admin emails": fmt.Sprintf("%q is not a valid email address.", e)}
			a.renderTab(w, r, TabSettings, submitted)
			return
		}
	}

	err := a.Settings.UpdateAll(r.Context(), map[string]string{
		models.ConfigEmailFormEnabled: strconv.FormatBool(contact),
		models.ConfigAdminEmails:      strings.Join(emails, ", "),
	})
	if err != nil {
		slog.Error("save settings failed", "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save settings. Please try again.")
		a.renderTab(w, r, TabSettings, submitted)
		return
	}

	slog.Info("settings updated", "contact_enabled", contact, "admin_emails", len(emails))
	a.done(w, r, TabSettings, "Settings saved.")
}

// AnalyticsUpdate stores the analytics embed URL. The URL must be an
// absolute http or https address.
func (a *Admin) AnalyticsUpdate(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.FormValue("url"))
	if raw == "" {
		a.formFailed(w, r, TabAnalytics, raw, FormErrors{"URL": "URL is required."}, true)
		return
	}
	if !isHTTPURL(raw) {
		a.formFailed(w, r, TabAnalytics, raw, FormErrors{"URL": "URL must start with http:// or https://."}, true)
		return
	}

	if err := a.Settings.Update(r.Context(), models.ConfigAnalyticsEmbedURL, raw); err != nil {
		slog.Error("save analytics url failed", "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save the analytics URL. Please try again.")
		a.formFailed(w, r, TabAnalytics, raw, nil, true)
		return
	}

	a.done(w, r, TabAnalytics, "Analytics URL saved.")
}
