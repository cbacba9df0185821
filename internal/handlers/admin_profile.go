// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"folio/internal/session"
)

// ProfileUpdate writes the profile form over the stored profile record.
// Fields not on the form keep their stored values.
func (a *Admin) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	form := parseProfileForm(r)
	if errs := validateForm(form); errs.Any() {
		a.formFailed(w, r, TabProfile, form, errs, true)
		return
	}

	ctx := r.Context()
	current := a.Catalog.Profile(ctx)
	if current.Failed() {
		a.Flashes.Add(w, r, session.FlashError, "Could not load the profile. Please try again.")
		a.formFailed(w, r, TabProfile, form, nil, true)
		return
	}
	if current.Data == nil {
		a.fail(w, r, TabProfile, "No profile record exists yet.")
		return
	}

	p := *current.Data
	form.apply(&p)
	if _, err := a.Catalog.UpdateProfile(ctx, &p); err != nil {
		slog.Error("update profile failed", "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save the profile. Please try again.")
		a.formFailed(w, r, TabProfile, form, nil, true)
		return
	}

	a.done(w, r, TabProfile, "Profile updated.")
}
