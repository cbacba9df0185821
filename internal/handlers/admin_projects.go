// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"folio/internal/session"
	"folio/internal/store"
)

// ProjectCreate inserts a project from the create form.
func (a *Admin) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	form := parseProjectForm(r)
	if errs := form.validate(); errs.Any() {
		a.formFailed(w, r, TabProjects, form, errs, false)
		return
	}

	p, err := a.Projects.Create(r.Context(), form.model())
	if err != nil {
		slog.Error("create project failed", "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save the project. Please try again.")
		a.formFailed(w, r, TabProjects, form, nil, false)
		return
	}

	slog.Info("project created", "id", p.ID)
	a.done(w, r, TabProjects, fmt.Sprintf("Project %q created.", p.Title))
}

// ProjectUpdate saves the edit form for project {id}.
func (a *Admin) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	form := parseProjectForm(r)
	form.ID = id
	if errs := form.validate(); errs.Any() {
		a.formFailed(w, r, TabProjects, form, errs, true)
		return
	}

	err := a.Projects.Update(r.Context(), form.model())
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.fail(w, r, TabProjects, "That project no longer exists.")
		return
	case err != nil:
		slog.Error("update project failed", "id", id, "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save the project. Please try again.")
		a.formFailed(w, r, TabProjects, form, nil, true)
		return
	}

	a.done(w, r, TabProjects, fmt.Sprintf("Project %q updated.", form.Title))
}

// ProjectDelete removes project {id} once confirmed.
func (a *Admin) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !confirmed(r) {
		p, err := a.Projects.FindByID(r.Context(), id)
		if err != nil {
			slog.Error("load project for delete failed", "id", id, "error", err)
			a.fail(w, r, TabProjects, "Could not load the project.")
			return
		}
		if p == nil {
			a.fail(w, r, TabProjects, "That project no longer exists.")
			return
		}
		a.confirmDelete(w, r, TabProjects, "project", fmt.Sprintf("/admin/projects/%d/delete", id), []string{p.Title}, nil)
		return
	}

	err := a.Projects.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.fail(w, r, TabProjects, "That project no longer exists.")
	case err != nil:
		slog.Error("delete project failed", "id", id, "error", err)
		a.fail(w, r, TabProjects, "Could not delete the project. Please try again.")
	default:
		a.done(w, r, TabProjects, "Project deleted.")
	}
}
