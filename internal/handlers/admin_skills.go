// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"folio/internal/session"
	"folio/internal/store"
)

// SkillCreate inserts a skill from the create form.
func (a *Admin) SkillCreate(w http.ResponseWriter, r *http.Request) {
	form := parseSkillForm(r)
	if errs := form.validate(); errs.Any() {
		a.formFailed(w, r, TabSkills, form, errs, false)
		return
	}

	sk, err := a.Skills.Create(r.Context(), form.model())
	if err != nil {
		slog.Error("create skill failed", "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save the skill. Please try again.")
		a.formFailed(w, r, TabSkills, form, nil, false)
		return
	}

	a.done(w, r, TabSkills, fmt.Sprintf("Skill %q added.", sk.Name))
}

// SkillUpdate saves the edit form for skill {id}.
func (a *Admin) SkillUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	form := parseSkillForm(r)
	form.ID = id
	if errs := form.validate(); errs.Any() {
		a.formFailed(w, r, TabSkills, form, errs, true)
		return
	}

	err := a.Skills.Update(r.Context(), form.model())
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.fail(w, r, TabSkills, "That skill no longer exists.")
		return
	case err != nil:
		slog.Error("update skill failed", "id", id, "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save the skill. Please try again.")
		a.formFailed(w, r, TabSkills, form, nil, true)
		return
	}

	a.done(w, r, TabSkills, fmt.Sprintf("Skill %q updated.", form.Name))
}

// SkillDelete removes skill {id} once confirmed.
func (a *Admin) SkillDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !confirmed(r) {
		sk, err := a.Skills.FindByID(r.Context(), id)
		if err != nil {
			slog.Error("load skill for delete failed", "id", id, "error", err)
			a.fail(w, r, TabSkills, "Could not load the skill.")
			return
		}
		if sk == nil {
			a.fail(w, r, TabSkills, "That skill no longer exists.")
			return
		}
		a.confirmDelete(w, r, TabSkills, "skill", fmt.Sprintf("/admin/skills/%d/delete", id), []string{sk.Name}, nil)
		return
	}

	err := a.Skills.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.fail(w, r, TabSkills, "That skill no longer exists.")
	case err != nil:
		slog.Error("delete skill failed", "id", id, "error", err)
		a.fail(w, r, TabSkills, "Could not delete the skill. Please try again.")
	default:
		a.done(w, r, TabSkills, "Skill deleted.")
	}
}

// SkillBulkDelete removes every selected skill in one statement once
// confirmed. The selection arrives as repeated "ids" values.
func (a *Admin) SkillBulkDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.fail(w, r, TabSkills, "Invalid selection.")
		return
	}

	ids := selectedIDs(r.PostForm["ids"])
	if len(ids) == 0 {
		a.fail(w, r, TabSkills, "Select at least one skill to delete.")
		return
	}

	if !confirmed(r) {
		names := make([]string, 0, len(ids))
		hidden := make([]string, 0, len(ids))
		for _, id := range ids {
			hidden = append(hidden, strconv.FormatInt(id, 10))
			sk, err := a.Skills.FindByID(r.Context(), id)
			if err != nil {
				slog.Error("load skill for bulk delete failed", "id", id, "error", err)
				continue
			}
			if sk != nil {
				names = append(names, sk.Name)
			}
		}
		a.confirmDelete(w, r, TabSkills, fmt.Sprintf("%d skills", len(ids)), "/admin/skills/bulk-delete", names, map[string][]string{"ids": hidden})
		return
	}

	n, err := a.Skills.DeleteMany(r.Context(), ids)
	if err != nil {
		slog.Error("bulk delete skills failed", "count", len(ids), "error", err)
		a.fail(w, r, TabSkills, "Could not delete the selected skills. Please try again.")
		return
	}

	a.done(w, r, TabSkills, fmt.Sprintf("Deleted %d skills.", n))
}

// selectedIDs parses positive ids, skipping junk and duplicates.
func selectedIDs(raw []string) []int64 {
	seen := make(map[int64]bool, len(raw))
	var ids []int64
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
