// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"folio/internal/cache"
	"folio/internal/session"
	"folio/internal/store"
)

const duplicateSlugMessage = "Another post already uses this slug."

// BlogCreate inserts a post. A blank slug is derived from the title and
// published_at is stamped when the post is created published.
func (a *Admin) BlogCreate(w http.ResponseWriter, r *http.Request) {
	form := parseBlogForm(r)
	if errs := form.validate(); errs.Any() {
		a.formFailed(w, r, TabBlog, form, errs, false)
		return
	}

	p, err := a.Blog.Create(r.Context(), form.model())
	if err != nil {
		if store.IsUniqueViolation(err) {
			a.formFailed(w, r, TabBlog, form, FormErrors{"Slug": duplicateSlugMessage}, false)
			return
		}
		slog.Error("create post failed", "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save the post. Please try again.")
		a.formFailed(w, r, TabBlog, form, nil, false)
		return
	}

	a.Pages.Invalidate(r.Context(), cache.PostKey(p.Slug))
	a.done(w, r, TabBlog, fmt.Sprintf("Post %q created.", p.Title))
}

// BlogUpdate saves the edit form for post {id}. An existing published_at
// is kept; unpublishing clears it.
func (a *Admin) BlogUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	form := parseBlogForm(r)
	form.ID = id
	if errs := form.validate(); errs.Any() {
		a.formFailed(w, r, TabBlog, form, errs, true)
		return
	}

	ctx := r.Context()
	prev, err := a.Blog.FindByID(ctx, id)
	if err != nil {
		slog.Error("load post for update failed", "id", id, "error", err)
	}

	p, err := a.Blog.Update(ctx, form.model())
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.fail(w, r, TabBlog, "That post no longer exists.")
		return
	case store.IsUniqueViolation(err):
		a.formFailed(w, r, TabBlog, form, FormErrors{"Slug": duplicateSlugMessage}, true)
		return
	case err != nil:
		slog.Error("update post failed", "id", id, "error", err)
		a.Flashes.Add(w, r, session.FlashError, "Could not save the post. Please try again.")
		a.formFailed(w, r, TabBlog, form, nil, true)
		return
	}

	if prev != nil && prev.Slug != p.Slug {
		a.Pages.Invalidate(ctx, cache.PostKey(prev.Slug))
	}
	a.Pages.Invalidate(ctx, cache.PostKey(p.Slug))
	a.done(w, r, TabBlog, fmt.Sprintf("Post %q updated.", p.Title))
}

// BlogDelete removes post {id} once confirmed.
func (a *Admin) BlogDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	p, err := a.Blog.FindByID(ctx, id)
	if err != nil {
		slog.Error("load post for delete failed", "id", id, "error", err)
		a.fail(w, r, TabBlog, "Could not load the post.")
		return
	}
	if p == nil {
		a.fail(w, r, TabBlog, "That post no longer exists.")
		return
	}

	if !confirmed(r) {
		a.confirmDelete(w, r, TabBlog, "post", fmt.Sprintf("/admin/blog/%d/delete", id), []string{p.Title}, nil)
		return
	}

	err = a.Blog.Delete(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.fail(w, r, TabBlog, "That post no longer exists.")
	case err != nil:
		slog.Error("delete post failed", "id", id, "error", err)
		a.fail(w, r, TabBlog, "Could not delete the post. Please try again.")
	default:
		a.Pages.Invalidate(ctx, cache.PostKey(p.Slug))
		a.done(w, r, TabBlog, "Post deleted.")
	}
}
