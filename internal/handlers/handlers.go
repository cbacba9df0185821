// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the public portfolio
// and the admin panel. Handlers depend on small store interfaces so they
// can be exercised with in-memory fakes.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"folio/internal/mailer"
	"folio/internal/models"
)

// ProjectStore persists projects.
type ProjectStore interface {
	List(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id int64) error
	Counts(ctx context.Context) (total, featured int, err error)
}

// SkillStore persists skills.
type SkillStore interface {
	List(ctx context.Context) ([]models.Skill, error)
	FindByID(ctx context.Context, id int64) (*models.Skill, error)
	Create(ctx context.Context, sk *models.Skill) (*models.Skill, error)
	Update(ctx context.Context, sk *models.Skill) error
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
	Count(ctx context.Context) (int, error)
}

// BlogStore persists blog posts.
type BlogStore interface {
	List(ctx context.Context) ([]models.BlogPost, error)
	ListPublished(ctx context.Context) ([]models.BlogPost, error)
	FindByID(ctx context.Context, id int64) (*models.BlogPost, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error)
	Update(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error)
	Delete(ctx context.Context, id int64) error
	Counts(ctx context.Context) (total, published int, err error)
}

// ProfileStore reads and writes the singleton profile.
type ProfileStore interface {
	Get(ctx context.Context) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
}

// UserStore looks up password accounts and manages their TOTP state.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	CheckPassword(u *models.User, password string) bool
	SetTOTPSecret(ctx context.Context, id int64, secret string) error
	EnableTOTP(ctx context.Context, id int64) error
	DisableTOTP(ctx context.Context, id int64) error
}

// Uploader stores media files and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// ContactSender delivers contact-form messages.
type ContactSender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// tabURL returns the dashboard URL for a tab.
func tabURL(tab string) string {
	return "/admin/dashboard?tab=" + tab
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error body.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
