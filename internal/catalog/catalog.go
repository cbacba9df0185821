// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog fetches the portfolio entities for display. Every read
// returns a Snapshot carrying the data, the error if the read failed, and
// when it was taken. Refreshing is calling the read again.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"folio/internal/models"
)

// Snapshot is the result of one read.
type Snapshot[T any] struct {
	Data     T
	Err      error
	LoadedAt time.Time
}

// Failed reports whether the read failed.
func (s Snapshot[T]) Failed() bool {
	return s.Err != nil
}

// ProjectSource lists projects, newest first.
type ProjectSource interface {
	List(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id int64) (*models.Project, error)
}

// SkillSource lists skills by category then name.
type SkillSource interface {
	List(ctx context.Context) ([]models.Skill, error)
}

// BlogSource lists posts.
type BlogSource interface {
	List(ctx context.Context) ([]models.BlogPost, error)
	ListPublished(ctx context.Context) ([]models.BlogPost, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
}

// ProfileSource reads and writes the singleton profile.
type ProfileSource interface {
	Get(ctx context.Context) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
}

// Catalog groups the entity reads used by the public site and the admin.
type Catalog struct {
	projects ProjectSource
	skills   SkillSource
	blog     BlogSource
	profile  ProfileSource
	now      func() time.Time
}

// New creates a Catalog over the given sources.
func New(projects ProjectSource, skills SkillSource, blog BlogSource, profile ProfileSource) *Catalog {
	return &Catalog{
		projects: projects,
		skills:   skills,
		blog:     blog,
		profile:  profile,
		now:      time.Now,
	}
}

func load[T any](ctx context.Context, c *Catalog, what string, fetch func(context.Context) (T, error)) Snapshot[T] {
	data, err := fetch(ctx)
	if err != nil {
		slog.Error("catalog read failed", "entity", what, "error", err)
		var zero T
		return Snapshot[T]{Data: zero, Err: err, LoadedAt: c.now()}
	}
	return Snapshot[T]{Data: data, LoadedAt: c.now()}
}

// Projects returns every project, newest first.
func (c *Catalog) Projects(ctx context.Context) Snapshot[[]models.Project] {
	return load(ctx, c, "projects", c.projects.List)
}

// FeaturedProjects returns featured projects, newest first.
func (c *Catalog) FeaturedProjects(ctx context.Context) Snapshot[[]models.Project] {
	snap := c.Projects(ctx)
	if snap.Failed() {
		return snap
	}
	var featured []models.Project
	for _, p := range snap.Data {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	snap.Data = featured
	return snap
}

// Project returns one project. Data is nil when it does not exist.
func (c *Catalog) Project(ctx context.Context, id int64) Snapshot[*models.Project] {
	return load(ctx, c, "project", func(ctx context.Context) (*models.Project, error) {
		return c.projects.FindByID(ctx, id)
	})
}

// Skills returns every skill ordered by category then name.
func (c *Catalog) Skills(ctx context.Context) Snapshot[[]models.Skill] {
	return load(ctx, c, "skills", c.skills.List)
}

// Posts returns every post, drafts included.
func (c *Catalog) Posts(ctx context.Context) Snapshot[[]models.BlogPost] {
	return load(ctx, c, "blog posts", c.blog.List)
}

// PublishedPosts returns published posts, most recently published first.
func (c *Catalog) PublishedPosts(ctx context.Context) Snapshot[[]models.BlogPost] {
	return load(ctx, c, "published posts", c.blog.ListPublished)
}

// Post returns one published post by slug. Data is nil when it does not
// exist or is a draft.
func (c *Catalog) Post(ctx context.Context, slug string) Snapshot[*models.BlogPost] {
	return load(ctx, c, "blog post", func(ctx context.Context) (*models.BlogPost, error) {
		return c.blog.FindPublishedBySlug(ctx, slug)
	})
}

// Profile returns the profile record. Data is nil before one exists.
func (c *Catalog) Profile(ctx context.Context) Snapshot[*models.Profile] {
	return load(ctx, c, "profile", c.profile.Get)
}

// UpdateProfile writes p and returns a fresh snapshot of the stored record.
func (c *Catalog) UpdateProfile(ctx context.Context, p *models.Profile) (Snapshot[*models.Profile], error) {
	if err := c.profile.Update(ctx, p); err != nil {
		return Snapshot[*models.Profile]{}, err
	}
	return c.Profile(ctx), nil
}
