// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"folio/internal/models"
)

const blogColumns = `
	id, title, slug, excerpt, content, featured_image, published, featured,
	tags, meta_title, meta_description, created_at, updated_at, published_at`

// BlogStore handles all blog-post database operations.
type BlogStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db, now: time.Now}
}

func scanPost(row rowScanner) (*models.BlogPost, error) {
	p := &models.BlogPost{}
	var tags []string
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImage,
		&p.Published, &p.Featured, pq.Array(&tags), &p.MetaTitle, &p.MetaDescription,
		&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	); err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

func (s *BlogStore) query(ctx context.Context, q string, args ...any) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// List returns every post, drafts included, newest publication first.
// Drafts sort after published posts, newest created first.
func (s *BlogStore) List(ctx context.Context) ([]models.BlogPost, error) {
	items, err := s.query(ctx, `SELECT `+blogColumns+` FROM blog_posts
		ORDER BY published_at DESC NULLS LAST, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	return items, nil
}

// ListPublished returns published posts ordered by publish time descending.
func (s *BlogStore) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	items, err := s.query(ctx, `SELECT `+blogColumns+` FROM blog_posts
		WHERE published
		ORDER BY published_at DESC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return items, nil
}

// FindByID retrieves a post by id. Returns nil if not found.
func (s *BlogStore) FindByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog post by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post by slug. Drafts are not
// visible. Returns nil if not found.
func (s *BlogStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1 AND published`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it. A post created as published
// gets published_at set to now.
func (s *BlogStore) Create(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	p.StampPublished(nil, s.now())

	out, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (title, slug, excerpt, content, featured_image, published,
		                        featured, tags, meta_title, meta_description, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+blogColumns,
		p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImage, p.Published,
		p.Featured, pq.Array(nonNil(p.Tags)), p.MetaTitle, p.MetaDescription, p.PublishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	return out, nil
}

// Update modifies an existing post. published_at is decided in the same
// statement: kept if already set, set to now on the first publish, and
// cleared when the post is unpublished. The stored post is returned.
func (s *BlogStore) Update(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	out, err := scanPost(s.db.QueryRowContext(ctx, `
		UPDATE blog_posts SET
			title = $1, slug = $2, excerpt = $3, content = $4, featured_image = $5,
			published = $6, featured = $7, tags = $8, meta_title = $9,
			meta_description = $10,
			published_at = CASE WHEN $6 THEN COALESCE(published_at, $11) ELSE NULL END,
			updated_at = $11
		WHERE id = $12
		RETURNING `+blogColumns,
		p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImage,
		p.Published, p.Featured, pq.Array(nonNil(p.Tags)), p.MetaTitle,
		p.MetaDescription, s.now(), p.ID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	return out, nil
}

// Delete removes a post by id.
func (s *BlogStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	n, _ := res.RowsAffected()
	return requireRows(n)
}

// Counts returns the total and published post counts.
func (s *BlogStore) Counts(ctx context.Context) (total, published int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE published) FROM blog_posts
	`).Scan(&total, &published)
	if err != nil {
		return 0, 0, fmt.Errorf("count blog posts: %w", err)
	}
	return total, published, nil
}
