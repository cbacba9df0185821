// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"folio/internal/models"
)

// projectColumns selects a project row with its gallery flattened into an
// array, ordered by position.
const projectColumns = `
	p.id, p.title, p.description, p.image,
	ARRAY(SELECT pi.url FROM project_images pi
	      WHERE pi.project_id = p.id
	      ORDER BY pi.position, pi.id) AS images,
	p.tech, p.github, p.live, p.featured, p.created_at`

// ProjectStore handles all project-related database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	var images, tech []string
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Image, pq.Array(&images),
		pq.Array(&tech), &p.GitHub, &p.Live, &p.Featured, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		p.Images = images
	}
	p.Tech = tech
	return p, nil
}

// List returns every project, newest first.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+`
		FROM projects p
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a project by id. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectColumns+`
		FROM projects p WHERE p.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// Create inserts a project and its gallery in one transaction and returns
// the stored record.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO projects (title, description, image, tech, github, live, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, p.Title, p.Description, p.Image, pq.Array(nonNil(p.Tech)), p.GitHub, p.Live, p.Featured,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := insertImages(ctx, tx, id, p.Images); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create project commit: %w", err)
	}

	return s.FindByID(ctx, id)
}

// Update replaces every editable field of the project with the given id,
// including its gallery.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE projects SET
			title = $1, description = $2, image = $3, tech = $4,
			github = $5, live = $6, featured = $7
		WHERE id = $8
	`, p.Title, p.Description, p.Image, pq.Array(nonNil(p.Tech)), p.GitHub, p.Live, p.Featured, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := requireRows(n); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_images WHERE project_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear project images: %w", err)
	}
	if err := insertImages(ctx, tx, p.ID, p.Images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update project commit: %w", err)
	}
	return nil
}

// Delete removes a project by id. Gallery rows cascade.
func (s *ProjectStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, _ := res.RowsAffected()
	return requireRows(n)
}

// Counts returns the total and featured project counts.
func (s *ProjectStore) Counts(ctx context.Context) (total, featured int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE featured) FROM projects
	`).Scan(&total, &featured)
	if err != nil {
		return 0, 0, fmt.Errorf("count projects: %w", err)
	}
	return total, featured, nil
}

func insertImages(ctx context.Context, tx *sql.Tx, projectID int64, urls []string) error {
	for i, u := range urls {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO project_images (project_id, url, position) VALUES ($1, $2, $3)
		`, projectID, u, i); err != nil {
			return fmt.Errorf("insert project image: %w", err)
		}
	}
	return nil
}

// nonNil maps a nil slice to an empty one so array columns never receive NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
