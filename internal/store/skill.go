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

// SkillStore handles all skill-related database operations.
type SkillStore struct {
	db *sql.DB
}

// NewSkillStore creates a new SkillStore with the given database connection.
func NewSkillStore(db *sql.DB) *SkillStore {
	return &SkillStore{db: db}
}

// List returns all skills ordered by category, then name.
func (s *SkillStore) List(ctx context.Context) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, icon, level
		FROM skills
		ORDER BY category ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var items []models.Skill
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Icon, &sk.Level); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		items = append(items, sk)
	}
	return items, rows.Err()
}

// FindByID retrieves a skill by id. Returns nil if not found.
func (s *SkillStore) FindByID(ctx context.Context, id int64) (*models.Skill, error) {
	sk := &models.Skill{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, icon, level FROM skills WHERE id = $1
	`, id).Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Icon, &sk.Level)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find skill by id: %w", err)
	}
	return sk, nil
}

// Create inserts a new skill and returns it with the generated id.
func (s *SkillStore) Create(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	out := &models.Skill{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO skills (name, category, icon, level)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, category, icon, level
	`, sk.Name, sk.Category, sk.Icon, sk.Level,
	).Scan(&out.ID, &out.Name, &out.Category, &out.Icon, &out.Level)
	if err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return out, nil
}

// Update modifies an existing skill.
func (s *SkillStore) Update(ctx context.Context, sk *models.Skill) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE skills SET name = $1, category = $2, icon = $3, level = $4
		WHERE id = $5
	`, sk.Name, sk.Category, sk.Icon, sk.Level, sk.ID)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	n, _ := res.RowsAffected()
	return requireRows(n)
}

// Delete removes a skill by id.
func (s *SkillStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	n, _ := res.RowsAffected()
	return requireRows(n)
}

// DeleteMany removes every skill whose id is in ids with a single statement
// and returns how many rows were deleted.
func (s *SkillStore) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete skills: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Count returns the number of skills.
func (s *SkillStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM skills`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count skills: %w", err)
	}
	return n, nil
}
