// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"folio/internal/models"
)

// ProfileStore reads and writes the singleton profile row.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get returns the first profile row, or nil if the table is empty.
func (s *ProfileStore) Get(ctx context.Context) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, role, bio, email, github, linkedin,
		       twitter, instagram, resume_url, avatar_url
		FROM profile ORDER BY id LIMIT 1
	`).Scan(
		&p.ID, &p.FullName, &p.Role, &p.Bio, &p.Email, &p.GitHub, &p.LinkedIn,
		&p.Twitter, &p.Instagram, &p.ResumeURL, &p.AvatarURL,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Update writes every profile field for the row with p.ID.
func (s *ProfileStore) Update(ctx context.Context, p *models.Profile) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profile SET
			full_name = $1, role = $2, bio = $3, email = $4, github = $5,
			linkedin = $6, twitter = $7, instagram = $8, resume_url = $9,
			avatar_url = $10
		WHERE id = $11
	`, p.FullName, p.Role, p.Bio, p.Email, p.GitHub, p.LinkedIn,
		p.Twitter, p.Instagram, p.ResumeURL, p.AvatarURL, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, _ := res.RowsAffected()
	return requireRows(n)
}
