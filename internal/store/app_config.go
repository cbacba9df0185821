// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"folio/internal/models"
)

// ConfigStore manages the app_config key-value table.
type ConfigStore struct {
	db *sql.DB
}

// NewConfigStore returns a new ConfigStore backed by the given database.
func NewConfigStore(db *sql.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Entries returns every setting with its description, ordered by key.
func (s *ConfigStore) Entries(ctx context.Context) ([]models.ConfigEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, description, updated_at FROM app_config ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("list config entries: %w", err)
	}
	defer rows.Close()

	var out []models.ConfigEntry
	for rows.Next() {
		var e models.ConfigEntry
		if err := rows.Scan(&e.Key, &e.Value, &e.Description, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan config entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Upsert inserts each key or replaces its value if it already exists.
// All keys are written in one transaction: either every value is stored
// or none is. Existing descriptions are kept.
func (s *ConfigStore) Upsert(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin config upsert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, k := range keys {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_config (key, value, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key)
			DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
			k, values[k], now,
		)
		if err != nil {
			return fmt.Errorf("upsert config %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit config upsert: %w", err)
	}
	return nil
}
