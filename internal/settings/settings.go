// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package settings is the runtime configuration service. It keeps an
// in-memory copy of the app_config table, loads it on first use, and
// writes through to the database with upsert semantics.
package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"folio/internal/models"
)

// Backend is the persistent key-value store behind the service. Upsert
// must store every value or none of them.
type Backend interface {
	Entries(ctx context.Context) ([]models.ConfigEntry, error)
	Upsert(ctx context.Context, values map[string]string) error
}

// Service is a read-through cache over a Backend. It is safe for
// concurrent use.
type Service struct {
	backend Backend

	loadMu sync.Mutex // serializes loads

	mu           sync.RWMutex
	values       models.ConfigMap
	descriptions map[string]string
	loaded       bool
}

// New creates a service over backend. Nothing is read until Ensure
// or Refresh is called.
func New(backend Backend) *Service {
	return &Service{
		backend:      backend,
		values:       make(models.ConfigMap),
		descriptions: make(map[string]string),
	}
}

// Loaded reports whether the cache has been filled at least once.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Ensure loads the cache if it has not been loaded yet. Concurrent callers
// wait for the same load. A failed load leaves the service unloaded so the
// next call retries.
func (s *Service) Ensure(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.Loaded() {
		return nil
	}
	return s.load(ctx)
}

// Refresh reloads every key from the backend, replacing the cache. A
// failed refresh keeps the previous values.
func (s *Service) Refresh(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) error {
	entries, err := s.backend.Entries(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	values := make(models.ConfigMap, len(entries))
	descriptions := make(map[string]string, len(entries))
	for _, e := range entries {
		values[e.Key] = e.Value
		if e.Description != nil {
			descriptions[e.Key] = *e.Description
		}
	}

	s.mu.Lock()
	s.values = values
	s.descriptions = descriptions
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Get returns the cached value for key, or fallback if the key is absent
// or the cache has not been loaded.
func (s *Service) Get(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Get(key, fallback)
}

// Description returns the stored description of key, or "".
func (s *Service) Description(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.descriptions[key]
}

// Bool reads key as a boolean. Only "true" and "false" are recognised;
// anything else yields fallback.
func (s *Service) Bool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s.Get(key, ""))) {
	case "true":
		return true
	case "false":
		return false
	}
	return fallback
}

// Update upserts key in the backend and, only once that succeeds, in the
// cache. On failure the cache is left untouched.
func (s *Service) Update(ctx context.Context, key, value string) error {
	return s.UpdateAll(ctx, map[string]string{key: value})
}

// UpdateAll upserts several keys at once. The backend stores all of them
// or none, and the cache changes only after it succeeds.
func (s *Service) UpdateAll(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	for k := range values {
		if k == "" {
			return fmt.Errorf("update setting: empty key")
		}
	}
	if err := s.backend.Upsert(ctx, values); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	s.mu.Lock()
	for k, v := range values {
		s.values[k] = v
	}
	s.mu.Unlock()
	return nil
}
