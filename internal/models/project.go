// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Project is a portfolio entry shown on the public site. Images holds the
// auxiliary gallery, flattened from the project_images child table.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Images      []string  `json:"images,omitempty"`
	Tech        []string  `json:"tech"`
	GitHub      string    `json:"github"`
	Live        *string   `json:"live,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasLive reports whether the project links to a deployed version.
func (p *Project) HasLive() bool {
	return p.Live != nil && *p.Live != ""
}
