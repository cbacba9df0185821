// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"strings"

	"folio/internal/models"
)

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterProjects keeps projects whose title or description contains q,
// ignoring case. A blank q keeps everything.
func FilterProjects(items []models.Project, q string) []models.Project {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	var out []models.Project
	for _, p := range items {
		if matches(q, p.Title, p.Description) {
			out = append(out, p)
		}
	}
	return out
}

// FilterSkills keeps skills whose name or category contains q.
func FilterSkills(items []models.Skill, q string) []models.Skill {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	var out []models.Skill
	for _, s := range items {
		if matches(q, s.Name, s.Category) {
			out = append(out, s)
		}
	}
	return out
}

// FilterPosts keeps posts whose title or excerpt contains q.
func FilterPosts(items []models.BlogPost, q string) []models.BlogPost {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	var out []models.BlogPost
	for _, p := range items {
		if matches(q, p.Title, p.Excerpt) {
			out = append(out, p)
		}
	}
	return out
}
