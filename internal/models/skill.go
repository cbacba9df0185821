// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Skill is a single technology or competency listed on the site.
// Category groups skills in both the admin and public views.
type Skill struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Icon     *string `json:"icon,omitempty"`
	Level    *int    `json:"level,omitempty"` // 0-100, optional
}

// GroupSkills buckets skills by category, preserving input order inside each
// bucket. The returned category slice lists categories in first-seen order.
func GroupSkills(skills []Skill) ([]string, map[string][]Skill) {
	var order []string
	groups := make(map[string][]Skill)
	for _, s := range skills {
		cat := s.Category
		if cat == "" {
			cat = "Other"
		}
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], s)
	}
	return order, groups
}
