// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package authz holds the dashboard authorization policy: an email is
// allowed when it appears in the boot-time allow-list or the runtime one.
package authz

import "strings"

// IsAuthorized reports whether email is in the union of the static and
// dynamic allow-lists. Comparison ignores case and surrounding space.
// A blank email is never authorized.
func IsAuthorized(email string, static, dynamic []string) bool {
	email = normalize(email)
	if email == "" {
		return false
	}
	for _, allowed := range Union(static, dynamic) {
		if allowed == email {
			return true
		}
	}
	return false
}

// Union merges allow-lists into one normalized list, keeping first-seen
// order, dropping blanks and duplicates.
func Union(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, e := range list {
			e = normalize(e)
			if e == "" {
				continue
			}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// ParseList splits a stored allow-list. Entries may be separated by
// commas, semicolons or whitespace.
func ParseList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
