// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Well-known configuration keys.
const (
	ConfigEmailFormEnabled  = "email_form_enabled"
	ConfigAdminEmails       = "admin_emails"
	ConfigAnalyticsEmbedURL = "analytics_embed_url"
)

// ConfigEntry represents a single runtime setting. Values are free-form
// text; booleans are stored as "true" or "false".
type ConfigEntry struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConfigMap is a convenience map for accessing settings by key.
type ConfigMap map[string]string

// Get returns the value for a key, or the fallback if the key is absent.
// An empty stored value is returned as-is.
func (c ConfigMap) Get(key, fallback string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return fallback
}
