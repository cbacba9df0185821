// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import "folio/internal/models"

// ContactFormEnabled reports whether the public contact form is shown.
// fallback is the boot-time default used until the key is stored.
func (s *Service) ContactFormEnabled(fallback bool) bool {
	return s.Bool(models.ConfigEmailFormEnabled, fallback)
}

// AdminEmails returns the raw runtime allow-list.
func (s *Service) AdminEmails() string {
	return s.Get(models.ConfigAdminEmails, "")
}

// AnalyticsURL returns the stored analytics embed URL, or fallback.
func (s *Service) AnalyticsURL(fallback string) string {
	if v := s.Get(models.ConfigAnalyticsEmbedURL, ""); v != "" {
		return v
	}
	return fallback
}
