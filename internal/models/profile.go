// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Profile is the site owner's public identity. Only the first row is used.
type Profile struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Bio       string  `json:"bio"`
	Email     string  `json:"email"`
	GitHub    string  `json:"github"`
	LinkedIn  string  `json:"linkedin"`
	Twitter   *string `json:"twitter,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	ResumeURL *string `json:"resume_url,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
