// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// BlogPost is an article in the blog section. PublishedAt is stamped the
// first time the post is published and kept across later edits.
type BlogPost struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	FeaturedImage   string     `json:"featured_image"`
	Published       bool       `json:"published"`
	Featured        bool       `json:"featured"`
	Tags            []string   `json:"tags"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// StampPublished applies the publish-time rule: a post that is published
// keeps its existing PublishedAt, or gets now if it never had one. A post
// that is not published has no PublishedAt.
func (p *BlogPost) StampPublished(prev *time.Time, now time.Time) {
	if !p.Published {
		p.PublishedAt = nil
		return
	}
	if prev != nil {
		t := *prev
		p.PublishedAt = &t
		return
	}
	p.PublishedAt = &now
}

// SEOTitle returns the meta title, falling back to the post title.
func (p *BlogPost) SEOTitle() string {
	if p.MetaTitle != "" {
		return p.MetaTitle
	}
	return p.Title
}
