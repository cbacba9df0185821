// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"folio/internal/cache"
	"folio/internal/catalog"
	"folio/internal/mailer"
	"folio/internal/markdown"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/session"
	"folio/internal/settings"
)

// homePostLimit caps the latest posts shown on the home page.
const homePostLimit = 3

// PublicDeps are the collaborators of the public handlers. Mail may be nil
// when outbound email is not configured.
type PublicDeps struct {
	Renderer *render.Renderer
	Flashes  *session.Flashes
	Catalog  *catalog.Catalog
	Settings *settings.Service
	Pages    *cache.PageCache
	Mail     ContactSender

	ContactDefault bool
	SecureCookies  bool
}

// Public groups the read-only portfolio pages plus the contact form and
// theme switcher.
type Public struct {
	PublicDeps
}

// NewPublic creates the public handler group.
func NewPublic(deps PublicDeps) *Public {
	return &Public{PublicDeps: deps}
}

func (p *Public) contactEnabled(r *http.Request) bool {
	if err := p.Settings.Ensure(r.Context()); err != nil {
		slog.Error("load settings failed", "error", err)
	}
	return p.Settings.ContactFormEnabled(p.ContactDefault)
}

func (p *Public) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	p.Renderer.PageStatus(w, r, status, "public/error", &render.PageData{
		Title: http.StatusText(status),
		Data: map[string]any{
			"Status":  status,
			"Message": msg,
		},
	})
}

// NotFound renders the 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

// Home renders the landing page: profile, featured projects, skills by
// category, latest posts and the contact form. A failed section is shown
// as unavailable while the rest of the page still renders.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile := p.Catalog.Profile(ctx)
	projects := p.Catalog.FeaturedProjects(ctx)
	skills := p.Catalog.Skills(ctx)
	posts := p.Catalog.PublishedPosts(ctx)

	categories, groups := models.GroupSkills(skills.Data)
	latest := posts.Data
	if len(latest) > homePostLimit {
		latest = latest[:homePostLimit]
	}

	title := "Portfolio"
	desc := ""
	if profile.Data != nil {
		title = profile.Data.FullName
		desc = profile.Data.Role
	}

	p.Renderer.Page(w, r, "public/home", &render.PageData{
		Title:       title,
		Description: desc,
		Section:     "home",
		Data: map[string]any{
			"Profile":        profile.Data,
			"ProfileFailed":  profile.Failed(),
			"Projects":       projects.Data,
			"ProjectsFailed": projects.Failed(),
			"Categories":     categories,
			"Groups":         groups,
			"SkillsFailed":   skills.Failed(),
			"Posts":          latest,
			"ContactEnabled": p.contactEnabled(r),
		},
	})
}

// Projects lists every project, optionally filtered by ?q=.
func (p *Public) Projects(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	snap := p.Catalog.Projects(r.Context())

	p.Renderer.Page(w, r, "public/projects", &render.PageData{
		Title:   "Projects",
		Section: "projects",
		Data: map[string]any{
			"Projects": catalog.FilterProjects(snap.Data, q),
			"Failed":   snap.Failed(),
			"Query":    q,
		},
	})
}

// Project renders one project with its gallery.
func (p *Public) Project(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		p.NotFound(w, r)
		return
	}

	snap := p.Catalog.Project(r.Context(), id)
	if snap.Failed() {
		p.renderError(w, r, http.StatusInternalServerError, "Projects are unavailable right now.")
		return
	}
	if snap.Data == nil {
		p.NotFound(w, r)
		return
	}

	p.Renderer.Page(w, r, "public/project", &render.PageData{
		Title:       snap.Data.Title,
		Description: snap.Data.Description,
		Section:     "projects",
		Data:        map[string]any{"Project": snap.Data},
	})
}

// Blog lists published posts, most recent first.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	snap := p.Catalog.PublishedPosts(r.Context())

	p.Renderer.Page(w, r, "public/blog", &render.PageData{
		Title:   "Blog",
		Section: "blog",
		Data: map[string]any{
			"Posts":  catalog.FilterPosts(snap.Data, q),
			"Failed": snap.Failed(),
			"Query":  q,
		},
	})
}

// Post renders a published post. The markdown body is converted once and
// cached in Valkey by slug until the post is edited or deleted.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	snap := p.Catalog.Post(ctx, slug)
	if snap.Failed() {
		p.renderError(w, r, http.StatusInternalServerError, "The blog is unavailable right now.")
		return
	}
	if snap.Data == nil {
		p.NotFound(w, r)
		return
	}
	post := snap.Data

	var body template.HTML
	if cached, ok := p.Pages.Get(ctx, cache.PostKey(slug)); ok {
		body = template.HTML(cached)
	} else {
		rendered, err := markdown.Render(post.Content)
		if err != nil {
			slog.Error("render post markdown failed", "slug", slug, "error", err)
			p.renderError(w, r, http.StatusInternalServerError, "This post could not be displayed.")
			return
		}
		body = rendered
		p.Pages.Set(ctx, cache.PostKey(slug), []byte(rendered))
	}

	desc := post.MetaDescription
	if desc == "" {
		desc = post.Excerpt
	}
	p.Renderer.Page(w, r, "public/post", &render.PageData{
		Title:       post.SEOTitle(),
		Description: desc,
		Section:     "blog",
		Data: map[string]any{
			"Post": post,
			"Body": body,
		},
	})
}

// Contact sends the contact form through the mail service. The endpoint
// does not exist while the form is switched off.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	if !p.contactEnabled(r) {
		p.NotFound(w, r)
		return
	}

	back := "/#contact"
	form := parseContactForm(r)
	if errs := validateForm(form); errs.Any() {
		p.Flashes.Add(w, r, session.FlashError, firstError(errs, "Name", "Email", "Message"))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if p.Mail == nil {
		p.Flashes.Add(w, r, session.FlashError, "The contact form is temporarily unavailable.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	err := p.Mail.Send(r.Context(), mailer.Message{Name: form.Name, Email: form.Email, Message: form.Message})
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		p.Flashes.Add(w, r, session.FlashError, "The contact form is temporarily unavailable.")
	case err != nil:
		slog.Error("contact send failed", "error", err)
		p.Flashes.Add(w, r, session.FlashError, "Your message could not be sent. Please try again later.")
	default:
		slog.Info("contact message sent")
		p.Flashes.Add(w, r, session.FlashSuccess, "Thanks! Your message has been sent.")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Theme stores the visitor's color theme and returns to the page they
// came from.
func (p *Public) Theme(w http.ResponseWriter, r *http.Request) {
	render.SetTheme(w, r.FormValue("theme"), p.SecureCookies)
	http.Redirect(w, r, localPath(r.FormValue("return")), http.StatusSeeOther)
}

// localPath returns s when it is a same-site path, otherwise "/".
func localPath(s string) string {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return "/"
	}
	return s
}
