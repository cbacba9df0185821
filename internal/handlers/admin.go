// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"folio/internal/cache"
	"folio/internal/catalog"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/session"
	"folio/internal/settings"
)

// Dashboard tabs.
const (
	TabProjects  = "projects"
	TabSkills    = "skills"
	TabBlog      = "blog"
	TabProfile   = "profile"
	TabSettings  = "settings"
	TabAnalytics = "analytics"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []string{TabProjects, TabSkills, TabBlog, TabProfile, TabSettings, TabAnalytics}

func validTab(tab string) bool {
	for _, t := range Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// AdminDeps are the collaborators of the admin handlers. Media may be nil
// when object storage is not configured.
type AdminDeps struct {
	Renderer *render.Renderer
	Flashes  *session.Flashes
	Catalog  *catalog.Catalog
	Projects ProjectStore
	Skills   SkillStore
	Blog     BlogStore
	Profile  ProfileStore
	Users    UserStore
	Settings *settings.Service
	Pages    *cache.PageCache
	Media    Uploader

	StaticAdmins     []string
	AnalyticsDefault string
	ContactDefault   bool
}

// Admin groups the dashboard handlers. Each tab's manager lives in its
// own admin_*.go file.
type Admin struct {
	AdminDeps
}

// NewAdmin creates the admin handler group.
func NewAdmin(deps AdminDeps) *Admin {
	return &Admin{AdminDeps: deps}
}

// Stats are the counters shown above the dashboard tabs.
type Stats struct {
	Projects  int
	Featured  int
	Skills    int
	Posts     int
	Published int
}

func (a *Admin) stats(ctx context.Context) Stats {
	var st Stats
	var err error
	if st.Projects, st.Featured, err = a.Projects.Counts(ctx); err != nil {
		slog.Error("count projects failed", "error", err)
	}
	if st.Skills, err = a.Skills.Count(ctx); err != nil {
		slog.Error("count skills failed", "error", err)
	}
	if st.Posts, st.Published, err = a.Blog.Counts(ctx); err != nil {
		slog.Error("count posts failed", "error", err)
	}
	return st
}

// Dashboard renders the tabbed admin panel. Query parameters: tab selects
// the manager, q filters its list, edit=<id> opens the edit form and
// new=1 opens an empty create form.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if !validTab(tab) {
		tab = TabProjects
	}

	extra := map[string]any{}
	q := r.URL.Query()
	if q.Get("new") == "1" {
		extra["FormOpen"] = true
	}
	if id, err := strconv.ParseInt(q.Get("edit"), 10, 64); err == nil && id > 0 {
		if form, ok := a.editForm(r.Context(), tab, id); ok {
			extra["Form"] = form
			extra["FormOpen"] = true
			extra["Editing"] = true
		} else {
			a.Flashes.Add(w, r, session.FlashError, "That item no longer exists.")
		}
	}

	a.renderTab(w, r, tab, extra)
}

// editForm loads the record behind ?edit=<id> as a form.
func (a *Admin) editForm(ctx context.Context, tab string, id int64) (any, bool) {
	switch tab {
	case TabProjects:
		p, err := a.Projects.FindByID(ctx, id)
		if err != nil {
			slog.Error("load project for edit failed", "id", id, "error", err)
		}
		if p == nil {
			return nil, false
		}
		return projectFormFrom(p), true
	case TabSkills:
		sk, err := a.Skills.FindByID(ctx, id)
		if err != nil {
			slog.Error("load skill for edit failed", "id", id, "error", err)
		}
		if sk == nil {
			return nil, false
		}
		return skillFormFrom(sk), true
	case TabBlog:
		p, err := a.Blog.FindByID(ctx, id)
		if err != nil {
			slog.Error("load post for edit failed", "id", id, "error", err)
		}
		if p == nil {
			return nil, false
		}
		return blogFormFrom(p), true
	}
	return nil, false
}

// renderTab renders the dashboard with the tab's data. Entries in extra
// (an open form, its errors) override the defaults.
func (a *Admin) renderTab(w http.ResponseWriter, r *http.Request, tab string, extra map[string]any) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	data := map[string]any{
		"Tab":    tab,
		"Tabs":   Tabs,
		"Query":  query,
		"Stats":  a.stats(ctx),
		"Errors": FormErrors{},
		"Media":  a.Media != nil,
	}

	switch tab {
	case TabProjects:
		snap := a.Catalog.Projects(ctx)
		data["Projects"] = catalog.FilterProjects(snap.Data, query)
		data["LoadFailed"] = snap.Failed()
		data["Form"] = projectForm{}
	case TabSkills:
		snap := a.Catalog.Skills(ctx)
		categories, groups := models.GroupSkills(catalog.FilterSkills(snap.Data, query))
		data["Categories"] = categories
		data["Groups"] = groups
		data["LoadFailed"] = snap.Failed()
		data["Form"] = skillForm{}
	case TabBlog:
		snap := a.Catalog.Posts(ctx)
		data["Posts"] = catalog.FilterPosts(snap.Data, query)
		data["LoadFailed"] = snap.Failed()
		data["Form"] = blogForm{}
	case TabProfile:
		snap := a.Catalog.Profile(ctx)
		data["Form"] = profileFormFrom(snap.Data)
		data["HasProfile"] = snap.Data != nil
		data["LoadFailed"] = snap.Failed()
	case TabSettings:
		a.settingsData(ctx, data)
	case TabAnalytics:
		if err := a.Settings.Refresh(ctx); err != nil {
			slog.Error("load settings failed", "error", err)
			data["LoadFailed"] = true
		}
		data["AnalyticsURL"] = a.Settings.AnalyticsURL(a.AnalyticsDefault)
		data["AnalyticsHelp"] = a.Settings.Description(models.ConfigAnalyticsEmbedURL)
		data["Form"] = a.Settings.AnalyticsURL(a.AnalyticsDefault)
	}

	for k, v := range extra {
		data[k] = v
	}

	a.Renderer.Page(w, r, "admin/dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: tab,
		Data:    data,
	})
}

// formFailed re-renders the tab with the form open so the input is kept.
func (a *Admin) formFailed(w http.ResponseWriter, r *http.Request, tab string, form any, errs FormErrors, editing bool) {
	a.renderTab(w, r, tab, map[string]any{
		"Form":     form,
		"Errors":   errs,
		"FormOpen": true,
		"Editing":  editing,
	})
}

// confirmDelete renders the confirmation step for a delete. The page posts
// back to action with confirm=yes.
func (a *Admin) confirmDelete(w http.ResponseWriter, r *http.Request, tab, what, action string, items []string, hidden map[string][]string) {
	a.Renderer.Page(w, r, "admin/confirm", &render.PageData{
		Title:   "Confirm delete",
		Section: tab,
		Data: map[string]any{
			"What":   what,
			"Items":  items,
			"Action": action,
			"Hidden": hidden,
			"Cancel": tabURL(tab),
		},
	})
}

func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

// done flashes a success message and returns to the tab.
func (a *Admin) done(w http.ResponseWriter, r *http.Request, tab, msg string) {
	a.Flashes.Add(w, r, session.FlashSuccess, msg)
	http.Redirect(w, r, tabURL(tab), http.StatusSeeOther)
}

// fail flashes an error message and returns to the tab.
func (a *Admin) fail(w http.ResponseWriter, r *http.Request, tab, msg string) {
	a.Flashes.Add(w, r, session.FlashError, msg)
	http.Redirect(w, r, tabURL(tab), http.StatusSeeOther)
}
