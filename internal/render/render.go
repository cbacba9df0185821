// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin panel. Templates are embedded; each page is parsed together
// with its directory's shared layout files (those starting with "_").
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"folio/internal/middleware"
	"folio/internal/session"
)

//go:embed all:templates
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title       string          // Page title for <title> tag
	Description string          // Meta description (public pages)
	Section     string          // Active nav section or dashboard tab
	Path        string          // Request path and query
	Session     *session.Data   // Current session (nil if unauthenticated)
	CSRFToken   string          // CSRF token for forms
	Theme       string          // Active color theme
	Themes      []string        // Selectable themes
	Flashes     []session.Flash // One-time notification messages
	Data        map[string]any  // Page-specific data
}

// FlashPopper yields pending flash messages for a request.
type FlashPopper interface {
	Pop(w http.ResponseWriter, r *http.Request) []session.Flash
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	entry     map[string]string // template to execute per page
	flashes   FlashPopper
}

// standaloneTemplates render as full HTML pages without the directory
// layout.
var standaloneTemplates = map[string]bool{
	"admin/login":      true,
	"admin/2fa_verify": true,
}

// New parses every embedded template. flashes may be nil.
func New(devMode bool, flashes FlashPopper) (*Renderer, error) {
	rn := &Renderer{
		templates: make(map[string]*template.Template),
		entry:     make(map[string]string),
		flashes:   flashes,
	}
	funcs := funcMap(devMode)

	for _, dir := range []string{"public", "admin"} {
		entries, err := fs.ReadDir(templateFS, "templates/"+dir)
		if err != nil {
			return nil, fmt.Errorf("read templates/%s: %w", dir, err)
		}

		var shared, pages []string
		for _, e := range entries {
			if e.IsDir() || path.Ext(e.Name()) != ".html" {
				continue
			}
			if strings.HasPrefix(e.Name(), "_") {
				shared = append(shared, "templates/"+dir+"/"+e.Name())
			} else {
				pages = append(pages, e.Name())
			}
		}

		for _, file := range pages {
			name := dir + "/" + strings.TrimSuffix(file, ".html")
			patterns := []string{"templates/" + dir + "/" + file}
			entry := file
			if !standaloneTemplates[name] {
				patterns = append(shared, patterns...)
				entry = "base"
			}

			tmpl, err := template.New(file).Funcs(funcs).ParseFS(templateFS, patterns...)
			if err != nil {
				return nil, fmt.Errorf("parse template %s: %w", name, err)
			}
			rn.templates[name] = tmpl
			rn.entry[name] = entry
		}
	}

	return rn, nil
}

// Has reports whether a page template exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders a page with status 200.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus renders a page with the given status. The page is executed
// into a buffer first so a template error still yields a clean 500.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &PageData{}
	}

	data.CSRFToken = middleware.GetCSRFToken(r)
	data.Path = r.URL.RequestURI()
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	data.Theme = ThemeFromRequest(r)
	data.Themes = Themes
	if rn.flashes != nil {
		data.Flashes = append(data.Flashes, rn.flashes.Pop(w, r)...)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, rn.entry[name], data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func funcMap(devMode bool) template.FuncMap {
	return template.FuncMap{
		// deref safely dereferences a string pointer.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefInt": func(n *int) int {
			if n == nil {
				return 0
			}
			return *n
		},
		"isDev": func() bool { return devMode },
		"join":  strings.Join,
		"lines": func(items []string) string { return strings.Join(items, "\n") },
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"datePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"isoDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		},
		"tabClass": func(current, target string) string {
			if current == target {
				return "tab active"
			}
			return "tab"
		},
		"year": func() int { return time.Now().Year() },
	}
}
