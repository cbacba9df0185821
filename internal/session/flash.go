// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const flashCookie = "folio_flash"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Flashes stores flash messages and short-lived values such as OAuth
// state in a signed cookie, independent of the Valkey session so they
// survive sign-out.
type Flashes struct {
	store *sessions.CookieStore
}

// NewFlashes creates a flash store signed with secret.
func NewFlashes(secret string, secure bool) *Flashes {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: cs}
}

func (f *Flashes) session(r *http.Request) *sessions.Session {
	// Get returns a fresh session alongside a decode error, so a tampered
	// cookie just starts over.
	s, err := f.store.Get(r, flashCookie)
	if err != nil {
		slog.Debug("flash cookie reset", "error", err)
	}
	return s
}

// Add queues a flash message for the next page view.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, kind, message string) {
	s := f.session(r)
	s.AddFlash(Flash{Kind: kind, Message: message})
	if err := s.Save(r, w); err != nil {
		slog.Error("flash save failed", "error", err)
	}
}

// Pop returns and clears all pending flash messages.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	s := f.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		slog.Error("flash save failed", "error", err)
	}

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if fl, ok := v.(Flash); ok {
			out = append(out, fl)
		}
	}
	return out
}

// SetValue stores a short-lived string value.
func (f *Flashes) SetValue(w http.ResponseWriter, r *http.Request, key, value string) error {
	s := f.session(r)
	s.Values[key] = value
	return s.Save(r, w)
}

// TakeValue returns and removes a value stored with SetValue.
func (f *Flashes) TakeValue(w http.ResponseWriter, r *http.Request, key string) string {
	s := f.session(r)
	v, _ := s.Values[key].(string)
	if v == "" {
		return ""
	}
	delete(s.Values, key)
	if err := s.Save(r, w); err != nil {
		slog.Error("flash save failed", "error", err)
	}
	return v
}
