// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"folio/internal/authgate"
	"folio/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// SessionGetter loads the session for a request.
type SessionGetter interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession retrieves the session from Valkey and stores it in the
// request context. Downstream handlers can access it via SessionFromCtx().
// It does not enforce authentication.
func LoadSession(store SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				r = r.WithContext(context.WithValue(r.Context(), SessionKey, data))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// Checker evaluates dashboard access for a request.
type Checker interface {
	Check(ctx context.Context, r *http.Request) authgate.Decision
}

// SignOuter ends the current session.
type SignOuter interface {
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Flasher queues a message for the next rendered page.
type Flasher interface {
	Add(w http.ResponseWriter, r *http.Request, kind, message string)
}

// NotAuthorizedMessage is flashed when a signed-in identity is refused.
const NotAuthorizedMessage = "This account is not authorized to access the dashboard."

// Gate admits only authorized identities. Unauthenticated requests go to
// the login page (or the 2FA prompt when only the code is missing).
// Unauthorized identities are signed out, told why, and sent to login.
// Authorized requests carry their session in the context.
func Gate(checker Checker, sessions SignOuter, flashes Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := checker.Check(r.Context(), r)

			switch d.State {
			case authgate.Authorized:
				ctx := context.WithValue(r.Context(), SessionKey, d.Identity)
				next.ServeHTTP(w, r.WithContext(ctx))

			case authgate.Unauthorized:
				if err := sessions.Destroy(r.Context(), w, r); err != nil {
					slog.Error("sign out of unauthorized identity failed", "error", err)
				}
				flashes.Add(w, r, session.FlashError, NotAuthorizedMessage)
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)

			default:
				if d.Needs2FA {
					http.Redirect(w, r, "/admin/2fa/verify", http.StatusSeeOther)
					return
				}
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			}
		})
	}
}
