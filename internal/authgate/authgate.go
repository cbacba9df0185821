// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package authgate decides whether a request may enter the admin
// dashboard. Each check walks a small state machine:
//
//	unchecked -> checking -> authorized | unauthorized | unauthenticated
//
// The identity is resolved first. Only when one exists is the runtime
// allow-list loaded and consulted, so anonymous requests never touch the
// settings store.
package authgate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"folio/internal/authz"
	"folio/internal/session"
)

// State is a gate state.
type State int

// Gate states.
const (
	Unchecked State = iota
	Checking
	Authorized
	Unauthorized
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checking:
		return "checking"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	case Unauthenticated:
		return "unauthenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Authorized || s == Unauthorized || s == Unauthenticated
}

// Machine tracks one check through its states and rejects transitions
// the gate does not allow.
type Machine struct {
	state State
	trail []State
}

// NewMachine returns a machine in the Unchecked state.
func NewMachine() *Machine {
	return &Machine{state: Unchecked, trail: []State{Unchecked}}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Trail returns every state visited, in order.
func (m *Machine) Trail() []State {
	return append([]State(nil), m.trail...)
}

// To moves the machine to next.
func (m *Machine) To(next State) error {
	ok := false
	switch m.state {
	case Unchecked:
		ok = next == Checking
	case Checking:
		ok = next.Terminal()
	}
	if !ok {
		return fmt.Errorf("authgate: invalid transition %s -> %s", m.state, next)
	}
	m.state = next
	m.trail = append(m.trail, next)
	return nil
}

// Sessions resolves the signed-in identity for a request.
type Sessions interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// AllowList supplies the runtime allow-list. Ensure is called before
// AdminEmails is read.
type AllowList interface {
	Ensure(ctx context.Context) error
	AdminEmails() string
}

// Decision is the outcome of a gate check.
type Decision struct {
	State    State
	Identity *session.Data
	// Needs2FA is set for an unauthenticated decision where the password
	// step succeeded but the TOTP code has not been entered yet.
	Needs2FA bool
	Trail    []State
}

// Gate evaluates dashboard access.
type Gate struct {
	sessions Sessions
	allow    AllowList
	static   []string
}

// New creates a gate. static is the boot-time allow-list.
func New(sessions Sessions, allow AllowList, static []string) *Gate {
	return &Gate{sessions: sessions, allow: allow, static: static}
}

// Check runs the state machine for r.
func (g *Gate) Check(ctx context.Context, r *http.Request) Decision {
	m := NewMachine()
	m.To(Checking)

	finish := func(s State, id *session.Data) Decision {
		m.To(s)
		return Decision{State: s, Identity: id, Trail: m.Trail()}
	}

	id, err := g.sessions.Get(ctx, r)
	if err != nil {
		slog.Error("auth gate: session lookup failed", "error", err)
		return finish(Unauthenticated, nil)
	}
	if id == nil || id.Email == "" {
		return finish(Unauthenticated, nil)
	}
	if !id.TwoFADone {
		d := finish(Unauthenticated, id)
		d.Needs2FA = true
		return d
	}

	// The static list still applies when the runtime list cannot be loaded.
	var dynamic []string
	if err := g.allow.Ensure(ctx); err != nil {
		slog.Error("auth gate: runtime allow-list unavailable", "error", err)
	} else {
		dynamic = authz.ParseList(g.allow.AdminEmails())
	}

	if !authz.IsAuthorized(id.Email, g.static, dynamic) {
		slog.Warn("auth gate: identity not allow-listed", "email", id.Email)
		return finish(Unauthorized, id)
	}
	return finish(Authorized, id)
}
