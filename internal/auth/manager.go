// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the client-side authentication session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jeranaias/lineadmin-tui/internal/api"
	"github.com/jeranaias/lineadmin-tui/internal/store"
)

// FallbackLoginMessage is shown when the server did not supply a rejection
// message, or the login call failed at the transport level.
const FallbackLoginMessage = "Unable to sign in. Check the server connection and try again."

// ConnectionLoginMessage is shown when the server could not be reached at all.
const ConnectionLoginMessage = "Cannot reach the server. Check the server address in your config."

// LoginResult is the outcome of a Login call, shaped for direct display.
type LoginResult struct {
	OK      bool
	Message string
}

// Manager owns process-wide authentication state: the single in-memory
// Session, its durable copy in the store, and the authorization context of
// the API client. It is the only component allowed to mutate any of the
// three; views read derived predicates and never touch the session.
//
// The manager is created once per process. Initialize must be called before
// any predicate is trusted; until then Loading() reports true.
type Manager struct {
	mu sync.Mutex

	store  store.Store
	client *api.Client

	session *Session
	loading bool
}

// NewManager creates a manager bound to a session store and API client.
// The manager starts in the loading state; call Initialize to restore any
// persisted session.
func NewManager(st store.Store, client *api.Client) *Manager {
	return &Manager{
		store:   st,
		client:  client,
		loading: true,
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Initialize restores a previously persisted session, if any. It performs no
// network call, always completes, and flips the loading flag exactly once.
//
// Storage failure, partial state (token without user or vice versa), and an
// undecodable user record all degrade to "no session" - fail closed.
func (m *Manager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	defer func() { m.loading = false }()

	token, err := m.store.Get(store.KeyToken)
	if err != nil {
		return
	}
	rawUser, err := m.store.Get(store.KeyUser)
	if err != nil {
		return
	}

	var user api.UserRecord
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return
	}

	sess := &Session{Token: token, User: user}
	if !sess.valid() {
		return
	}

	m.session = sess
	m.client.SetToken(token)
}

// Login exchanges credentials for a session. On success the session is
// written to durable storage before the in-memory copy is installed, so a
// successful result is never observable ahead of its persisted state. On any
// failure the previous session (or its absence) is left untouched.
//
// Transport errors and rejected credentials both come back as a LoginResult
// with OK=false and a displayable message; raw errors never escape.
func (m *Manager) Login(ctx context.Context, username, password string) LoginResult {
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return LoginResult{OK: false, Message: loginErrorMessage(err)}
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = FallbackLoginMessage
		}
		return LoginResult{OK: false, Message: msg}
	}

	sess := &Session{Token: resp.Token}
	if resp.User != nil {
		sess.User = *resp.User
	}
	if !sess.valid() {
		return LoginResult{OK: false, Message: FallbackLoginMessage}
	}

	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return LoginResult{OK: false, Message: FallbackLoginMessage}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Durable copy first. Both keys or neither: roll back the token write
	// if the user write fails so storage never holds partial state.
	if err := m.store.Set(store.KeyToken, sess.Token); err != nil {
		return LoginResult{OK: false, Message: FallbackLoginMessage}
	}
	if err := m.store.Set(store.KeyUser, string(rawUser)); err != nil {
		_ = m.store.Remove(store.KeyToken)
		return LoginResult{OK: false, Message: FallbackLoginMessage}
	}

	m.session = sess
	m.client.SetToken(sess.Token)
	return LoginResult{OK: true}
}

// Logout clears the durable and in-memory session unconditionally.
// It is idempotent and never fails; a storage error still drops the
// in-memory session and authorization context.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.store.Clear()
	m.session = nil
	m.client.SetToken("")
}

// =============================================================================
// DERIVED PREDICATES
// =============================================================================

// Loading reports whether Initialize has not yet completed.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// IsAuthenticated reports whether a session is present. Recomputed from the
// session on every call, never cached.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.valid()
}

// IsAdmin reports whether the signed-in user holds the Admin role.
// Safe with no session: returns false, never panics.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.valid() && m.session.User.Role == api.RoleAdmin
}

// User returns a snapshot of the signed-in user record and whether a session
// is present. The snapshot is read-only; the canonical copy is owned by the
// server and only replaced on the next login.
func (m *Manager) User() (api.UserRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.session.valid() {
		return api.UserRecord{}, false
	}
	return m.session.User, true
}

// loginErrorMessage maps transport errors to a displayable message.
func loginErrorMessage(err error) string {
	var ce *api.ClientError
	if errors.As(err, &ce) {
		switch ce.Type {
		case api.ErrTypeTimeout:
			return "The server took too long to respond. Try again."
		case api.ErrTypeConnection:
			return ConnectionLoginMessage
		}
	}
	return FallbackLoginMessage
}
