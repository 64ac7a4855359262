// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lineadmin-tui/internal/api"
	"github.com/jeranaias/lineadmin-tui/internal/store"
)

// newLoginServer returns a test API that accepts exactly Admin/1234.
func newLoginServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Username == "Admin" && req.Password == "1234" {
			json.NewEncoder(w).Encode(api.LoginResponse{
				Success: true,
				Token:   "T",
				User:    &api.UserRecord{ID: "1", Username: "Admin", Role: api.RoleAdmin},
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(api.LoginResponse{Success: false, Message: "invalid username or password"})
	}))
}

func newTestManager(t *testing.T, baseURL string, st store.Store) *Manager {
	t.Helper()
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: baseURL, Timeout: 2 * time.Second})
	return NewManager(st, client)
}

func TestManager_LoginScenario(t *testing.T) {
	srv := newLoginServer(t)
	defer srv.Close()

	m := newTestManager(t, srv.URL, store.NewMemStore())
	m.Initialize()

	require.False(t, m.IsAuthenticated())
	require.False(t, m.IsAdmin())

	res := m.Login(context.Background(), "Admin", "1234")
	require.True(t, res.OK)
	require.True(t, m.IsAuthenticated())
	require.True(t, m.IsAdmin())

	user, ok := m.User()
	require.True(t, ok)
	require.Equal(t, "1", user.ID)
	require.Equal(t, "Admin", user.Username)
}

func TestManager_LoginThenInitializeRestores(t *testing.T) {
	srv := newLoginServer(t)
	defer srv.Close()

	st := store.NewMemStore()
	m := newTestManager(t, srv.URL, st)
	m.Initialize()
	require.True(t, m.Login(context.Background(), "Admin", "1234").OK)

	// A fresh manager over the same store simulates a process restart.
	m2 := newTestManager(t, srv.URL, st)
	require.True(t, m2.Loading())
	m2.Initialize()
	require.False(t, m2.Loading())

	require.True(t, m2.IsAuthenticated())
	require.True(t, m2.IsAdmin())
	user, ok := m2.User()
	require.True(t, ok)
	require.Equal(t, "Admin", user.Username)
}

func TestManager_LoginRejectedLeavesStateUntouched(t *testing.T) {
	srv := newLoginServer(t)
	defer srv.Close()

	st := store.NewMemStore()
	m := newTestManager(t, srv.URL, st)
	m.Initialize()
	require.True(t, m.Login(context.Background(), "Admin", "1234").OK)

	res := m.Login(context.Background(), "Admin", "wrong")
	require.False(t, res.OK)
	require.Equal(t, "invalid username or password", res.Message)

	// Prior session survives the failed attempt.
	require.True(t, m.IsAuthenticated())
	require.True(t, m.IsAdmin())
}

func TestManager_LoginUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	m := newTestManager(t, srv.URL, store.NewMemStore())
	m.Initialize()

	res := m.Login(context.Background(), "Admin", "1234")
	require.False(t, res.OK)
	require.NotEmpty(t, res.Message)
	require.False(t, m.IsAuthenticated())
}

func TestManager_Logout(t *testing.T) {
	srv := newLoginServer(t)
	defer srv.Close()

	st := store.NewMemStore()
	m := newTestManager(t, srv.URL, st)
	m.Initialize()
	require.True(t, m.Login(context.Background(), "Admin", "1234").OK)

	m.Logout()
	require.False(t, m.IsAuthenticated())
	require.False(t, m.IsAdmin())
	_, ok := m.User()
	require.False(t, ok)

	// Durable copy is gone: a restart stays signed out.
	m2 := newTestManager(t, srv.URL, st)
	m2.Initialize()
	require.False(t, m2.IsAuthenticated())

	// Idempotent.
	m.Logout()
	require.False(t, m.IsAuthenticated())
}

func TestManager_IsAdminWithoutSession(t *testing.T) {
	m := newTestManager(t, "http://127.0.0.1:0", store.NewMemStore())
	m.Initialize()

	require.False(t, m.IsAdmin())
	require.False(t, m.IsAuthenticated())
}

func TestManager_InitializeFailsClosed(t *testing.T) {
	st := store.NewMemStore()
	st.FailAll = true

	m := newTestManager(t, "http://127.0.0.1:0", st)
	m.Initialize()

	require.False(t, m.Loading())
	require.False(t, m.IsAuthenticated())
}

func TestManager_InitializePartialStateIsAbsent(t *testing.T) {
	cases := map[string]map[string]string{
		"token only":     {store.KeyToken: "T"},
		"user only":      {store.KeyUser: `{"id":"1","username":"Admin","role":"Admin"}`},
		"undecodable":    {store.KeyToken: "T", store.KeyUser: "{broken"},
		"empty user id":  {store.KeyToken: "T", store.KeyUser: `{"username":"Admin","role":"Admin"}`},
		"empty token":    {store.KeyToken: "", store.KeyUser: `{"id":"1","username":"Admin","role":"Admin"}`},
	}

	for name, seed := range cases {
		t.Run(name, func(t *testing.T) {
			st := store.NewMemStore()
			for k, v := range seed {
				require.NoError(t, st.Set(k, v))
			}

			m := newTestManager(t, "http://127.0.0.1:0", st)
			m.Initialize()
			require.False(t, m.IsAuthenticated())
			require.False(t, m.IsAdmin())
		})
	}
}

func TestManager_LoginStorageFailureRollsBack(t *testing.T) {
	srv := newLoginServer(t)
	defer srv.Close()

	st := store.NewMemStore()
	st.FailAll = true

	m := newTestManager(t, srv.URL, st)
	m.Initialize()

	res := m.Login(context.Background(), "Admin", "1234")
	require.False(t, res.OK)
	require.False(t, m.IsAuthenticated())
}

func TestManager_UserRoleSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.LoginResponse{
			Success: true,
			Token:   "T2",
			User:    &api.UserRecord{ID: "2", Username: "operator", Role: api.RoleUser},
		})
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL, store.NewMemStore())
	m.Initialize()
	require.True(t, m.Login(context.Background(), "operator", "pw").OK)

	require.True(t, m.IsAuthenticated())
	require.False(t, m.IsAdmin())
}
