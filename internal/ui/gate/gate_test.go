// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lineadmin-tui/internal/api"
	"github.com/jeranaias/lineadmin-tui/internal/auth"
	"github.com/jeranaias/lineadmin-tui/internal/store"
	"github.com/jeranaias/lineadmin-tui/internal/ui/nav"
	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

// signedInManager returns an initialized auth manager holding a session with
// the given role.
func signedInManager(t *testing.T, role api.Role) *auth.Manager {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.LoginResponse{
			Success: true,
			Token:   "T",
			User:    &api.UserRecord{ID: "1", Username: "op", Role: role},
		})
	}))
	t.Cleanup(srv.Close)

	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	mgr := auth.NewManager(store.NewMemStore(), client)
	mgr.Initialize()
	require.True(t, mgr.Login(context.Background(), "op", "pw").OK)
	return mgr
}

func anonymousManager(t *testing.T) *auth.Manager {
	t.Helper()
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second})
	mgr := auth.NewManager(store.NewMemStore(), client)
	mgr.Initialize()
	return mgr
}

func TestGate_LoadingUntilAuthReady(t *testing.T) {
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second})
	mgr := auth.NewManager(store.NewMemStore(), client) // not initialized yet

	g := New(styles.NewTheme(), mgr, nav.RouteDirectory, true)
	require.Equal(t, StateLoading, g.State())

	g, cmd := g.Resolve()
	require.Equal(t, StateLoading, g.State(), "must stay loading while auth manager is loading")
	require.Nil(t, cmd)
}

func TestGate_UnauthenticatedRedirectsWithOrigin(t *testing.T) {
	g := New(styles.NewTheme(), anonymousManager(t), nav.RouteDirectory, true)

	g, cmd := g.Resolve()
	require.Equal(t, StateUnauthenticated, g.State())
	require.NotNil(t, cmd)

	msg, ok := cmd().(nav.GoMsg)
	require.True(t, ok)
	require.Equal(t, nav.RouteLogin, msg.To)
	require.Equal(t, nav.RouteDirectory, msg.From, "original route must be preserved for resume")
	require.True(t, msg.Replace)
}

func TestGate_AdminAuthorizedImmediately(t *testing.T) {
	g := New(styles.NewTheme(), signedInManager(t, api.RoleAdmin), nav.RouteDirectory, true)

	g, cmd := g.Resolve()
	require.Equal(t, StateAuthorized, g.State())
	require.Nil(t, cmd, "no countdown for an authorized operator")
	require.Empty(t, g.View(), "authorized guard renders nothing of its own")
}

func TestGate_NonAdminRequiresNoRole(t *testing.T) {
	g := New(styles.NewTheme(), signedInManager(t, api.RoleUser), nav.RouteDirectory, false)

	g, _ = g.Resolve()
	require.Equal(t, StateAuthorized, g.State())
}

func TestGate_ForbiddenCountdownToLogout(t *testing.T) {
	mgr := signedInManager(t, api.RoleUser)
	g := New(styles.NewTheme(), mgr, nav.RouteDirectory, true)

	g, cmd := g.Resolve()
	require.Equal(t, StateForbidden, g.State())
	require.NotNil(t, cmd, "countdown tick must be scheduled")
	require.Equal(t, 3, g.Countdown())
	require.Contains(t, g.View(), "Access Denied")
	require.Contains(t, g.View(), "3")

	// Drive the clock by hand: three ticks, values 3 -> 2 -> 1 -> logout.
	gen := g.gen

	g, cmd = g.Update(TickMsg{Gen: gen})
	require.Equal(t, 2, g.Countdown())
	require.NotNil(t, cmd)
	require.True(t, mgr.IsAuthenticated(), "still signed in mid-countdown")

	g, cmd = g.Update(TickMsg{Gen: gen})
	require.Equal(t, 1, g.Countdown())
	require.NotNil(t, cmd)

	g, cmd = g.Update(TickMsg{Gen: gen})
	require.Equal(t, 0, g.Countdown())
	require.False(t, mgr.IsAuthenticated(), "countdown expiry must log out")
	require.False(t, mgr.IsAdmin())

	require.NotNil(t, cmd)
	msg, ok := cmd().(nav.GoMsg)
	require.True(t, ok)
	require.Equal(t, nav.RouteLogin, msg.To)
	require.True(t, msg.Replace, "forced logout must not grow navigation history")
	require.Empty(t, string(msg.From), "no resume after a forced logout")
}

func TestGate_TeardownCancelsCountdown(t *testing.T) {
	mgr := signedInManager(t, api.RoleUser)
	g := New(styles.NewTheme(), mgr, nav.RouteDirectory, true)

	g, _ = g.Resolve()
	gen := g.gen

	// One tick elapses, then the view is torn down mid-countdown.
	g, _ = g.Update(TickMsg{Gen: gen})
	require.Equal(t, 2, g.Countdown())
	g = g.Teardown()

	// The tick already in flight arrives afterward: it must do nothing.
	g, cmd := g.Update(TickMsg{Gen: gen})
	require.Nil(t, cmd)
	require.Equal(t, 2, g.Countdown(), "stale tick must not advance the countdown")
	require.True(t, mgr.IsAuthenticated(), "stale tick must never log out")

	// Even a flood of stale ticks cannot reach the logout.
	for i := 0; i < 10; i++ {
		g, _ = g.Update(TickMsg{Gen: gen})
	}
	require.True(t, mgr.IsAuthenticated())
}

func TestGate_ReresolveRestartsCountdownCleanly(t *testing.T) {
	mgr := signedInManager(t, api.RoleUser)
	g := New(styles.NewTheme(), mgr, nav.RouteDirectory, true)

	g, _ = g.Resolve()
	oldGen := g.gen
	g, _ = g.Update(TickMsg{Gen: oldGen})
	require.Equal(t, 2, g.Countdown())

	// Re-entering the route resolves again: fresh countdown, new generation.
	g, _ = g.Resolve()
	require.Equal(t, 3, g.Countdown())

	g, cmd := g.Update(TickMsg{Gen: oldGen})
	require.Nil(t, cmd)
	require.Equal(t, 3, g.Countdown(), "old generation tick must be discarded")
}

func TestGate_FailClosedTreatsStorageFailureAsUnauthenticated(t *testing.T) {
	st := store.NewMemStore()
	st.FailAll = true
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second})
	mgr := auth.NewManager(st, client)
	mgr.Initialize()

	g := New(styles.NewTheme(), mgr, nav.RouteDirectory, true)
	g, cmd := g.Resolve()
	require.Equal(t, StateUnauthenticated, g.State())
	require.NotNil(t, cmd)
}

func TestGate_ViewStates(t *testing.T) {
	g := New(styles.NewTheme(), anonymousManager(t), nav.RouteDirectory, true)
	g.SetSize(80, 24)

	require.True(t, strings.Contains(g.View(), "Checking session"))

	g, _ = g.Resolve()
	require.True(t, strings.Contains(g.View(), "Redirecting"))
}
