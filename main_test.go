// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lineadmin-tui/internal/api"
	"github.com/jeranaias/lineadmin-tui/internal/auth"
	"github.com/jeranaias/lineadmin-tui/internal/store"
	"github.com/jeranaias/lineadmin-tui/internal/ui/directory"
	"github.com/jeranaias/lineadmin-tui/internal/ui/gate"
	"github.com/jeranaias/lineadmin-tui/internal/ui/login"
	"github.com/jeranaias/lineadmin-tui/internal/ui/nav"
	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

func testManager(t *testing.T, role api.Role, signIn bool) (*auth.Manager, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_ = json.NewEncoder(w).Encode(api.LoginResponse{
				Success: true,
				Token:   "tok",
				User:    &api.UserRecord{ID: "1", Username: "someone", Role: role},
			})
		case "/api/users":
			_ = json.NewEncoder(w).Encode(api.ListUsersResponse{Success: true, Users: nil})
		}
	}))
	t.Cleanup(srv.Close)

	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
	mgr := auth.NewManager(store.NewMemStore(), client)
	mgr.Initialize()
	if signIn {
		res := mgr.Login(t.Context(), "someone", "pw")
		require.True(t, res.OK)
	}
	return mgr, client
}

func testApp(mgr *auth.Manager, client *api.Client) appModel {
	theme := styles.NewTheme()
	newDir := func() directory.Model {
		return directory.New(theme, mgr, client, 10, 5*time.Second)
	}
	newLogin := func() login.Model {
		return login.New(theme, mgr, 5*time.Second)
	}
	return newAppModel(mgr, newDir, newLogin)
}

// step feeds a message and returns the model plus the produced command.
func step(t *testing.T, m tea.Model, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(appModel)
	require.True(t, ok)
	return app, cmd
}

// findMsg walks a command tree and returns the first message the predicate
// accepts, without feeding anything back into the model.
func findMsg(cmd tea.Cmd, match func(tea.Msg) bool) tea.Msg {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if match(msg) {
			return msg
		}
	}
	return nil
}

func isNavOrTick(msg tea.Msg) bool {
	switch msg.(type) {
	case nav.GoMsg, gate.TickMsg:
		return true
	}
	return false
}

func TestApp_NoSessionRoutesToLogin(t *testing.T) {
	mgr, client := testManager(t, api.RoleAdmin, false)
	m := testApp(mgr, client)

	m, cmd := step(t, m, sessionReadyMsg{})
	require.Equal(t, gate.StateUnauthenticated, m.gate.State())

	msg := findMsg(cmd, isNavOrTick)
	require.IsType(t, nav.GoMsg{}, msg)
	m, _ = step(t, m, msg)
	require.Equal(t, nav.RouteLogin, m.route)
}

func TestApp_AdminSessionOpensDashboard(t *testing.T) {
	mgr, client := testManager(t, api.RoleAdmin, true)
	m := testApp(mgr, client)

	m, cmd := step(t, m, sessionReadyMsg{})
	require.Equal(t, gate.StateAuthorized, m.gate.State())
	require.Equal(t, nav.RouteDirectory, m.route)
	require.NotNil(t, cmd)
}

func TestApp_NonAdminCountdownForcesSignOut(t *testing.T) {
	mgr, client := testManager(t, api.RoleUser, true)
	m := testApp(mgr, client)

	m, _ = step(t, m, sessionReadyMsg{})
	require.Equal(t, gate.StateForbidden, m.gate.State())
	require.Equal(t, gate.CountdownStart, m.gate.Countdown())

	// Drive the countdown with injected ticks; a fresh gate resolves on
	// generation 1.
	var cmd tea.Cmd
	for i := 0; i < gate.CountdownStart; i++ {
		m, cmd = step(t, m, gate.TickMsg{Gen: 1})
	}
	require.False(t, mgr.IsAuthenticated())

	msg := findMsg(cmd, isNavOrTick)
	require.IsType(t, nav.GoMsg{}, msg)
	m, _ = step(t, m, msg)
	require.Equal(t, nav.RouteLogin, m.route)
}

func TestApp_SessionExpiredDropsToLogin(t *testing.T) {
	mgr, client := testManager(t, api.RoleAdmin, true)
	m := testApp(mgr, client)

	m, _ = step(t, m, sessionReadyMsg{})
	m, cmd := step(t, m, directory.SessionExpiredMsg{})
	require.False(t, mgr.IsAuthenticated())

	msg := findMsg(cmd, isNavOrTick)
	require.IsType(t, nav.GoMsg{}, msg)
	m, _ = step(t, m, msg)
	require.Equal(t, nav.RouteLogin, m.route)
}

func TestApp_ResizeAdjustsHeader(t *testing.T) {
	mgr, client := testManager(t, api.RoleAdmin, true)
	m := testApp(mgr, client)
	m, _ = step(t, m, sessionReadyMsg{})

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	require.Equal(t, 120, m.header.Width)

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 64, Height: 20})
	require.Equal(t, 64, m.header.Width)
}

func TestApp_QuitKeys(t *testing.T) {
	mgr, client := testManager(t, api.RoleAdmin, true)
	m := testApp(mgr, client)
	m, _ = step(t, m, sessionReadyMsg{})

	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())

	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}
