// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gate implements the access guard wrapped around protected views.
//
// The guard is a four-state machine evaluated against the auth manager:
//
//	Loading          auth manager has not finished restoring the session
//	Unauthenticated  no session; redirect to the login view, preserving
//	                 the originally requested route
//	Forbidden        authenticated but lacking the required role; a visible
//	                 3..1 countdown, then forced logout
//	Authorized       the wrapped view renders
//
// The forbidden countdown deliberately has no escape path: an operator who
// reached a restricted view with the wrong role is signed out, full stop.
// Countdown ticks carry a generation tag; tearing the guard down bumps the
// generation so a tick already in flight can never fire the logout.
package gate

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lineadmin-tui/internal/auth"
	"github.com/jeranaias/lineadmin-tui/internal/ui/nav"
	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

// State is the guard's resolution for the current render pass.
type State int

const (
	// StateLoading: session restore has not completed yet.
	StateLoading State = iota
	// StateUnauthenticated: no session; control goes to the login view.
	StateUnauthenticated
	// StateForbidden: authenticated but not authorized; countdown running.
	StateForbidden
	// StateAuthorized: the wrapped content renders unmodified.
	StateAuthorized
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateForbidden:
		return "forbidden"
	case StateAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// CountdownStart is the first value shown by the forced-logout countdown.
const CountdownStart = 3

// TickInterval is the cadence of the forced-logout countdown.
const TickInterval = time.Second

// TickMsg advances the forced-logout countdown. Gen identifies the countdown
// instance; a message whose generation does not match the model's is stale
// (the guard was torn down or re-resolved) and is discarded.
type TickMsg struct {
	Gen int
}

// Model is the guard state machine for one protected view.
type Model struct {
	authMgr *auth.Manager
	theme   *styles.Theme

	requested    nav.Route
	requireAdmin bool

	state     State
	countdown int
	gen       int

	width  int
	height int

	spinner spinner.Model
}

// New creates a guard for the requested route. The guard starts in
// StateLoading; call Resolve once the auth manager has initialized.
func New(theme *styles.Theme, mgr *auth.Manager, requested nav.Route, requireAdmin bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	return Model{
		authMgr:      mgr,
		theme:        theme,
		requested:    requested,
		requireAdmin: requireAdmin,
		state:        StateLoading,
		spinner:      sp,
	}
}

// Init starts the loading spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// State returns the guard's current state.
func (m Model) State() State {
	return m.state
}

// Countdown returns the currently displayed countdown value.
func (m Model) Countdown() int {
	return m.countdown
}

// SetSize sets the render dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Resolve evaluates the auth predicates and settles the guard's state.
// Called when the auth manager finishes initializing, and again whenever the
// root model re-enters the protected route. While the manager is still
// loading, the guard stays in StateLoading.
func (m Model) Resolve() (Model, tea.Cmd) {
	if m.authMgr.Loading() {
		m.state = StateLoading
		return m, nil
	}

	if !m.authMgr.IsAuthenticated() {
		m.state = StateUnauthenticated
		return m, nav.GoReplace(nav.RouteLogin, m.requested)
	}

	if m.requireAdmin && !m.authMgr.IsAdmin() {
		m.state = StateForbidden
		m.countdown = CountdownStart
		m.gen++
		return m, tickCmd(m.gen)
	}

	m.state = StateAuthorized
	return m, nil
}

// Teardown cancels a running countdown by invalidating its generation.
// Any TickMsg already scheduled becomes stale and is ignored, so logout can
// never fire after the guard left the screen.
func (m Model) Teardown() Model {
	m.gen++
	return m
}

// Update handles countdown ticks and spinner frames.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if msg.Gen != m.gen || m.state != StateForbidden {
			return m, nil
		}
		m.countdown--
		if m.countdown <= 0 {
			// Timeout path: the only way out of Forbidden.
			m.authMgr.Logout()
			m.gen++
			return m, nav.GoReplace(nav.RouteLogin, "")
		}
		return m, tickCmd(m.gen)
	}

	return m, nil
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(TickInterval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the guard chrome. In StateAuthorized it returns "" and the
// root model renders the wrapped view instead.
func (m Model) View() string {
	switch m.state {
	case StateLoading:
		return m.viewLoading()
	case StateForbidden:
		return m.viewForbidden()
	case StateUnauthenticated:
		return m.center(m.theme.Hint.Render("Redirecting to sign-in..."))
	default:
		return ""
	}
}

func (m Model) viewLoading() string {
	return m.center(m.spinner.View() + " " + m.theme.Hint.Render("Checking session..."))
}

func (m Model) viewForbidden() string {
	digit := m.theme.CountdownDigit.Render(strconv.Itoa(m.countdown))

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.DeniedTitle.Render("Access Denied"),
		"",
		m.theme.Label.Render("You do not have permission to view this page."),
		"",
		m.theme.Hint.Render("Signing you out in"),
		digit,
		"",
		m.theme.Hint.Render("You will be returned to the sign-in screen."),
	)

	return m.center(m.theme.Card.Render(content))
}

func (m Model) center(content string) string {
	width := m.width
	if width == 0 {
		width = 80
	}
	height := m.height
	if height == 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
