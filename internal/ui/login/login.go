// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in view for the lineadmin TUI.
package login

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lineadmin-tui/internal/auth"
	"github.com/jeranaias/lineadmin-tui/internal/ui/components"
	"github.com/jeranaias/lineadmin-tui/internal/ui/nav"
	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

// field indexes within the form.
const (
	fieldUsername = iota
	fieldPassword
	fieldCount
)

// ResultMsg carries the outcome of an asynchronous login call back into the
// update loop.
type ResultMsg struct {
	Result auth.LoginResult
}

// Model is the Bubble Tea model for the sign-in screen.
type Model struct {
	authMgr *auth.Manager
	theme   *styles.Theme

	username textinput.Model
	password textinput.Model
	focus    int

	submitting bool
	errMsg     string

	// resume is where to land after a successful sign-in; defaults to the
	// directory when the operator came straight to the login screen.
	resume nav.Route

	timeout time.Duration
	spinner spinner.Model

	width  int
	height int
}

// New creates the sign-in view. timeout bounds the login network call.
func New(theme *styles.Theme, mgr *auth.Manager, timeout time.Duration) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 50
	username.Prompt = ""
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 72
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	return Model{
		authMgr:  mgr,
		theme:    theme,
		username: username,
		password: password,
		timeout:  timeout,
		spinner:  sp,
		resume:   nav.RouteDirectory,
	}
}

// Init starts cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetResume records the route to return to after sign-in.
func (m *Model) SetResume(r nav.Route) {
	if r != "" {
		m.resume = r
	}
}

// SetSize sets the render dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles key events and login results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ResultMsg:
		m.submitting = false
		if msg.Result.OK {
			m.password.SetValue("")
			m.errMsg = ""
			return m, nav.GoReplace(m.resume, "")
		}
		m.errMsg = msg.Result.Message
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.setFocus((m.focus + 1) % fieldCount), nil
		case "shift+tab", "up":
			return m.setFocus((m.focus + fieldCount - 1) % fieldCount), nil
		case "enter":
			return m.submit()
		}
	}

	return m.updateInputs(msg)
}

func (m Model) setFocus(focus int) Model {
	m.focus = focus
	if focus == fieldUsername {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
	return m
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit validates locally and fires the asynchronous login call.
func (m Model) submit() (Model, tea.Cmd) {
	username := m.username.Value()
	password := m.password.Value()

	if username == "" {
		m.errMsg = "Enter your username."
		return m.setFocus(fieldUsername), nil
	}
	if password == "" {
		m.errMsg = "Enter your password."
		return m.setFocus(fieldPassword), nil
	}

	m.submitting = true
	m.errMsg = ""

	mgr := m.authMgr
	timeout := m.timeout
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return ResultMsg{Result: mgr.Login(ctx, username, password)}
		},
	)
}

// Submitting reports whether a login call is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// ErrMsg returns the currently displayed error line, empty when none.
func (m Model) ErrMsg() string {
	return m.errMsg
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the centered sign-in card.
func (m Model) View() string {
	usernameField := m.theme.FieldInactive
	passwordField := m.theme.FieldInactive
	if m.focus == fieldUsername {
		usernameField = m.theme.FieldActive
	} else {
		passwordField = m.theme.FieldActive
	}

	button := m.theme.ButtonPrimary.Render("Sign in")
	if m.submitting {
		button = m.theme.ButtonGhost.Render(m.spinner.View() + " Signing in...")
	}

	parts := []string{
		m.theme.Title.Render(components.Brand),
		m.theme.Hint.Render("Administrator console"),
		"",
		m.theme.InputLabel.Render("Username"),
		usernameField.Width(32).Render(m.username.View()),
		m.theme.InputLabel.Render("Password"),
		passwordField.Width(32).Render(m.password.View()),
		"",
		button,
	}

	if m.errMsg != "" {
		parts = append(parts, "", m.theme.ErrorText.Render(m.errMsg))
	}

	parts = append(parts, "", m.theme.Hint.Render("Default account: Admin / 1234"))

	card := m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center, parts...))

	width := m.width
	if width == 0 {
		width = 80
	}
	height := m.height
	if height == 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
