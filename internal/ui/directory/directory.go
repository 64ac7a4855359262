// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory implements the user-management dashboard: a paginated
// account table with create, edit and delete flows against the admin API.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lineadmin-tui/internal/api"
	"github.com/jeranaias/lineadmin-tui/internal/auth"
	"github.com/jeranaias/lineadmin-tui/internal/ui/components"
	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

// CreatedAtLayout is the display format for account creation times.
const CreatedAtLayout = "02/01/2006 15:04"

// mode selects which sub-view owns the keyboard.
type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirm
)

// =============================================================================
// MESSAGES
// =============================================================================

// UsersMsg delivers the result of a directory fetch.
type UsersMsg struct {
	Users []api.UserRecord
	Err   error
}

// MutationMsg delivers the result of a create, update or delete call.
type MutationMsg struct {
	Verb string // "created", "updated", "deleted"
	Err  error
}

// SessionExpiredMsg asks the root model to drop the session and return to
// sign-in after the server rejected our token.
type SessionExpiredMsg struct{}

// SignOutMsg asks the root model to sign out at the operator's request.
type SignOutMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the directory dashboard.
type Model struct {
	authMgr *auth.Manager
	client  *api.Client
	theme   *styles.Theme

	mode  mode
	users []api.UserRecord

	page     int
	pageSize int

	table   table.Model
	form    userForm
	confirm api.UserRecord

	loading bool
	busy    bool
	spinner spinner.Model
	toast   components.Toast
	status  *components.StatusBar
	timeout time.Duration

	width  int
	height int
}

// New creates the dashboard. pageSize controls rows per page and timeout
// bounds every API call.
func New(theme *styles.Theme, mgr *auth.Manager, client *api.Client, pageSize int, timeout time.Duration) Model {
	if pageSize < 1 {
		pageSize = 10
	}

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Username", Width: 24},
		{Title: "Created", Width: 18},
		{Title: "Role", Width: 10},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(pageSize),
	)
	ts := table.DefaultStyles()
	ts.Header = theme.TableHeader
	ts.Selected = theme.RowSelected
	tbl.SetStyles(ts)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	status := components.NewStatusBar(theme)
	if u, ok := mgr.User(); ok {
		status.SetIdentity(u.Username, string(u.Role))
	}

	return Model{
		authMgr:  mgr,
		client:   client,
		theme:    theme,
		pageSize: pageSize,
		table:    tbl,
		form:     newUserForm(theme),
		loading:  true,
		spinner:  sp,
		toast:    components.NewToast(theme),
		status:   status,
		timeout:  timeout,
	}
}

// Init kicks off the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchUsers())
}

// SetSize sets the render dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.status.Width = width
}

// InList reports whether the plain account table owns the keyboard, i.e. no
// form or confirmation is open and no call is in flight.
func (m Model) InList() bool {
	return m.mode == modeList && !m.busy
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) fetchUsers() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		users, err := client.ListUsers(ctx)
		return UsersMsg{Users: users, Err: err}
	}
}

func (m Model) createUser(req api.CreateUserRequest) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := client.CreateUser(ctx, req)
		return MutationMsg{Verb: "created", Err: err}
	}
}

func (m Model) updateUser(id string, req api.UpdateUserRequest) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return MutationMsg{Verb: "updated", Err: client.UpdateUser(ctx, id, req)}
	}
}

func (m Model) deleteUser(id string) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return MutationMsg{Verb: "deleted", Err: client.DeleteUser(ctx, id)}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the active sub-view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.ToastExpiredMsg:
		m.toast = m.toast.Update(msg)
		return m, nil

	case UsersMsg:
		m.loading = false
		if msg.Err != nil {
			if errors.Is(msg.Err, api.ErrUnauthorized) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			return m, m.toast.ShowError(loadErrorMessage(msg.Err))
		}
		m.users = msg.Users
		m = m.clampPage()
		m = m.rebuildRows()
		return m, nil

	case MutationMsg:
		m.busy = false
		if msg.Err != nil {
			if errors.Is(msg.Err, api.ErrUnauthorized) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			return m, m.toast.ShowError(mutationErrorMessage(msg.Err))
		}
		m.mode = modeList
		m.loading = true
		return m, tea.Batch(
			m.toast.ShowSuccess("Account "+msg.Verb+"."),
			m.spinner.Tick,
			m.fetchUsers(),
		)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchUsers())

	case "o":
		return m, func() tea.Msg { return SignOutMsg{} }

	case "n":
		m.mode = modeForm
		m.form = m.form.reset()
		return m, textinput.Blink

	case "e", "enter":
		if u, ok := m.selectedUser(); ok {
			m.mode = modeForm
			m.form = m.form.load(u)
			return m, textinput.Blink
		}
		return m, nil

	case "d", "delete":
		u, ok := m.selectedUser()
		if !ok {
			return m, nil
		}
		if self, signedIn := m.authMgr.User(); signedIn && self.ID == u.ID {
			return m, m.toast.ShowError("You cannot delete your own account.")
		}
		m.mode = modeConfirm
		m.confirm = u
		return m, nil

	case "left", "h":
		if m.page > 0 {
			m.page--
			m = m.rebuildRows()
		}
		return m, nil

	case "right", "l":
		if m.page < m.lastPage() {
			m.page++
			m = m.rebuildRows()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeList
		return m, nil
	}

	form, submit := m.form.update(msg)
	m.form = form
	if !submit {
		return m, nil
	}

	form, ok := m.form.validate()
	m.form = form
	if !ok {
		return m, nil
	}

	m.busy = true
	if m.form.editing {
		req := api.UpdateUserRequest{
			Role:     m.form.role,
			Password: m.form.password.Value(),
		}
		return m, tea.Batch(m.spinner.Tick, m.updateUser(m.form.userID, req))
	}
	req := api.CreateUserRequest{
		Username: strings.TrimSpace(m.form.username.Value()),
		Password: m.form.password.Value(),
		Role:     m.form.role,
	}
	return m, tea.Batch(m.spinner.Tick, m.createUser(req))
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = modeList
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.deleteUser(m.confirm.ID))
	case "n", "N", "esc":
		m.mode = modeList
		return m, nil
	}
	return m, nil
}

// =============================================================================
// PAGINATION
// =============================================================================

func (m Model) lastPage() int {
	if len(m.users) == 0 {
		return 0
	}
	return (len(m.users) - 1) / m.pageSize
}

func (m Model) clampPage() Model {
	if m.page > m.lastPage() {
		m.page = m.lastPage()
	}
	return m
}

// pageUsers returns the slice of accounts shown on the current page.
func (m Model) pageUsers() []api.UserRecord {
	start := m.page * m.pageSize
	if start >= len(m.users) {
		return nil
	}
	end := start + m.pageSize
	if end > len(m.users) {
		end = len(m.users)
	}
	return m.users[start:end]
}

func (m Model) rebuildRows() Model {
	rows := make([]table.Row, 0, m.pageSize)
	base := m.page * m.pageSize
	for i, u := range m.pageUsers() {
		rows = append(rows, table.Row{
			strconv.Itoa(base + i + 1),
			u.Username,
			u.CreatedAt.Local().Format(CreatedAtLayout),
			string(u.Role),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
	return m
}

func (m Model) selectedUser() (api.UserRecord, bool) {
	page := m.pageUsers()
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(page) {
		return api.UserRecord{}, false
	}
	return page[cursor], true
}

// =============================================================================
// RENDERING
// =============================================================================

func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	height := m.height
	if height == 0 {
		height = 24
	}

	var body string
	switch {
	case m.mode == modeForm:
		body = m.form.view()
	case m.mode == modeConfirm:
		body = m.confirmView()
	case m.loading:
		body = m.spinner.View() + " Loading accounts..."
	default:
		body = m.listView()
	}

	bar := m.status.View(m.shortcuts())
	content := lipgloss.Place(width, height-1, lipgloss.Center, lipgloss.Center, body)

	if m.toast.Visible() {
		content = lipgloss.JoinVertical(lipgloss.Left, m.toast.View(width), content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, bar)
}

func (m Model) listView() string {
	title := m.theme.Title.Render("User accounts")
	pages := m.lastPage() + 1
	meta := m.theme.Hint.Render(fmt.Sprintf("%d accounts | page %d/%d", len(m.users), m.page+1, pages))

	rows := m.table.View()
	if len(m.users) == 0 {
		rows = m.theme.Hint.Render("No accounts yet. Press n to create one.")
	}

	suffix := ""
	if m.busy {
		suffix = "\n" + m.spinner.View() + " Working..."
	}

	return m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, title, meta, "", rows) + suffix)
}

func (m Model) confirmView() string {
	return m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center,
		m.theme.DeniedTitle.Render("Delete "+m.confirm.Username+"?"),
		m.theme.RoleTag(string(m.confirm.Role)),
		"",
		m.theme.Hint.Render("This cannot be undone."),
		"",
		m.theme.Label.Render("y confirms, n cancels"),
	))
}

func (m Model) shortcuts() []components.Shortcut {
	switch m.mode {
	case modeForm:
		return []components.Shortcut{
			{Key: "tab", Desc: "next field"},
			{Key: "enter", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}
	case modeConfirm:
		return []components.Shortcut{
			{Key: "y", Desc: "delete"},
			{Key: "n", Desc: "cancel"},
		}
	default:
		return []components.Shortcut{
			{Key: "n", Desc: "new"},
			{Key: "e", Desc: "edit"},
			{Key: "d", Desc: "delete"},
			{Key: "r", Desc: "refresh"},
			{Key: "←/→", Desc: "page"},
			{Key: "o", Desc: "sign out"},
			{Key: "q", Desc: "quit"},
		}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func loadErrorMessage(err error) string {
	var ce *api.ClientError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return "Could not load accounts."
}

func mutationErrorMessage(err error) string {
	var ce *api.ClientError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return "The server rejected the request."
}
