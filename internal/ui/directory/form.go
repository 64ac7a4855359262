// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lineadmin-tui/internal/api"
	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

// Form field indexes.
const (
	formFieldUsername = iota
	formFieldPassword
	formFieldRole
	formFieldSubmit
	formFieldCount
)

// userForm is the create/edit sub-view. In edit mode the username is fixed
// and a blank password means "keep the current one".
type userForm struct {
	theme *styles.Theme

	editing bool
	userID  string

	username textinput.Model
	password textinput.Model
	role     api.Role
	focus    int

	errMsg string
}

func newUserForm(theme *styles.Theme) userForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 50
	username.Prompt = ""

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 72
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return userForm{
		theme:    theme,
		username: username,
		password: password,
		role:     api.RoleUser,
	}
}

// reset prepares the form for creating a new user.
func (f userForm) reset() userForm {
	f.editing = false
	f.userID = ""
	f.username.SetValue("")
	f.password.SetValue("")
	f.role = api.RoleUser
	f.errMsg = ""
	return f.setFocus(formFieldUsername)
}

// load prepares the form for editing an existing user.
func (f userForm) load(u api.UserRecord) userForm {
	f.editing = true
	f.userID = u.ID
	f.username.SetValue(u.Username)
	f.password.SetValue("")
	f.role = u.Role
	f.errMsg = ""
	return f.setFocus(formFieldPassword)
}

func (f userForm) setFocus(focus int) userForm {
	// Username is not editable once the account exists.
	if f.editing && focus == formFieldUsername {
		focus = formFieldPassword
	}
	f.focus = focus
	f.username.Blur()
	f.password.Blur()
	switch focus {
	case formFieldUsername:
		f.username.Focus()
	case formFieldPassword:
		f.password.Focus()
	}
	return f
}

func (f userForm) nextFocus(delta int) userForm {
	focus := f.focus
	for i := 0; i < formFieldCount; i++ {
		focus = (focus + delta + formFieldCount) % formFieldCount
		if f.editing && focus == formFieldUsername {
			continue
		}
		break
	}
	return f.setFocus(focus)
}

// update handles key input within the form. The second return value reports
// whether the operator asked to submit.
func (f userForm) update(msg tea.KeyMsg) (userForm, bool) {
	switch msg.String() {
	case "tab", "down":
		return f.nextFocus(1), false
	case "shift+tab", "up":
		return f.nextFocus(-1), false
	case "left", "right", " ":
		if f.focus == formFieldRole {
			if f.role == api.RoleAdmin {
				f.role = api.RoleUser
			} else {
				f.role = api.RoleAdmin
			}
			return f, false
		}
	case "enter":
		if f.focus == formFieldSubmit || f.focus == formFieldPassword || f.focus == formFieldUsername {
			return f, true
		}
		return f.nextFocus(1), false
	}

	switch f.focus {
	case formFieldUsername:
		f.username, _ = f.username.Update(msg)
	case formFieldPassword:
		f.password, _ = f.password.Update(msg)
	}
	return f, false
}

// validate enforces the account constraints and records an error line on
// failure.
func (f userForm) validate() (userForm, bool) {
	username := strings.TrimSpace(f.username.Value())
	password := f.password.Value()

	if !f.editing {
		if len(username) < 3 || len(username) > 50 {
			f.errMsg = "Username must be 3-50 characters."
			return f.setFocus(formFieldUsername), false
		}
	}
	if password == "" && !f.editing {
		f.errMsg = "Password is required."
		return f.setFocus(formFieldPassword), false
	}
	if password != "" && len(password) < 4 {
		f.errMsg = "Password must be at least 4 characters."
		return f.setFocus(formFieldPassword), false
	}
	f.errMsg = ""
	return f, true
}

func (f userForm) view() string {
	title := "New user"
	if f.editing {
		title = "Edit " + f.username.Value()
	}

	fieldStyle := func(field int) lipgloss.Style {
		if f.focus == field {
			return f.theme.FieldActive
		}
		return f.theme.FieldInactive
	}

	roleLabel := "User"
	if f.role == api.RoleAdmin {
		roleLabel = "Admin"
	}

	passwordLabel := "Password"
	if f.editing {
		passwordLabel = "Password (blank keeps current)"
	}

	submit := f.theme.ButtonGhost.Render("Save")
	if f.focus == formFieldSubmit {
		submit = f.theme.ButtonPrimary.Render("Save")
	}

	parts := []string{
		f.theme.Title.Render(title),
		"",
	}
	if !f.editing {
		parts = append(parts,
			f.theme.InputLabel.Render("Username"),
			fieldStyle(formFieldUsername).Width(32).Render(f.username.View()),
		)
	}
	parts = append(parts,
		f.theme.InputLabel.Render(passwordLabel),
		fieldStyle(formFieldPassword).Width(32).Render(f.password.View()),
		f.theme.InputLabel.Render("Role"),
		fieldStyle(formFieldRole).Width(32).Render("< "+roleLabel+" >"),
		"",
		submit,
	)
	if f.errMsg != "" {
		parts = append(parts, "", f.theme.ErrorText.Render(f.errMsg))
	}
	parts = append(parts, "", f.theme.Hint.Render("esc cancels"))

	return f.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
