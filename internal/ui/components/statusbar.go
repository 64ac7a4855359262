// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the lineadmin TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
	"github.com/jeranaias/lineadmin-tui/internal/util"
)

// Shortcut is a key binding hint rendered in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the single-line bar at the bottom of every view: signed-in
// identity on the left, key hints on the right.
type StatusBar struct {
	theme *styles.Theme

	Username string
	Role     string
	Width    int
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Width: 80}
}

// SetIdentity sets the signed-in identity shown on the left. Empty username
// hides the identity segment (login screen).
func (s *StatusBar) SetIdentity(username, role string) {
	s.Username = username
	s.Role = role
}

// View renders the bar to the configured width.
func (s *StatusBar) View(shortcuts []Shortcut) string {
	var left string
	if s.Username != "" {
		left = s.theme.StatusUser.Render(s.Username) +
			s.theme.StatusBar.Render("("+s.Role+")")
	}

	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(parts, "  ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Drop the hints before truncating the identity.
		right = ""
		gap = s.Width - lipgloss.Width(left)
		if gap < 0 {
			left = util.TruncateWidth(left, s.Width)
			gap = 0
		}
	}

	return left + strings.Repeat(" ", gap) + right
}
