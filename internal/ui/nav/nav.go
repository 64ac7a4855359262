// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav defines the routes of the console and the navigation messages
// exchanged between views and the root model.
package nav

import tea "github.com/charmbracelet/bubbletea"

// Route identifies a top-level view.
type Route string

const (
	// RouteLogin is the sign-in screen.
	RouteLogin Route = "login"

	// RouteDirectory is the user-management dashboard. Admin-gated.
	RouteDirectory Route = "directory"
)

// GoMsg asks the root model to switch views.
//
// From preserves the originally requested route across a redirect to the
// login screen, so a successful sign-in can resume it. Replace marks
// navigations that must not be revisitable (forced logout, post-login
// bounce); the root model drops the previous view instead of stacking it.
type GoMsg struct {
	To      Route
	From    Route
	Replace bool
}

// Go builds a navigation command.
func Go(to Route) tea.Cmd {
	return func() tea.Msg { return GoMsg{To: to} }
}

// GoReplace builds a replace-navigation command carrying the origin route.
func GoReplace(to, from Route) tea.Cmd {
	return func() tea.Msg { return GoMsg{To: to, From: from, Replace: true} }
}
