// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the lineadmin TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App  lipgloss.Style
	Card lipgloss.Style

	// ==========================================================================
	// HEADER / STATUS BAR STYLES
	// ==========================================================================

	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	StatusBar    lipgloss.Style
	StatusUser   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// TEXT STYLES
	// ==========================================================================

	Title     lipgloss.Style
	Label     lipgloss.Style
	Hint      lipgloss.Style
	ErrorText lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	InputLabel    lipgloss.Style
	FieldActive   lipgloss.Style
	FieldInactive lipgloss.Style
	ButtonPrimary lipgloss.Style
	ButtonGhost   lipgloss.Style

	// ==========================================================================
	// DIRECTORY TABLE STYLES
	// ==========================================================================

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	RowSelected lipgloss.Style
	TagAdmin    lipgloss.Style
	TagUser     lipgloss.Style

	// ==========================================================================
	// ACCESS DENIED / COUNTDOWN STYLES
	// ==========================================================================

	DeniedTitle    lipgloss.Style
	CountdownDigit lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastError   lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastStatus  lipgloss.Style
}

// NewTheme creates the theme after probing the terminal.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.App = lipgloss.NewStyle().
		Background(Surface)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Background(SurfaceCard).
		Padding(1, 3)

	t.Header = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusUser = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Title = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.Label = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Danger)

	t.InputLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FieldActive = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(TextPrimary).
		Background(SurfaceInput).
		Padding(0, 1)

	t.FieldInactive = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Background(SurfaceInput).
		Padding(0, 1)

	t.ButtonPrimary = lipgloss.NewStyle().
		Foreground(TextInverted).
		Background(TextPrimary).
		Bold(true).
		Padding(0, 2)

	t.ButtonGhost = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Padding(0, 2)

	t.TableHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.RowSelected = lipgloss.NewStyle().
		Foreground(TextInverted).
		Background(TextPrimary).
		Bold(true)

	t.TagAdmin = lipgloss.NewStyle().
		Foreground(Danger).
		Bold(true)

	t.TagUser = lipgloss.NewStyle().
		Foreground(Info)

	t.DeniedTitle = lipgloss.NewStyle().
		Foreground(Danger).
		Bold(true)

	t.CountdownDigit = lipgloss.NewStyle().
		Foreground(Danger).
		Bold(true).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Foreground(Danger).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Danger).
		Padding(0, 1)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(Success).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Success).
		Padding(0, 1)

	t.ToastStatus = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	return t
}

// RoleTag returns the styled tag for a role name.
func (t *Theme) RoleTag(role string) string {
	if role == "Admin" {
		return t.TagAdmin.Render(role)
	}
	return t.TagUser.Render(role)
}
