// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the lineadmin TUI.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

// Brand is the product name shown in the header and on the login card.
const Brand = "LineAdmin"

// Header renders the top bar: brand on the left, an optional context label
// on the right.
type Header struct {
	theme *styles.Theme

	Width   int
	Context string
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{theme: theme, Width: 80}
}

// View renders the header line with its bottom border.
func (h *Header) View() string {
	left := h.theme.HeaderTitle.Render(Brand)
	right := h.theme.StatusBar.Render(h.Context)

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = ""
		gap = 1
	}

	line := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return h.theme.Header.Width(h.Width - 2).Render(line)
}
