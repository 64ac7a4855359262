// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the lineadmin TUI.
//
// Toasts are non-blocking corner notifications that auto-dismiss, so CRUD
// feedback never steals focus from the table or a form.
package components

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast.
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast.
	ToastKindError
	// ToastKindSuccess is a success toast.
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status/success toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts (longer to read).
const ErrorToastDuration = 8 * time.Second

var toastCounter atomic.Int64

// ToastExpiredMsg dismisses the toast with the matching ID. A stale ID (the
// toast was already replaced) is ignored.
type ToastExpiredMsg struct {
	ID int64
}

// Toast displays at most one notification at a time; showing a new one
// replaces the current one and restarts the dismiss timer.
type Toast struct {
	theme *styles.Theme

	id      int64
	message string
	kind    ToastKind
	visible bool
}

// NewToast creates an empty toast display.
func NewToast(theme *styles.Theme) Toast {
	return Toast{theme: theme}
}

// ShowSuccess displays a success message and returns the dismiss command.
func (t *Toast) ShowSuccess(message string) tea.Cmd {
	return t.show(message, ToastKindSuccess, DefaultToastDuration)
}

// ShowError displays an error message and returns the dismiss command.
func (t *Toast) ShowError(message string) tea.Cmd {
	return t.show(message, ToastKindError, ErrorToastDuration)
}

// ShowStatus displays an informational message and returns the dismiss command.
func (t *Toast) ShowStatus(message string) tea.Cmd {
	return t.show(message, ToastKindStatus, DefaultToastDuration)
}

func (t *Toast) show(message string, kind ToastKind, d time.Duration) tea.Cmd {
	t.id = toastCounter.Add(1)
	t.message = message
	t.kind = kind
	t.visible = true

	id := t.id
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Update handles dismiss messages.
func (t Toast) Update(msg tea.Msg) Toast {
	if expired, ok := msg.(ToastExpiredMsg); ok && expired.ID == t.id {
		t.visible = false
	}
	return t
}

// Visible reports whether a toast is currently shown.
func (t Toast) Visible() bool {
	return t.visible
}

// View renders the toast, right-aligned within width. Empty when hidden.
func (t Toast) View(width int) string {
	if !t.visible {
		return ""
	}

	var style lipgloss.Style
	var icon string
	switch t.kind {
	case ToastKindError:
		style = t.theme.ToastError
		icon = styles.StatusIndicators.Error
	case ToastKindSuccess:
		style = t.theme.ToastSuccess
		icon = styles.StatusIndicators.Success
	default:
		style = t.theme.ToastStatus
		icon = styles.StatusIndicators.Pending
	}

	box := style.Render(icon + " " + t.message)
	if width <= lipgloss.Width(box) {
		return box
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, box)
}
