// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/lineadmin-tui/internal/ui/styles"
)

func TestToast_ShowAndExpire(t *testing.T) {
	theme := styles.NewTheme()
	toast := NewToast(theme)

	cmd := toast.ShowSuccess("User created")
	if cmd == nil {
		t.Fatal("ShowSuccess must return a dismiss command")
	}
	if !toast.Visible() {
		t.Fatal("toast not visible after show")
	}
	if !strings.Contains(toast.View(80), "User created") {
		t.Error("toast view missing message")
	}

	// The dismiss command carries the toast's ID.
	msg := cmd()
	expired, ok := msg.(ToastExpiredMsg)
	if !ok {
		t.Fatalf("dismiss command produced %T", msg)
	}

	toast = toast.Update(expired)
	if toast.Visible() {
		t.Error("toast still visible after its expiry message")
	}
}

func TestToast_StaleExpiryIgnored(t *testing.T) {
	theme := styles.NewTheme()
	toast := NewToast(theme)

	first := toast.ShowError("first")
	staleMsg := first()
	_ = toast.ShowSuccess("second") // replaces the first toast

	toast = toast.Update(staleMsg)
	if !toast.Visible() {
		t.Error("stale expiry dismissed the replacement toast")
	}
	if !strings.Contains(toast.View(80), "second") {
		t.Error("replacement toast lost its message")
	}
}

func TestStatusBar_View(t *testing.T) {
	theme := styles.NewTheme()
	bar := NewStatusBar(theme)
	bar.Width = 60
	bar.SetIdentity("Admin", "Admin")

	out := bar.View([]Shortcut{{Key: "q", Desc: "quit"}})
	if !strings.Contains(out, "Admin") {
		t.Error("status bar missing identity")
	}
	if !strings.Contains(out, "quit") {
		t.Error("status bar missing shortcut hint")
	}
}

func TestHeader_View(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)
	h.Width = 60
	h.Context = "users"

	if !strings.Contains(h.View(), Brand) {
		t.Error("header missing brand")
	}
}
