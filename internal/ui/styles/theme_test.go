// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// Styles must render without panicking even on a dumb terminal.
	_ = theme.HeaderTitle.Render("LineAdmin")
	_ = theme.CountdownDigit.Render("3")
	_ = theme.ToastError.Render("boom")
}

func TestRoleTag(t *testing.T) {
	theme := NewTheme()

	admin := theme.RoleTag("Admin")
	if !strings.Contains(admin, "Admin") {
		t.Errorf("RoleTag(Admin) lost label: %q", admin)
	}
	user := theme.RoleTag("User")
	if !strings.Contains(user, "User") {
		t.Errorf("RoleTag(User) lost label: %q", user)
	}
}
