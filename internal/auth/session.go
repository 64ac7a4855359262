// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the client-side authentication session.
package auth

import (
	"github.com/jeranaias/lineadmin-tui/internal/api"
)

// Session pairs the opaque server token with the signed-in user record.
// A Session is either fully present (both fields set) or absent (nil);
// partial state read back from storage is treated as absent and forces
// re-login.
type Session struct {
	Token string
	User  api.UserRecord
}

// valid reports whether the session satisfies the all-or-nothing invariant.
func (s *Session) valid() bool {
	return s != nil && s.Token != "" && s.User.ID != ""
}
