// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the LineAdmin user-management API.
package api

import "time"

// Role is the two-value authorization role carried by every user record.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Valid reports whether the role is one of the two known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// UserRecord is the canonical user representation on the wire.
// The id field is the single identity key; clients must not fall back to
// username comparison when matching records.
type UserRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserRequest is the body for POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UpdateUserRequest is the body for PUT /api/users/{id}.
// Password is omitted from the payload when the operator left it blank,
// meaning "keep the current password".
type UpdateUserRequest struct {
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// LoginResponse is the body returned by POST /api/auth/login.
// Success=false carries a user-displayable message.
type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    *UserRecord `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ListUsersResponse is the body returned by GET /api/users.
type ListUsersResponse struct {
	Success bool         `json:"success"`
	Users   []UserRecord `json:"users"`
	Message string       `json:"message,omitempty"`
}

// MutationResponse is the common shape of create/update/delete responses.
type MutationResponse struct {
	Success bool        `json:"success"`
	User    *UserRecord `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}
