// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the LineAdmin user-management API.
//
// The API is an external collaborator: this package owns transport, request
// shaping, and error categorization, nothing else. Authorization context
// (the bearer token) is installed by the auth manager via SetToken.
//
// Error handling distinguishes transport failures (*ClientError with
// connection/timeout types, sentinel ErrUnreachable/ErrTimeout) from
// server-side rejections (success=false bodies, surfaced as ErrTypeRejected
// with the server's message). Login is special: a credential rejection is a
// successful call returning Success=false.
package api
