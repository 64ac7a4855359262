// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the client-side authentication session.
//
// A single Manager per process holds the in-memory Session, keeps it
// consistent with the durable copy in internal/store after every mutation,
// and exposes the derived predicates (IsAuthenticated, IsAdmin) that the
// access gate and views consume. Session mutation happens only through
// Initialize, Login, and Logout; everything else is a read.
package auth
