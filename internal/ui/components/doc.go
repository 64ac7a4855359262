// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the lineadmin TUI:
// the header, the status bar with key hints, and auto-dismissing toast
// notifications.
package components
