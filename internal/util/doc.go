// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the lineadmin TUI.
//
// String helpers are width-aware (via go-runewidth) so table cells and
// status lines line up even with double-width characters. File helpers
// provide crash-safe atomic writes used by the session store and config.
package util
