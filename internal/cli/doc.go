// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and the non-TUI commands of the
// lineadmin binary: login, logout, status, users, serve, config and version.
//
// The TUI itself lives under internal/ui; main dispatches to it when no
// command is given.
package cli
