// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lineadmin.
//
// Precedence, lowest to highest: built-in defaults, ~/.lineadmin/config.toml,
// LINEADMIN_* environment variables. The process-wide instance is reached
// through Global(); the optional Watcher hot-reloads it when the file
// changes on disk.
package config
