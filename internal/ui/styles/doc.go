// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the lineadmin TUI.
//
// The palette mirrors the product's dark monochrome register: black
// surfaces, white accents, red only for danger (errors, the Admin tag, the
// forced-logout countdown). Colors are lipgloss AdaptiveColor values so the
// same styles degrade sensibly on light terminals; Theme probes the terminal
// once through termenv.
package styles
