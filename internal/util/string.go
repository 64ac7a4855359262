// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the lineadmin TUI.
package util

import (
	"github.com/mattn/go-runewidth"
)

// TruncateWidth truncates a string to a maximum display width, appending
// "..." when something was cut. Width is measured in terminal cells, so
// double-width (CJK, Thai fullwidth) characters count as 2 columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads a string with spaces to the given display width.
// Strings wider than the target are returned unchanged.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// StringWidth returns the display width of a string in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// RuneLen returns the number of runes (characters) in a string.
// This is safer than len() for UTF-8 strings.
func RuneLen(s string) int {
	return len([]rune(s))
}
