// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the lineadmin TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// The console keeps the monochrome register of the product: near-black
// surfaces, white accents, red reserved for danger states.

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}

// SurfaceCard - raised card background
var SurfaceCard = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#111111"}

// SurfaceInput - input field background
var SurfaceInput = lipgloss.AdaptiveColor{Light: "#EFEFEF", Dark: "#1A1A1A"}

// Border - card and table borders
var Border = lipgloss.AdaptiveColor{Light: "#D9D9D9", Dark: "#333333"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - primary foreground
var TextPrimary = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

// TextSecondary - labels, hints, de-emphasized copy
var TextSecondary = lipgloss.AdaptiveColor{Light: "#595959", Dark: "#8C8C8C"}

// TextInverted - text on a white (accent) background
var TextInverted = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Danger - errors, the forced-logout countdown, the Admin role tag
var Danger = lipgloss.AdaptiveColor{Light: "#CF1322", Dark: "#FF4D4F"}

// Info - the User role tag
var Info = lipgloss.AdaptiveColor{Light: "#0958D9", Dark: "#4096FF"}

// Success - confirmation toasts
var Success = lipgloss.AdaptiveColor{Light: "#389E0D", Dark: "#73D13D"}

// Warning - cautionary toasts
var Warning = lipgloss.AdaptiveColor{Light: "#D4B106", Dark: "#FADB14"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicators provides plain-ASCII shape markers used alongside color,
// so states stay distinguishable on monochrome terminals.
var StatusIndicators = struct {
	Success string
	Error   string
	Pending string
}{
	Success: "+",
	Error:   "x",
	Pending: "o",
}
