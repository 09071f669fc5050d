// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for sqlrun.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// COLORS
// =============================================================================

// Cyan - prompts, command names
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - success states, session names
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose - errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// TextSecondary - dimmed informational text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// =============================================================================
// STYLES
// =============================================================================

var (
	// Prompt is the style for the interactive prompt.
	Prompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	// ErrorLabel styles error message prefixes.
	ErrorLabel = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	// WarnLabel styles warning message prefixes.
	WarnLabel = lipgloss.NewStyle().Foreground(Amber)

	// Info styles secondary informational text.
	Info = lipgloss.NewStyle().Foreground(TextSecondary)

	// Header styles table headers and section titles.
	Header = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	// Success styles success indicators.
	Success = lipgloss.NewStyle().Foreground(Emerald)
)
