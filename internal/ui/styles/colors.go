// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTE
// =============================================================================

// Palette is the set of named colors a theme draws from. Dark and light
// variants keep the same roles so styles can be built once.
type Palette struct {
	Accent     lipgloss.Color
	AccentDim  lipgloss.Color
	Text       lipgloss.Color
	TextDim    lipgloss.Color
	Surface    lipgloss.Color
	SurfaceDim lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	User       lipgloss.Color
	Assistant  lipgloss.Color
	System     lipgloss.Color
}

// DarkPalette is the default palette.
var DarkPalette = Palette{
	Accent:     lipgloss.Color("#7aa2f7"),
	AccentDim:  lipgloss.Color("#3b4261"),
	Text:       lipgloss.Color("#c0caf5"),
	TextDim:    lipgloss.Color("#565f89"),
	Surface:    lipgloss.Color("#1a1b26"),
	SurfaceDim: lipgloss.Color("#16161e"),
	Border:     lipgloss.Color("#3b4261"),
	Success:    lipgloss.Color("#9ece6a"),
	Warning:    lipgloss.Color("#e0af68"),
	Error:      lipgloss.Color("#f7768e"),
	User:       lipgloss.Color("#7dcfff"),
	Assistant:  lipgloss.Color("#bb9af7"),
	System:     lipgloss.Color("#565f89"),
}

// LightPalette mirrors DarkPalette for light terminal backgrounds.
var LightPalette = Palette{
	Accent:     lipgloss.Color("#2e7de9"),
	AccentDim:  lipgloss.Color("#a8aecb"),
	Text:       lipgloss.Color("#3760bf"),
	TextDim:    lipgloss.Color("#848cb5"),
	Surface:    lipgloss.Color("#e1e2e7"),
	SurfaceDim: lipgloss.Color("#d0d5e3"),
	Border:     lipgloss.Color("#a8aecb"),
	Success:    lipgloss.Color("#587539"),
	Warning:    lipgloss.Color("#8c6c3e"),
	Error:      lipgloss.Color("#f52a65"),
	User:       lipgloss.Color("#007197"),
	Assistant:  lipgloss.Color("#7847bd"),
	System:     lipgloss.Color("#848cb5"),
}

// PaletteFor returns the palette for a configured theme name. Unknown
// names fall back to dark.
func PaletteFor(name string) Palette {
	if name == "light" {
		return LightPalette
	}
	return DarkPalette
}
