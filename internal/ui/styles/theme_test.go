// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestPaletteFor(t *testing.T) {
	if PaletteFor("light") != LightPalette {
		t.Error("light name must select the light palette")
	}
	if PaletteFor("dark") != DarkPalette {
		t.Error("dark name must select the dark palette")
	}
	if PaletteFor("no-such-theme") != DarkPalette {
		t.Error("unknown names must fall back to dark")
	}
}

func TestNewTheme(t *testing.T) {
	theme := NewTheme("dark")
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
	if theme.Palette != DarkPalette {
		t.Error("theme did not adopt the requested palette")
	}

	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize = %dx%d, want 120x40", theme.Width, theme.Height)
	}
}
