// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the parley TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application. It detects
// the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	Palette Palette

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App    lipgloss.Style
	Header lipgloss.Style

	// ==========================================================================
	// TAB BAR STYLES
	// ==========================================================================

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarFocused   lipgloss.Style
	SectionHeader    lipgloss.Style
	ConvRow          lipgloss.Style
	ConvRowSelected  lipgloss.Style
	ConvRowCursor    lipgloss.Style
	ConvRowDragging  lipgloss.Style
	DropTarget       lipgloss.Style
	SidebarHint      lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	SystemLabel    lipgloss.Style
	MessageBody    lipgloss.Style
	ImageNote      lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputLine   lipgloss.Style
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	Spinner     lipgloss.Style
	ErrorBanner lipgloss.Style
}

// NewTheme creates a theme for the named palette ("dark" or "light"),
// detecting the terminal's capabilities.
func NewTheme(name string) *Theme {
	profile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
		Palette:      PaletteFor(name),
	}
	t.initStyles()
	return t
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

func (t *Theme) initStyles() {
	p := t.Palette

	t.App = lipgloss.NewStyle()
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Padding(0, 1)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Surface).
		Background(p.Accent).
		Padding(0, 1)
	t.TabInactive = lipgloss.NewStyle().
		Foreground(p.TextDim).
		Padding(0, 1)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.Border)
	t.SidebarFocused = t.Sidebar.BorderForeground(p.Accent)
	t.SectionHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)
	t.ConvRow = lipgloss.NewStyle().
		Foreground(p.Text)
	t.ConvRowSelected = lipgloss.NewStyle().
		Foreground(p.Accent)
	t.ConvRowCursor = lipgloss.NewStyle().
		Foreground(p.Surface).
		Background(p.Accent)
	t.ConvRowDragging = lipgloss.NewStyle().
		Foreground(p.Warning).
		Italic(true)
	t.DropTarget = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)
	t.SidebarHint = lipgloss.NewStyle().
		Foreground(p.TextDim).
		Italic(true)

	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.User)
	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Assistant)
	t.SystemLabel = lipgloss.NewStyle().
		Foreground(p.System).
		Italic(true)
	t.MessageBody = lipgloss.NewStyle().
		Foreground(p.Text)
	t.ImageNote = lipgloss.NewStyle().
		Foreground(p.Warning)

	t.InputLine = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(p.TextDim).
		Background(p.SurfaceDim).
		Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.SurfaceDim)
	t.Spinner = lipgloss.NewStyle().
		Foreground(p.Accent)
	t.ErrorBanner = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Error)
}
