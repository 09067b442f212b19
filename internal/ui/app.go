// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/dnd"
	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/orchestrator"
	"github.com/parley-ai/parley/internal/store"
	"github.com/parley-ai/parley/internal/ui/chat"
	"github.com/parley-ai/parley/internal/ui/components"
	"github.com/parley-ai/parley/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus identifies which pane receives key input.
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// =============================================================================
// APP MODEL
// =============================================================================

// App is the top-level Bubble Tea model: the context tab bar, the sidebar
// and the chat pane, with focus switching between the last two.
type App struct {
	theme   *styles.Theme
	cfg     *config.Config
	convs   *store.Conversations
	sidebar *components.Sidebar
	chat    chat.Model

	ctx    model.Context
	focus  Focus
	width  int
	height int
}

// NewApp assembles the top-level model over already-constructed stores,
// engine and orchestrator.
func NewApp(cfg *config.Config, convs *store.Conversations, secs *store.Sections, engine *dnd.Engine, orch *orchestrator.Orchestrator) App {
	theme := styles.NewTheme(cfg.UI.Theme)
	return App{
		theme:   theme,
		cfg:     cfg,
		convs:   convs,
		sidebar: components.NewSidebar(convs, secs, engine, theme),
		chat:    chat.New(theme, cfg, convs, orch),
		ctx:     model.ContextChat,
		focus:   FocusChat,
	}
}

// Init initializes the model.
func (a App) Init() tea.Cmd {
	return a.chat.Init()
}

// Update handles messages and updates the model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case StoreReloadedMsg:
		// Stores were reloaded from disk behind our back; the next View
		// re-reads them, the chat pane just needs to re-project.
		a.chat.Refresh()
		return a, nil

	case chat.EventMsg:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

func (a App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	a.theme.SetSize(msg.Width, msg.Height)

	sw := a.sidebarWidth()
	a.sidebar.SetSize(sw, a.height-2)

	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(tea.WindowSizeMsg{
		Width:  a.width - sw,
		Height: a.height - 1, // tab bar
	})
	return a, cmd
}

func (a App) sidebarWidth() int {
	sw := 30
	if a.width > 0 && sw > a.width/3 {
		sw = a.width / 3
	}
	if sw < 16 {
		sw = 16
	}
	return sw
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Emergency exit works in any state.
	if keyStr == "ctrl+q" {
		return a, tea.Quit
	}

	// Focus and context switches apply unless the sidebar is capturing
	// text for a rename.
	if !a.sidebar.Renaming() {
		switch keyStr {
		case "tab":
			if !a.sidebar.Moving() {
				a.toggleFocus()
				return a, nil
			}
		case "ctrl+t":
			a.setContext(components.NextContext(a.ctx))
			return a, nil
		}
	}

	if a.focus == FocusSidebar {
		switch keyStr {
		case "q":
			if !a.sidebar.Renaming() && !a.sidebar.Moving() {
				return a, tea.Quit
			}
		case "]":
			if !a.sidebar.Renaming() {
				a.setContext(components.NextContext(a.ctx))
				return a, nil
			}
		case "[":
			if !a.sidebar.Renaming() {
				a.setContext(components.PrevContext(a.ctx))
				return a, nil
			}
		}
		cmd := a.sidebar.Update(msg)
		// Selection or title changes re-project the chat pane.
		a.chat.Refresh()
		return a, cmd
	}

	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

func (a *App) toggleFocus() {
	if a.focus == FocusSidebar {
		a.focus = FocusChat
	} else {
		a.focus = FocusSidebar
	}
}

func (a *App) setContext(ctx model.Context) {
	a.ctx = ctx
	a.sidebar.SetContext(ctx)
	a.chat.SetContext(ctx)
}

// View renders the full application frame.
func (a App) View() string {
	if a.width == 0 {
		return "starting..."
	}
	tabs := components.RenderTabs(a.theme, a.ctx)
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.sidebar.View(a.focus == FocusSidebar),
		a.chat.View(),
	)
	return tabs + "\n" + body
}

// =============================================================================
// EVENT DISPATCH
// =============================================================================

// Dispatcher routes orchestrator events into the running program. The
// orchestrator needs a notify function before the program exists, so the
// dispatcher is created first and bound to the program once it is built.
// StoreReloadedMsg signals that the conversation and section stores were
// reloaded from disk, typically after an external edit to the data files.
type StoreReloadedMsg struct{}

type Dispatcher struct {
	mu      sync.Mutex
	program *tea.Program
}

// Bind attaches the running program. Events arriving before Bind are
// dropped; nothing is in flight that early.
func (d *Dispatcher) Bind(p *tea.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.program = p
}

// Notify is the orchestrator notification hook.
func (d *Dispatcher) Notify(e orchestrator.Event) {
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()
	if p != nil {
		p.Send(chat.EventMsg{Event: e})
	}
}
