// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/orchestrator"
	"github.com/parley-ai/parley/internal/store"
	"github.com/parley-ai/parley/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateWaiting                // Prompt sent, no tokens yet
	StateStreaming              // Receiving streaming deltas
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the message pane of one context. It
// reads the selected conversation from the store and sends prompts through
// the orchestrator; replies land in the store and arrive here as EventMsg.
type Model struct {
	state State
	theme *styles.Theme
	cfg   *config.Config

	convs *store.Conversations
	orch  *orchestrator.Orchestrator
	ctx   model.Context

	width  int
	height int

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	keyMap   KeyMap

	// streamText is the accumulated partial of an in-flight streaming
	// reply; the finished reply lives in the store, not here.
	streamText string
}

// New creates a chat model for the chat context.
func New(theme *styles.Theme, cfg *config.Config, convs *store.Conversations, orch *orchestrator.Orchestrator) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	m := Model{
		state:    StateReady,
		theme:    theme,
		cfg:      cfg,
		convs:    convs,
		orch:     orch,
		ctx:      model.ContextChat,
		viewport: vp,
		input:    ti,
		spinner:  sp,
		keyMap:   DefaultKeyMap(),
	}
	m.refreshViewport()
	return m
}

// Context returns the context the view is showing.
func (m *Model) Context() model.Context { return m.ctx }

// SetContext switches the view to another context.
func (m *Model) SetContext(ctx model.Context) {
	m.ctx = ctx
	m.streamText = ""
	m.state = StateReady
	if ctx == model.ContextImage {
		m.input.Placeholder = "Describe an image..."
	} else {
		m.input.Placeholder = "Type a message..."
	}
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// Refresh re-projects the selected conversation into the viewport,
// keeping any in-flight exchange state.
func (m *Model) Refresh() {
	m.refreshViewport()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		return m.handleEvent(msg.Event)

	case spinner.TickMsg:
		if m.state == StateWaiting || m.state == StateStreaming {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// header + input line + status line
	const reserved = 5
	vpHeight := m.height - reserved
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight

	inputWidth := m.width - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(m.width-4, 100)),
	); err == nil {
		m.renderer = r
	}

	m.refreshViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		if m.state != StateReady {
			m.orch.CancelContext(m.ctx)
			m.state = StateReady
			m.streamText = ""
			m.refreshViewport()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input line through the orchestrator. In the image
// context the prompt is wrapped as an image generation request so the
// orchestrator routes it to the image endpoint.
func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.convs.SelectedID(m.ctx) == "" {
		return m, nil
	}

	prompt := text
	if m.ctx == model.ContextImage {
		encoded, err := model.EncodeImageRequest(model.ImageRequestPayload{Prompt: text})
		if err == nil {
			prompt = encoded
		}
	}

	m.orch.Send(context.Background(), m.ctx, prompt)
	m.input.Reset()
	m.state = StateWaiting
	m.streamText = ""
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, m.spinner.Tick
}

func (m Model) handleEvent(e orchestrator.Event) (Model, tea.Cmd) {
	if e.Context != m.ctx {
		// Another context's exchange; its error is read live from the
		// orchestrator when that context is shown.
		return m, nil
	}

	switch e.Kind {
	case orchestrator.EventDelta:
		m.state = StateStreaming
		m.streamText = e.Text
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case orchestrator.EventDone:
		m.state = StateReady
		m.streamText = ""
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case orchestrator.EventError:
		m.state = StateReady
		m.streamText = ""
		m.refreshViewport()
		return m, nil
	}
	return m, nil
}

// Busy reports whether an exchange is in flight for this context.
func (m *Model) Busy() bool { return m.state != StateReady }
