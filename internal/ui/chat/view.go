// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/parley-ai/parley/internal/model"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat view: header, message viewport, input line and
// status line.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	b.WriteByte('\n')
	b.WriteString(m.theme.InputLine.Width(max(m.width-2, 10)).Render(m.input.View()))
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m Model) renderHeader() string {
	title := "No conversation"
	if conv, ok := m.convs.Get(m.ctx, m.convs.SelectedID(m.ctx)); ok {
		title = conv.Title
	}
	return m.theme.Header.Render(title)
}

func (m Model) renderStatus() string {
	if errText := m.orch.Err(m.ctx); errText != "" {
		return m.theme.ErrorBanner.Render("error: " + errText)
	}
	switch m.state {
	case StateWaiting:
		return m.theme.Spinner.Render(m.spinner.View() + " waiting for " + m.cfg.Provider.Name)
	case StateStreaming:
		return m.theme.Spinner.Render(m.spinner.View() + " streaming")
	}
	return m.theme.StatusBar.Render("Enter send · Esc cancel · PgUp/PgDn scroll")
}

// refreshViewport re-renders the selected conversation into the viewport.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderMessages())
}

func (m *Model) renderMessages() string {
	conv, ok := m.convs.Get(m.ctx, m.convs.SelectedID(m.ctx))
	if !ok {
		return m.theme.SystemLabel.Render("No conversation selected.")
	}

	var b strings.Builder
	for _, msg := range conv.Messages {
		if msg.Role == model.RoleSystem {
			continue
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteByte('\n')
	}

	if m.state == StateStreaming && m.streamText != "" {
		b.WriteString(m.theme.AssistantLabel.Render("Assistant"))
		b.WriteByte('\n')
		b.WriteString(m.theme.MessageBody.Render(m.streamText))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) renderMessage(msg model.Message) string {
	var label string
	switch msg.Role {
	case model.RoleUser:
		label = m.theme.UserLabel.Render("You")
	case model.RoleAssistant:
		label = m.theme.AssistantLabel.Render("Assistant")
	default:
		label = m.theme.SystemLabel.Render(msg.Role.DisplayName())
	}
	return label + "\n" + m.renderBody(msg) + "\n"
}

func (m *Model) renderBody(msg model.Message) string {
	switch p := msg.Payload().(type) {
	case model.ImageRequestPayload:
		return m.theme.ImageNote.Render("⟐ image request: " + p.Prompt)

	case model.ImageResultPayload:
		var lines []string
		lines = append(lines, m.theme.ImageNote.Render(
			fmt.Sprintf("⟐ %d image(s) for: %s", len(p.Images), p.Prompt)))
		for _, img := range p.Images {
			switch {
			case img.URL != "":
				lines = append(lines, m.theme.MessageBody.Render("  "+img.URL))
			case img.B64JSON != "":
				lines = append(lines, m.theme.MessageBody.Render(
					fmt.Sprintf("  [inline image, %d bytes base64]", len(img.B64JSON))))
			}
		}
		return strings.Join(lines, "\n")

	case model.SystemDirectivePayload:
		return m.theme.SystemLabel.Render(p.Prompt)
	}

	// Markdown rendering for assistant replies, plain text otherwise.
	if msg.Role == model.RoleAssistant && m.cfg.UI.RenderMarkdown && m.renderer != nil {
		if out, err := m.renderer.Render(msg.Content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return m.theme.MessageBody.Render(msg.Content)
}
