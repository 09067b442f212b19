// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/orchestrator"
	"github.com/parley-ai/parley/internal/provider"
	"github.com/parley-ai/parley/internal/storage"
	"github.com/parley-ai/parley/internal/store"
	"github.com/parley-ai/parley/internal/ui/styles"
)

type stubProvider struct {
	reply string
}

func (s *stubProvider) Chat(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	var resp provider.ChatResponse
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": s.reply}},
		},
	})
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *stubProvider) ChatStream(ctx context.Context, req provider.ChatRequest, cb provider.StreamCallback) error {
	return errors.New("streaming disabled in tests")
}

func (s *stubProvider) GenerateImages(ctx context.Context, req provider.ImageRequest) (*provider.ImageResponse, error) {
	return &provider.ImageResponse{
		Data: []provider.GeneratedImage{{URL: "https://example.test/out.png"}},
	}, nil
}

func newTestChat(t *testing.T) (Model, *store.Conversations, *orchestrator.Orchestrator) {
	t.Helper()
	kv := storage.NewMemKV()
	log := zap.NewNop()
	convs := store.NewConversations(kv, log)

	cfg := config.Default()
	cfg.Chat.Stream = false

	orch := orchestrator.New(convs, &stubProvider{reply: "stub reply"}, cfg, log, nil)
	m := New(styles.NewTheme("dark"), cfg, convs, orch)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, convs, orch
}

func TestSubmitSendsAndLandsReply(t *testing.T) {
	m, convs, orch := newTestChat(t)

	m.input.SetValue("hello there")
	m, _ = m.submit()
	assert.Equal(t, StateWaiting, m.state)

	orch.Wait()

	conv, ok := convs.Get(model.ContextChat, convs.SelectedID(model.ContextChat))
	require.True(t, ok)
	last, ok := conv.LastMessage()
	require.True(t, ok)
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Equal(t, "stub reply", last.Content)
}

func TestSubmitInImageContextEncodesRequest(t *testing.T) {
	m, convs, orch := newTestChat(t)
	m.SetContext(model.ContextImage)

	m.input.SetValue("a red fox")
	m, _ = m.submit()
	orch.Wait()

	conv, ok := convs.Get(model.ContextImage, convs.SelectedID(model.ContextImage))
	require.True(t, ok)
	require.GreaterOrEqual(t, conv.MessageCount(), 2)

	var sawRequest, sawResult bool
	for _, msg := range conv.Messages {
		if msg.IsImageRequest() {
			sawRequest = true
		}
		if msg.IsImageResult() {
			sawResult = true
		}
	}
	assert.True(t, sawRequest, "prompt must be recorded as an image request")
	assert.True(t, sawResult, "reply must be recorded as an image result")
}

func TestSubmitEmptyInputIsNoOp(t *testing.T) {
	m, convs, _ := newTestChat(t)
	before, _ := convs.Get(model.ContextChat, convs.SelectedID(model.ContextChat))

	m.input.SetValue("   ")
	m, _ = m.submit()

	assert.Equal(t, StateReady, m.state)
	after, _ := convs.Get(model.ContextChat, convs.SelectedID(model.ContextChat))
	assert.Equal(t, before.MessageCount(), after.MessageCount())
}

func TestDeltaEventsAccumulateUntilDone(t *testing.T) {
	m, convs, _ := newTestChat(t)
	id := convs.SelectedID(model.ContextChat)

	m, _ = m.Update(EventMsg{Event: orchestrator.Event{
		Kind: orchestrator.EventDelta, Context: model.ContextChat, ConversationID: id, Text: "par",
	}})
	assert.Equal(t, StateStreaming, m.state)
	assert.Equal(t, "par", m.streamText)

	m, _ = m.Update(EventMsg{Event: orchestrator.Event{
		Kind: orchestrator.EventDelta, Context: model.ContextChat, ConversationID: id, Text: "partial",
	}})
	assert.Equal(t, "partial", m.streamText)

	m, _ = m.Update(EventMsg{Event: orchestrator.Event{
		Kind: orchestrator.EventDone, Context: model.ContextChat, ConversationID: id,
	}})
	assert.Equal(t, StateReady, m.state)
	assert.Empty(t, m.streamText)
}

func TestEventsForOtherContextsAreIgnored(t *testing.T) {
	m, _, _ := newTestChat(t)

	m, _ = m.Update(EventMsg{Event: orchestrator.Event{
		Kind: orchestrator.EventDelta, Context: model.ContextImage, Text: "elsewhere",
	}})
	assert.Equal(t, StateReady, m.state)
	assert.Empty(t, m.streamText)
}

func TestErrorEventReturnsToReady(t *testing.T) {
	m, _, _ := newTestChat(t)
	m.state = StateWaiting

	m, _ = m.Update(EventMsg{Event: orchestrator.Event{
		Kind: orchestrator.EventError, Context: model.ContextChat, Err: errors.New("boom"),
	}})
	assert.Equal(t, StateReady, m.state)
}

func TestSetContextSwitchesPlaceholder(t *testing.T) {
	m, _, _ := newTestChat(t)

	m.SetContext(model.ContextImage)
	assert.Equal(t, model.ContextImage, m.Context())
	assert.Contains(t, m.input.Placeholder, "image")

	m.SetContext(model.ContextChat)
	assert.Equal(t, "Type a message...", m.input.Placeholder)
}
