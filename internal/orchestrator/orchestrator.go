// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/provider"
	"github.com/parley-ai/parley/internal/store"
)

// =============================================================================
// PROVIDER SURFACE
// =============================================================================

// Provider is the narrow slice of the provider client the orchestrator
// needs. *provider.Client satisfies it; tests substitute fakes.
type Provider interface {
	Chat(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error)
	ChatStream(ctx context.Context, req provider.ChatRequest, callback provider.StreamCallback) error
	GenerateImages(ctx context.Context, req provider.ImageRequest) (*provider.ImageResponse, error)
}

// =============================================================================
// EVENTS
// =============================================================================

// EventKind classifies what an Event reports.
type EventKind int

const (
	// EventDelta carries a streaming partial; Text is the accumulated
	// content so far.
	EventDelta EventKind = iota
	// EventDone marks a completed exchange whose reply is in the store.
	EventDone
	// EventError marks a failed exchange; the error string is also
	// retained per context, see Err.
	EventError
)

// Event describes progress on an in-flight exchange, tagged with the
// context and conversation captured when the prompt was sent.
type Event struct {
	Kind           EventKind
	Context        model.Context
	ConversationID string
	Text           string
	Err            error
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator dispatches prompts to the provider and lands replies back
// in the conversation store.
//
// The destination is captured at send time: a reply is appended to the
// conversation the prompt left from, not whichever conversation is
// selected when the response arrives. If that conversation was deleted
// in the meantime the reply is dropped.
//
// Errors are kept per context, so a failed image generation does not
// blank out the chat view and vice versa.
type Orchestrator struct {
	convs  *store.Conversations
	client Provider
	cfg    *config.Config
	log    *zap.Logger
	notify func(Event)

	mu       sync.Mutex
	errs     map[model.Context]string
	inflight map[model.Context]context.CancelFunc
	wg       sync.WaitGroup
}

// New creates an orchestrator. notify is invoked from worker goroutines
// for every event; pass nil to disable notifications.
func New(convs *store.Conversations, client Provider, cfg *config.Config, log *zap.Logger, notify func(Event)) *Orchestrator {
	if notify == nil {
		notify = func(Event) {}
	}
	return &Orchestrator{
		convs:    convs,
		client:   client,
		cfg:      cfg,
		log:      log,
		notify:   notify,
		errs:     make(map[model.Context]string),
		inflight: make(map[model.Context]context.CancelFunc),
	}
}

// Err returns the retained error string for a context, empty if the last
// exchange there succeeded.
func (o *Orchestrator) Err(ctx model.Context) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errs[ctx]
}

// Send records the prompt in the selected conversation of the given
// context and dispatches it to the provider asynchronously. A prompt sent
// while the context already has an exchange in flight cancels the earlier
// one; rapid repeated sends collapse to the latest.
func (o *Orchestrator) Send(ctx context.Context, ictx model.Context, prompt string) {
	// Capture the destination now. Selection may move before the
	// response arrives.
	conversationID := o.convs.SelectedID(ictx)
	if conversationID == "" {
		o.log.Warn("send with no selected conversation", zap.String("context", ictx.String()))
		return
	}

	o.convs.AppendMessage(ictx, conversationID, model.RoleUser, prompt)

	runCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	if prev, ok := o.inflight[ictx]; ok {
		prev()
	}
	o.inflight[ictx] = cancel
	delete(o.errs, ictx)
	o.mu.Unlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer cancel()
		o.run(runCtx, ictx, conversationID)
	}()
}

// Wait blocks until every in-flight exchange has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// CancelContext aborts the in-flight exchange for a context, if any.
func (o *Orchestrator) CancelContext(ictx model.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if cancel, ok := o.inflight[ictx]; ok {
		cancel()
		delete(o.inflight, ictx)
	}
}

// run executes one exchange end to end.
func (o *Orchestrator) run(ctx context.Context, ictx model.Context, conversationID string) {
	conv, ok := o.convs.Get(ictx, conversationID)
	if !ok {
		o.log.Info("conversation deleted before dispatch",
			zap.String("context", ictx.String()), zap.String("id", conversationID))
		return
	}

	last, ok := conv.LastMessage()
	if !ok || last.Role != model.RoleUser {
		o.log.Warn("nothing to dispatch", zap.String("id", conversationID))
		return
	}

	var reply string
	var err error
	if last.IsImageRequest() {
		reply, err = o.runImage(ctx, last.Content)
	} else {
		reply, err = o.runChat(ctx, ictx, conv)
	}

	if err != nil {
		if ctx.Err() != nil {
			// Superseded or cancelled; nothing to report.
			return
		}
		o.fail(ictx, conversationID, err)
		return
	}
	o.land(ictx, conversationID, reply)
}

// runChat performs a chat completion over the conversation's message log,
// streaming when configured.
func (o *Orchestrator) runChat(ctx context.Context, ictx model.Context, conv model.Conversation) (string, error) {
	req := provider.ChatRequest{
		Model:       o.cfg.Chat.Model,
		Messages:    toWire(conv.Messages),
		Temperature: o.cfg.Chat.Temperature,
		TopP:        o.cfg.Chat.TopP,
		MaxTokens:   o.cfg.Chat.MaxTokens,
	}

	if o.cfg.Chat.Stream {
		var accumulated string
		err := o.client.ChatStream(ctx, req, func(chunk provider.StreamChunk) {
			accumulated += chunk.GetContent()
			o.notify(Event{
				Kind:           EventDelta,
				Context:        ictx,
				ConversationID: conv.ID,
				Text:           accumulated,
			})
		})
		if err != nil {
			return "", err
		}
		return accumulated, nil
	}

	resp, err := o.client.Chat(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.GetContent(), nil
}

// runImage performs an image generation and packages the result into the
// image-result message encoding.
func (o *Orchestrator) runImage(ctx context.Context, content string) (string, error) {
	req, err := model.DecodeImageRequest(content)
	if err != nil {
		return "", fmt.Errorf("unreadable image request: %w", err)
	}

	imgReq := provider.ImageRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Size:    req.Size,
		Quality: req.Quality,
		Style:   req.Style,
		N:       req.N,
	}
	if imgReq.Model == "" {
		imgReq.Model = o.cfg.Image.Model
	}
	if imgReq.Size == "" {
		imgReq.Size = o.cfg.Image.Size
	}
	if imgReq.N == 0 {
		imgReq.N = o.cfg.Image.Count
	}

	resp, err := o.client.GenerateImages(ctx, imgReq)
	if err != nil {
		return "", err
	}

	images := make([]model.GeneratedImage, len(resp.Data))
	for i, img := range resp.Data {
		images[i] = model.GeneratedImage{URL: img.URL, B64JSON: img.B64JSON}
	}
	return model.EncodeImageResult(model.ImageResultPayload{
		Prompt: req.Prompt,
		Images: images,
	})
}

// land appends a successful reply to its captured destination. A deleted
// conversation swallows the reply.
func (o *Orchestrator) land(ictx model.Context, conversationID, reply string) {
	o.clearInflight(ictx)

	if _, ok := o.convs.Get(ictx, conversationID); !ok {
		o.log.Info("conversation deleted before response arrived, dropping reply",
			zap.String("context", ictx.String()), zap.String("id", conversationID))
		return
	}
	o.convs.AppendMessage(ictx, conversationID, model.RoleAssistant, reply)
	o.notify(Event{
		Kind:           EventDone,
		Context:        ictx,
		ConversationID: conversationID,
		Text:           reply,
	})
}

// fail records a per-context error string.
func (o *Orchestrator) fail(ictx model.Context, conversationID string, err error) {
	o.clearInflight(ictx)

	o.log.Warn("exchange failed",
		zap.String("context", ictx.String()),
		zap.String("id", conversationID),
		zap.Error(err))

	o.mu.Lock()
	o.errs[ictx] = err.Error()
	o.mu.Unlock()

	o.notify(Event{
		Kind:           EventError,
		Context:        ictx,
		ConversationID: conversationID,
		Err:            err,
	})
}

func (o *Orchestrator) clearInflight(ictx model.Context) {
	o.mu.Lock()
	delete(o.inflight, ictx)
	o.mu.Unlock()
}

// toWire converts stored messages to the provider wire format.
func toWire(messages []model.Message) []provider.ChatMessage {
	wire := make([]provider.ChatMessage, len(messages))
	for i, m := range messages {
		wire[i] = provider.ChatMessage{Role: string(m.Role), Content: m.Content}
	}
	return wire
}
