// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dnd

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/store"
)

// =============================================================================
// DRAG GESTURE ENGINE
// =============================================================================

// Session is the transient state of one drag gesture, from start to
// drop or cancel. It replaces the ambient tracking a pointer-driven UI
// might otherwise scatter across handlers: every handler receives the
// session, nothing reads globals.
type Session struct {
	ID      uuid.UUID
	Context model.Context
	Payload Payload
	Started time.Time

	// Hover is the candidate target last crossed by the pointer. It is a
	// highlight concern only; state changes happen exclusively at drop.
	Hover *Target
}

// Engine owns the drag state machine for the sidebar: Idle until a start,
// Dragging until the drop or cancel that commits at most one mutation and
// always returns to Idle. A second start while dragging abandons the first
// gesture, so a missed drop event can never wedge the machine.
type Engine struct {
	convs *store.Conversations
	secs  *store.Sections
	log   *zap.Logger

	mu      sync.Mutex
	session *Session
}

// NewEngine creates an idle engine over the two stores.
func NewEngine(convs *store.Conversations, secs *store.Sections, log *zap.Logger) *Engine {
	return &Engine{convs: convs, secs: secs, log: log}
}

// Dragging reports whether a gesture is in flight.
func (e *Engine) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// Session returns a copy of the in-flight session, nil while idle. The
// copy is for display; mutating it affects nothing.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	copied := *e.session
	return &copied
}

// Start begins a gesture for the given payload. Any in-flight gesture is
// discarded first.
func (e *Engine) Start(ctx model.Context, p Payload) (*Session, error) {
	if !p.Kind.Valid() || p.ID == "" {
		return nil, ErrMalformedPayload
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.log.Debug("drag restarted mid-gesture, abandoning previous session",
			zap.String("session", e.session.ID.String()))
	}
	e.session = &Session{
		ID:      uuid.New(),
		Context: ctx,
		Payload: p,
		Started: time.Now(),
	}
	return e.session, nil
}

// HoverTarget records the candidate drop zone under the pointer so the UI
// can highlight it. No state is mutated. Ignored while idle.
func (e *Engine) HoverTarget(t Target) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return
	}
	e.session.Hover = &t
}

// Cancel ends the gesture without committing anything.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = nil
}

// Drop completes the gesture on the given target, committing at most one
// mutation, and returns what it resolved to. A drop while idle resolves
// to nothing. The engine is back in Idle when Drop returns, whatever
// happened.
func (e *Engine) Drop(t Target) Mutation {
	e.mu.Lock()
	session := e.session
	e.session = nil
	e.mu.Unlock()

	if session == nil {
		e.log.Debug("drop with no drag in flight, ignoring")
		return NoOp{Reason: "no drag in flight"}
	}

	m := Resolve(session.Payload, t)
	return e.commit(session.Context, m)
}

// commit validates the mutation's ids against live state and applies it.
// Unresolvable ids degrade to NoOp with a diagnostic; they never error.
func (e *Engine) commit(ctx model.Context, m Mutation) Mutation {
	switch mut := m.(type) {
	case MoveConversationAfter:
		if !e.conversationExists(ctx, mut.Dragged) || !e.conversationExists(ctx, mut.Target) {
			return e.declined(ctx, "reorder target vanished", m)
		}
		e.convs.MoveAfter(ctx, mut.Dragged, mut.Target)

	case AssignSection:
		if !e.conversationExists(ctx, mut.Conversation) {
			return e.declined(ctx, "dragged conversation vanished", m)
		}
		if mut.Section != "" && !e.secs.Exists(ctx, mut.Section) {
			return e.declined(ctx, "target section vanished", m)
		}
		e.convs.SetSection(ctx, mut.Conversation, mut.Section)

	case MoveSectionToTop:
		if !e.secs.Exists(ctx, mut.Section) {
			return e.declined(ctx, "dragged section vanished", m)
		}
		e.secs.MoveToTop(ctx, mut.Section)

	case MoveSectionTo:
		if !e.secs.Exists(ctx, mut.Dragged) || !e.secs.Exists(ctx, mut.Target) {
			return e.declined(ctx, "section reorder target vanished", m)
		}
		e.secs.MoveTo(ctx, mut.Dragged, mut.Target)

	case NoOp:
		e.log.Debug("drop resolved to nothing",
			zap.String("context", ctx.String()), zap.String("reason", mut.Reason))
	}
	return m
}

func (e *Engine) declined(ctx model.Context, reason string, m Mutation) Mutation {
	e.log.Warn("drop declined",
		zap.String("context", ctx.String()),
		zap.String("reason", reason),
		zap.Any("mutation", m))
	return NoOp{Reason: reason}
}

func (e *Engine) conversationExists(ctx model.Context, id string) bool {
	_, ok := e.convs.Get(ctx, id)
	return ok
}
