// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dnd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/storage"
	"github.com/parley-ai/parley/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Conversations, *store.Sections) {
	t.Helper()
	kv := storage.NewMemKV()
	log := zap.NewNop()
	convs := store.NewConversations(kv, log)
	secs := store.NewSections(kv, log)
	return NewEngine(convs, secs, log), convs, secs
}

func TestPayloadRoundTrip(t *testing.T) {
	p := Payload{Kind: KindConversation, ID: "c1", OriginSection: "s1"}
	got, err := DecodePayload(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "{", `{"kind":"widget","id":"x"}`, `{"kind":"conversation"}`} {
		_, err := DecodePayload(raw)
		assert.ErrorIs(t, err, ErrMalformedPayload, "raw=%q", raw)
	}
}

// ===== Resolution ============================================================

func TestResolveConversationOnConversation(t *testing.T) {
	m := Resolve(Payload{Kind: KindConversation, ID: "a"}, Target{Kind: TargetConversation, ID: "b"})
	assert.Equal(t, MoveConversationAfter{Dragged: "a", Target: "b"}, m)
}

func TestResolveConversationIntoSectionBody(t *testing.T) {
	m := Resolve(Payload{Kind: KindConversation, ID: "a"}, Target{Kind: TargetSectionBody, ID: "s1"})
	assert.Equal(t, AssignSection{Conversation: "a", Section: "s1"}, m)
}

func TestResolveConversationToUnsectionedArea(t *testing.T) {
	m := Resolve(Payload{Kind: KindConversation, ID: "a"}, Target{Kind: TargetUnsectionedArea})
	assert.Equal(t, AssignSection{Conversation: "a", Section: ""}, m)
}

func TestResolveSectionToTopZone(t *testing.T) {
	m := Resolve(Payload{Kind: KindSection, ID: "s1"}, Target{Kind: TargetTopZone})
	assert.Equal(t, MoveSectionToTop{Section: "s1"}, m)
}

func TestResolveSectionOnSection(t *testing.T) {
	m := Resolve(Payload{Kind: KindSection, ID: "s1"}, Target{Kind: TargetSection, ID: "s2"})
	assert.Equal(t, MoveSectionTo{Dragged: "s1", Target: "s2"}, m)
}

func TestResolveSectionAfterConversationCollapsesToTop(t *testing.T) {
	m := Resolve(Payload{Kind: KindSection, ID: "s1"}, Target{Kind: TargetAfterConversation, ID: "c1"})
	assert.Equal(t, MoveSectionToTop{Section: "s1"}, m)
}

func TestResolveSelfDropIsNoOp(t *testing.T) {
	targets := []Target{
		{Kind: TargetConversation, ID: "x"},
		{Kind: TargetSection, ID: "x"},
	}
	for _, tgt := range targets {
		for _, kind := range []Kind{KindConversation, KindSection} {
			m := Resolve(Payload{Kind: kind, ID: "x"}, tgt)
			assert.IsType(t, NoOp{}, m, "kind=%s target=%s", kind, tgt.Kind)
		}
	}
}

func TestResolveIsPure(t *testing.T) {
	p := Payload{Kind: KindConversation, ID: "a"}
	tgt := Target{Kind: TargetConversation, ID: "b"}
	assert.Equal(t, Resolve(p, tgt), Resolve(p, tgt))
}

// ===== Engine state machine ==================================================

func TestEngineStartDropReturnsToIdle(t *testing.T) {
	e, convs, _ := newTestEngine(t)
	list := convs.List(model.ContextChat)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: list[0].ID})
	require.NoError(t, err)
	assert.True(t, e.Dragging())

	m := e.Drop(Target{Kind: TargetConversation, ID: list[1].ID})
	assert.Equal(t, MoveConversationAfter{Dragged: list[0].ID, Target: list[1].ID}, m)
	assert.False(t, e.Dragging())

	got := convs.List(model.ContextChat)
	assert.Equal(t, list[1].ID, got[0].ID)
	assert.Equal(t, list[0].ID, got[1].ID)
}

func TestEngineCancelCommitsNothing(t *testing.T) {
	e, convs, _ := newTestEngine(t)
	before := convs.List(model.ContextChat)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: before[0].ID})
	require.NoError(t, err)
	e.HoverTarget(Target{Kind: TargetConversation, ID: before[1].ID})
	e.Cancel()

	assert.False(t, e.Dragging())
	assert.Equal(t, before, convs.List(model.ContextChat))
}

func TestEngineHoverDoesNotMutate(t *testing.T) {
	e, convs, _ := newTestEngine(t)
	before := convs.List(model.ContextChat)

	session, err := e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: before[0].ID})
	require.NoError(t, err)

	e.HoverTarget(Target{Kind: TargetConversation, ID: before[1].ID})
	e.HoverTarget(Target{Kind: TargetUnsectionedArea})

	assert.Equal(t, before, convs.List(model.ContextChat))
	require.NotNil(t, session.Hover)
	assert.Equal(t, TargetUnsectionedArea, session.Hover.Kind)
	e.Cancel()
}

func TestEngineDropWhileIdleIsNoOp(t *testing.T) {
	e, convs, _ := newTestEngine(t)
	before := convs.List(model.ContextChat)

	m := e.Drop(Target{Kind: TargetConversation, ID: before[0].ID})
	assert.IsType(t, NoOp{}, m)
	assert.Equal(t, before, convs.List(model.ContextChat))
}

func TestEngineRestartAbandonsPreviousGesture(t *testing.T) {
	e, convs, _ := newTestEngine(t)
	list := convs.List(model.ContextChat)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: list[0].ID})
	require.NoError(t, err)
	_, err = e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: list[2].ID})
	require.NoError(t, err)

	m := e.Drop(Target{Kind: TargetConversation, ID: list[3].ID})
	require.IsType(t, MoveConversationAfter{}, m)
	assert.Equal(t, list[2].ID, m.(MoveConversationAfter).Dragged,
		"second gesture wins, first is abandoned")
	assert.False(t, e.Dragging())
}

func TestEngineMalformedStartRejected(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Start(model.ContextChat, Payload{Kind: "widget", ID: "x"})
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.False(t, e.Dragging(), "rejected start must not wedge the machine")
}

func TestEngineVanishedTargetDeclined(t *testing.T) {
	e, convs, _ := newTestEngine(t)
	list := convs.List(model.ContextChat)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: list[0].ID})
	require.NoError(t, err)
	// Target deleted mid-drag.
	convs.Delete(model.ContextChat, list[1].ID)

	m := e.Drop(Target{Kind: TargetConversation, ID: list[1].ID})
	assert.IsType(t, NoOp{}, m)
	assert.False(t, e.Dragging())

	got := convs.List(model.ContextChat)
	assert.Equal(t, list[0].ID, got[0].ID, "declined drop leaves order untouched")
}

func TestEngineAssignSectionUnknownSectionDeclined(t *testing.T) {
	e, convs, _ := newTestEngine(t)
	list := convs.List(model.ContextChat)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: list[0].ID})
	require.NoError(t, err)
	m := e.Drop(Target{Kind: TargetSectionBody, ID: "no-such-section"})

	assert.IsType(t, NoOp{}, m)
	got, _ := convs.Get(model.ContextChat, list[0].ID)
	assert.Empty(t, got.SectionID)
}

// ===== End-to-end scenarios ==================================================

func TestDragConversationIntoSection(t *testing.T) {
	e, convs, secs := newTestEngine(t)
	sec := secs.Create(model.ContextChat)

	list := convs.List(model.ContextChat)
	b, c, a := list[0].ID, list[1].ID, list[2].ID
	convs.SetSection(model.ContextChat, b, sec)
	convs.SetSection(model.ContextChat, c, sec)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: a})
	require.NoError(t, err)
	m := e.Drop(Target{Kind: TargetSectionBody, ID: sec})
	require.Equal(t, AssignSection{Conversation: a, Section: sec}, m)

	members := convs.InSection(model.ContextChat, sec)
	ids := make([]string, len(members))
	for i, conv := range members {
		ids[i] = conv.ID
	}
	assert.ElementsMatch(t, []string{a, b, c}, ids)
}

func TestDragConversationOutOfSection(t *testing.T) {
	e, convs, secs := newTestEngine(t)
	sec := secs.Create(model.ContextChat)
	id := convs.List(model.ContextChat)[0].ID
	convs.SetSection(model.ContextChat, id, sec)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindConversation, ID: id, OriginSection: sec})
	require.NoError(t, err)
	e.Drop(Target{Kind: TargetUnsectionedArea})

	got, _ := convs.Get(model.ContextChat, id)
	assert.Empty(t, got.SectionID)
	assert.Empty(t, convs.InSection(model.ContextChat, sec))
}

func TestDragSectionReorder(t *testing.T) {
	e, _, secs := newTestEngine(t)
	a := secs.Create(model.ContextChat)
	b := secs.Create(model.ContextChat)
	c := secs.Create(model.ContextChat)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindSection, ID: a})
	require.NoError(t, err)
	e.Drop(Target{Kind: TargetSection, ID: c})

	list := secs.List(model.ContextChat)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{b, a, c}, ids)
}

func TestDragSectionToTop(t *testing.T) {
	e, _, secs := newTestEngine(t)
	a := secs.Create(model.ContextChat)
	b := secs.Create(model.ContextChat)

	_, err := e.Start(model.ContextChat, Payload{Kind: KindSection, ID: b})
	require.NoError(t, err)
	e.Drop(Target{Kind: TargetTopZone})

	list := secs.List(model.ContextChat)
	assert.Equal(t, []string{b, a}, []string{list[0].ID, list[1].ID})
}
