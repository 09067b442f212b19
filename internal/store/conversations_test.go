// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/storage"
)

func newTestConversations(t *testing.T) (*Conversations, storage.KV) {
	t.Helper()
	kv := storage.NewMemKV()
	return NewConversations(kv, zap.NewNop()), kv
}

func TestSeedOnEmptyStorage(t *testing.T) {
	s, _ := newTestConversations(t)

	chat := s.List(model.ContextChat)
	require.NotEmpty(t, chat)
	assert.Equal(t, "Explain quantum computing", chat[0].Title)
	for _, c := range chat {
		assert.NotEmpty(t, c.ID, "seeded conversations must carry generated ids")
		assert.Empty(t, c.SectionID, "seeded conversations start unsectioned")
	}

	// Every context satisfies the non-empty invariant
	for _, ctx := range model.Contexts() {
		assert.NotEmpty(t, s.List(ctx), "context %s must not be empty", ctx)
	}
}

func TestCreatePrependsAndSelects(t *testing.T) {
	s, _ := newTestConversations(t)

	before := len(s.List(model.ContextChat))
	id := s.Create(model.ContextChat)

	list := s.List(model.ContextChat)
	require.Len(t, list, before+1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, model.DefaultConversationTitle, list[0].Title)
	assert.Equal(t, id, s.SelectedID(model.ContextChat))

	require.Len(t, list[0].Messages, 1)
	assert.Equal(t, model.RoleSystem, list[0].Messages[0].Role)
}

func TestDeleteLastConversationReplacesIt(t *testing.T) {
	s, _ := newTestConversations(t)

	// image context seeds a single conversation
	list := s.List(model.ContextImage)
	require.Len(t, list, 1)
	oldID := list[0].ID

	s.Delete(model.ContextImage, oldID)

	list = s.List(model.ContextImage)
	require.Len(t, list, 1, "context must never be left empty")
	assert.NotEqual(t, oldID, list[0].ID, "replacement must carry a fresh id")
	assert.Equal(t, model.DefaultConversationTitle, list[0].Title)
	assert.Equal(t, list[0].ID, s.SelectedID(model.ContextImage))
}

func TestDeleteSelectedMovesSelection(t *testing.T) {
	s, _ := newTestConversations(t)

	first := s.List(model.ContextChat)[0]
	s.Select(model.ContextChat, first.ID)
	s.Delete(model.ContextChat, first.ID)

	list := s.List(model.ContextChat)
	assert.Equal(t, list[0].ID, s.SelectedID(model.ContextChat))
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestConversations(t)

	before := s.List(model.ContextChat)
	s.Delete(model.ContextChat, "does-not-exist")
	assert.Equal(t, before, s.List(model.ContextChat))
}

func TestRenameIdempotent(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.List(model.ContextChat)[0].ID

	s.Rename(model.ContextChat, id, "Quantum notes")
	once := s.List(model.ContextChat)
	s.Rename(model.ContextChat, id, "Quantum notes")
	twice := s.List(model.ContextChat)

	assert.Equal(t, once, twice, "repeated rename to the same title must not change state")

	got, ok := s.Get(model.ContextChat, id)
	require.True(t, ok)
	assert.Equal(t, "Quantum notes", got.Title)
	assert.Equal(t, id, got.ID, "rename must not change the id")
}

func TestAppendMessageDerivesTitleFromFirstPrompt(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.Create(model.ContextChat)

	prompt := "Explain quantum computing in simple terms and more text beyond fifty chars"
	s.AppendMessage(model.ContextChat, id, model.RoleUser, prompt)

	got, ok := s.Get(model.ContextChat, id)
	require.True(t, ok)
	assert.Equal(t, prompt[:50], got.Title)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, model.RoleUser, got.Messages[1].Role)
}

func TestAppendMessageImageTitle(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.Create(model.ContextImage)

	longPrompt := "a very detailed oil painting of a lighthouse on a stormy coast at dusk"
	content, err := model.EncodeImageRequest(model.ImageRequestPayload{Prompt: longPrompt})
	require.NoError(t, err)

	s.AppendMessage(model.ContextImage, id, model.RoleUser, content)

	got, _ := s.Get(model.ContextImage, id)
	want := "Image: " + longPrompt[:40]
	assert.Equal(t, want, got.Title)
}

func TestAppendMalformedImageRequestTitleFallback(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.Create(model.ContextImage)

	s.AppendMessage(model.ContextImage, id, model.RoleUser, "__IMAGE__{broken")

	got, _ := s.Get(model.ContextImage, id)
	assert.Equal(t, "Image generation", got.Title)
}

func TestTitleNotDerivedAfterFirstExchange(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.Create(model.ContextChat)

	s.AppendMessage(model.ContextChat, id, model.RoleUser, "first prompt")
	s.AppendMessage(model.ContextChat, id, model.RoleAssistant, "answer")
	s.AppendMessage(model.ContextChat, id, model.RoleUser, "second prompt")

	got, _ := s.Get(model.ContextChat, id)
	assert.Equal(t, "first prompt", got.Title)
}

func TestSystemMessageReplacedInPlace(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.Create(model.ContextChat)

	s.AppendMessage(model.ContextChat, id, model.RoleSystem, "Answer tersely.")

	got, _ := s.Get(model.ContextChat, id)
	require.Len(t, got.Messages, 1, "system message replaces, never appends")
	assert.Equal(t, "Answer tersely.", got.Messages[0].Content)
}

func TestSystemMessageInsertedFirstWhenAbsent(t *testing.T) {
	// Older snapshots may carry conversations without a system message.
	kv := storage.NewMemKV()
	snapshot := `{"version":1,"contexts":{"chat":[{"id":"c1","title":"Old chat","date":"3 Mar","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}],"sectionId":""}]}}`
	require.NoError(t, kv.Set(KeyConversations, snapshot))

	s := NewConversations(kv, zap.NewNop())
	s.AppendMessage(model.ContextChat, "c1", model.RoleSystem, "Be brief.")

	got, ok := s.Get(model.ContextChat, "c1")
	require.True(t, ok)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, model.RoleSystem, got.Messages[0].Role, "system message must stay first")
	assert.Equal(t, "Be brief.", got.Messages[0].Content)
}

func TestMoveAfterReordersAndAdoptsSection(t *testing.T) {
	s, _ := newTestConversations(t)
	list := s.List(model.ContextChat)
	require.GreaterOrEqual(t, len(list), 3)

	a, b, c := list[0], list[1], list[2]
	s.SetSection(model.ContextChat, c.ID, "sec-1")

	s.MoveAfter(model.ContextChat, a.ID, c.ID)

	got := s.List(model.ContextChat)
	ids := make([]string, len(got))
	for i, conv := range got {
		ids[i] = conv.ID
	}
	assert.Equal(t, b.ID, ids[0])
	assert.Equal(t, c.ID, ids[1])
	assert.Equal(t, a.ID, ids[2])

	moved, _ := s.Get(model.ContextChat, a.ID)
	assert.Equal(t, "sec-1", moved.SectionID, "dragged conversation adopts the target's section")
	assert.Equal(t, a.ID, moved.ID)
}

func TestMoveAfterSelfDropIsNoOp(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.List(model.ContextChat)[0].ID

	before := s.List(model.ContextChat)
	s.MoveAfter(model.ContextChat, id, id)
	assert.Equal(t, before, s.List(model.ContextChat))
}

func TestMoveAfterUnknownIDsAreNoOps(t *testing.T) {
	s, _ := newTestConversations(t)
	known := s.List(model.ContextChat)[0].ID

	before := s.List(model.ContextChat)
	s.MoveAfter(model.ContextChat, "ghost", known)
	s.MoveAfter(model.ContextChat, known, "ghost")
	assert.Equal(t, before, s.List(model.ContextChat))
}

func TestDanglingSectionReferenceListsFine(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.List(model.ContextChat)[0].ID

	s.SetSection(model.ContextChat, id, "no-such-section")

	// The store must neither crash nor drop the conversation.
	list := s.List(model.ContextChat)
	found := false
	for _, c := range list {
		if c.ID == id {
			found = true
			assert.Equal(t, "no-such-section", c.SectionID)
		}
	}
	assert.True(t, found)

	// And membership queries keep working.
	members := s.InSection(model.ContextChat, "no-such-section")
	require.Len(t, members, 1)
	assert.Equal(t, id, members[0].ID)
}

func TestClearSection(t *testing.T) {
	s, _ := newTestConversations(t)
	list := s.List(model.ContextChat)
	s.SetSection(model.ContextChat, list[0].ID, "s1")
	s.SetSection(model.ContextChat, list[1].ID, "s1")

	s.ClearSection(model.ContextChat, "s1")

	for _, c := range s.List(model.ContextChat) {
		assert.Empty(t, c.SectionID)
	}
}

func TestDeleteBySection(t *testing.T) {
	s, _ := newTestConversations(t)
	list := s.List(model.ContextChat)
	require.GreaterOrEqual(t, len(list), 3)

	s.SetSection(model.ContextChat, list[0].ID, "s1")
	s.SetSection(model.ContextChat, list[1].ID, "s1")
	s.Select(model.ContextChat, list[0].ID)

	removed := s.DeleteBySection(model.ContextChat, "s1")
	assert.ElementsMatch(t, []string{list[0].ID, list[1].ID}, removed)

	remaining := s.List(model.ContextChat)
	assert.Len(t, remaining, len(list)-2)
	assert.Equal(t, remaining[0].ID, s.SelectedID(model.ContextChat),
		"selection moves to first remaining conversation")
}

func TestDeleteBySectionEmptiesContext(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.List(model.ContextImage)[0].ID
	s.SetSection(model.ContextImage, id, "s1")

	removed := s.DeleteBySection(model.ContextImage, "s1")
	assert.Equal(t, []string{id}, removed)

	list := s.List(model.ContextImage)
	require.Len(t, list, 1, "invariant: context never empty")
	assert.NotEqual(t, id, list[0].ID)
}

func TestSelectedDefaultsToFirst(t *testing.T) {
	s, _ := newTestConversations(t)

	first := s.List(model.ContextDoc)[0].ID
	assert.Equal(t, first, s.SelectedID(model.ContextDoc))
}

func TestSelectUnknownIsNoOp(t *testing.T) {
	s, _ := newTestConversations(t)
	first := s.SelectedID(model.ContextChat)

	s.Select(model.ContextChat, "ghost")
	assert.Equal(t, first, s.SelectedID(model.ContextChat))
}

func TestMutationsPersistAcrossReopen(t *testing.T) {
	kv := storage.NewMemKV()
	s := NewConversations(kv, zap.NewNop())

	id := s.Create(model.ContextChat)
	s.Rename(model.ContextChat, id, "kept across reload")

	reopened := NewConversations(kv, zap.NewNop())
	got, ok := reopened.Get(model.ContextChat, id)
	require.True(t, ok)
	assert.Equal(t, "kept across reload", got.Title)
}

func TestListReturnsCopies(t *testing.T) {
	s, _ := newTestConversations(t)

	list := s.List(model.ContextChat)
	list[0].Title = "mutated from outside"
	list[0].Messages[0].Content = "mutated"

	fresh := s.List(model.ContextChat)
	assert.NotEqual(t, "mutated from outside", fresh[0].Title)
	assert.NotEqual(t, "mutated", fresh[0].Messages[0].Content)
}

func TestIDStabilityAcrossMutations(t *testing.T) {
	s, _ := newTestConversations(t)
	list := s.List(model.ContextChat)
	id := list[0].ID
	target := list[1].ID

	s.Rename(model.ContextChat, id, "renamed")
	s.AppendMessage(model.ContextChat, id, model.RoleUser, "more")
	s.SetSection(model.ContextChat, id, "sec")
	s.MoveAfter(model.ContextChat, id, target)

	got, ok := s.Get(model.ContextChat, id)
	require.True(t, ok)
	assert.Equal(t, id, got.ID)
}

func TestDeriveTitleUnicodeSafe(t *testing.T) {
	s, _ := newTestConversations(t)
	id := s.Create(model.ContextChat)

	prompt := strings.Repeat("日", 60)
	s.AppendMessage(model.ContextChat, id, model.RoleUser, prompt)

	got, _ := s.Get(model.ContextChat, id)
	assert.Equal(t, strings.Repeat("日", 50), got.Title)
}
