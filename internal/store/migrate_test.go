// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/storage"
)

func TestLoadMissingKeySeedsAndPersists(t *testing.T) {
	kv := storage.NewMemKV()

	contexts := loadConversations(kv, zap.NewNop())
	assert.Len(t, contexts[model.ContextChat], 4)

	raw, ok := kv.Get(KeyConversations)
	require.True(t, ok, "seed dataset must be written back")

	var snap conversationSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Equal(t, SnapshotVersion, snap.Version)
}

func TestLoadCorruptSnapshotReseeds(t *testing.T) {
	kv := storage.NewMemKV()
	require.NoError(t, kv.Set(KeyConversations, "{not json"))

	contexts := loadConversations(kv, zap.NewNop())
	require.Len(t, contexts[model.ContextChat], 4)
	assert.Equal(t, "Explain quantum computing", contexts[model.ContextChat][0].Title)

	// The unusable snapshot was replaced on disk.
	raw, _ := kv.Get(KeyConversations)
	var snap conversationSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Equal(t, SnapshotVersion, snap.Version)
}

func TestLoadLegacyMissingIDsReseeds(t *testing.T) {
	kv := storage.NewMemKV()
	// Pre-id format: entries carry no id field and cannot be upgraded.
	legacy := `{"chat":[{"title":"Old thread","date":"1 Jan","messages":[]}]}`
	require.NoError(t, kv.Set(KeyConversations, legacy))

	contexts := loadConversations(kv, zap.NewNop())
	for _, c := range contexts[model.ContextChat] {
		assert.NotEmpty(t, c.ID)
		assert.NotEqual(t, "Old thread", c.Title, "unupgradeable data is discarded")
	}
}

func TestLoadLegacyWithIDsUpgradesInPlace(t *testing.T) {
	kv := storage.NewMemKV()
	legacy := `{"chat":[{"id":"c1","title":"Kept thread","date":"5 May","messages":[{"role":"user","content":"hi"}],"sectionId":null}]}`
	require.NoError(t, kv.Set(KeyConversations, legacy))

	contexts := loadConversations(kv, zap.NewNop())

	require.NotEmpty(t, contexts[model.ContextChat])
	got := contexts[model.ContextChat][0]
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "Kept thread", got.Title)
	assert.Empty(t, got.SectionID, "legacy null sectionId decodes to unsectioned")

	// Upgraded envelope was persisted back.
	raw, _ := kv.Get(KeyConversations)
	var snap conversationSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, "c1", snap.Contexts[model.ContextChat][0].ID)
}

func TestLoadNormalizesEmptyContexts(t *testing.T) {
	kv := storage.NewMemKV()
	// Valid envelope, but only the chat context is present.
	partial := `{"version":1,"contexts":{"chat":[{"id":"c1","title":"Only chat","date":"5 May","messages":[],"sectionId":""}]}}`
	require.NoError(t, kv.Set(KeyConversations, partial))

	contexts := loadConversations(kv, zap.NewNop())

	assert.Equal(t, "Only chat", contexts[model.ContextChat][0].Title)
	for _, ctx := range model.Contexts() {
		assert.NotEmpty(t, contexts[ctx], "context %s must be backfilled", ctx)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	kv := storage.NewMemKV()

	first := loadConversations(kv, zap.NewNop())
	second := loadConversations(kv, zap.NewNop())
	assert.Equal(t, first, second, "loading twice must be stable")
}

func TestLoadSectionsMissingKeySeedsEmpty(t *testing.T) {
	kv := storage.NewMemKV()

	contexts := loadSections(kv, zap.NewNop())
	for _, ctx := range model.Contexts() {
		assert.NotNil(t, contexts[ctx])
		assert.Empty(t, contexts[ctx])
	}

	_, ok := kv.Get(KeySections)
	assert.True(t, ok)
}

func TestLoadSectionsCorruptResets(t *testing.T) {
	kv := storage.NewMemKV()
	require.NoError(t, kv.Set(KeySections, "[]"))

	contexts := loadSections(kv, zap.NewNop())
	for _, ctx := range model.Contexts() {
		assert.Empty(t, contexts[ctx])
	}
}

func TestLoadSectionsLegacyUpgrades(t *testing.T) {
	kv := storage.NewMemKV()
	legacy := `{"chat":[{"id":"s1","title":"Work","collapsed":true}]}`
	require.NoError(t, kv.Set(KeySections, legacy))

	contexts := loadSections(kv, zap.NewNop())
	require.Len(t, contexts[model.ContextChat], 1)
	assert.Equal(t, "Work", contexts[model.ContextChat][0].Title)
	assert.True(t, contexts[model.ContextChat][0].Collapsed)

	raw, _ := kv.Get(KeySections)
	var snap sectionSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Equal(t, SnapshotVersion, snap.Version)
}

func TestDecodeConversationsRejectsNonObject(t *testing.T) {
	_, err := decodeConversations(`"just a string"`)
	assert.Error(t, err)

	_, err = decodeConversations("null")
	assert.Error(t, err)
}
