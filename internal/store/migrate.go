// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"

	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/storage"
)

// =============================================================================
// SCHEMA MIGRATION
// =============================================================================

// loadConversations reads the persisted conversation collection and
// upgrades it to the current shape. It never fails: malformed data, a
// missing key, and entries predating id/section support all fall back to
// the default seed dataset, which is persisted back immediately. The
// fallback is one-way and lossy; the legacy format carried no version
// field, so an incompatible shape cannot be recovered.
func loadConversations(kv storage.KV, log *zap.Logger) map[model.Context][]model.Conversation {
	raw, ok := kv.Get(KeyConversations)
	if !ok {
		contexts := seedConversations()
		persistConversations(kv, log, contexts)
		return contexts
	}

	contexts, err := decodeConversations(raw)
	switch {
	case err == nil:
		// Current shape. Still normalize below, but nothing to rewrite.
	case errors.Is(err, errLegacyShape):
		log.Info("migrating legacy conversation snapshot to versioned envelope")
		persistConversations(kv, log, contexts)
	default:
		log.Warn("conversation snapshot unusable, reseeding defaults", zap.Error(err))
		contexts = seedConversations()
		persistConversations(kv, log, contexts)
		return contexts
	}

	if normalizeConversations(contexts) {
		persistConversations(kv, log, contexts)
	}
	return contexts
}

// normalizeConversations guarantees the fully-shaped structure: every known
// context present with at least one conversation. It reports whether it
// changed anything.
func normalizeConversations(contexts map[model.Context][]model.Conversation) bool {
	changed := false
	for _, c := range model.Contexts() {
		if len(contexts[c]) == 0 {
			contexts[c] = []model.Conversation{model.NewConversation()}
			changed = true
		}
	}
	return changed
}

func persistConversations(kv storage.KV, log *zap.Logger, contexts map[model.Context][]model.Conversation) {
	raw, err := encodeConversations(contexts)
	if err != nil {
		log.Error("failed to encode conversation snapshot", zap.Error(err))
		return
	}
	if err := kv.Set(KeyConversations, raw); err != nil {
		log.Error("failed to persist conversation snapshot", zap.Error(err))
	}
}

// loadSections reads the persisted section collection. Sections carry no
// user content worth a structural sniff: anything unreadable resets to the
// empty per-context lists.
func loadSections(kv storage.KV, log *zap.Logger) map[model.Context][]model.Section {
	raw, ok := kv.Get(KeySections)
	if !ok {
		contexts := seedSections()
		persistSections(kv, log, contexts)
		return contexts
	}

	contexts, err := decodeSections(raw)
	switch {
	case err == nil:
	case errors.Is(err, errLegacyShape):
		log.Info("migrating legacy section snapshot to versioned envelope")
		persistSections(kv, log, contexts)
	default:
		log.Warn("section snapshot unusable, resetting", zap.Error(err))
		contexts = seedSections()
		persistSections(kv, log, contexts)
		return contexts
	}

	if normalizeSections(contexts) {
		persistSections(kv, log, contexts)
	}
	return contexts
}

func normalizeSections(contexts map[model.Context][]model.Section) bool {
	changed := false
	for _, c := range model.Contexts() {
		if _, present := contexts[c]; !present {
			contexts[c] = []model.Section{}
			changed = true
		}
	}
	return changed
}

func persistSections(kv storage.KV, log *zap.Logger, contexts map[model.Context][]model.Section) {
	raw, err := encodeSections(contexts)
	if err != nil {
		log.Error("failed to encode section snapshot", zap.Error(err))
		return
	}
	if err := kv.Set(KeySections, raw); err != nil {
		log.Error("failed to persist section snapshot", zap.Error(err))
	}
}
