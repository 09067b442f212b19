// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"

	"github.com/parley-ai/parley/internal/model"
)

// Storage keys. These predate the versioned envelope and are kept so an
// upgraded install finds its existing data.
const (
	KeyConversations = "convo"
	KeySections      = "sections"
)

// SnapshotVersion is the current on-disk schema version. Version 0 denotes
// the legacy envelope-less format.
const SnapshotVersion = 1

// errLegacyShape marks raw data that is parseable but not in the current
// envelope format.
var errLegacyShape = errors.New("legacy snapshot shape")

// conversationSnapshot is the persisted form of the conversation
// collection.
type conversationSnapshot struct {
	Version  int                                    `json:"version"`
	Contexts map[model.Context][]model.Conversation `json:"contexts"`
}

// sectionSnapshot is the persisted form of the section collection.
type sectionSnapshot struct {
	Version  int                               `json:"version"`
	Contexts map[model.Context][]model.Section `json:"contexts"`
}

// =============================================================================
// CONVERSATION SNAPSHOT CODEC
// =============================================================================

func encodeConversations(contexts map[model.Context][]model.Conversation) (string, error) {
	data, err := json.Marshal(conversationSnapshot{
		Version:  SnapshotVersion,
		Contexts: contexts,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeConversations parses raw snapshot data. It accepts the current
// envelope and, failing that, the legacy bare mapping, reporting the
// latter with errLegacyShape so the caller can re-persist in the current
// format.
func decodeConversations(raw string) (map[model.Context][]model.Conversation, error) {
	var snap conversationSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err == nil && snap.Version >= SnapshotVersion && snap.Contexts != nil {
		return snap.Contexts, nil
	}

	var legacy map[model.Context][]model.Conversation
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return nil, err
	}
	if legacy == nil {
		return nil, errors.New("empty snapshot")
	}
	// Structural sniff inherited from the legacy format, which carried no
	// version field: entries without an id predate section support and
	// cannot be upgraded in place.
	for _, convos := range legacy {
		for _, c := range convos {
			if c.ID == "" {
				return nil, errors.New("snapshot entries missing ids")
			}
		}
	}
	return legacy, errLegacyShape
}

// =============================================================================
// SECTION SNAPSHOT CODEC
// =============================================================================

func encodeSections(contexts map[model.Context][]model.Section) (string, error) {
	data, err := json.Marshal(sectionSnapshot{
		Version:  SnapshotVersion,
		Contexts: contexts,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSections(raw string) (map[model.Context][]model.Section, error) {
	var snap sectionSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err == nil && snap.Version >= SnapshotVersion && snap.Contexts != nil {
		return snap.Contexts, nil
	}

	var legacy map[model.Context][]model.Section
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return nil, err
	}
	if legacy == nil {
		return nil, errors.New("empty snapshot")
	}
	return legacy, errLegacyShape
}
