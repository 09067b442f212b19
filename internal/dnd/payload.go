// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dnd

import (
	"encoding/json"
	"errors"
	"fmt"
)

// =============================================================================
// DRAG PAYLOAD
// =============================================================================

// Kind identifies what is being dragged.
type Kind string

const (
	KindConversation Kind = "conversation"
	KindSection      Kind = "section"
)

// Valid reports whether k is a known drag kind.
func (k Kind) Valid() bool {
	return k == KindConversation || k == KindSection
}

// Payload identifies the dragged entity for the duration of a gesture.
// It is the single transfer format between the gesture's handlers; there
// is no fallback channel.
type Payload struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`

	// OriginSection is the section the entity was dragged out of, empty
	// for unsectioned conversations and for sections themselves.
	OriginSection string `json:"originSection,omitempty"`
}

// ErrMalformedPayload marks transfer data that does not decode to a usable
// payload. Drops carrying it resolve to nothing.
var ErrMalformedPayload = errors.New("malformed drag payload")

// Encode serializes p for the transfer channel.
func (p Payload) Encode() string {
	data, _ := json.Marshal(p)
	return string(data)
}

// DecodePayload parses transfer data produced by Encode.
func DecodePayload(raw string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !p.Kind.Valid() || p.ID == "" {
		return Payload{}, ErrMalformedPayload
	}
	return p, nil
}

// =============================================================================
// DROP TARGETS
// =============================================================================

// TargetKind identifies the drop zone under the pointer.
type TargetKind string

const (
	// TargetConversation is a drop onto another conversation row.
	TargetConversation TargetKind = "conversation"
	// TargetSection is a drop onto a section header.
	TargetSection TargetKind = "section"
	// TargetSectionBody is a drop into a section's member area rather than
	// onto a specific sibling.
	TargetSectionBody TargetKind = "sectionBody"
	// TargetUnsectionedArea is a drop onto the background of the
	// unsectioned list.
	TargetUnsectionedArea TargetKind = "unsectionedArea"
	// TargetTopZone is the strip above the first section.
	TargetTopZone TargetKind = "topZone"
	// TargetAfterConversation is the zone below a conversation that sits
	// above the section list.
	TargetAfterConversation TargetKind = "afterConversation"
)

// Target describes where a payload was dropped. ID is empty for the zone
// kinds that do not name a specific entity.
type Target struct {
	Kind TargetKind
	ID   string
}
