// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dnd

// =============================================================================
// DROP RESOLUTION
// =============================================================================

// Mutation is the single state change a completed drop commits. Resolve
// produces exactly one Mutation per drop; NoOp stands in for drops that
// change nothing so the caller can still log what was declined.
type Mutation interface {
	mutation()
}

// MoveConversationAfter reorders a conversation immediately after another,
// adopting the target's section membership.
type MoveConversationAfter struct {
	Dragged string
	Target  string
}

// AssignSection reparents a conversation. An empty Section demotes it to
// the unsectioned area.
type AssignSection struct {
	Conversation string
	Section      string
}

// MoveSectionToTop moves a section to index 0 of its context.
type MoveSectionToTop struct {
	Section string
}

// MoveSectionTo reorders a section to the position of another section.
type MoveSectionTo struct {
	Dragged string
	Target  string
}

// NoOp is a resolved drop that commits nothing. Reason says why, for the
// diagnostic log.
type NoOp struct {
	Reason string
}

func (MoveConversationAfter) mutation() {}
func (AssignSection) mutation()         {}
func (MoveSectionToTop) mutation()      {}
func (MoveSectionTo) mutation()         {}
func (NoOp) mutation()                  {}

// Resolve maps a dragged payload and a drop target to the one mutation the
// drop commits. It is pure: it inspects nothing but its arguments, so the
// same (payload, target) pair always resolves the same way. Existence
// checks against live state happen at commit time.
func Resolve(p Payload, t Target) Mutation {
	if p.ID != "" && p.ID == t.ID {
		return NoOp{Reason: "self drop"}
	}

	switch p.Kind {
	case KindConversation:
		return resolveConversation(p, t)
	case KindSection:
		return resolveSection(p, t)
	default:
		return NoOp{Reason: "unknown drag kind"}
	}
}

func resolveConversation(p Payload, t Target) Mutation {
	switch t.Kind {
	case TargetConversation, TargetAfterConversation:
		return MoveConversationAfter{Dragged: p.ID, Target: t.ID}
	case TargetSection, TargetSectionBody:
		return AssignSection{Conversation: p.ID, Section: t.ID}
	case TargetUnsectionedArea, TargetTopZone:
		return AssignSection{Conversation: p.ID, Section: ""}
	default:
		return NoOp{Reason: "conversation dropped on unknown zone"}
	}
}

func resolveSection(p Payload, t Target) Mutation {
	switch t.Kind {
	case TargetTopZone:
		return MoveSectionToTop{Section: p.ID}
	case TargetSection:
		return MoveSectionTo{Dragged: p.ID, Target: t.ID}
	case TargetConversation, TargetAfterConversation:
		// A conversation row above the section list marks the top of that
		// list, so landing after one collapses to a move-to-top.
		return MoveSectionToTop{Section: p.ID}
	default:
		return NoOp{Reason: "section dropped on unknown zone"}
	}
}
