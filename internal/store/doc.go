// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client-side conversation state: per-context
// conversation and section collections, their persistence, and the schema
// migration that keeps older on-disk snapshots loadable.
//
// All mutations are atomic from the caller's perspective: each public
// operation reads, modifies and re-persists the owning collection as one
// step, at collection granularity. Operations on unknown ids are no-ops
// that log a diagnostic; the store layer never returns an error for a
// data-shape problem — it self-heals by reseeding or ignoring.
//
// # Key Types
//
//   - Conversations: per-context ordered conversation lists plus the
//     selection pointer
//   - Sections: per-context ordered section lists
//   - SectionPatch: partial update for Sections.Update
//
// # Invariants
//
//   - Every context always holds at least one conversation; deleting the
//     last one immediately seeds a fresh default conversation.
//   - Conversation ids never change across rename, append, section
//     assignment or reorder.
//   - A dangling SectionID lists as unsectioned; it is corrected lazily,
//     never treated as corruption.
package store
