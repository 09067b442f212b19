// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dnd implements the sidebar's drag-and-drop gesture engine.
//
// A gesture is a Session carrying a single tagged Payload (what is being
// dragged) from start to drop. Resolve maps each (payload, drop target)
// pair to exactly one Mutation; the Engine validates the mutation against
// live store state and commits it, returning to idle no matter how the
// gesture ended.
//
// # Key Types
//
//   - Payload: tagged identity of the dragged entity
//   - Target: the drop zone under the pointer
//   - Mutation: the one state change a drop commits
//   - Engine: the Idle/Dragging state machine over the stores
package dnd
