// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the message pane of the TUI: the selected
// conversation's log, the prompt input, and the transient state of the
// exchange in flight.
//
// # Key Types
//
//   - Model: Bubble Tea model for one context's message pane.
//   - EventMsg: orchestrator event delivered through the program loop.
//
// The pane is a projection of the conversation store. It never appends
// messages itself: prompts go through the orchestrator, replies land in
// the store, and the pane re-reads the store when events arrive. Streaming
// partials are the one exception; they live in the model until EventDone
// supersedes them with the stored reply.
package chat
