// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator connects the conversation store to the provider
// client.
//
// A prompt is recorded in the selected conversation, dispatched to the
// provider on a worker goroutine, and the reply is appended to the same
// conversation when it arrives. The destination is captured at send time;
// a late response for a deleted conversation is dropped, never misfiled.
// Image-generation prompts are detected by their message encoding and
// routed to the image endpoint, with errors kept separately per context.
package orchestrator
