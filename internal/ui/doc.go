// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui assembles the terminal interface: the top-level App model
// composes the context tab bar, the sidebar (package components) and the
// message pane (package chat), and the Dispatcher bridges orchestrator
// worker goroutines into the Bubble Tea program loop.
package ui
