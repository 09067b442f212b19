// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable TUI widgets: the sidebar that maps
// keyboard gestures onto the conversation and section stores (and onto the
// reordering engine for moves), and the context tab bar.
//
// # Key Types
//
//   - Sidebar: section and conversation list with select, create, rename,
//     delete and move gestures.
//   - VisibleContexts / RenderTabs: the context tab strip.
//
// Widgets render through the shared styles.Theme and never talk to the
// provider; state changes flow through the stores.
package components
