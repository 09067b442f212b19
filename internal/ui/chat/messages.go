// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/parley-ai/parley/internal/orchestrator"

// EventMsg carries an orchestrator event into the Bubble Tea loop. The
// program wiring forwards orchestrator notifications with program.Send so
// worker goroutines never touch the model directly.
type EventMsg struct {
	Event orchestrator.Event
}
