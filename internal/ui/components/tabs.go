// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/ui/styles"
)

// VisibleContexts are the contexts the tab bar cycles through. The stores
// carry every context, but only these have a working view today.
var VisibleContexts = []model.Context{model.ContextChat, model.ContextImage}

// NextContext returns the context after ctx in tab order, wrapping.
func NextContext(ctx model.Context) model.Context {
	for i, c := range VisibleContexts {
		if c == ctx {
			return VisibleContexts[(i+1)%len(VisibleContexts)]
		}
	}
	return VisibleContexts[0]
}

// PrevContext returns the context before ctx in tab order, wrapping.
func PrevContext(ctx model.Context) model.Context {
	for i, c := range VisibleContexts {
		if c == ctx {
			return VisibleContexts[(i-1+len(VisibleContexts))%len(VisibleContexts)]
		}
	}
	return VisibleContexts[0]
}

// RenderTabs renders the context tab bar with the active context
// highlighted.
func RenderTabs(theme *styles.Theme, active model.Context) string {
	var parts []string
	for _, c := range VisibleContexts {
		if c == active {
			parts = append(parts, theme.TabActive.Render(c.String()))
		} else {
			parts = append(parts, theme.TabInactive.Render(c.String()))
		}
	}
	return strings.Join(parts, " ")
}
