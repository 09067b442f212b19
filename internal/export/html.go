// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/parley-ai/parley/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a conversation to HTML. All user-controlled text is
// escaped before embedding.
func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(conv.Title)))
	sb.WriteString("<style>\n")
	sb.WriteString(e.css())
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(conv.Title)))
	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("<p class=\"meta\">%s &middot; %d messages</p>\n",
			html.EscapeString(conv.Date), len(conv.Messages)))
	}

	for _, msg := range conv.Messages {
		if msg.Role == model.RoleSystem && !e.options.IncludeSystemPrompt {
			continue
		}
		cssClass := "message " + string(msg.Role)
		sb.WriteString(fmt.Sprintf("<div class=\"%s\">\n", cssClass))
		sb.WriteString(fmt.Sprintf("<div class=\"role\">%s</div>\n", roleLabel(msg.Role)))
		content := html.EscapeString(renderContent(msg))
		content = strings.ReplaceAll(content, "\n", "<br>\n")
		sb.WriteString(fmt.Sprintf("<div class=\"content\">%s</div>\n", content))
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// FileExtension returns ".html".
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the HTML MIME type.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) css() string {
	bg, fg, user, assistant := "#ffffff", "#1a1a1a", "#eef3ff", "#f4f4f4"
	if e.options.Theme == "dark" {
		bg, fg, user, assistant = "#16161e", "#d8d8e0", "#1f2a44", "#20222c"
	}
	return fmt.Sprintf(`body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; background: %s; color: %s; }
h1 { font-size: 1.4rem; }
.meta { opacity: 0.6; font-size: 0.85rem; }
.message { border-radius: 8px; padding: 0.75rem 1rem; margin: 0.75rem 0; }
.message.user { background: %s; }
.message.assistant { background: %s; }
.message.system { opacity: 0.7; font-style: italic; }
.role { font-weight: bold; font-size: 0.8rem; text-transform: uppercase; opacity: 0.7; margin-bottom: 0.25rem; }
`, bg, fg, user, assistant)
}
