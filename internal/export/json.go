// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/parley-ai/parley/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations to pretty-printed JSON.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// jsonDocument is the exported envelope.
type jsonDocument struct {
	Title      string         `json:"title"`
	Date       string         `json:"date"`
	ExportedAt time.Time      `json:"exportedAt"`
	Generator  string         `json:"generator"`
	Messages   []jsonMessage  `json:"messages"`
	Metadata   map[string]int `json:"metadata,omitempty"`
}

type jsonMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Export converts a conversation to JSON format.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	doc := jsonDocument{
		Title:      conv.Title,
		Date:       conv.Date,
		ExportedAt: time.Now(),
		Generator:  "parley",
	}
	for _, msg := range conv.Messages {
		if msg.Role == model.RoleSystem && !e.options.IncludeSystemPrompt {
			continue
		}
		doc.Messages = append(doc.Messages, jsonMessage{
			Role:    string(msg.Role),
			Content: renderContent(msg),
		})
	}
	if e.options.IncludeMetadata {
		doc.Metadata = map[string]int{"messageCount": len(conv.Messages)}
	}

	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
