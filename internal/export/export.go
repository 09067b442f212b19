// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders conversations to shareable formats. Markdown,
// JSON, and HTML exporters are provided; image and system payloads are
// rendered as readable placeholders rather than raw message encodings.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parley-ai/parley/internal/model"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for conversation exporters.
type Exporter interface {
	// Export converts a conversation to the target format.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g. ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory.
	OutputDir string

	// IncludeMetadata includes a metadata header (title, date, counts).
	IncludeMetadata bool

	// IncludeSystemPrompt includes the system message in the output.
	IncludeSystemPrompt bool

	// Theme for HTML export ("light" or "dark").
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		Theme:           "dark",
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a conversation to a file using the given exporter
// and returns the output path.
func ExportToFile(conv *model.Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("conversation_%s_%s%s",
		sanitizeFilename(conv.Title),
		timestamp,
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// ByFormat returns the exporter for a format name: "markdown"/"md",
// "json", or "html".
func ByFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "html":
		return NewHTMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

// sanitizeFilename makes a conversation title safe for use in a filename.
func sanitizeFilename(s string) string {
	if s == "" {
		return "untitled"
	}
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune('_')
		}
	}
	out := sb.String()
	const maxLen = 48
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	if out == "" {
		return "untitled"
	}
	return out
}

// validate rejects conversations that cannot produce meaningful output.
func validate(conv *model.Conversation) error {
	if conv == nil {
		return fmt.Errorf("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return fmt.Errorf("conversation has no messages")
	}
	return nil
}

// renderContent turns a stored message into readable text, decoding the
// tagged payload encodings.
func renderContent(msg model.Message) string {
	switch {
	case msg.IsImageRequest():
		req, err := model.DecodeImageRequest(msg.Content)
		if err != nil {
			return "[image request]"
		}
		return fmt.Sprintf("[image request: %s]", req.Prompt)
	case msg.IsImageResult():
		res, err := model.DecodeImageResult(msg.Content)
		if err != nil {
			return "[generated images]"
		}
		return fmt.Sprintf("[%d generated image(s) for: %s]", len(res.Images), res.Prompt)
	case msg.IsSystemDirective():
		if p, ok := msg.Payload().(model.SystemDirectivePayload); ok {
			return p.Prompt
		}
		return msg.Content
	default:
		return msg.Content
	}
}

func roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return "User"
	case model.RoleAssistant:
		return "Assistant"
	case model.RoleSystem:
		return "System"
	default:
		return string(role)
	}
}
