// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a conversation's message log.
//
// Content is persisted as a flat string for compatibility with the legacy
// snapshot format. Non-text payloads (image generation requests and
// results, system prompt updates) are carried in the same channel behind
// sentinel prefixes; Payload and the Encode/Decode helpers translate
// between the flat encoding and the tagged variants.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a message with the given role and raw content.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// NewUserMessage creates a user message with plain text content.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message with plain text content.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// CONTENT PAYLOAD VARIANTS
// =============================================================================

// Sentinel prefixes of the legacy flat content encoding. Persisted message
// logs from older installs use these, so both sides of the codec keep them.
const (
	imageRequestPrefix    = "__IMAGE__"
	imageResultPrefix     = "__IMAGE_RESULT__"
	systemDirectivePrefix = "__SYSTEM__"
)

// Payload is the decoded form of a message's content.
type Payload interface {
	isPayload()
}

// TextPayload is ordinary chat text.
type TextPayload struct {
	Text string
}

// SystemDirectivePayload instructs the store to replace the conversation's
// system message instead of appending a user message.
type SystemDirectivePayload struct {
	Prompt string
}

// ImageRequestPayload describes an image generation request.
type ImageRequestPayload struct {
	Type    string `json:"type"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
	N       int    `json:"n,omitempty"`
	Model   string `json:"model,omitempty"`
}

// ImageResultPayload carries generated images attached to an assistant
// message.
type ImageResultPayload struct {
	Prompt string           `json:"prompt"`
	Images []GeneratedImage `json:"images"`
}

// GeneratedImage is a single generated image: a URL or inline base64 data.
type GeneratedImage struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// UnmarshalJSON accepts both the object form and the bare URL string form
// found in older persisted results.
func (g *GeneratedImage) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		g.URL = url
		return nil
	}
	type alias GeneratedImage
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*g = GeneratedImage(a)
	return nil
}

func (TextPayload) isPayload()            {}
func (SystemDirectivePayload) isPayload() {}
func (ImageRequestPayload) isPayload()    {}
func (ImageResultPayload) isPayload()     {}

// =============================================================================
// PAYLOAD CODEC
// =============================================================================

// Payload decodes the message content into its tagged variant. Content with
// a sentinel prefix that fails to decode is returned as plain text; the
// store never rejects a message for a malformed payload.
func (m Message) Payload() Payload {
	switch {
	case strings.HasPrefix(m.Content, imageRequestPrefix):
		if req, err := DecodeImageRequest(m.Content); err == nil {
			return req
		}
	case strings.HasPrefix(m.Content, imageResultPrefix):
		if res, err := DecodeImageResult(m.Content); err == nil {
			return res
		}
	case strings.HasPrefix(m.Content, systemDirectivePrefix):
		return SystemDirectivePayload{Prompt: strings.TrimPrefix(m.Content, systemDirectivePrefix)}
	}
	return TextPayload{Text: m.Content}
}

// IsImageRequest reports whether the content carries an image generation
// request, decoded or not.
func (m Message) IsImageRequest() bool {
	return strings.HasPrefix(m.Content, imageRequestPrefix)
}

// IsImageResult reports whether the content carries an image generation
// result.
func (m Message) IsImageResult() bool {
	return strings.HasPrefix(m.Content, imageResultPrefix)
}

// IsSystemDirective reports whether the content is a system prompt update.
func (m Message) IsSystemDirective() bool {
	return strings.HasPrefix(m.Content, systemDirectivePrefix)
}

// EncodeImageRequest encodes an image generation request into the flat
// content channel.
func EncodeImageRequest(req ImageRequestPayload) (string, error) {
	if req.Type == "" {
		req.Type = "image_generation"
	}
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return imageRequestPrefix + string(data), nil
}

// DecodeImageRequest decodes image request content.
func DecodeImageRequest(content string) (ImageRequestPayload, error) {
	var req ImageRequestPayload
	raw := strings.TrimPrefix(content, imageRequestPrefix)
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return ImageRequestPayload{}, err
	}
	return req, nil
}

// EncodeImageResult encodes generated images into the flat content channel.
func EncodeImageResult(res ImageResultPayload) (string, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return imageResultPrefix + string(data), nil
}

// DecodeImageResult decodes image result content.
func DecodeImageResult(content string) (ImageResultPayload, error) {
	var res ImageResultPayload
	raw := strings.TrimPrefix(content, imageResultPrefix)
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return ImageResultPayload{}, err
	}
	if res.Prompt == "" {
		res.Prompt = "Image generation"
	}
	return res, nil
}

// EncodeSystemDirective encodes a system prompt update.
func EncodeSystemDirective(prompt string) string {
	return systemDirectivePrefix + prompt
}
