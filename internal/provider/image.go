// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"fmt"
	"strings"
)

// =============================================================================
// IMAGE GENERATION
// =============================================================================

// ImageRequest represents a request to the image generations endpoint.
// Model families understand different parameter subsets; BuildPayload
// shapes the wire request accordingly.
type ImageRequest struct {
	Model   string
	Prompt  string
	Size    string
	Quality string
	Style   string
	N       int
}

// GeneratedImage is one image from a generation response.
type GeneratedImage struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ImageResponse represents a response from the image generations endpoint.
type ImageResponse struct {
	Created int64            `json:"created"`
	Data    []GeneratedImage `json:"data"`
}

// BuildPayload shapes the wire request for the configured model family:
//
//   - gpt-image-1 takes quality auto/low/medium/high and always returns
//     base64; it rejects response_format and style.
//   - dall-e-3 takes quality standard/hd plus style, and generates
//     exactly one image per request.
//   - dall-e-2 takes neither quality nor style.
func (r ImageRequest) BuildPayload() map[string]interface{} {
	payload := map[string]interface{}{
		"model":  r.Model,
		"prompt": r.Prompt,
		"n":      r.N,
	}
	if r.Size != "" {
		payload["size"] = r.Size
	}

	switch r.Model {
	case "gpt-image-1":
		if r.Quality != "" {
			payload["quality"] = r.Quality
		}
	case "dall-e-3":
		if r.Quality != "" {
			payload["quality"] = r.Quality
		}
		if r.Style != "" {
			payload["style"] = r.Style
		}
		payload["n"] = 1
		payload["response_format"] = "b64_json"
	default:
		payload["response_format"] = "b64_json"
	}
	return payload
}

// Validate checks the request before it is sent.
func (r ImageRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("image prompt must not be empty")
	}
	if r.N < 1 {
		return fmt.Errorf("image count must be at least 1, got %d", r.N)
	}
	if r.Model == "dall-e-3" && r.N > 1 {
		return fmt.Errorf("dall-e-3 generates one image per request, got n=%d", r.N)
	}
	return nil
}

// GenerateImages requests images for a prompt. A prompt rejected by the
// provider's safety system returns an error matching ErrContentPolicy.
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if req.N == 0 {
		req.N = 1
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp ImageResponse
	if err := c.postJSON(ctx, "/images/generations", req.BuildPayload(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("provider returned no images")
	}
	return &resp, nil
}
