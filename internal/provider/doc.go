// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the client for hosted LLM providers.
//
// OpenAI and OpenRouter share the same OpenAI-compatible wire format, so
// a single Client covers chat completions (blocking and SSE streaming),
// image generation, and text-to-speech against either. Requests are rate
// limited, retried with exponential backoff on transient failures, and
// the well-known failure classes surface as sentinel errors usable with
// errors.Is.
//
// # Key Types
//
//   - Client: the HTTP client, built from config.ProviderConfig
//   - ChatRequest / ChatResponse: chat completions
//   - StreamChunk / StreamCallback: streaming deltas
//   - ImageRequest / ImageResponse: image generation
//   - SpeechRequest: text-to-speech
package provider
