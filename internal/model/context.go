// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Context is a top-level category. Each context owns its own conversation
// and section collections.
type Context string

const (
	ContextChat     Context = "chat"
	ContextImage    Context = "image"
	ContextAudio    Context = "audio"
	ContextVideo    Context = "video"
	ContextDoc      Context = "doc"
	ContextAgent    Context = "agent"
	ContextSettings Context = "settings"
)

// Contexts returns all contexts in display order.
func Contexts() []Context {
	return []Context{
		ContextChat,
		ContextImage,
		ContextAudio,
		ContextVideo,
		ContextDoc,
		ContextAgent,
		ContextSettings,
	}
}

// Valid reports whether c is one of the known contexts.
func (c Context) Valid() bool {
	for _, known := range Contexts() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the context.
func (c Context) String() string {
	return string(c)
}
