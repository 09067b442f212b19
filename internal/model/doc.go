// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, sections
// and messages.
//
// Each Context (chat, image, audio, ...) owns an independent collection of
// conversations and sections; no cross-context references exist. A
// conversation's SectionID is a non-owning reference into the section
// collection of the same context: consumers must treat an unknown SectionID
// as "unsectioned" rather than fail.
//
// # Key Types
//
//   - Context: top-level category partitioning the collections
//   - Conversation: ordered message thread with title, date stamp and
//     optional section membership
//   - Message: single message with role and content; content may carry a
//     tagged payload (text, image request, image result, system directive)
//   - Section: named, collapsible grouping of conversations
//   - Role: message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a conversation with the default system message:
//
//	conv := model.NewConversation()
//	conv.Messages = append(conv.Messages, model.NewUserMessage("Hello!"))
//
// Inspect a message payload:
//
//	switch p := msg.Payload().(type) {
//	case model.TextPayload:
//	    fmt.Println(p.Text)
//	case model.ImageRequestPayload:
//	    fmt.Println(p.Prompt)
//	}
package model
