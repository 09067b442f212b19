// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// Default values for newly created entities.
const (
	DefaultConversationTitle = "New conversation"
	DefaultSectionTitle      = "New section"
	DefaultSystemPrompt      = "You are a helpful assistant."
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered message thread with display metadata.
//
// SectionID references a Section in the same context, or is empty for an
// unsectioned conversation. The reference is non-owning: section deletion
// and conversation mutation are not transactional together, so a dangling
// SectionID must be treated as "unsectioned" by consumers.
type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     string    `json:"date"`
	Messages []Message `json:"messages"`

	// SectionID serializes as "sectionId" to stay compatible with the
	// legacy snapshot shape. An empty string means unsectioned; the legacy
	// JSON null decodes to exactly that.
	SectionID string `json:"sectionId"`
}

// NewConversation creates a conversation with a fresh ID, the default title,
// today's date stamp and the default system message.
func NewConversation() Conversation {
	return Conversation{
		ID:       NewID(),
		Title:    DefaultConversationTitle,
		Date:     DateStamp(time.Now()),
		Messages: []Message{NewSystemMessage(DefaultSystemPrompt)},
	}
}

// SystemMessageIndex returns the index of the system message, or -1.
func (c *Conversation) SystemMessageIndex() int {
	for i, msg := range c.Messages {
		if msg.Role == RoleSystem {
			return i
		}
	}
	return -1
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// LastMessage returns the most recent message and true, or false when the
// log is empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Unsectioned reports whether the conversation has no section assignment.
func (c *Conversation) Unsectioned() bool {
	return c.SectionID == ""
}

// AwaitingTitle reports whether the next user message should become the
// conversation title: the log holds a single message, or exactly two with
// the first being the system message.
func (c *Conversation) AwaitingTitle() bool {
	switch len(c.Messages) {
	case 1:
		return true
	case 2:
		return c.Messages[0].Role == RoleSystem
	default:
		return false
	}
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return clone
}

// =============================================================================
// SECTION TYPE
// =============================================================================

// Section is a named, collapsible grouping of conversations within one
// context. A section with zero member conversations is valid and persists
// until explicitly deleted.
type Section struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Collapsed bool   `json:"collapsed"`
}

// NewSection creates a section with a fresh ID and the default title.
func NewSection() Section {
	return Section{
		ID:    NewID(),
		Title: DefaultSectionTitle,
	}
}
