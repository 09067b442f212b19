// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "github.com/parley-ai/parley/internal/model"

// seedChatConversations returns the default chat dataset with freshly
// generated ids and no section assignments.
func seedChatConversations() []model.Conversation {
	mk := func(title, date string, messages []model.Message) model.Conversation {
		return model.Conversation{
			ID:       model.NewID(),
			Title:    title,
			Date:     date,
			Messages: messages,
		}
	}

	return []model.Conversation{
		mk("Explain quantum computing", "12 Mar", []model.Message{
			model.NewSystemMessage(model.DefaultSystemPrompt),
			model.NewUserMessage("Explain quantum computing in simple terms"),
			model.NewAssistantMessage("Certainly! Quantum computing is a new type of computing that relies on the principles of quantum physics. Traditional computers, like the one you might be using right now, use bits to store and process information. These bits can represent either a 0 or a 1. In contrast, quantum computers use quantum bits, or qubits.\n\nUnlike bits, qubits can represent not only a 0 or a 1 but also a superposition of both states simultaneously. This means that a qubit can be in multiple states at once, which allows quantum computers to perform certain calculations much faster and more efficiently."),
			model.NewUserMessage("What are three great applications of quantum computing?"),
			model.NewAssistantMessage("Three great applications of quantum computing are: Optimization of complex problems, Drug Discovery and Cryptography."),
		}),
		mk("Tailwind classes", "10 Feb", []model.Message{
			model.NewSystemMessage(model.DefaultSystemPrompt),
			model.NewUserMessage("Hello!"),
			model.NewAssistantMessage("How can I help you?"),
		}),
		mk("How to create an ERP diagram", "22 Jan", []model.Message{
			model.NewSystemMessage(model.DefaultSystemPrompt),
			model.NewUserMessage("Hello!"),
			model.NewAssistantMessage("How can I help you?"),
			model.NewUserMessage("What is the height of the eiffel tower?"),
			model.NewAssistantMessage("about 330m"),
		}),
		mk("API scaling strategies", "1 Jan", []model.Message{
			model.NewSystemMessage(model.DefaultSystemPrompt),
			model.NewUserMessage("Hello!"),
			model.NewAssistantMessage("How can I help you?"),
			model.NewUserMessage("What is the height of the eiffel tower?"),
			model.NewAssistantMessage("about 330m"),
		}),
	}
}

// seedConversations builds the full default dataset: the chat context gets
// the sample conversations, every other context gets a single fresh
// default conversation so the non-empty invariant holds everywhere.
func seedConversations() map[model.Context][]model.Conversation {
	contexts := make(map[model.Context][]model.Conversation, len(model.Contexts()))
	for _, c := range model.Contexts() {
		if c == model.ContextChat {
			contexts[c] = seedChatConversations()
			continue
		}
		contexts[c] = []model.Conversation{model.NewConversation()}
	}
	return contexts
}

// seedSections builds the default section dataset: every context starts
// with no sections.
func seedSections() map[model.Context][]model.Section {
	contexts := make(map[model.Context][]model.Section, len(model.Contexts()))
	for _, c := range model.Contexts() {
		contexts[c] = []model.Section{}
	}
	return contexts
}
