// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot question command.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/provider"
)

// HandleAsk sends a single prompt to the configured chat provider and
// prints the reply. Returns a process exit code.
func HandleAsk(args Args, cfg *config.Config, log *zap.Logger) int {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "usage: parley ask \"question\"")
		return 1
	}

	client := provider.New(cfg.Provider, log)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "no API key configured; run: parley config set provider.api_key <key>")
		return 1
	}

	chatModel := cfg.Chat.Model
	if args.Model != "" {
		chatModel = args.Model
	}

	req := provider.ChatRequest{
		Model: chatModel,
		Messages: []provider.ChatMessage{
			{Role: "system", Content: cfg.Chat.SystemPrompt},
			{Role: "user", Content: args.Query},
		},
		Temperature: cfg.Chat.Temperature,
		TopP:        cfg.Chat.TopP,
		MaxTokens:   cfg.Chat.MaxTokens,
	}

	// Stream to the terminal when possible; pipes and --json get the
	// complete reply in one piece.
	stream := cfg.Chat.Stream && IsStdoutTTY() && !args.JSON && args.Subcommand != "no-stream"

	ctx := context.Background()
	var reply string
	var err error
	if stream {
		err = client.ChatStream(ctx, req, func(chunk provider.StreamChunk) {
			text := chunk.GetContent()
			reply += text
			fmt.Print(text)
		})
		if err == nil {
			fmt.Println()
		}
	} else {
		var resp *provider.ChatResponse
		resp, err = client.Chat(ctx, req)
		if err == nil {
			reply = resp.GetContent()
		}
	}

	if err != nil {
		if stream && reply != "" {
			// Whatever streamed before the failure is already on screen.
			fmt.Println()
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if args.JSON {
		out, _ := json.MarshalIndent(map[string]string{
			"model":    chatModel,
			"question": args.Query,
			"reply":    reply,
		}, "", "  ")
		fmt.Println(string(out))
		return 0
	}
	if !stream {
		fmt.Println(WrapText(reply, GetTerminalWidth()))
	}
	return 0
}
