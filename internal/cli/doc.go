// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for parley.
//
// The default invocation with no arguments launches the TUI; the commands
// here cover one-shot and scripting use: asking a single question,
// generating an image, inspecting or exporting saved conversations, and
// managing configuration.
//
// # Key Types
//
//   - Command: enumeration of available CLI commands
//   - Args: parsed command-line arguments, global and per-command flags
//
// # Usage
//
// Parse and dispatch:
//
//	cmd, args := cli.Parse(os.Args[1:])
//	switch cmd {
//	case cli.CmdAsk:
//	    os.Exit(cli.HandleAsk(args, cfg, log))
//	case cli.CmdSessions:
//	    os.Exit(cli.HandleSessions(args, cfg, log))
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - ask: single question, streamed to the terminal when possible
//   - image: one-shot image generation
//   - sessions: list, search, and export saved conversations
//   - config: show, get, set, and locate configuration
//   - version, help: the usual
package cli
