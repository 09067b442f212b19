// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - argument parsing and command dispatch for parley.
package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdImage
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet bool
	JSON  bool
	Model string

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Format     string
	Output     string
	Stdout     bool

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `parley - terminal chat client for hosted LLM providers

Parley keeps your conversations, sections and settings on disk and talks
to OpenAI-compatible chat, image and speech endpoints.

Usage:
  parley                      Start the TUI (default)
  parley ask "question"       Ask a single question and print the reply
  parley image "prompt"       Generate an image and print its location
  parley sessions <cmd>       Inspect the persisted conversation store
  parley config [show|get|set|path]  Configuration
  parley version              Show version information
  parley help                 Show this help

Ask:
  parley ask "question"
    --model NAME              Override the configured chat model
    --no-stream               Wait for the full reply instead of streaming
    --json                    Print the reply as a JSON document

Sessions:
  parley sessions list              List conversations per context
  parley sessions search <query>    Search titles and message content
  parley sessions export <id>       Export one conversation
    --format markdown|json|html     Export format (default: markdown)
    --output DIR                    Output directory (default: current)
    --stdout                        Write to stdout instead of a file

Config:
  parley config show                Print the active configuration
  parley config get <key>           Print one value (dotted key)
  parley config set <key> <value>   Set and persist one value
  parley config path                Print the config file location

Environment:
  PARLEY_PROVIDER, PARLEY_MODEL, PARLEY_BASE_URL, PARLEY_API_KEY,
  PARLEY_STORAGE_BACKEND override the corresponding config values.
  OPENAI_API_KEY / OPENROUTER_API_KEY are used when no explicit key is set.
  PARLEY_DEBUG=1 enables debug logging to ~/.parley/parley.log.

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("parley version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses the given argument vector (without the program name) and
// returns the command and its arguments.
func Parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "image", "imagine":
		parseAskArgs(&args, remaining)
		return CmdImage, args

	case "session", "sessions":
		parseSessionsArgs(&args, remaining)
		return CmdSessions, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args
	}

	// Unknown commands fall back to help so a typo never silently
	// starts the TUI.
	return CmdHelp, args
}

// parseGlobalFlags extracts flags that apply to every command.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--quiet", "-q":
			args.Quiet = true
		case "--json":
			args.JSON = true
		case "--model", "-m":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		default:
			remaining = append(remaining, argv[i])
		}
	}
	return remaining, args
}

func parseAskArgs(args *Args, remaining []string) {
	var parts []string
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "--no-stream":
			args.Subcommand = "no-stream"
		case "--model", "-m":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			parts = append(parts, remaining[i])
		}
	}
	args.Query = strings.Join(parts, " ")
}

func parseSessionsArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "list"
		return
	}
	args.Subcommand = remaining[0]

	var parts []string
	for i := 1; i < len(remaining); i++ {
		switch remaining[i] {
		case "--format":
			if i+1 < len(remaining) {
				i++
				args.Format = remaining[i]
			}
		case "--output", "-o":
			if i+1 < len(remaining) {
				i++
				args.Output = remaining[i]
			}
		case "--stdout":
			args.Stdout = true
		default:
			parts = append(parts, remaining[i])
		}
	}
	args.Query = strings.Join(parts, " ")
}

func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = remaining[0]
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
}
