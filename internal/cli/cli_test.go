// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
)

// =============================================================================
// ARGUMENT PARSING TESTS (cli.go)
// =============================================================================

func TestParse_CommandDispatch(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args starts the TUI", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"image", []string{"image", "a red fox"}, CmdImage},
		{"imagine alias", []string{"imagine", "a red fox"}, CmdImage},
		{"sessions", []string{"sessions"}, CmdSessions},
		{"session alias", []string{"session", "list"}, CmdSessions},
		{"config", []string{"config"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
		{"typo falls back to help", []string{"aks", "hello"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := Parse(tt.argv)
			if cmd != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := Parse([]string{"--json", "-q", "--model", "gpt-4o-mini", "ask", "hello"})
	if cmd != CmdAsk {
		t.Fatalf("Parse() cmd = %v, want CmdAsk", cmd)
	}
	if !args.JSON {
		t.Error("JSON flag not set")
	}
	if !args.Quiet {
		t.Error("Quiet flag not set")
	}
	if args.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want %q", args.Model, "gpt-4o-mini")
	}
	if args.Query != "hello" {
		t.Errorf("Query = %q, want %q", args.Query, "hello")
	}
}

func TestParse_AskJoinsQueryWords(t *testing.T) {
	_, args := Parse([]string{"ask", "what", "is", "a", "monad"})
	if args.Query != "what is a monad" {
		t.Errorf("Query = %q, want %q", args.Query, "what is a monad")
	}
}

func TestParse_AskNoStream(t *testing.T) {
	_, args := Parse([]string{"ask", "--no-stream", "hello"})
	if args.Subcommand != "no-stream" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "no-stream")
	}
	if args.Query != "hello" {
		t.Errorf("Query = %q, want %q", args.Query, "hello")
	}
}

func TestParse_AskModelAfterCommand(t *testing.T) {
	_, args := Parse([]string{"ask", "-m", "o4-mini", "hello"})
	if args.Model != "o4-mini" {
		t.Errorf("Model = %q, want %q", args.Model, "o4-mini")
	}
}

func TestParse_SessionsDefaultsToList(t *testing.T) {
	_, args := Parse([]string{"sessions"})
	if args.Subcommand != "list" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "list")
	}
}

func TestParse_SessionsExportFlags(t *testing.T) {
	_, args := Parse([]string{"sessions", "export", "conv-1", "--format", "html", "--output", "/tmp/out", "--stdout"})
	if args.Subcommand != "export" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "export")
	}
	if args.Query != "conv-1" {
		t.Errorf("Query = %q, want %q", args.Query, "conv-1")
	}
	if args.Format != "html" {
		t.Errorf("Format = %q, want %q", args.Format, "html")
	}
	if args.Output != "/tmp/out" {
		t.Errorf("Output = %q, want %q", args.Output, "/tmp/out")
	}
	if !args.Stdout {
		t.Error("Stdout flag not set")
	}
}

func TestParse_SessionsSearchJoinsQuery(t *testing.T) {
	_, args := Parse([]string{"sessions", "search", "quantum", "computing"})
	if args.Subcommand != "search" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "search")
	}
	if args.Query != "quantum computing" {
		t.Errorf("Query = %q, want %q", args.Query, "quantum computing")
	}
}

func TestParse_ConfigSubcommands(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantSub string
		wantKey string
		wantVal string
	}{
		{"bare config shows", []string{"config"}, "show", "", ""},
		{"get", []string{"config", "get", "chat.model"}, "get", "chat.model", ""},
		{"set", []string{"config", "set", "chat.model", "gpt-4o"}, "set", "chat.model", "gpt-4o"},
		{"set joins value words", []string{"config", "set", "chat.system_prompt", "Be", "terse"}, "set", "chat.system_prompt", "Be terse"},
		{"path", []string{"config", "path"}, "path", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args := Parse(tt.argv)
			if args.Subcommand != tt.wantSub {
				t.Errorf("Subcommand = %q, want %q", args.Subcommand, tt.wantSub)
			}
			if args.ConfigKey != tt.wantKey {
				t.Errorf("ConfigKey = %q, want %q", args.ConfigKey, tt.wantKey)
			}
			if args.ConfigVal != tt.wantVal {
				t.Errorf("ConfigVal = %q, want %q", args.ConfigVal, tt.wantVal)
			}
		})
	}
}

// =============================================================================
// TERMINAL HELPER TESTS (terminal.go)
// =============================================================================

func TestWrapText_ShortLineUnchanged(t *testing.T) {
	if got := WrapText("hello world", 40); got != "hello world" {
		t.Errorf("WrapText() = %q", got)
	}
}

func TestWrapText_WrapsAtWidth(t *testing.T) {
	got := WrapText("one two three four five six seven eight", 15)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 15 {
			t.Errorf("line %q exceeds width 15", line)
		}
	}
	if !strings.Contains(got, "\n") {
		t.Error("expected wrapped output to span multiple lines")
	}
}

func TestWrapText_PreservesParagraphBreaks(t *testing.T) {
	got := WrapText("first paragraph\n\nsecond paragraph", 40)
	if !strings.Contains(got, "\n\n") {
		t.Errorf("paragraph break lost: %q", got)
	}
}

func TestWrapText_ZeroWidthUsesDefault(t *testing.T) {
	got := WrapText("hello", 0)
	if got != "hello" {
		t.Errorf("WrapText() = %q, want %q", got, "hello")
	}
}
