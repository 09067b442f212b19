// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - saved conversation inspection and export.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/export"
	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/store"
)

// HandleSessions runs the sessions subcommands: list, search, export.
// Returns a process exit code.
func HandleSessions(args Args, cfg *config.Config, log *zap.Logger) int {
	convs, secs, cleanup, err := OpenStores(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer cleanup()

	switch args.Subcommand {
	case "list":
		return sessionsList(args, convs, secs)
	case "search":
		return sessionsSearch(args, convs)
	case "export":
		return sessionsExport(args, convs)
	default:
		fmt.Fprintf(os.Stderr, "unknown sessions subcommand: %s\n", args.Subcommand)
		return 1
	}
}

func sessionsList(args Args, convs *store.Conversations, secs *store.Sections) int {
	var all []model.Conversation
	for _, ictx := range model.Contexts() {
		all = append(all, convs.List(ictx)...)
	}

	if args.JSON {
		type row struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Date     string `json:"date"`
			Messages int    `json:"messages"`
			Section  string `json:"section,omitempty"`
		}
		rows := make([]row, 0, len(all))
		for _, ictx := range model.Contexts() {
			for _, c := range convs.List(ictx) {
				r := row{ID: c.ID, Title: c.Title, Date: c.Date, Messages: c.MessageCount()}
				if sec, ok := secs.Get(ictx, c.SectionID); ok {
					r.Section = sec.Title
				}
				rows = append(rows, r)
			}
		}
		out, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(out))
		return 0
	}

	if len(all) == 0 {
		fmt.Println("no conversations yet")
		return 0
	}
	for _, ictx := range model.Contexts() {
		list := convs.List(ictx)
		if len(list) == 0 {
			continue
		}
		fmt.Printf("%s:\n", ictx)
		for _, c := range list {
			label := c.Title
			if sec, ok := secs.Get(ictx, c.SectionID); ok {
				label = fmt.Sprintf("%s  [%s]", label, sec.Title)
			}
			fmt.Printf("  %-36s  %-10s  %2d msgs  %s\n", c.ID, c.Date, c.MessageCount(), label)
		}
	}
	return 0
}

func sessionsSearch(args Args, convs *store.Conversations) int {
	query := strings.ToLower(strings.TrimSpace(args.Query))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: parley sessions search \"query\"")
		return 1
	}

	found := 0
	for _, ictx := range model.Contexts() {
		for _, c := range convs.List(ictx) {
			if !matchesQuery(c, query) {
				continue
			}
			found++
			fmt.Printf("%-36s  %s  %s\n", c.ID, ictx, c.Title)
		}
	}
	if found == 0 {
		fmt.Println("no matches")
	}
	return 0
}

func matchesQuery(c model.Conversation, query string) bool {
	if strings.Contains(strings.ToLower(c.Title), query) {
		return true
	}
	for _, m := range c.Messages {
		// Sentinel payloads carry JSON, not prose; match their decoded
		// prompt instead of the raw envelope.
		if req, ok := m.Payload().(model.ImageRequestPayload); ok {
			if strings.Contains(strings.ToLower(req.Prompt), query) {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToLower(m.Content), query) {
			return true
		}
	}
	return false
}

func sessionsExport(args Args, convs *store.Conversations) int {
	id := strings.TrimSpace(args.Query)
	if id == "" {
		fmt.Fprintln(os.Stderr, "usage: parley sessions export <conversation-id> [--format md|json|html] [--output dir]")
		return 1
	}

	var conv model.Conversation
	var found bool
	for _, ictx := range model.Contexts() {
		if c, ok := convs.Get(ictx, id); ok {
			conv, found = c, true
			break
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "conversation not found: %s\n", id)
		return 1
	}

	format := args.Format
	if format == "" {
		format = "markdown"
	}
	opts := export.DefaultOptions()
	if args.Output != "" {
		opts.OutputDir = args.Output
	}

	exporter, err := export.ByFormat(format, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if args.Stdout {
		data, err := exporter.Export(&conv)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0
	}

	path, err := export.ExportToFile(&conv, exporter, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("exported to %s\n", path)
	return 0
}
