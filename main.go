// parley - a terminal chat client for hosted LLM providers.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/cli"
	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/dnd"
	"github.com/parley-ai/parley/internal/logging"
	"github.com/parley-ai/parley/internal/orchestrator"
	"github.com/parley-ai/parley/internal/provider"
	"github.com/parley-ai/parley/internal/storage"
	"github.com/parley-ai/parley/internal/store"
	"github.com/parley-ai/parley/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(os.Getenv("PARLEY_DEBUG") != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	switch cmd {
	case cli.CmdAsk:
		os.Exit(cli.HandleAsk(args, cfg, log))
	case cli.CmdImage:
		os.Exit(cli.HandleImage(args, cfg, log))
	case cli.CmdSessions:
		os.Exit(cli.HandleSessions(args, cfg, log))
	case cli.CmdConfig:
		os.Exit(cli.HandleConfig(args, cfg))
	case cli.CmdTUI:
		os.Exit(runTUI(args, cfg, log))
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// runTUI wires the stores, drag engine, provider client and orchestrator
// together and hands the assembled app to bubbletea.
func runTUI(args cli.Args, cfg *config.Config, log *zap.Logger) int {
	if args.Model != "" {
		cfg.Chat.Model = args.Model
	}

	kv, cleanup, err := cli.OpenKV(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening storage: %v\n", err)
		return 1
	}
	defer cleanup()

	convs := store.NewConversations(kv, log)
	secs := store.NewSections(kv, log)
	engine := dnd.NewEngine(convs, secs, log)

	client := provider.New(cfg.Provider, log)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "warning: no API key configured; sending messages will fail")
		fmt.Fprintln(os.Stderr, "  set one with: parley config set provider.api_key <key>")
	}

	dispatcher := &ui.Dispatcher{}
	orch := orchestrator.New(convs, client, cfg, log, dispatcher.Notify)

	app := ui.NewApp(cfg, convs, secs, engine, orch)
	p := tea.NewProgram(app, tea.WithAltScreen())
	dispatcher.Bind(p)

	// With the file backend, external edits to the data directory are
	// picked up live so two processes see each other's changes.
	if cfg.Storage.WatchExternal {
		if fileKV, ok := kv.(*storage.FileKV); ok {
			watcher, err := storage.NewWatcher(fileKV, 250*time.Millisecond, func(string) {
				convs.Reload()
				secs.Reload()
				p.Send(ui.StoreReloadedMsg{})
			})
			if err != nil {
				log.Warn("external change watching unavailable", zap.Error(err))
			} else if err := watcher.Watch(); err != nil {
				log.Warn("external change watching unavailable", zap.Error(err))
			} else {
				defer watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	orch.Wait()
	return 0
}
