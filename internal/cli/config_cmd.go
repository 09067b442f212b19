// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - config inspection and mutation subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/parley-ai/parley/internal/config"
)

// HandleConfig runs the config subcommands: show, get, set, path.
// Returns a process exit code.
func HandleConfig(args Args, cfg *config.Config) int {
	switch args.Subcommand {
	case "show":
		fmt.Print(cfg.String())
		return 0

	case "get":
		if args.ConfigKey == "" {
			fmt.Fprintln(os.Stderr, "usage: parley config get <key>")
			return 1
		}
		val, err := cfg.Get(args.ConfigKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Println(val)
		return 0

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			fmt.Fprintln(os.Stderr, "usage: parley config set <key> <value>")
			return 1
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error saving config: %v\n", err)
			return 1
		}
		fmt.Printf("%s = %s\n", args.ConfigKey, args.ConfigVal)
		return 0

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand: %s\n", args.Subcommand)
		return 1
	}
}
