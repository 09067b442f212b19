// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/storage"
	"github.com/parley-ai/parley/internal/store"
)

// OpenStores opens the configured storage backend and the two stores on
// top of it. The returned cleanup closes the backend; call it on exit.
func OpenStores(cfg *config.Config, log *zap.Logger) (*store.Conversations, *store.Sections, func(), error) {
	kv, cleanup, err := OpenKV(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return store.NewConversations(kv, log), store.NewSections(kv, log), cleanup, nil
}

// OpenKV opens the key-value backend named by the configuration.
func OpenKV(cfg *config.Config) (storage.KV, func(), error) {
	path, err := cfg.DataDir()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("create data directory: %w", err)
		}
		kv, err := storage.NewSQLiteKV(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return kv, func() { _ = kv.Close() }, nil

	default: // "file"
		kv, err := storage.NewFileKV(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return kv, func() {}, nil
	}
}
