// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key-value collaborators behind the
// conversation and section stores.
//
// The stores persist whole collections as JSON strings under fixed keys;
// this package only moves those strings to and from disk. Two backends are
// provided: a file-per-key store with atomic writes, and a single-file
// SQLite store.
//
// # Key Types
//
//   - KV: the narrow get/set/remove interface the stores depend on
//   - FileKV: one file per key, crash-safe via atomic rename
//   - SQLiteKV: a kv table in a SQLite database
//   - Watcher: fsnotify-based change notification for FileKV directories
//
// # Usage
//
//	kv, err := storage.NewFileKV(dir)
//	if err != nil { ... }
//	kv.Set("convo", snapshotJSON)
//	if raw, ok := kv.Get("convo"); ok { ... }
package storage
