// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/parley-ai/parley/internal/util"
)

// KV is durable per-key string storage. Get reports absence with its second
// return value; Set and Remove return an error only for I/O failure, never
// for a missing key.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// validKey limits keys to names that are safe as file names across
// platforms.
var validKey = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileKV stores each key as <dir>/<key>.json.
type FileKV struct {
	// Dir is the backing directory; created on construction.
	Dir string
}

// NewFileKV creates a file-backed KV store rooted at dir.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileKV{Dir: dir}, nil
}

// Get returns the stored value for key, or false when absent or unreadable.
func (s *FileKV) Get(key string) (string, bool) {
	if !validKey.MatchString(key) {
		return "", false
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set writes the value for key atomically.
func (s *FileKV) Set(key, value string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return util.AtomicWriteFile(s.path(key), []byte(value), 0644)
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *FileKV) Remove(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Keys returns all stored keys.
func (s *FileKV) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return keys, nil
}

func (s *FileKV) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

// =============================================================================
// IN-MEMORY BACKEND
// =============================================================================

// MemKV is an in-memory KV for tests.
type MemKV struct {
	values map[string]string
}

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{values: make(map[string]string)}
}

// Get returns the stored value for key.
func (s *MemKV) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores the value for key.
func (s *MemKV) Set(key, value string) error {
	s.values[key] = value
	return nil
}

// Remove deletes the key.
func (s *MemKV) Remove(key string) error {
	delete(s.values, key)
	return nil
}
