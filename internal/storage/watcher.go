// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// SNAPSHOT WATCHER
// =============================================================================

// Watcher reports external changes to keys of a FileKV directory, so a
// running instance can reload snapshots rewritten by another process.
// Events are debounced per key: atomic writes produce create+rename pairs
// that would otherwise double-fire.
type Watcher struct {
	kv       *FileKV
	watcher  *fsnotify.Watcher
	onChange func(key string)
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the given FileKV. onChange is invoked
// from a background goroutine with the changed key.
func NewWatcher(kv *FileKV, debounce time.Duration, onChange func(key string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		kv:       kv,
		watcher:  fsw,
		onChange: onChange,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}
	return w, nil
}

// Watch starts delivering change notifications.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(w.kv.Dir); err != nil {
		return err
	}
	go w.processEvents()
	go w.processPending()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".tmp-") {
				continue
			}
			key := strings.TrimSuffix(name, ".json")
			w.mu.Lock()
			w.pending[key] = time.Now()
			w.mu.Unlock()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are not actionable for the stores; the next
			// explicit load still reads the file directly.
		}
	}
}

func (w *Watcher) processPending() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			var fire []string
			w.mu.Lock()
			for key, at := range w.pending {
				if now.Sub(at) >= w.debounce {
					fire = append(fire, key)
					delete(w.pending, key)
				}
			}
			w.mu.Unlock()
			for _, key := range fire {
				w.onChange(key)
			}
		}
	}
}
