// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the structured logger used across parley.
//
// Diagnostics from the stores and the reorder engine (unknown ids, corrupt
// persisted state) are logged rather than surfaced as errors, so the logger
// writes to a file instead of stderr to stay out of the terminal UI's way.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogFile is the log location relative to the user home directory.
const DefaultLogFile = ".parley/parley.log"

// New builds the application logger. When verbose is true the level is
// lowered to Debug. The log directory is created if missing.
func New(verbose bool) (*zap.Logger, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewAt(filepath.Join(home, DefaultLogFile), verbose)
}

// NewAt builds a logger writing to the given file path.
func NewAt(path string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
