// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// image.go - one-shot image generation command.
package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/provider"
)

// HandleImage generates images for a prompt and prints where each result
// landed: URLs directly, base64 payloads decoded to PNG files. Returns a
// process exit code.
func HandleImage(args Args, cfg *config.Config, log *zap.Logger) int {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "usage: parley image \"prompt\"")
		return 1
	}

	client := provider.New(cfg.Provider, log)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "no API key configured; run: parley config set provider.api_key <key>")
		return 1
	}

	imageModel := cfg.Image.Model
	if args.Model != "" {
		imageModel = args.Model
	}

	resp, err := client.GenerateImages(context.Background(), provider.ImageRequest{
		Model:   imageModel,
		Prompt:  args.Query,
		Size:    cfg.Image.Size,
		Quality: cfg.Image.Quality,
		Style:   cfg.Image.Style,
		N:       cfg.Image.Count,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	for i, img := range resp.Data {
		switch {
		case img.URL != "":
			fmt.Println(img.URL)
		case img.B64JSON != "":
			path, err := writeImageFile(args.Output, i, img.B64JSON)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return 1
			}
			fmt.Println(path)
		}
	}
	return 0
}

// writeImageFile decodes a base64 image payload to disk. With no explicit
// output path the file lands in the working directory with a timestamped
// name; an explicit path is used as-is for the first image and suffixed
// with the index for the rest.
func writeImageFile(output string, index int, b64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decoding image payload: %w", err)
	}

	path := output
	switch {
	case path == "":
		path = fmt.Sprintf("parley_%s_%d.png", time.Now().Format("20060102_150405"), index)
	case index > 0:
		ext := filepath.Ext(path)
		path = fmt.Sprintf("%s_%d%s", path[:len(path)-len(ext)], index, ext)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}
	return path, nil
}
