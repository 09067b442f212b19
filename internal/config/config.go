// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// parley.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.parley/config.toml
//   - ~/.parley/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/parley-ai/parley/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete parley configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Provider configuration (OpenAI or OpenRouter)
	Provider ProviderConfig `toml:"provider" json:"provider"`

	// Chat completion parameters
	Chat ChatConfig `toml:"chat" json:"chat"`

	// Image generation parameters
	Image ImageConfig `toml:"image" json:"image"`

	// Text-to-speech parameters
	Audio AudioConfig `toml:"audio" json:"audio"`

	// Local persistence configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// ProviderConfig selects and authenticates the hosted LLM provider.
type ProviderConfig struct {
	// Name is the provider to use: "openai" or "openrouter".
	Name string `toml:"name" json:"name"`
	// APIKey authenticates against the provider.
	APIKey string `toml:"api_key" json:"api_key"`
	// BaseURL overrides the provider's default API endpoint. Empty uses
	// the provider's well-known URL.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is how many times a failed request is retried.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RequestsPerMinute caps the outbound request rate. 0 disables the
	// limiter.
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// ChatConfig contains chat completion parameters.
type ChatConfig struct {
	// Model is the chat completion model.
	Model string `toml:"model" json:"model"`
	// MaxTokens bounds the completion length. 0 lets the provider decide.
	MaxTokens int `toml:"max_tokens" json:"max_tokens"`
	// Temperature is the sampling temperature, 0 to 2.
	Temperature float64 `toml:"temperature" json:"temperature"`
	// TopP is the nucleus sampling cutoff, 0 to 1.
	TopP float64 `toml:"top_p" json:"top_p"`
	// Stream enables token-by-token streaming responses.
	Stream bool `toml:"stream" json:"stream"`
	// SystemPrompt seeds new conversations.
	SystemPrompt string `toml:"system_prompt" json:"system_prompt"`
}

// ImageConfig contains image generation parameters. Size, Quality, and
// Style accept the values the configured model family understands; see
// Validate.
type ImageConfig struct {
	// Model is the image model: "gpt-image-1", "dall-e-3", or "dall-e-2".
	Model string `toml:"model" json:"model"`
	// Size is the output dimensions, e.g. "1024x1024".
	Size string `toml:"size" json:"size"`
	// Quality is model-dependent: "standard"/"hd" for dall-e-3,
	// "low"/"medium"/"high" for gpt-image-1.
	Quality string `toml:"quality" json:"quality"`
	// Style is "vivid" or "natural" (dall-e-3 only).
	Style string `toml:"style" json:"style"`
	// Count is how many images to request per prompt.
	Count int `toml:"count" json:"count"`
}

// AudioConfig contains text-to-speech parameters.
type AudioConfig struct {
	// Enabled turns on read-aloud for assistant replies.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Model is the TTS model, e.g. "tts-1".
	Model string `toml:"model" json:"model"`
	// Voice selects the synthetic voice.
	Voice string `toml:"voice" json:"voice"`
	// Format is the audio container: "mp3", "opus", "aac", or "flac".
	Format string `toml:"format" json:"format"`
}

// StorageConfig selects where conversation state is persisted.
type StorageConfig struct {
	// Backend is "file" (one JSON document per key) or "sqlite".
	Backend string `toml:"backend" json:"backend"`
	// Path overrides the data location. Empty uses ~/.parley/data for the
	// file backend and ~/.parley/parley.db for sqlite.
	Path string `toml:"path" json:"path"`
	// WatchExternal reloads state when another process rewrites the
	// snapshot files. File backend only.
	WatchExternal bool `toml:"watch_external" json:"watch_external"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// CompactMode tightens sidebar spacing.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowTimestamps renders a date next to each conversation.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// RenderMarkdown formats assistant replies as rich text.
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Provider: ProviderConfig{
			Name:              "openai",
			APIKey:            "",
			TimeoutSecs:       120,
			MaxRetries:        2,
			RequestsPerMinute: 60,
		},

		Chat: ChatConfig{
			Model:        "gpt-4o-mini",
			MaxTokens:    0, // provider default
			Temperature:  1.0,
			TopP:         1.0,
			Stream:       true,
			SystemPrompt: "You are a helpful assistant.",
		},

		Image: ImageConfig{
			Model:   "gpt-image-1",
			Size:    "1024x1024",
			Quality: "medium",
			Style:   "vivid",
			Count:   1,
		},

		Audio: AudioConfig{
			Enabled: false,
			Model:   "tts-1",
			Voice:   "alloy",
			Format:  "mp3",
		},

		Storage: StorageConfig{
			Backend:       "file",
			WatchExternal: false,
		},

		UI: UIConfig{
			Theme:          "dark",
			CompactMode:    false,
			ShowTimestamps: true,
			RenderMarkdown: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the parley configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".parley"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DataDir returns the directory holding persisted conversation state,
// honoring the storage path override.
func (c *Config) DataDir() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == "sqlite" {
		return filepath.Join(dir, "parley.db"), nil
	}
	return filepath.Join(dir, "data"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finishLoad(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.Provider.Name == "" {
		cfg.Provider.Name = defaults.Provider.Name
	}
	if cfg.Provider.TimeoutSecs == 0 {
		cfg.Provider.TimeoutSecs = defaults.Provider.TimeoutSecs
	}
	if cfg.Provider.RequestsPerMinute == 0 {
		cfg.Provider.RequestsPerMinute = defaults.Provider.RequestsPerMinute
	}

	if cfg.Chat.Model == "" {
		cfg.Chat.Model = defaults.Chat.Model
	}
	if cfg.Chat.Temperature == 0 {
		cfg.Chat.Temperature = defaults.Chat.Temperature
	}
	if cfg.Chat.TopP == 0 {
		cfg.Chat.TopP = defaults.Chat.TopP
	}
	if cfg.Chat.SystemPrompt == "" {
		cfg.Chat.SystemPrompt = defaults.Chat.SystemPrompt
	}

	if cfg.Image.Model == "" {
		cfg.Image.Model = defaults.Image.Model
	}
	if cfg.Image.Size == "" {
		cfg.Image.Size = defaults.Image.Size
	}
	if cfg.Image.Quality == "" {
		cfg.Image.Quality = qualityDefault(cfg.Image.Model)
	}
	if cfg.Image.Style == "" {
		cfg.Image.Style = defaults.Image.Style
	}
	if cfg.Image.Count == 0 {
		cfg.Image.Count = defaults.Image.Count
	}

	if cfg.Audio.Model == "" {
		cfg.Audio.Model = defaults.Audio.Model
	}
	if cfg.Audio.Voice == "" {
		cfg.Audio.Voice = defaults.Audio.Voice
	}
	if cfg.Audio.Format == "" {
		cfg.Audio.Format = defaults.Audio.Format
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	return nil
}

func qualityDefault(imageModel string) string {
	if imageModel == "dall-e-3" || imageModel == "dall-e-2" {
		return "standard"
	}
	return "medium"
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# parley configuration file")
	fmt.Fprintln(file, "# Generated by parley - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions,
// written atomically so a crash cannot leave a half-written config.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors aggregates every validation failure in one pass.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	validProviders    = []string{"openai", "openrouter"}
	validImageModels  = []string{"gpt-image-1", "dall-e-3", "dall-e-2"}
	validAudioFormats = []string{"mp3", "opus", "aac", "flac"}
	validBackends     = []string{"file", "sqlite"}
	validThemes       = []string{"dark", "light"}
)

// Validate checks the configuration for invalid values and returns every
// problem found, not just the first.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if !contains(validProviders, c.Provider.Name) {
		errs = append(errs, ValidationError{
			Field:   "provider.name",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validProviders, ", "), c.Provider.Name),
		})
	}
	if c.Provider.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "provider.timeout_secs", Message: "must not be negative"})
	}
	if c.Provider.MaxRetries < 0 {
		errs = append(errs, ValidationError{Field: "provider.max_retries", Message: "must not be negative"})
	}
	if c.Provider.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "provider.requests_per_minute", Message: "must not be negative"})
	}

	if c.Chat.MaxTokens < 0 {
		errs = append(errs, ValidationError{Field: "chat.max_tokens", Message: "must not be negative"})
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		errs = append(errs, ValidationError{Field: "chat.temperature", Message: "must be between 0 and 2"})
	}
	if c.Chat.TopP < 0 || c.Chat.TopP > 1 {
		errs = append(errs, ValidationError{Field: "chat.top_p", Message: "must be between 0 and 1"})
	}

	if !contains(validImageModels, c.Image.Model) {
		errs = append(errs, ValidationError{
			Field:   "image.model",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validImageModels, ", "), c.Image.Model),
		})
	}
	if c.Image.Count < 1 || c.Image.Count > 10 {
		errs = append(errs, ValidationError{Field: "image.count", Message: "must be between 1 and 10"})
	}
	if c.Image.Model == "dall-e-3" && c.Image.Count != 1 {
		errs = append(errs, ValidationError{Field: "image.count", Message: "dall-e-3 generates one image per request"})
	}

	if !contains(validAudioFormats, c.Audio.Format) {
		errs = append(errs, ValidationError{
			Field:   "audio.format",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validAudioFormats, ", "), c.Audio.Format),
		})
	}

	if !contains(validBackends, c.Storage.Backend) {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validBackends, ", "), c.Storage.Backend),
		})
	}
	if c.Storage.WatchExternal && c.Storage.Backend != "file" {
		errs = append(errs, ValidationError{Field: "storage.watch_external", Message: "requires the file backend"})
	}

	if !contains(validThemes, c.UI.Theme) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validThemes, ", "), c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// PARLEY_* variables win over provider-specific key variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PARLEY_PROVIDER"); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv("PARLEY_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("PARLEY_MODEL"); v != "" {
		c.Chat.Model = v
	}
	if v := os.Getenv("PARLEY_API_KEY"); v != "" {
		c.Provider.APIKey = v
	} else if c.Provider.APIKey == "" {
		switch c.Provider.Name {
		case "openrouter":
			c.Provider.APIKey = os.Getenv("OPENROUTER_API_KEY")
		default:
			c.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if v := os.Getenv("PARLEY_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
}

// =============================================================================
// KEY ACCESS
// =============================================================================

// Get returns a configuration value by dotted key, e.g. "chat.model".
func (c *Config) Get(key string) (interface{}, error) {
	switch key {
	case "provider.name":
		return c.Provider.Name, nil
	case "provider.api_key":
		return c.Provider.APIKey, nil
	case "provider.base_url":
		return c.Provider.BaseURL, nil
	case "provider.timeout_secs":
		return c.Provider.TimeoutSecs, nil
	case "provider.max_retries":
		return c.Provider.MaxRetries, nil
	case "provider.requests_per_minute":
		return c.Provider.RequestsPerMinute, nil
	case "chat.model":
		return c.Chat.Model, nil
	case "chat.max_tokens":
		return c.Chat.MaxTokens, nil
	case "chat.temperature":
		return c.Chat.Temperature, nil
	case "chat.top_p":
		return c.Chat.TopP, nil
	case "chat.stream":
		return c.Chat.Stream, nil
	case "chat.system_prompt":
		return c.Chat.SystemPrompt, nil
	case "image.model":
		return c.Image.Model, nil
	case "image.size":
		return c.Image.Size, nil
	case "image.quality":
		return c.Image.Quality, nil
	case "image.style":
		return c.Image.Style, nil
	case "image.count":
		return c.Image.Count, nil
	case "audio.enabled":
		return c.Audio.Enabled, nil
	case "audio.model":
		return c.Audio.Model, nil
	case "audio.voice":
		return c.Audio.Voice, nil
	case "audio.format":
		return c.Audio.Format, nil
	case "storage.backend":
		return c.Storage.Backend, nil
	case "storage.path":
		return c.Storage.Path, nil
	case "storage.watch_external":
		return c.Storage.WatchExternal, nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.compact_mode":
		return c.UI.CompactMode, nil
	case "ui.show_timestamps":
		return c.UI.ShowTimestamps, nil
	case "ui.render_markdown":
		return c.UI.RenderMarkdown, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// Set assigns a configuration value by dotted key, parsing the string
// form per the field's type. The resulting config is re-validated.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "provider.name":
		c.Provider.Name = value
	case "provider.api_key":
		c.Provider.APIKey = value
	case "provider.base_url":
		c.Provider.BaseURL = value
	case "provider.timeout_secs":
		c.Provider.TimeoutSecs, err = strconv.Atoi(value)
	case "provider.max_retries":
		c.Provider.MaxRetries, err = strconv.Atoi(value)
	case "provider.requests_per_minute":
		c.Provider.RequestsPerMinute, err = strconv.Atoi(value)
	case "chat.model":
		c.Chat.Model = value
	case "chat.max_tokens":
		c.Chat.MaxTokens, err = strconv.Atoi(value)
	case "chat.temperature":
		c.Chat.Temperature, err = strconv.ParseFloat(value, 64)
	case "chat.top_p":
		c.Chat.TopP, err = strconv.ParseFloat(value, 64)
	case "chat.stream":
		c.Chat.Stream, err = strconv.ParseBool(value)
	case "chat.system_prompt":
		c.Chat.SystemPrompt = value
	case "image.model":
		c.Image.Model = value
	case "image.size":
		c.Image.Size = value
	case "image.quality":
		c.Image.Quality = value
	case "image.style":
		c.Image.Style = value
	case "image.count":
		c.Image.Count, err = strconv.Atoi(value)
	case "audio.enabled":
		c.Audio.Enabled, err = strconv.ParseBool(value)
	case "audio.model":
		c.Audio.Model = value
	case "audio.voice":
		c.Audio.Voice = value
	case "audio.format":
		c.Audio.Format = value
	case "storage.backend":
		c.Storage.Backend = value
	case "storage.path":
		c.Storage.Path = value
	case "storage.watch_external":
		c.Storage.WatchExternal, err = strconv.ParseBool(value)
	case "ui.theme":
		c.UI.Theme = value
	case "ui.compact_mode":
		c.UI.CompactMode, err = strconv.ParseBool(value)
	case "ui.show_timestamps":
		c.UI.ShowTimestamps, err = strconv.ParseBool(value)
	case "ui.render_markdown":
		c.UI.RenderMarkdown, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return c.Validate()
}

// GetAllKeys returns every dotted key accepted by Get and Set.
func GetAllKeys() []string {
	return []string{
		"provider.name", "provider.api_key", "provider.base_url",
		"provider.timeout_secs", "provider.max_retries", "provider.requests_per_minute",
		"chat.model", "chat.max_tokens", "chat.temperature", "chat.top_p",
		"chat.stream", "chat.system_prompt",
		"image.model", "image.size", "image.quality", "image.style", "image.count",
		"audio.enabled", "audio.model", "audio.voice", "audio.format",
		"storage.backend", "storage.path", "storage.watch_external",
		"ui.theme", "ui.compact_mode", "ui.show_timestamps", "ui.render_markdown",
	}
}

// String renders the config as TOML with the API key redacted.
func (c *Config) String() string {
	redacted := *c
	if redacted.Provider.APIKey != "" {
		redacted.Provider.APIKey = "***REDACTED***"
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(redacted); err != nil {
		return fmt.Sprintf("error encoding config: %v", err)
	}
	return sb.String()
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil || cfg == nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the global config so tests start clean.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
