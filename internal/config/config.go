// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for chatline.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.chatline/config.toml
//   - ~/.chatline/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/jeranaias/chatline/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatline configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`
	Author  string `toml:"author" json:"author"`

	// Editor configuration
	Editor EditorConfig `toml:"editor" json:"editor"`

	// Catalog configuration
	Catalog CatalogConfig `toml:"catalog" json:"catalog"`

	// Image storage configuration
	Images ImagesConfig `toml:"images" json:"images"`

	// Draft storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// EditorConfig contains input line settings.
type EditorConfig struct {
	// MaxHistory bounds the undo history
	MaxHistory int `toml:"max_history" json:"max_history"`
	// LiveMarkdown styles markdown as it is typed
	LiveMarkdown bool `toml:"live_markdown" json:"live_markdown"`
}

// CatalogConfig contains command and music catalog settings.
type CatalogConfig struct {
	// Commands is a path or URL of the commands document (empty = built-in)
	Commands string `toml:"commands" json:"commands"`
	// Artists is a path or URL of the artists document (empty = built-in)
	Artists string `toml:"artists" json:"artists"`
	// DefaultCommand is hinted for a bare "/"
	DefaultCommand string `toml:"default_command" json:"default_command"`
	// MusicCommand is the command with artist and track search
	MusicCommand string `toml:"music_command" json:"music_command"`
	// AudioBaseURL builds audio URLs for tracks without their own
	AudioBaseURL string `toml:"audio_base_url" json:"audio_base_url"`
	// LoadTimeoutSecs bounds catalog loading
	LoadTimeoutSecs int `toml:"load_timeout_secs" json:"load_timeout_secs"`
}

// ImagesConfig contains image storage settings.
type ImagesConfig struct {
	// Backend is "disk", "http" or "none"
	Backend string `toml:"backend" json:"backend"`
	// UploadURL receives multipart uploads (http backend)
	UploadURL string `toml:"upload_url" json:"upload_url"`
	// DeleteURL receives DELETE requests (http backend, empty = upload_url)
	DeleteURL string `toml:"delete_url" json:"delete_url"`
	// DiskPath is the image directory (disk backend, empty = ~/.chatline/images)
	DiskPath string `toml:"disk_path" json:"disk_path"`
	// RatePerSec limits uploads per second (http backend)
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"`
	// Burst is the upload burst size (http backend)
	Burst int `toml:"burst" json:"burst"`
	// TimeoutSecs bounds a single upload or delete
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// StorageConfig contains draft storage settings.
type StorageConfig struct {
	// DraftsDB is the sqlite database path (empty = ~/.chatline/drafts.db)
	DraftsDB string `toml:"drafts_db" json:"drafts_db"`
	// SaveDrafts keeps unsent input across restarts
	SaveDrafts bool `toml:"save_drafts" json:"save_drafts"`
}

// UIConfig contains UI preferences.
type UIConfig struct {
	// Theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowPreview shows neighbouring matches while wheel cycling
	ShowPreview bool `toml:"show_preview" json:"show_preview"`
	// PreviewSize is the number of neighbours on each side
	PreviewSize int `toml:"preview_size" json:"preview_size"`
	// WrapWidth wraps the input line (0 = window width)
	WrapWidth int `toml:"wrap_width" json:"wrap_width"`
	// ShowCompletions shows the completion list below the input
	ShowCompletions bool `toml:"show_completions" json:"show_completions"`
}

// LogConfig contains log settings.
type LogConfig struct {
	// File receives log output (empty = ~/.chatline/chatline.log)
	File string `toml:"file" json:"file"`
	// Debug enables verbose logging
	Debug bool `toml:"debug" json:"debug"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Editor: EditorConfig{
			MaxHistory:   100,
			LiveMarkdown: true,
		},

		Catalog: CatalogConfig{
			DefaultCommand:  "/music",
			MusicCommand:    "/music",
			LoadTimeoutSecs: 10,
		},

		Images: ImagesConfig{
			Backend:     "disk",
			RatePerSec:  2,
			Burst:       4,
			TimeoutSecs: 30,
		},

		Storage: StorageConfig{
			SaveDrafts: true,
		},

		UI: UIConfig{
			Theme:           "dark",
			ShowPreview:     true,
			PreviewSize:     3,
			ShowCompletions: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the chatline configuration directory (~/.chatline).
func ConfigDir() (string, error) {
	if dir := os.Getenv("CHATLINE_HOME"); dir != "" {
		return homedir.Expand(dir)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatline"), nil
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

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ResolvePath expands "~" in path, or returns name inside the config
// directory when path is empty.
func ResolvePath(path, name string) (string, error) {
	if path != "" {
		return homedir.Expand(path)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// LogPath returns the resolved log file path.
func (c *Config) LogPath() (string, error) {
	return ResolvePath(c.Log.File, "chatline.log")
}

// DraftsPath returns the resolved drafts database path.
func (c *Config) DraftsPath() (string, error) {
	return ResolvePath(c.Storage.DraftsDB, "drafts.db")
}

// ImagesPath returns the resolved disk image directory.
func (c *Config) ImagesPath() (string, error) {
	return ResolvePath(c.Images.DiskPath, "images")
}

// =============================================================================
// LOADING
// =============================================================================

// Load loads configuration from the standard locations.
// It tries TOML first, then JSON, then falls back to defaults.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	cfg, err = finish(Default())
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save saves the configuration to the default TOML location.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveToPath saves the configuration in the format LoadFromPath reads
// from path: JSON for a .json file, TOML otherwise.
func SaveToPath(cfg *Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	data, err := cfg.TOML()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// TOML returns the configuration as a commented TOML document.
func (c *Config) TOML() ([]byte, error) {
	var b strings.Builder
	b.WriteString("# chatline configuration file\n")
	b.WriteString("# Generated by chatline - edit with care\n\n")
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return []byte(b.String()), nil
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

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Editor.MaxHistory < 1 {
		errs = append(errs, ValidationError{
			Field:   "editor.max_history",
			Message: "must be at least 1",
		})
	}

	for _, cmd := range []struct{ field, value string }{
		{"catalog.default_command", c.Catalog.DefaultCommand},
		{"catalog.music_command", c.Catalog.MusicCommand},
	} {
		if cmd.value != "" && !strings.HasPrefix(cmd.value, "/") {
			errs = append(errs, ValidationError{
				Field:   cmd.field,
				Message: fmt.Sprintf("must start with '/', got %q", cmd.value),
			})
		}
	}

	for _, loc := range []struct{ field, value string }{
		{"catalog.commands", c.Catalog.Commands},
		{"catalog.artists", c.Catalog.Artists},
	} {
		if err := validateLocation(loc.value); err != nil {
			errs = append(errs, ValidationError{Field: loc.field, Message: err.Error()})
		}
	}

	if c.Catalog.AudioBaseURL != "" {
		if err := validateHTTPURL(c.Catalog.AudioBaseURL); err != nil {
			errs = append(errs, ValidationError{Field: "catalog.audio_base_url", Message: err.Error()})
		}
	}

	switch c.Images.Backend {
	case "disk", "none":
	case "http":
		if c.Images.UploadURL == "" {
			errs = append(errs, ValidationError{
				Field:   "images.upload_url",
				Message: "required for the http backend",
			})
		} else if err := validateHTTPURL(c.Images.UploadURL); err != nil {
			errs = append(errs, ValidationError{Field: "images.upload_url", Message: err.Error()})
		}
		if c.Images.DeleteURL != "" {
			if err := validateHTTPURL(c.Images.DeleteURL); err != nil {
				errs = append(errs, ValidationError{Field: "images.delete_url", Message: err.Error()})
			}
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "images.backend",
			Message: fmt.Sprintf("must be 'disk', 'http' or 'none', got %q", c.Images.Backend),
		})
	}

	if c.Images.RatePerSec < 0 {
		errs = append(errs, ValidationError{
			Field:   "images.rate_per_sec",
			Message: "must not be negative",
		})
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be 'dark', 'light' or 'auto', got %q", c.UI.Theme),
		})
	}

	if c.UI.PreviewSize < 0 || c.UI.PreviewSize > 10 {
		errs = append(errs, ValidationError{
			Field:   "ui.preview_size",
			Message: "must be between 0 and 10",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// validateLocation accepts empty (built-in), file paths and http(s) URLs.
func validateLocation(loc string) error {
	if loc == "" || !strings.Contains(loc, "://") {
		return nil
	}
	if strings.HasPrefix(loc, "file://") {
		return nil
	}
	return validateHTTPURL(loc)
}

// SetDefaults fills zero values with their defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Editor.MaxHistory == 0 {
		c.Editor.MaxHistory = defaults.Editor.MaxHistory
	}
	if c.Catalog.MusicCommand == "" {
		c.Catalog.MusicCommand = defaults.Catalog.MusicCommand
	}
	if c.Catalog.LoadTimeoutSecs <= 0 {
		c.Catalog.LoadTimeoutSecs = defaults.Catalog.LoadTimeoutSecs
	}
	if c.Images.Backend == "" {
		c.Images.Backend = defaults.Images.Backend
	}
	if c.Images.Burst <= 0 {
		c.Images.Burst = defaults.Images.Burst
	}
	if c.Images.TimeoutSecs <= 0 {
		c.Images.TimeoutSecs = defaults.Images.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATLINE_AUTHOR: overrides author
//   - CHATLINE_COMMANDS: overrides catalog.commands
//   - CHATLINE_ARTISTS: overrides catalog.artists
//   - CHATLINE_AUDIO_BASE_URL: overrides catalog.audio_base_url
//   - CHATLINE_IMAGE_BACKEND: overrides images.backend
//   - CHATLINE_UPLOAD_URL: overrides images.upload_url
//   - CHATLINE_THEME: overrides ui.theme
//   - CHATLINE_LIVE_MARKDOWN: "1" or "true" enables live markdown
//   - CHATLINE_DEBUG: "1" or "true" enables debug logging
func (c *Config) ApplyEnvOverrides() {
	if author := os.Getenv("CHATLINE_AUTHOR"); author != "" {
		c.Author = author
	}
	if commands := os.Getenv("CHATLINE_COMMANDS"); commands != "" {
		c.Catalog.Commands = commands
	}
	if artists := os.Getenv("CHATLINE_ARTISTS"); artists != "" {
		c.Catalog.Artists = artists
	}
	if base := os.Getenv("CHATLINE_AUDIO_BASE_URL"); base != "" {
		c.Catalog.AudioBaseURL = base
	}
	if backend := os.Getenv("CHATLINE_IMAGE_BACKEND"); backend != "" {
		c.Images.Backend = backend
	}
	if upload := os.Getenv("CHATLINE_UPLOAD_URL"); upload != "" {
		c.Images.UploadURL = upload
	}
	if theme := os.Getenv("CHATLINE_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if live := os.Getenv("CHATLINE_LIVE_MARKDOWN"); live != "" {
		c.Editor.LiveMarkdown = parseBool(live)
	}
	if debug := os.Getenv("CHATLINE_DEBUG"); debug != "" {
		c.Log.Debug = parseBool(debug)
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "1" || s == "true" || s == "yes"
}

// =============================================================================
// DOT-NOTATION ACCESS
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
