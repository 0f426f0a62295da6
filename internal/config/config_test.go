// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	t.Setenv("CHATLINE_HOME", t.TempDir())
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	t.Setenv("CHATLINE_HOME", t.TempDir())
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}
	if cfg.Editor.MaxHistory != 100 {
		t.Errorf("MaxHistory = %d, want 100", cfg.Editor.MaxHistory)
	}
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if !cfg.Editor.LiveMarkdown {
		t.Error("live markdown should be on by default")
	}
	if cfg.Catalog.MusicCommand != "/music" {
		t.Errorf("MusicCommand = %q", cfg.Catalog.MusicCommand)
	}
	if cfg.UI.PreviewSize != 3 {
		t.Errorf("PreviewSize = %d, want 3", cfg.UI.PreviewSize)
	}
	if cfg.Images.Backend != "disk" {
		t.Errorf("Backend = %q, want disk", cfg.Images.Backend)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero history", func(c *Config) { c.Editor.MaxHistory = 0 }, "editor.max_history"},
		{"music without slash", func(c *Config) { c.Catalog.MusicCommand = "music" }, "catalog.music_command"},
		{"default without slash", func(c *Config) { c.Catalog.DefaultCommand = "rebase" }, "catalog.default_command"},
		{"ftp artists", func(c *Config) { c.Catalog.Artists = "ftp://example.com/a.json" }, "catalog.artists"},
		{"bad audio base", func(c *Config) { c.Catalog.AudioBaseURL = "audio" }, "catalog.audio_base_url"},
		{"unknown backend", func(c *Config) { c.Images.Backend = "s3" }, "images.backend"},
		{"http without url", func(c *Config) { c.Images.Backend = "http" }, "images.upload_url"},
		{"negative rate", func(c *Config) { c.Images.RatePerSec = -1 }, "images.rate_per_sec"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"huge preview", func(c *Config) { c.UI.PreviewSize = 11 }, "ui.preview_size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestConfig_ValidateLocations(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Commands = "/srv/catalog/commands.json"
	cfg.Catalog.Artists = "https://example.com/artists.json"
	cfg.Images.Backend = "http"
	cfg.Images.UploadURL = "https://img.example.com/upload"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromPathTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[editor]
max_history = 20
live_markdown = false

[catalog]
audio_base_url = "https://audio.example.com"

[ui]
theme = "light"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Editor.MaxHistory)
	assert.False(t, cfg.Editor.LiveMarkdown)
	assert.Equal(t, "https://audio.example.com", cfg.Catalog.AudioBaseURL)
	assert.Equal(t, "light", cfg.UI.Theme)

	// untouched sections keep their defaults
	assert.Equal(t, "/music", cfg.Catalog.MusicCommand)
	assert.Equal(t, 30, cfg.Images.TimeoutSecs)
}

func TestConfig_LoadFromPathJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ui":{"theme":"auto","preview_size":2}}`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, 2, cfg.UI.PreviewSize)
}

func TestConfig_LoadFromPathInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.theme")
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CHATLINE_THEME", "light")
	t.Setenv("CHATLINE_LIVE_MARKDOWN", "false")
	t.Setenv("CHATLINE_AUDIO_BASE_URL", "https://a.example.com")
	t.Setenv("CHATLINE_AUTHOR", "bernard")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.Editor.LiveMarkdown)
	assert.Equal(t, "https://a.example.com", cfg.Catalog.AudioBaseURL)
	assert.Equal(t, "bernard", cfg.Author)
}

func TestConfig_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHATLINE_HOME", dir)

	cfg := Default()
	cfg.Editor.MaxHistory = 42
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Editor.MaxHistory)

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfig_SaveToPathKeepsFormat(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.UI.PreviewSize = 2

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, SaveToPath(cfg, jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	loaded, err := LoadFromPath(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.UI.PreviewSize)

	tomlPath := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveToPath(cfg, tomlPath))
	data, err = os.ReadFile(tomlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "preview_size = 2")
}

func TestConfig_ResolvePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHATLINE_HOME", dir)

	cfg := Default()
	p, err := cfg.DraftsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "drafts.db"), p)

	cfg.Log.File = "/var/log/chatline.log"
	p, err = cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/chatline.log", p)
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	require.NoError(t, cfg.Set("editor.max_history", "7"))
	assert.Equal(t, 7, cfg.Editor.MaxHistory)

	require.NoError(t, cfg.Set("editor.live_markdown", "no"))
	assert.False(t, cfg.Editor.LiveMarkdown)

	require.NoError(t, cfg.Set("images.rate_per_sec", 5.5))
	assert.Equal(t, 5.5, cfg.Images.RatePerSec)

	_, err = cfg.Get("ui.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("ui.theme.x", "y"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestConfig_Clone(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.UI.Theme = "light"
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestWatcher_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600))

	w, err := Watch(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0600))

	select {
	case cfg := <-w.Changes():
		assert.Equal(t, "light", cfg.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
