// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultLoadTimeout bounds loading both documents.
const DefaultLoadTimeout = 10 * time.Second

// maxDocumentSize bounds a catalog document.
const maxDocumentSize = 16 * 1024 * 1024

//go:embed data/commands.json
var builtinCommands []byte

//go:embed data/artists.json
var builtinArtists []byte

// =============================================================================
// SOURCES
// =============================================================================

// Source names where the two catalog documents come from. Each location is
// a local file path or an http(s) URL. An empty location uses the built-in
// document.
type Source struct {
	Commands string
	Artists  string
	Timeout  time.Duration
}

// LoadedMsg is sent when the catalog has been loaded. On failure Catalog is
// empty and Err is set.
type LoadedMsg struct {
	Catalog *Catalog
	Err     error
}

// LoadCmd loads the catalog in the background.
func LoadCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		timeout := src.Timeout
		if timeout <= 0 {
			timeout = DefaultLoadTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		c, err := Load(ctx, src)
		if err != nil {
			log.Printf("catalog: load failed, continuing with an empty catalog: %v", err)
			return LoadedMsg{Catalog: Empty(), Err: err}
		}
		log.Printf("catalog: loaded %d commands, %d artists, %d tracks",
			len(c.Commands), len(c.Artists), c.TrackCount())
		return LoadedMsg{Catalog: c}
	}
}

// Load fetches and decodes both documents.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	c := &Catalog{}

	data, err := fetch(ctx, src.Commands, builtinCommands)
	if err != nil {
		return nil, fmt.Errorf("commands: %w", err)
	}
	if err := json.Unmarshal(data, &c.Commands); err != nil {
		return nil, fmt.Errorf("commands: invalid JSON: %w", err)
	}

	data, err = fetch(ctx, src.Artists, builtinArtists)
	if err != nil {
		return nil, fmt.Errorf("artists: %w", err)
	}
	if err := json.Unmarshal(data, &c.Artists); err != nil {
		return nil, fmt.Errorf("artists: invalid JSON: %w", err)
	}

	c.normalize()
	return c, nil
}

// Builtin returns the catalog compiled into the binary.
func Builtin() *Catalog {
	c, err := Load(context.Background(), Source{})
	if err != nil {
		log.Printf("catalog: built-in catalog is invalid: %v", err)
		return Empty()
	}
	return c
}

// fetch reads a document from a file or URL, or returns builtin.
func fetch(ctx context.Context, location string, builtin []byte) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return builtin, nil
	}

	var data []byte
	var err error
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		data, err = fetchURL(ctx, location)
	} else {
		data, err = readFile(location)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: %w", location, ErrEmpty)
	}
	return data, nil
}

func fetchURL(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", location, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxDocumentSize))
}
