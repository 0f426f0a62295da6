// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jeranaias/chatline/internal/config"
	"github.com/jeranaias/chatline/internal/imagestore"
	"github.com/jeranaias/chatline/internal/storage"
)

// =============================================================================
// SESSION
// =============================================================================

// Session holds the collaborators shared by the chat view and the REPL.
type Session struct {
	Config  *config.Config
	Store   *storage.Store
	Images  imagestore.Store
	Fetcher imagestore.Fetcher
	Watcher *config.Watcher
}

// SessionOptions selects the optional parts of a session.
type SessionOptions struct {
	// ConfigPath is watched for changes when Watch is set
	ConfigPath string
	Watch      bool

	// NoStore skips opening the local database
	NoStore bool
}

// OpenSession opens the local store and builds the image store from cfg.
// A store that cannot be opened is logged and skipped; the chat still runs
// without drafts or a persisted transcript.
func OpenSession(cfg *config.Config, opts SessionOptions) (*Session, error) {
	images, err := BuildImageStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config:  cfg,
		Images:  images,
		Fetcher: imagestore.NewHTTPFetcher(time.Duration(cfg.Images.TimeoutSecs) * time.Second),
	}

	if !opts.NoStore {
		path, err := cfg.DraftsPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve drafts path: %w", err)
		}
		store, err := storage.Open(path)
		if err != nil {
			log.Printf("cli: local store unavailable: %v", err)
		} else {
			s.Store = store
		}
	}

	if opts.Watch && opts.ConfigPath != "" {
		w, err := config.Watch(opts.ConfigPath, config.DefaultDebounce)
		if err != nil {
			log.Printf("cli: config watch disabled: %v", err)
		} else {
			s.Watcher = w
		}
	}

	return s, nil
}

// Close releases the store and the watcher.
func (s *Session) Close() error {
	var errs []error
	if s.Watcher != nil {
		errs = append(errs, s.Watcher.Close())
	}
	if s.Store != nil {
		errs = append(errs, s.Store.Close())
	}
	return errors.Join(errs...)
}

// =============================================================================
// IMAGE STORE
// =============================================================================

// BuildImageStore returns the image store selected by [images] backend. The
// "none" backend returns a nil store; pasted images then stay unloaded.
func BuildImageStore(cfg *config.Config) (imagestore.Store, error) {
	switch cfg.Images.Backend {
	case "", "disk":
		path, err := cfg.ImagesPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve image directory: %w", err)
		}
		return imagestore.NewDiskStore(path), nil
	case "http":
		if cfg.Images.UploadURL == "" {
			return nil, NewCommandError("images", "configure", "http backend needs images.upload_url", nil)
		}
		client := &http.Client{Timeout: time.Duration(cfg.Images.TimeoutSecs) * time.Second}
		return imagestore.NewHTTPStore(cfg.Images.UploadURL, cfg.Images.DeleteURL,
			imagestore.WithRateLimit(cfg.Images.RatePerSec, cfg.Images.Burst),
			imagestore.WithHTTPClient(client),
		), nil
	case "none":
		return nil, nil
	default:
		return nil, NewCommandError("images", "configure", "unknown backend "+cfg.Images.Backend, nil)
	}
}
