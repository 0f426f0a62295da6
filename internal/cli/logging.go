// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/jeranaias/chatline/internal/config"
)

// SetupLogging points the standard logger at the configured log file. The
// chat view owns the terminal, so nothing may be logged to stderr while it
// runs. The returned closer restores stderr.
func SetupLogging(cfg *config.Config) (io.Closer, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	flags := log.LstdFlags
	if cfg.Log.Debug {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)
	log.SetOutput(f)
	return logFile{f}, nil
}

type logFile struct {
	f *os.File
}

func (l logFile) Close() error {
	log.SetOutput(os.Stderr)
	return l.f.Close()
}
