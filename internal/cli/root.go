// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline/internal/config"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// =============================================================================
// ROOT COMMAND
// =============================================================================

// RootOptions are the flags shared by every command.
type RootOptions struct {
	// ConfigPath overrides the config file location
	ConfigPath string

	// Author overrides the configured author name
	Author string

	// Plain forces the line REPL
	Plain bool

	// Debug enables verbose logging
	Debug bool

	cfg     *config.Config
	logFile io.Closer
}

// Config returns the loaded configuration. It is nil until a command runs.
func (o *RootOptions) Config() *config.Config {
	return o.cfg
}

// NewRootCommand builds the chatline command tree over opts. The caller
// closes opts after the command has run.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatline",
		Short: "Chat with inline images, quotes and slash commands.",
		Long: `chatline is a terminal chat client whose input line understands
slash commands, music search with autocomplete, pasted images and quotes.

Without a terminal it falls back to a line REPL.`,
		Example: `
chatline
chatline --author ada
chatline --plain
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Plain || !CanRunTUI() {
				return runREPL(cmd.Context(), opts, cmd.OutOrStdout())
			}
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default ~/.chatline/config.toml).")
	cmd.PersistentFlags().StringVarP(&opts.Author, "author", "a", "", "Display name for sent messages.")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable verbose logging.")
	cmd.Flags().BoolVarP(&opts.Plain, "plain", "p", false, "Use the line REPL even in a terminal.")

	addChat(cmd, opts)
	addCatalog(cmd, opts)
	addConfig(cmd, opts)
	addExport(cmd, opts)
	addVersion(cmd)

	return cmd
}

// load reads the config and opens the log file.
func (o *RootOptions) load() error {
	var cfg *config.Config
	var err error
	if o.ConfigPath != "" {
		cfg, err = config.LoadFromPath(o.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		if cfg == nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if o.Author != "" {
		cfg.Author = o.Author
	}
	if o.Debug {
		cfg.Log.Debug = true
	}
	config.SetGlobal(cfg)
	o.cfg = cfg

	closer, err := SetupLogging(cfg)
	if err != nil {
		log.Printf("cli: logging to stderr: %v", err)
		return nil
	}
	o.logFile = closer
	return nil
}

// Close releases the log file.
func (o *RootOptions) Close() error {
	if o.logFile == nil {
		return nil
	}
	err := o.logFile.Close()
	o.logFile = nil
	return err
}

// configPath returns the file to watch for changes.
func (o *RootOptions) configPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return ""
	}
	return path
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Execute runs the chatline command line.
func Execute() error {
	opts := &RootOptions{}
	defer opts.Close()
	return NewRootCommand(opts).Execute()
}
