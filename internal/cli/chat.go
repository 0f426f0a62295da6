// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline/internal/config"
)

// historyFileName is the REPL input history file in the config directory.
const historyFileName = "chat_history"

func addChat(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the line REPL.",
		Long: `Start the line REPL.

Slash commands work as in the chat view. Tab completes commands, artists
and tracks. A line naming an image file or image URL sends the image.`,
		Example: `
chatline chat
chatline chat --author ada
echo "hello" | chatline chat
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	topLevel.AddCommand(cmd)
}

// runREPL runs the line REPL on stdin.
func runREPL(ctx context.Context, opts *RootOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config()
	sess, err := OpenSession(cfg, SessionOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("cli: close session: %v", err)
		}
	}()

	repl, err := NewREPL(REPLOptions{
		Config:  cfg,
		Session: sess,
		Out:     out,
		Width:   GetTerminalWidth(),
	})
	if err != nil {
		return err
	}
	if err := repl.LoadCatalog(ctx); err != nil {
		fmt.Fprintf(out, "%s %v\n", errorColor.Sprint("[!]"), err)
	}
	if err := repl.LoadHistory(ctx); err != nil {
		log.Printf("cli: %v", err)
	}

	line := newLineReader()
	defer line.Close()
	line.SetCompleter(repl.Complete)

	return repl.Run(ctx, line.State)
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader wraps liner with a persistent history file.
type lineReader struct {
	*liner.State
	historyFile string
}

func newLineReader() *lineReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{
		State:       state,
		historyFile: filepath.Join(dir, historyFileName),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = r.ReadHistory(f)
		f.Close()
	}
	return r
}

// Close saves the history and restores the terminal.
func (r *lineReader) Close() error {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = r.WriteHistory(f)
			f.Close()
		}
	}
	return r.State.Close()
}
