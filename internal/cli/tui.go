// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline/internal/ui/chat"
	"github.com/jeranaias/chatline/internal/ui/styles"
)

// runTUI runs the full-screen chat view until the user quits.
func runTUI(ctx context.Context, opts *RootOptions) error {
	cfg := opts.Config()
	sess, err := OpenSession(cfg, SessionOptions{
		ConfigPath: opts.configPath(),
		Watch:      true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("cli: close session: %v", err)
		}
	}()

	m := chat.New(chat.Options{
		Config:  cfg,
		Theme:   styles.NewTheme(cfg.UI.Theme),
		Store:   sess.Store,
		Images:  sess.Images,
		Fetcher: sess.Fetcher,
		Watcher: sess.Watcher,
	})

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if ctx != nil {
		progOpts = append(progOpts, tea.WithContext(ctx))
	}
	p := tea.NewProgram(m, progOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat view failed: %w", err)
	}
	return nil
}
