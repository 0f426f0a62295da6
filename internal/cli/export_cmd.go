// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline/internal/export"
	"github.com/jeranaias/chatline/internal/storage"
)

const defaultExportLimit = 500

func addExport(topLevel *cobra.Command, opts *RootOptions) {
	var (
		format        string
		outDir        string
		title         string
		limit         int
		includeSystem bool
		noTimestamps  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the persisted transcript to a Markdown or JSON file.",
		Example: `
chatline export
chatline export --format json --out ~/transcripts
chatline export --limit 50 --system
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if limit <= 0 {
				return &UsageError{Message: "--limit must be positive"}
			}

			eopts := export.DefaultOptions()
			eopts.OutputDir = outDir
			eopts.IncludeSystem = includeSystem
			eopts.IncludeTimestamps = !noTimestamps
			if title != "" {
				eopts.Title = title
			}
			exporter, err := export.ForFormat(format, eopts)
			if err != nil {
				return &UsageError{Message: err.Error()}
			}

			path, err := opts.Config().DraftsPath()
			if err != nil {
				return NewCommandError("export", "open", "could not resolve the database path", err)
			}
			store, err := storage.Open(path)
			if err != nil {
				return NewCommandError("export", "open", "could not open the local database", err)
			}
			defer store.Close()

			msgs, err := store.RecentMessages(ctx, limit)
			if err != nil {
				return NewCommandError("export", "read", "could not read the transcript", err)
			}

			written, err := export.ToFile(msgs, exporter, eopts)
			if errors.Is(err, export.ErrEmpty) {
				return NewNotFoundError("transcript", path)
			}
			if err != nil {
				return NewCommandError("export", "write", "could not write the export", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d messages)\n", successColor.Sprint("exported"), written, len(msgs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "md", "output format: md or json")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&title, "title", "", "document title (also names the file)")
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultExportLimit, "export at most the last N messages")
	cmd.Flags().BoolVar(&includeSystem, "system", false, "include system messages")
	cmd.Flags().BoolVar(&noTimestamps, "no-timestamps", false, "omit per-message timestamps")
	topLevel.AddCommand(cmd)
}
