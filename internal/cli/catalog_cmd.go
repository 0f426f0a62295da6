// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline/internal/catalog"
	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/config"
)

func addCatalog(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:   "catalog [artist]",
		Short: "List commands and artists, or the tracks of an artist.",
		Example: `
chatline catalog
chatline catalog "Joy Division"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg := opts.Config()
			c, err := loadCatalog(ctx, cfg)
			if err != nil {
				return NewCommandError("catalog", "load", "could not read the catalog", err)
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				return printTracks(out, cfg, c, strings.Join(args, " "))
			}
			printCatalog(out, c)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	timeout := time.Duration(cfg.Catalog.LoadTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = catalog.DefaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return catalog.Load(ctx, catalog.Source{
		Commands: cfg.Catalog.Commands,
		Artists:  cfg.Catalog.Artists,
	})
}

// printCatalog lists every visible command followed by every artist.
func printCatalog(out io.Writer, c *catalog.Catalog) {
	reg := commands.NewRegistry()
	reg.SetCatalogCommands(c.CommandNames())

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(titleColor.Sprint("Command"), titleColor.Sprint("Usage"), titleColor.Sprint("Description"))
	for _, cmd := range reg.All() {
		if cmd.Hidden {
			continue
		}
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		tbl.AddRow(cmd.Name, usage, cmd.Description)
	}
	fmt.Fprintln(out, tbl)
	fmt.Fprintln(out)

	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(titleColor.Sprint("Artist"), titleColor.Sprint("Tracks"))
	for _, a := range c.Artists {
		tbl.AddRow(a.Name, strconv.Itoa(len(a.Tracks)))
	}
	fmt.Fprintln(out, tbl)
	fmt.Fprintf(out, "%s\n", faintColor.Sprintf("%d artists, %d tracks", len(c.Artists), c.TrackCount()))
}

// printTracks lists the tracks of the artist named name with their audio
// URLs.
func printTracks(out io.Writer, cfg *config.Config, c *catalog.Catalog, name string) error {
	artist := c.FindArtist(name)
	if artist == nil {
		return NewNotFoundError("artist", name)
	}

	fmt.Fprintln(out, titleColor.Sprint(artist.Name))
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(titleColor.Sprint("Track"), titleColor.Sprint("Audio"))
	for i := range artist.Tracks {
		track := &artist.Tracks[i]
		audio := catalog.AudioURL(cfg.Catalog.AudioBaseURL, artist, track)
		if audio == "" {
			audio = faintColor.Sprint("-")
		}
		tbl.AddRow(track.Title, audio)
	}
	fmt.Fprintln(out, tbl)
	return nil
}
