// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatline/internal/config"
)

func addConfig(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective config as TOML.",
		Example: `
chatline config
chatline config get ui.theme
chatline config set ui.theme light
chatline config path
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := opts.Config().TOML()
			if err != nil {
				return NewCommandError("config", "show", "could not encode config", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one config value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := opts.Config().Get(args[0])
			if err != nil {
				return NewNotFoundError("config key", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one config value and save the config file.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config().Clone()
			if err := cfg.Set(args[0], args[1]); err != nil {
				return &UsageError{Message: fmt.Sprintf("cannot set %s: %v", args[0], err)}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := opts.configPath()
			if path == "" {
				return NewCommandError("config", "set", "no config path", nil)
			}
			if err := config.SaveToPath(cfg, path); err != nil {
				return NewCommandError("config", "set", "could not save "+path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %v\n", successColor.Sprint("saved"), args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), opts.configPath())
		},
	})

	topLevel.AddCommand(cmd)
}
