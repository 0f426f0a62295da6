// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatline command line.
//
// The root command starts the full-screen chat view. When stdin or stdout
// is not a terminal it falls back to the line REPL, which is also
// available directly:
//
//	chatline                      Start the chat view
//	chatline chat                 Line REPL with tab completion
//	chatline catalog              List commands and artists
//	chatline catalog "Joy"        List the tracks of an artist
//	chatline config               Print the effective config
//	chatline config set ui.theme light
//	chatline export --format json  Write the transcript to a file
//	chatline version
//
// Commands return errors to cobra; main prints them and exits with
// ExitCode(err).
package cli
