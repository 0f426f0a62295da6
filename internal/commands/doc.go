// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the input line.
//
// Command state is derived from the input text on every call to
// Parser.Parse; nothing about a partially typed command is cached. The
// result carries a render plan of prefix, typed, hint, confirmed and plain
// spans that the view draws over the input.
//
// # Key Types
//
//   - Parser: Derives State and the render plan, readiness and completions
//   - Registry: Known commands, catalog commands first
//   - FlatCycle: Keyboard cycling through command names
//   - CatalogCycle: Wheel cycling through artists or tracks
//   - Navigator: Binds the cycles to the current input text
//
// # Matching
//
// A name matches a query when it starts with the query, ignoring case. The
// first match in catalog order wins, and a case-insensitive equality is a
// complete match:
//
//	m, ok := commands.FirstMatch([]string{"Joy Division", "Joy"}, "Jo")
//	// m.Name == "Joy Division", m.Hint == "y Division"
package commands
