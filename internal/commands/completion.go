// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the input line.
package commands

import (
	"fmt"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completion is a single completion candidate.
type Completion struct {
	// Value is the full input text after accepting
	Value string

	// Display is the candidate name
	Display string

	// Description shown alongside
	Description string

	// Complete is true when the typed text already equals Display
	Complete bool
}

// Completer lists every candidate for the current input, in catalog order.
// The first candidate is always the match the parser hints.
type Completer struct {
	parser *Parser
}

// NewCompleter creates a new completer over the parser.
func NewCompleter(parser *Parser) *Completer {
	return &Completer{parser: parser}
}

// Complete returns the completions for text.
func (c *Completer) Complete(text string) []Completion {
	r := c.parser.Parse(text)
	switch r.State {
	case StateCommandEntry, StateCommandTyping:
		return c.completeCommands(text)
	case StateArtistSearch:
		if r.Separator != "" {
			return nil
		}
		return c.completeArtists(r)
	case StateTrackSearch:
		return c.completeTracks(r)
	default:
		return nil
	}
}

func (c *Completer) completeCommands(partial string) []Completion {
	reg := c.parser.Registry()
	var completions []Completion
	for _, m := range AllMatches(c.parser.Commands(), partial) {
		desc := ""
		if cmd := reg.Get(m.Name); cmd != nil {
			desc = cmd.Description
		}
		completions = append(completions, Completion{
			Value:       c.parser.completeName(m.Name),
			Display:     m.Name,
			Description: desc,
			Complete:    m.Complete,
		})
	}
	return completions
}

func (c *Completer) completeArtists(r Result) []Completion {
	cat := c.parser.Catalog()
	var completions []Completion
	for _, m := range AllMatches(cat.ArtistNames(), r.Query) {
		completions = append(completions, Completion{
			Value:       r.Prefix + m.Name + Separator,
			Display:     m.Name,
			Description: trackCount(len(cat.Artists[m.Index].Tracks)),
			Complete:    m.Complete && r.Query != "",
		})
	}
	return completions
}

func (c *Completer) completeTracks(r Result) []Completion {
	var completions []Completion
	for _, m := range AllMatches(c.parser.tracksOf(r.ArtistMatch.Name), r.Track) {
		completions = append(completions, Completion{
			Value:       r.Prefix + r.ArtistMatch.Name + Separator + m.Name,
			Display:     m.Name,
			Description: r.ArtistMatch.Name,
			Complete:    m.Complete && r.Track != "",
		})
	}
	return completions
}

func trackCount(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}

// =============================================================================
// COMPLETION NAVIGATION
// =============================================================================

// CompletionState holds the state for navigating completions.
type CompletionState struct {
	// Original input before completion
	OriginalInput string

	// Current completions
	Completions []Completion

	// Selected index (-1 for none)
	Selected int

	// Visible indicates if completions should be shown
	Visible bool
}

// NewCompletionState creates a new completion state.
func NewCompletionState() *CompletionState {
	return &CompletionState{
		Selected: -1,
	}
}

// Update replaces the completions. A changed input drops the selection.
func (cs *CompletionState) Update(input string, completions []Completion) {
	if input != cs.OriginalInput {
		cs.Selected = -1
	}
	cs.OriginalInput = input
	cs.Completions = completions
	if cs.Selected >= len(completions) {
		cs.Selected = -1
	}
	cs.Visible = len(completions) > 0
}

// Next moves to the next completion.
func (cs *CompletionState) Next() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected = (cs.Selected + 1) % len(cs.Completions)
}

// Prev moves to the previous completion.
func (cs *CompletionState) Prev() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected--
	if cs.Selected < 0 {
		cs.Selected = len(cs.Completions) - 1
	}
}

// Accept returns the selected completion value, or empty if none selected.
func (cs *CompletionState) Accept() string {
	if sel := cs.GetSelected(); sel != nil {
		return sel.Value
	}
	return ""
}

// Clear clears the completion state.
func (cs *CompletionState) Clear() {
	cs.OriginalInput = ""
	cs.Completions = nil
	cs.Selected = -1
	cs.Visible = false
}

// GetSelected returns the currently selected completion, or nil.
func (cs *CompletionState) GetSelected() *Completion {
	if cs.Selected < 0 || cs.Selected >= len(cs.Completions) {
		return nil
	}
	return &cs.Completions[cs.Selected]
}
