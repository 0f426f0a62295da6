// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
)

// DefaultPreviewSize is the number of neighbours shown on each side.
const DefaultPreviewSize = 3

// =============================================================================
// FLAT CYCLE
// =============================================================================

// FlatCycle is a cyclic index over a fixed list. Its starting state is
// "none", distinct from index 0.
type FlatCycle struct {
	items []string
	index int
}

// NewFlatCycle creates a cycle over items, in the "none" state.
func NewFlatCycle(items []string) *FlatCycle {
	f := &FlatCycle{}
	f.SetItems(items)
	return f
}

// SetItems replaces the list and resets the cycle.
func (f *FlatCycle) SetItems(items []string) {
	f.items = append([]string(nil), items...)
	f.index = -1
}

// Next advances to (index+1) mod N. From "none" it lands on the first item.
func (f *FlatCycle) Next() (string, bool) {
	n := len(f.items)
	if n == 0 {
		return "", false
	}
	f.index = (f.index + 1) % n
	return f.items[f.index], true
}

// Prev retreats to (index-1+N) mod N. From "none" it lands on the last item.
func (f *FlatCycle) Prev() (string, bool) {
	n := len(f.items)
	if n == 0 {
		return "", false
	}
	if f.index < 0 {
		f.index = n - 1
	} else {
		f.index = (f.index - 1 + n) % n
	}
	return f.items[f.index], true
}

// Reset returns to the "none" state.
func (f *FlatCycle) Reset() {
	f.index = -1
}

// Current returns the current item. It returns false only in "none".
func (f *FlatCycle) Current() (string, bool) {
	if f.index < 0 || f.index >= len(f.items) {
		return "", false
	}
	return f.items[f.index], true
}

// Index returns the current index, or -1 in "none".
func (f *FlatCycle) Index() int {
	return f.index
}

// =============================================================================
// CATALOG CYCLE
// =============================================================================

// CatalogCycle is a wheel-driven cyclic index over catalog candidates. The
// candidate list is rebuilt only when the context key changes; otherwise
// the position persists across cycling.
type CatalogCycle struct {
	key        string
	candidates []string
	position   int
	built      bool
}

// Sync rebuilds the cycle when key differs from the current context. The
// initial position is the candidate equal to current (ignoring case), or 0.
// It reports whether a rebuild happened.
func (c *CatalogCycle) Sync(key string, candidates []string, current string) bool {
	if c.built && key == c.key {
		return false
	}
	c.key = key
	c.candidates = append([]string(nil), candidates...)
	c.position = 0
	if i := IndexOfFold(c.candidates, current); i >= 0 {
		c.position = i
	}
	c.built = true
	return true
}

// Wheel moves by the sign of deltaY, wrapping both ways. Positive deltaY
// moves forward. A zero delta does not move.
func (c *CatalogCycle) Wheel(deltaY int) (string, bool) {
	n := len(c.candidates)
	if n == 0 {
		return "", false
	}
	step := 0
	switch {
	case deltaY > 0:
		step = 1
	case deltaY < 0:
		step = -1
	}
	c.position = (c.position + step + n) % n
	return c.candidates[c.position], true
}

// Current returns the candidate at the current position.
func (c *CatalogCycle) Current() (string, bool) {
	if len(c.candidates) == 0 {
		return "", false
	}
	return c.candidates[c.position], true
}

// Position returns the current position.
func (c *CatalogCycle) Position() int {
	return c.position
}

// Len returns the number of candidates.
func (c *CatalogCycle) Len() int {
	return len(c.candidates)
}

// Key returns the current context key.
func (c *CatalogCycle) Key() string {
	return c.key
}

// Reset discards the context.
func (c *CatalogCycle) Reset() {
	c.key = ""
	c.candidates = nil
	c.position = 0
	c.built = false
}

// Preview returns up to n candidates before and after the current one,
// cyclically. No candidate appears twice and the current one never
// appears; on short lists the remaining candidates are split with the
// extra one going after. before is ordered farthest first so it reads
// top-down towards the current item. It has no effect on the position.
func (c *CatalogCycle) Preview(n int) (before, after []string) {
	total := len(c.candidates)
	if total < 2 || n <= 0 {
		return nil, nil
	}
	others := total - 1
	nAfter := min(n, (others+1)/2)
	nBefore := min(n, others/2)
	for i := nBefore; i >= 1; i-- {
		before = append(before, c.candidates[(c.position-i+total)%total])
	}
	for i := 1; i <= nAfter; i++ {
		after = append(after, c.candidates[(c.position+i)%total])
	}
	return before, after
}

// =============================================================================
// NAVIGATOR
// =============================================================================

// Navigator binds the flat cycle and the catalog cycle to the input text.
type Navigator struct {
	parser *Parser
	flat   *FlatCycle
	cycle  CatalogCycle

	lastFlat    string
	lastEmitted string
}

// NewNavigator creates a navigator over the parser's commands and catalog.
func NewNavigator(parser *Parser) *Navigator {
	return &Navigator{
		parser: parser,
		flat:   NewFlatCycle(parser.Commands()),
	}
}

// Refresh picks up a new command list and drops all cycling state.
func (n *Navigator) Refresh() {
	n.flat.SetItems(n.parser.Commands())
	n.Reset()
}

// Reset drops all cycling state.
func (n *Navigator) Reset() {
	n.flat.Reset()
	n.cycle.Reset()
	n.lastFlat = ""
	n.lastEmitted = ""
}

// NextCommand cycles forward through command names. Cycling restarts from
// "none" when text is not the name the cycle last produced.
func (n *Navigator) NextCommand(text string) (string, bool) {
	if text != n.lastFlat {
		n.flat.Reset()
	}
	name, ok := n.flat.Next()
	if ok {
		n.lastFlat = name
	}
	return name, ok
}

// PrevCommand cycles backward through command names.
func (n *Navigator) PrevCommand(text string) (string, bool) {
	if text != n.lastFlat {
		n.flat.Reset()
	}
	name, ok := n.flat.Prev()
	if ok {
		n.lastFlat = name
	}
	return name, ok
}

// Wheel cycles the artist or track under edit and returns the new text.
// The context is kept while text is the text Wheel last produced, so
// repeated ticks walk the same candidate list.
func (n *Navigator) Wheel(text string, deltaY int) (string, bool) {
	if !n.sync(text) {
		return text, false
	}
	r := n.parser.Parse(text)
	candidate, ok := n.cycle.Wheel(deltaY)
	if !ok {
		return text, false
	}

	var out string
	if r.State == StateTrackSearch {
		out = r.Prefix + r.Artist + Separator + candidate
	} else {
		out = r.Prefix + candidate
	}
	n.lastEmitted = out
	return out, true
}

// Preview returns the neighbours of the current candidate for text.
func (n *Navigator) Preview(text string, size int) (before, after []string, current string) {
	if !n.sync(text) {
		return nil, nil, ""
	}
	current, _ = n.cycle.Current()
	before, after = n.cycle.Preview(size)
	return before, after, current
}

// sync brings the catalog cycle in line with text. It reports false when
// text is not in an artist or track context.
func (n *Navigator) sync(text string) bool {
	if text == n.lastEmitted && n.cycle.built {
		return true
	}

	r := n.parser.Parse(text)
	cat := n.parser.Catalog()
	switch {
	case r.State == StateTrackSearch:
		n.cycle.Sync("track:"+strings.ToLower(r.ArtistMatch.Name), n.parser.tracksOf(r.ArtistMatch.Name), r.Track)
	case r.State == StateArtistSearch && r.Separator == "":
		var names []string
		for _, m := range AllMatches(cat.ArtistNames(), r.Query) {
			names = append(names, m.Name)
		}
		n.cycle.Sync("artist:"+strings.ToLower(r.Query), names, r.Query)
	default:
		n.cycle.Reset()
		n.lastEmitted = ""
		return false
	}
	n.lastEmitted = ""
	return n.cycle.Len() > 0
}
