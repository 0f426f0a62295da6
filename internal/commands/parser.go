// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the input line.
package commands

import (
	"strings"

	"github.com/jeranaias/chatline/internal/catalog"
	"github.com/jeranaias/chatline/internal/model"
)

// =============================================================================
// STATES
// =============================================================================

// State is the command-mode state derived from the input text.
type State int

const (
	StateNormal           State = iota // Text does not start with "/"
	StateCommandEntry                  // Text is exactly "/"
	StateCommandTyping                 // "/<partial>" with no ":"
	StateCommandWithQuery              // "/<name>:<query>" for a non-music command
	StateArtistSearch                  // Music command, no confirmed artist before a separator
	StateTrackSearch                   // Music command, confirmed artist and a separator
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateCommandEntry:
		return "command-entry"
	case StateCommandTyping:
		return "command-typing"
	case StateCommandWithQuery:
		return "command-with-query"
	case StateArtistSearch:
		return "artist-search"
	case StateTrackSearch:
		return "track-search"
	default:
		return "unknown"
	}
}

// Separators between artist and track. The dash is an en dash.
const (
	Separator         = " – "
	TrailingSeparator = " –"
)

// DefaultMusicCommand is the command whose query is "<artist> – <track>".
const DefaultMusicCommand = "/music"

// =============================================================================
// RENDER PLAN
// =============================================================================

// SpanKind classifies a span of the render plan.
type SpanKind int

const (
	SpanPrefix    SpanKind = iota // Command prefix as typed, e.g. "/music: "
	SpanTyped                     // Typed part of a partial match
	SpanHint                      // Untyped remainder of a match; not part of the text
	SpanConfirmed                 // Typed text that completely matches
	SpanPlain                     // Typed text with no match
)

// String returns the span kind name.
func (k SpanKind) String() string {
	switch k {
	case SpanPrefix:
		return "prefix"
	case SpanTyped:
		return "typed"
	case SpanHint:
		return "hint"
	case SpanConfirmed:
		return "confirmed"
	case SpanPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// Span is one styled segment of the command render plan.
type Span struct {
	Kind SpanKind
	Text string
}

// =============================================================================
// PARSE RESULT
// =============================================================================

// Result is everything derived from one input text.
// Concatenating the Text of every non-hint span of Plan yields Text.
type Result struct {
	State State
	Text  string

	// Name is the command name as typed, up to ":" if any.
	Name string

	// Command is the first command matching a partial name.
	Command *Match

	// Prefix is the text up to the query: name, ":" and following spaces.
	Prefix string
	Query  string

	// Music command segments.
	Artist      string
	ArtistMatch *Match
	Separator   string
	Track       string
	TrackMatch  *Match

	Plan []Span
}

// IsCommand reports whether the text is in any command state.
func (r Result) IsCommand() bool {
	return r.State != StateNormal
}

// IsMusic reports whether the text addresses the music command.
func (r Result) IsMusic() bool {
	return r.State == StateArtistSearch || r.State == StateTrackSearch
}

// Hint returns the concatenated hint text of the plan.
func (r Result) Hint() string {
	var b strings.Builder
	for _, s := range r.Plan {
		if s.Kind == SpanHint {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// =============================================================================
// PARSER
// =============================================================================

// Parser derives command state from text. It holds no per-input state: every
// call to Parse recomputes the result from scratch.
type Parser struct {
	registry *Registry
	catalog  *catalog.Catalog

	// DefaultCommand is hinted when the text is exactly "/".
	DefaultCommand string

	// MusicCommand is the command with artist and track search.
	MusicCommand string

	// AudioBaseURL builds audio URLs for tracks without their own.
	AudioBaseURL string
}

// NewParser creates a parser over the registry and catalog. A nil catalog
// is treated as empty.
func NewParser(registry *Registry, c *catalog.Catalog) *Parser {
	if registry == nil {
		registry = NewRegistry()
	}
	p := &Parser{
		registry:     registry,
		MusicCommand: DefaultMusicCommand,
	}
	p.SetCatalog(c)
	return p
}

// SetCatalog swaps in a freshly loaded catalog.
func (p *Parser) SetCatalog(c *catalog.Catalog) {
	if c == nil {
		c = catalog.Empty()
	}
	p.catalog = c
	p.registry.SetCatalogCommands(c.Commands)
}

// Catalog returns the current catalog.
func (p *Parser) Catalog() *catalog.Catalog {
	return p.catalog
}

// Registry returns the command registry.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Commands returns the known command names in catalog order.
func (p *Parser) Commands() []string {
	return p.registry.Names()
}

// defaultCommand returns the command hinted for a bare "/".
func (p *Parser) defaultCommand() string {
	cmds := p.Commands()
	if p.DefaultCommand != "" && IndexOfFold(cmds, p.DefaultCommand) >= 0 {
		return p.DefaultCommand
	}
	if i := IndexOfFold(cmds, p.MusicCommand); i >= 0 {
		return cmds[i]
	}
	if len(cmds) > 0 {
		return cmds[0]
	}
	return ""
}

// isMusic reports whether name is the music command.
func (p *Parser) isMusic(name string) bool {
	return p.MusicCommand != "" && strings.EqualFold(name, p.MusicCommand)
}

// tracksOf returns the track titles of the named artist.
func (p *Parser) tracksOf(artist string) []string {
	if a := p.catalog.FindArtist(artist); a != nil {
		return a.TrackNames()
	}
	return nil
}

// Parse derives the command state and render plan for text.
func (p *Parser) Parse(text string) Result {
	res := Result{Text: text}

	if !strings.HasPrefix(text, "/") {
		return res
	}

	if text == "/" {
		res.State = StateCommandEntry
		res.Name = text
		res.Plan = []Span{{Kind: SpanPrefix, Text: text}}
		if m, ok := FirstMatch([]string{p.defaultCommand()}, text); ok && m.Hint != "" {
			res.Plan = append(res.Plan, Span{Kind: SpanHint, Text: m.Hint})
		}
		return res
	}

	colon := strings.IndexByte(text, ':')
	if colon < 0 {
		res.State = StateCommandTyping
		res.Name = text
		res.Plan = []Span{{Kind: SpanPrefix, Text: text}}
		if m, ok := FirstMatch(p.Commands(), text); ok {
			res.Command = &m
			if m.Hint != "" {
				res.Plan = append(res.Plan, Span{Kind: SpanHint, Text: m.Hint})
			}
		}
		return res
	}

	res.Name = text[:colon]
	res.Query = strings.TrimLeft(text[colon+1:], " ")
	res.Prefix = text[:len(text)-len(res.Query)]
	res.Plan = []Span{{Kind: SpanPrefix, Text: res.Prefix}}

	if !p.isMusic(res.Name) {
		res.State = StateCommandWithQuery
		if res.Query != "" {
			res.Plan = append(res.Plan, Span{Kind: SpanPlain, Text: res.Query})
		}
		return res
	}

	res.State = StateArtistSearch
	if res.Query == "" {
		return res
	}
	artists := p.catalog.ArtistNames()

	if artist, sep, track, ok := splitTrack(res.Query); ok {
		res.Artist, res.Separator, res.Track = artist, sep, track
		am, found := FirstMatch(artists, artist)
		if found {
			res.ArtistMatch = &am
		}
		if !found || !am.Complete {
			// A dash after an unconfirmed artist is just text.
			res.Plan = append(res.Plan, Span{Kind: SpanPlain, Text: res.Query})
			return res
		}

		res.State = StateTrackSearch
		res.Plan = append(res.Plan,
			Span{Kind: SpanConfirmed, Text: artist},
			Span{Kind: SpanPlain, Text: sep},
		)
		tm, found := FirstMatch(p.tracksOf(am.Name), track)
		if found {
			res.TrackMatch = &tm
		}
		res.Plan = append(res.Plan, segment(track, tm, found)...)
		return res
	}

	res.Artist = res.Query
	am, found := FirstMatch(artists, res.Query)
	if found {
		res.ArtistMatch = &am
	}
	res.Plan = append(res.Plan, segment(res.Query, am, found)...)
	return res
}

// segment renders typed text against its match.
func segment(typed string, m Match, found bool) []Span {
	switch {
	case typed == "":
		return nil
	case !found:
		return []Span{{Kind: SpanPlain, Text: typed}}
	case m.Complete:
		return []Span{{Kind: SpanConfirmed, Text: typed}}
	default:
		return []Span{{Kind: SpanTyped, Text: typed}, {Kind: SpanHint, Text: m.Hint}}
	}
}

// splitTrack splits a music query at the first separator.
func splitTrack(query string) (artist, sep, track string, ok bool) {
	if i := strings.Index(query, Separator); i >= 0 {
		return query[:i], Separator, query[i+len(Separator):], true
	}
	if strings.HasSuffix(query, TrailingSeparator) {
		return strings.TrimSuffix(query, TrailingSeparator), TrailingSeparator, "", true
	}
	return "", "", "", false
}

// =============================================================================
// READINESS AND OUTPUT
// =============================================================================

// IsCommandReady reports whether text is a music command whose artist and
// track are both non-empty and both complete matches.
func (p *Parser) IsCommandReady(text string) bool {
	return p.ready(p.Parse(text))
}

func (p *Parser) ready(r Result) bool {
	return r.State == StateTrackSearch &&
		r.Artist != "" && r.Track != "" &&
		r.ArtistMatch != nil && r.ArtistMatch.Complete &&
		r.TrackMatch != nil && r.TrackMatch.Complete
}

// Music returns the music metadata for a ready music command.
func (p *Parser) Music(text string) (*model.Metadata, bool) {
	r := p.Parse(text)
	if !p.ready(r) {
		return nil, false
	}
	artist := p.catalog.FindArtist(r.ArtistMatch.Name)
	if artist == nil {
		return nil, false
	}
	track := artist.FindTrack(r.TrackMatch.Name)
	if track == nil {
		return nil, false
	}
	return &model.Metadata{
		Type:     model.MetadataMusic,
		Artist:   artist.Name,
		Track:    track.Title,
		AudioURL: catalog.AudioURL(p.AudioBaseURL, artist, track),
	}, true
}

// Accept completes text to its current match: the command name (with ": "
// for commands taking a query), the artist followed by a separator, or the
// track. It returns false when there is nothing to complete.
func (p *Parser) Accept(text string) (string, bool) {
	r := p.Parse(text)
	switch r.State {
	case StateCommandEntry:
		if def := p.defaultCommand(); def != "" {
			return p.completeName(def), true
		}
	case StateCommandTyping:
		if r.Command != nil {
			return p.completeName(r.Command.Name), true
		}
	case StateArtistSearch:
		if r.Separator == "" && r.ArtistMatch != nil {
			return r.Prefix + r.ArtistMatch.Name + Separator, true
		}
	case StateTrackSearch:
		if r.TrackMatch != nil {
			return r.Prefix + r.ArtistMatch.Name + Separator + r.TrackMatch.Name, true
		}
	}
	return text, false
}

// completeName returns the text for an accepted command name.
func (p *Parser) completeName(name string) string {
	if p.isMusic(name) {
		return name + ": "
	}
	if cmd := p.registry.Get(name); cmd != nil && cmd.TakesQuery {
		return name + ": "
	}
	return name
}
