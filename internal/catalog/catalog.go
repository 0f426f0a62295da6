// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog holds the static command and artist/track data used for
// slash-command matching. It is loaded once and treated as immutable.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmpty indicates a catalog document with no content.
var ErrEmpty = errors.New("catalog document is empty")

// =============================================================================
// TYPES
// =============================================================================

// Track is a single track of an artist. In the JSON document a track is
// either a plain title string or an object {"title": ..., "url": ...}.
type Track struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// UnmarshalJSON accepts a title string or an object.
func (t *Track) UnmarshalJSON(data []byte) error {
	var title string
	if err := json.Unmarshal(data, &title); err == nil {
		t.Title = title
		t.URL = ""
		return nil
	}
	type plain Track
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("track must be a string or {title, url}: %w", err)
	}
	*t = Track(p)
	return nil
}

// Artist is an entry of the artist document.
type Artist struct {
	Name   string  `json:"artist"`
	Tracks []Track `json:"tracks"`
}

// TrackNames returns the track titles in catalog order.
func (a *Artist) TrackNames() []string {
	names := make([]string, len(a.Tracks))
	for i, t := range a.Tracks {
		names[i] = t.Title
	}
	return names
}

// FindTrack returns the track whose title equals title, ignoring case.
func (a *Artist) FindTrack(title string) *Track {
	title = Normalize(title)
	for i := range a.Tracks {
		if strings.EqualFold(a.Tracks[i].Title, title) {
			return &a.Tracks[i]
		}
	}
	return nil
}

// Catalog is the loaded command list and artist list.
type Catalog struct {
	Commands []string `json:"commands"`
	Artists  []Artist `json:"artists"`
}

// Empty returns a catalog with no entries. Every lookup on it misses.
func Empty() *Catalog {
	return &Catalog{}
}

// ArtistNames returns the artist names in catalog order.
func (c *Catalog) ArtistNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.Artists))
	for i, a := range c.Artists {
		names[i] = a.Name
	}
	return names
}

// CommandNames returns the command names in catalog order.
func (c *Catalog) CommandNames() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.Commands))
	copy(out, c.Commands)
	return out
}

// FindArtist returns the artist whose name equals name, ignoring case.
func (c *Catalog) FindArtist(name string) *Artist {
	if c == nil {
		return nil
	}
	name = Normalize(name)
	for i := range c.Artists {
		if strings.EqualFold(c.Artists[i].Name, name) {
			return &c.Artists[i]
		}
	}
	return nil
}

// TrackCount returns the total number of tracks.
func (c *Catalog) TrackCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, a := range c.Artists {
		n += len(a.Tracks)
	}
	return n
}

// normalize puts every name in NFC form, trims whitespace and drops empty
// entries so that composed and decomposed input compare equal.
func (c *Catalog) normalize() {
	cmds := c.Commands[:0]
	for _, name := range c.Commands {
		name = Normalize(name)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}
		cmds = append(cmds, name)
	}
	c.Commands = cmds

	artists := c.Artists[:0]
	for _, a := range c.Artists {
		a.Name = Normalize(a.Name)
		if a.Name == "" {
			continue
		}
		tracks := a.Tracks[:0]
		for _, t := range a.Tracks {
			t.Title = Normalize(t.Title)
			if t.Title != "" {
				tracks = append(tracks, t)
			}
		}
		a.Tracks = tracks
		artists = append(artists, a)
	}
	c.Artists = artists
}

// Normalize returns s trimmed and in Unicode NFC form.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// =============================================================================
// AUDIO URLS
// =============================================================================

// AudioURL returns the audio URL for a track: the track's own URL when the
// catalog supplies one, otherwise <base>/<artist>/<title>.mp3 with each
// segment path-escaped. It returns "" when neither is available.
func AudioURL(base string, artist *Artist, track *Track) string {
	if track == nil || artist == nil {
		return ""
	}
	if track.URL != "" {
		return track.URL
	}
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" +
		url.PathEscape(artist.Name) + "/" +
		url.PathEscape(track.Title) + ".mp3"
}
