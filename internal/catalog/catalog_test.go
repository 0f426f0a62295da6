// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestTrackUnmarshal(t *testing.T) {
	var tracks []Track
	err := json.Unmarshal([]byte(`["A", {"title": "B", "url": "https://x/b.mp3"}]`), &tracks)
	require.NoError(t, err)
	assert.Equal(t, []Track{{Title: "A"}, {Title: "B", URL: "https://x/b.mp3"}}, tracks)

	err = json.Unmarshal([]byte(`[42]`), &tracks)
	assert.Error(t, err)
}

func TestLoadFromFiles(t *testing.T) {
	cmds := writeFile(t, "commands.json", `["/music", "rebase", "  "]`)
	// "Björk" is decomposed; it must compare equal to the composed form.
	artists := writeFile(t, "artists.json", `[
		{"artist": " Joy Division ", "tracks": ["Atmosphere", ""]},
		{"artist": "Bjo\u0308rk", "tracks": ["Jóga"]},
		{"artist": "", "tracks": ["orphan"]}
	]`)

	c, err := Load(context.Background(), Source{Commands: cmds, Artists: artists})
	require.NoError(t, err)

	assert.Equal(t, []string{"/music", "/rebase"}, c.Commands)
	assert.Equal(t, []string{"Joy Division", "Björk"}, c.ArtistNames())
	assert.Equal(t, []string{"Atmosphere"}, c.Artists[0].TrackNames())
	assert.NotNil(t, c.FindArtist("björk"))
	assert.NotNil(t, c.FindArtist("JOY DIVISION"))
	assert.Nil(t, c.FindArtist("Joy Divisio"))
	assert.Equal(t, 2, c.TrackCount())
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/commands.json":
			_, _ = w.Write([]byte(`["/music"]`))
		case "/artists.json":
			_, _ = w.Write([]byte(`[{"artist": "New Order", "tracks": ["Ceremony"]}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := Load(context.Background(), Source{
		Commands: srv.URL + "/commands.json",
		Artists:  srv.URL + "/artists.json",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"New Order"}, c.ArtistNames())

	_, err = Load(context.Background(), Source{Commands: srv.URL + "/missing.json"})
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	empty := writeFile(t, "empty.json", "  \n")
	_, err := Load(context.Background(), Source{Commands: empty})
	assert.True(t, errors.Is(err, ErrEmpty), "err = %v", err)

	bad := writeFile(t, "bad.json", `{"not": "a list"}`)
	_, err = Load(context.Background(), Source{Artists: bad})
	assert.Error(t, err)

	_, err = Load(context.Background(), Source{Commands: filepath.Join(t.TempDir(), "nope.json")})
	assert.Error(t, err)
}

func TestLoadCmdFailureYieldsEmptyCatalog(t *testing.T) {
	msg := LoadCmd(Source{Commands: filepath.Join(t.TempDir(), "nope.json")})().(LoadedMsg)
	assert.Error(t, msg.Err)
	require.NotNil(t, msg.Catalog)
	assert.Empty(t, msg.Catalog.Commands)
	assert.Empty(t, msg.Catalog.Artists)
}

func TestBuiltin(t *testing.T) {
	c := Builtin()
	assert.Contains(t, c.Commands, "/music")
	jd := c.FindArtist("Joy Division")
	require.NotNil(t, jd)
	assert.NotNil(t, jd.FindTrack("atmosphere"))
}

func TestAudioURL(t *testing.T) {
	a := &Artist{Name: "Joy Division"}
	tr := &Track{Title: "Love Will Tear Us Apart"}

	assert.Equal(t,
		"https://audio.example/Joy%20Division/Love%20Will%20Tear%20Us%20Apart.mp3",
		AudioURL("https://audio.example/", a, tr))
	assert.Equal(t, "", AudioURL("", a, tr))
	assert.Equal(t, "https://own/x.mp3", AudioURL("https://audio.example", a, &Track{Title: "x", URL: "https://own/x.mp3"}))
	assert.Equal(t, "", AudioURL("https://audio.example", nil, tr))
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	assert.Nil(t, c.ArtistNames())
	assert.Nil(t, c.FindArtist("x"))
	assert.Equal(t, 0, c.TrackCount())
}
