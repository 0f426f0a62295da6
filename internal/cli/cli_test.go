// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatline/internal/catalog"
	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/config"
	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/storage"
)

func TestMain(m *testing.M) {
	ForceColorsEnabled(false)
	os.Exit(m.Run())
}

// =============================================================================
// HELPERS
// =============================================================================

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Commands: []string{"/music", "/rebase"},
		Artists: []catalog.Artist{
			{Name: "Joy Division", Tracks: []catalog.Track{
				{Title: "Atmosphere"},
				{Title: "Disorder"},
			}},
			{Name: "Joy", Tracks: []catalog.Track{{Title: "Sunrise"}}},
		},
	}
}

func newTestREPL(t *testing.T, sess *Session) (*REPL, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Author = "ada"
	cfg.Images.Backend = "none"

	var out bytes.Buffer
	r, err := NewREPL(REPLOptions{Config: cfg, Session: sess, Out: &out, Width: 80})
	require.NoError(t, err)
	r.SetCatalog(testCatalog())
	return r, &out
}

// fakeReader replays lines, then reports io.EOF.
type fakeReader struct {
	lines       []string
	history     []string
	suggestions []string
}

func (f *fakeReader) next() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakeReader) Prompt(string) (string, error) {
	return f.next()
}

func (f *fakeReader) PromptWithSuggestion(_, text string, _ int) (string, error) {
	f.suggestions = append(f.suggestions, text)
	return f.next()
}

func (f *fakeReader) AppendHistory(item string) {
	f.history = append(f.history, item)
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := fmt.Sprintf(`author = "ada"

[images]
backend = "none"

[storage]
drafts_db = %q

[log]
file = %q
`, filepath.Join(dir, "drafts.db"), filepath.Join(dir, "chatline.log"))
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{}
	defer opts.Close()

	var out bytes.Buffer
	cmd := NewRootCommand(opts)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// =============================================================================
// ERRORS
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"not found", NewNotFoundError("artist", "x"), ExitNotFoundError},
		{"usage", &UsageError{Message: "bad"}, ExitUsageError},
		{"config", fmt.Errorf("load: %w", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}), ExitConfigError},
		{"wrapped command", NewCommandError("catalog", "load", "failed", errors.New("boom")), ExitGeneralError},
		{"plain", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewCommandError("config", "set", "could not save", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "config set failed: could not save: boom", err.Error())
}

// =============================================================================
// RENDER PLAN
// =============================================================================

func TestRenderPlanWithoutColor(t *testing.T) {
	plan := []commands.Span{
		{Kind: commands.SpanPrefix, Text: "/music: "},
		{Kind: commands.SpanTyped, Text: "Joy D"},
		{Kind: commands.SpanHint, Text: "ivision"},
	}
	assert.Equal(t, "/music: Joy Division", RenderPlan(plan))
}

// =============================================================================
// REPL
// =============================================================================

func TestREPLComplete(t *testing.T) {
	r, _ := newTestREPL(t, nil)

	assert.Contains(t, r.Complete("/mu"), "/music: ")
	assert.Equal(t, []string{"/music: Joy Division – "}, r.Complete("/music: Joy D"))
	assert.Contains(t, r.Complete("/music: Joy Division – "), "/music: Joy Division – Atmosphere")
	assert.Empty(t, r.Complete("hello"))
}

func TestREPLSendsPlainText(t *testing.T) {
	r, out := newTestREPL(t, nil)

	outcome, err := r.Handle(context.Background(), "hello world")
	require.NoError(t, err)
	require.NotNil(t, outcome.Sent)
	assert.Equal(t, "hello world", outcome.Sent.Content)
	assert.Equal(t, "ada", outcome.Sent.DisplayAuthor())
	assert.Equal(t, 1, r.Transcript().Len())
	assert.Contains(t, out.String(), "hello world")
}

func TestREPLIgnoresBlankLines(t *testing.T) {
	r, _ := newTestREPL(t, nil)

	outcome, err := r.Handle(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, outcome.Sent)
	assert.Equal(t, 0, r.Transcript().Len())
}

func TestREPLSendsMusic(t *testing.T) {
	r, out := newTestREPL(t, nil)

	outcome, err := r.Handle(context.Background(), "/music: Joy Division – Atmosphere")
	require.NoError(t, err)
	require.NotNil(t, outcome.Sent)
	require.NotNil(t, outcome.Sent.Metadata)
	assert.Equal(t, model.MetadataMusic, outcome.Sent.Metadata.Type)
	assert.Equal(t, "Joy Division", outcome.Sent.Metadata.Artist)
	assert.Equal(t, "Atmosphere", outcome.Sent.Metadata.Track)
	assert.Contains(t, out.String(), "♪ Joy Division – Atmosphere")
}

func TestREPLHintOffersAcceptedText(t *testing.T) {
	r, out := newTestREPL(t, nil)
	ctx := context.Background()

	outcome, err := r.Handle(ctx, "/music: Joy D")
	require.NoError(t, err)
	assert.Nil(t, outcome.Sent)
	assert.Equal(t, "/music: Joy Division – ", outcome.Suggestion)
	assert.Contains(t, out.String(), "/music: Joy Division")

	// the same line again is sent as typed
	outcome, err = r.Handle(ctx, "/music: Joy D")
	require.NoError(t, err)
	require.NotNil(t, outcome.Sent)
	assert.Equal(t, "/music: Joy D", outcome.Sent.Content)
}

func TestREPLLocalCommands(t *testing.T) {
	r, out := newTestREPL(t, nil)
	ctx := context.Background()

	outcome, err := r.Handle(ctx, "/help")
	require.NoError(t, err)
	assert.Nil(t, outcome.Sent)
	assert.Contains(t, out.String(), "Commands:")

	_, err = r.Handle(ctx, "first")
	require.NoError(t, err)
	_, err = r.Handle(ctx, "/clear")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Transcript().Len())

	outcome, err = r.Handle(ctx, "/quit")
	require.NoError(t, err)
	assert.True(t, outcome.Quit)
}

func TestREPLQuoteAttachesToNextMessage(t *testing.T) {
	r, out := newTestREPL(t, nil)
	ctx := context.Background()

	_, err := r.Handle(ctx, "/quote")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Nothing to quote yet.")

	_, err = r.Handle(ctx, "original message")
	require.NoError(t, err)
	_, err = r.Handle(ctx, "/quote")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "quoting")

	outcome, err := r.Handle(ctx, "reply")
	require.NoError(t, err)
	require.NotNil(t, outcome.Sent)
	require.NotNil(t, outcome.Sent.Metadata)
	require.Len(t, outcome.Sent.Metadata.Quotes, 1)
	assert.Equal(t, "original message", outcome.Sent.Metadata.Quotes[0].Text)
	assert.Equal(t, "ada", outcome.Sent.Metadata.Quotes[0].Author)

	// the quote is used once
	outcome, err = r.Handle(ctx, "again")
	require.NoError(t, err)
	require.NotNil(t, outcome.Sent)
	if outcome.Sent.Metadata != nil {
		assert.Empty(t, outcome.Sent.Metadata.Quotes)
	}
}

func TestREPLReloadUsesBuiltinCatalog(t *testing.T) {
	r, out := newTestREPL(t, nil)

	_, err := r.Handle(context.Background(), "/reload")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Catalog reloaded")
	assert.NotNil(t, r.parser.Catalog().FindArtist("New Order"))
}

func TestREPLRun(t *testing.T) {
	r, out := newTestREPL(t, nil)
	in := &fakeReader{lines: []string{"hello", "/music: Joy D", "/music: Joy Division – Disorder", ""}}

	require.NoError(t, r.Run(context.Background(), in))
	assert.Equal(t, []string{"hello", "/music: Joy D", "/music: Joy Division – Disorder"}, in.history)
	assert.Equal(t, []string{"/music: Joy Division – "}, in.suggestions)
	assert.Equal(t, 2, r.Transcript().Len())
	assert.Contains(t, out.String(), "chatline")
}

func TestREPLRunStopsOnQuit(t *testing.T) {
	r, _ := newTestREPL(t, nil)
	in := &fakeReader{lines: []string{"/quit", "never sent"}}

	require.NoError(t, r.Run(context.Background(), in))
	assert.Equal(t, []string{"never sent"}, in.lines)
	assert.Equal(t, 0, r.Transcript().Len())
}

func TestREPLPersistsToStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	r, _ := newTestREPL(t, &Session{Store: store})
	_, err = r.Handle(ctx, "kept")
	require.NoError(t, err)

	msgs, err := store.RecentMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "kept", msgs[0].Content)

	// a new REPL replays it
	r2, out := newTestREPL(t, &Session{Store: store})
	require.NoError(t, r2.LoadHistory(ctx))
	assert.Equal(t, 1, r2.Transcript().Len())
	assert.Contains(t, out.String(), "kept")
}

// =============================================================================
// SESSION
// =============================================================================

func TestBuildImageStore(t *testing.T) {
	cfg := config.Default()
	cfg.Images.DiskPath = t.TempDir()

	store, err := BuildImageStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)

	cfg.Images.Backend = "none"
	store, err = BuildImageStore(cfg)
	require.NoError(t, err)
	assert.Nil(t, store)

	cfg.Images.Backend = "http"
	cfg.Images.UploadURL = ""
	_, err = BuildImageStore(cfg)
	assert.Error(t, err)

	cfg.Images.UploadURL = "https://images.example.com/upload"
	store, err = BuildImageStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)

	cfg.Images.Backend = "ftp"
	_, err = BuildImageStore(cfg)
	assert.Error(t, err)
}

func TestOpenSession(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Images.Backend = "none"
	cfg.Storage.DraftsDB = filepath.Join(dir, "drafts.db")

	sess, err := OpenSession(cfg, SessionOptions{})
	require.NoError(t, err)
	assert.NotNil(t, sess.Store)
	assert.NotNil(t, sess.Fetcher)
	assert.Nil(t, sess.Watcher)
	assert.NoError(t, sess.Close())

	sess, err = OpenSession(cfg, SessionOptions{NoStore: true})
	require.NoError(t, err)
	assert.Nil(t, sess.Store)
	assert.NoError(t, sess.Close())
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestCatalogCommand(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "--config", path, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "/music")
	assert.Contains(t, out, "/help")
	assert.Contains(t, out, "Joy Division")
}

func TestCatalogCommandArtist(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "--config", path, "catalog", "björk")
	require.NoError(t, err)
	assert.Contains(t, out, "Hyperballad")
	assert.Contains(t, out, "https://audio.example.com/bjork/hyperballad.mp3")

	_, err = execute(t, "--config", path, "catalog", "Nobody")
	require.Error(t, err)
	assert.Equal(t, ExitNotFoundError, ExitCode(err))
}

func TestConfigCommands(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, `author = "ada"`)

	out, err = execute(t, "--config", path, "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", strings.TrimSpace(out))

	_, err = execute(t, "--config", path, "config", "set", "ui.theme", "light")
	require.NoError(t, err)

	out, err = execute(t, "--config", path, "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "light", strings.TrimSpace(out))

	_, err = execute(t, "--config", path, "config", "get", "ui.nope")
	assert.Equal(t, ExitNotFoundError, ExitCode(err))

	out, err = execute(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))
}

func TestConfigSetKeepsJSONFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := fmt.Sprintf(`{"author":"ada","images":{"backend":"none"},"storage":{"drafts_db":%q},"log":{"file":%q}}`,
		filepath.Join(dir, "drafts.db"), filepath.Join(dir, "chatline.log"))
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	_, err := execute(t, "--config", path, "config", "set", "ui.theme", "light")
	require.NoError(t, err)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(saved)), "{"))

	out, err := execute(t, "--config", path, "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "light", strings.TrimSpace(out))
}

func TestAuthorFlagOverridesConfig(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "--config", path, "--author", "grace", "config", "get", "author")
	require.NoError(t, err)
	assert.Equal(t, "grace", strings.TrimSpace(out))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "config")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	path := writeConfig(t)
	outDir := filepath.Join(t.TempDir(), "exports")

	_, err := execute(t, "--config", path, "export", "--out", outDir)
	assert.Equal(t, ExitNotFoundError, ExitCode(err))

	store, err := storage.Open(filepath.Join(filepath.Dir(path), "drafts.db"))
	require.NoError(t, err)
	require.NoError(t, store.AppendMessage(context.Background(), model.NewMessage(model.RoleUser, "ada", "Love will tear us apart")))
	require.NoError(t, store.Close())

	out, err := execute(t, "--config", path, "export", "--out", outDir, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "exported")

	files, err := filepath.Glob(filepath.Join(outDir, "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Love will tear us apart")

	_, err = execute(t, "--config", path, "export", "--format", "pdf")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}
