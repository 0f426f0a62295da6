// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatline/internal/editor"
	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/surface"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// DRAFT TESTS
// =============================================================================

func TestDraftRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d := editor.Draft{
		Text:   surface.QuotePlaceholder + " see " + surface.ImagePlaceholder("img1"),
		Images: []surface.Image{{ID: "img1", Loaded: true, URL: "file:///tmp/a.png"}},
		Quotes: []surface.Quote{{MessageID: "m1", Author: "ian", Text: "Walking in silence"}},
	}
	require.NoError(t, s.SaveDraft(ctx, DefaultDraftKey, d))

	got, ok, err := s.LoadDraft(ctx, DefaultDraftKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d, got)
}

func TestDraftOverwriteAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "a", editor.Draft{Text: "one"}))
	require.NoError(t, s.SaveDraft(ctx, "a", editor.Draft{Text: "two"}))

	got, ok, err := s.LoadDraft(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", got.Text)
	assert.Empty(t, got.Images)

	// an empty draft clears the key
	require.NoError(t, s.SaveDraft(ctx, "a", editor.Draft{}))
	_, ok, err = s.LoadDraft(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDraftKeys(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, "first", editor.Draft{Text: "x"}))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.SaveDraft(ctx, "second", editor.Draft{Text: "y"}))

	keys, err := s.DraftKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, keys)
}

func TestDraftPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveDraft(ctx, DefaultDraftKey, editor.Draft{Text: "kept"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.LoadDraft(ctx, DefaultDraftKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "kept", got.Text)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, _, err = s.LoadDraft(context.Background(), DefaultDraftKey)
	assert.ErrorIs(t, err, ErrClosed)
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessagesRecentOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, text := range []string{"one", "two", "three"} {
		msg := model.NewMessage(model.RoleUser, "bernard", text)
		ids = append(ids, msg.ID)
		require.NoError(t, s.AppendMessage(ctx, msg))
	}

	got, err := s.RecentMessages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[1], got[0].ID)
	assert.Equal(t, "three", got[1].Content)
	assert.Equal(t, model.RoleUser, got[1].Role)
}

func TestMessagesMetadata(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	msg := model.NewMessage(model.RoleUser, "bernard", "")
	msg.Metadata = &model.Metadata{
		Type:   model.MetadataMusic,
		Artist: "Joy Division",
		Track:  "Atmosphere",
	}
	require.NoError(t, s.AppendMessage(ctx, msg))
	require.NoError(t, s.AppendMessage(ctx, msg), "duplicate ids are ignored")

	got, err := s.RecentMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Metadata)
	assert.Equal(t, "Atmosphere", got[0].Metadata.Track)
	assert.True(t, got[0].IsMusic())

	require.NoError(t, s.ClearMessages(ctx))
	got, err = s.RecentMessages(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
