// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatline/internal/imagestore"
	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/surface"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeStore struct {
	mu        sync.Mutex
	uploads   []string
	deletes   []string
	uploadErr error
}

func (s *fakeStore) Upload(_ context.Context, id string, _ imagestore.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, id)
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return "https://img.example/" + id, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	return nil
}

type fakeFetcher struct {
	err  error
	refs []string
}

func (f *fakeFetcher) Fetch(_ context.Context, ref string) (imagestore.Image, error) {
	f.refs = append(f.refs, ref)
	if f.err != nil {
		return imagestore.Image{}, f.err
	}
	return imagestore.Image{Name: "x.png", ContentType: "image/png", Data: pngBytes}, nil
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestEditor(store imagestore.Store, fetcher imagestore.Fetcher) *Editor {
	opts := DefaultOptions()
	if store != nil {
		opts.Store = store
	}
	if fetcher != nil {
		opts.Fetcher = fetcher
	}
	return New(opts)
}

// withLoadedImage builds "ab" + loaded image + "cd".
func withLoadedImage(e *Editor) {
	e.RestoreDraft(Draft{
		Text:   "ab" + surface.ImagePlaceholder("img1") + "cd",
		Images: []surface.Image{{ID: "img1", Loaded: true, URL: "https://img.example/img1"}},
	})
}

// =============================================================================
// ATOMIC DELETION
// =============================================================================

func TestBackspaceRemovesLoadedImageAtomically(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, nil)
	withLoadedImage(e)
	require.Equal(t, 5, e.Len())

	e.SetCaretOffset(3) // right after the image
	handled, cmd := e.HandleKeydown("backspace")

	require.True(t, handled)
	assert.Equal(t, 4, e.Len(), "logical length shrinks by exactly one")
	assert.Equal(t, "abcd", e.PlainText())
	assert.Equal(t, 2, e.CaretOffset())
	assert.Empty(t, store.deletes, "delete is issued only when the command runs")

	require.NotNil(t, cmd)
	msg, ok := cmd().(ImageDeletedMsg)
	require.True(t, ok)
	assert.Equal(t, "img1", msg.ID)
	assert.Equal(t, []string{"img1"}, store.deletes)
}

func TestBackspaceRemovesQuoteWithoutDelete(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, nil)
	e.InsertText("hello")
	e.InsertQuoteTag(surface.Quote{MessageID: "m1", Author: "ann", Text: "quoted"})

	e.SetCaretOffset(1)
	handled, cmd := e.HandleKeydown("backspace")

	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, " hello", e.PlainText())
	assert.Empty(t, surface.Quotes(e.Root()))
}

func TestBackspaceOutsideTokenIsNotHandled(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.InsertText("abc")

	handled, cmd := e.HandleKeydown("backspace")
	assert.False(t, handled)
	assert.Nil(t, cmd)

	handled, _ = e.HandleKeydown("delete")
	assert.False(t, handled)

	e.DeleteBackward()
	assert.Equal(t, "ab", e.Text())
	assert.Equal(t, 2, e.CaretOffset())
}

func TestBackspaceOnUnloadedImageIssuesNoDelete(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, nil)
	e.RestoreDraft(Draft{
		Text:   surface.ImagePlaceholder("p") + "x",
		Images: []surface.Image{{ID: "p"}},
	})
	e.SetCaretOffset(1)

	handled, cmd := e.HandleKeydown("backspace")
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, "x", e.PlainText())
}

func TestDeleteBackwardAcrossImage(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, nil)
	withLoadedImage(e)
	e.SetCaretOffset(3)

	// Same outcome through the generic path.
	cmd := e.DeleteBackward()
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "abcd", e.PlainText())
	assert.Equal(t, []string{"img1"}, store.deletes)
}

func TestDeleteForwardAndWord(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.InsertText("hello big world")

	e.DeleteWordBackward()
	assert.Equal(t, "hello big ", e.Text())

	e.DeleteWordBackward()
	assert.Equal(t, "hello ", e.Text())

	e.MoveHome()
	e.DeleteForward()
	assert.Equal(t, "ello ", e.Text())
	assert.Equal(t, 0, e.CaretOffset())
}

// =============================================================================
// HISTORY
// =============================================================================

func TestSyncDoesNotGrowHistoryWithoutChange(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.InsertText("a")
	n := e.History().Len()

	e.SyncMarkdownText()
	e.SyncMarkdownText()

	assert.Equal(t, n, e.History().Len())
}

func TestHistoryBoundThroughEditor(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxHistory = 5
	e := New(opts)

	for i := 0; i < opts.MaxHistory+5; i++ {
		e.InsertText("x")
	}
	assert.LessOrEqual(t, e.History().Len(), opts.MaxHistory)

	for e.Undo() {
	}
	// The oldest retained state, not the empty original.
	assert.Equal(t, "xxxxxx", e.Text())
}

func TestUndoRedo(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.InsertText("a")
	e.InsertText("b")

	require.True(t, e.Undo())
	assert.Equal(t, "a", e.Text())
	assert.Equal(t, "a", e.PlainText())
	assert.Equal(t, 1, e.CaretOffset(), "caret goes to end of text")

	require.True(t, e.Redo())
	assert.Equal(t, "ab", e.PlainText())
	assert.False(t, e.Redo())

	e.Undo()
	e.Undo()
	assert.Equal(t, "", e.PlainText())
	assert.False(t, e.Undo())
}

func TestUndoRestoresTokens(t *testing.T) {
	e := newTestEditor(&fakeStore{}, nil)
	withLoadedImage(e)
	e.InsertQuoteTag(surface.Quote{MessageID: "m1", Text: "q"})
	e.InsertText("!")

	require.True(t, e.Undo())
	assert.Len(t, surface.Images(e.Root()), 1)
	assert.Len(t, surface.Quotes(e.Root()), 1)
	assert.True(t, surface.Images(e.Root())[0].Loaded)
	assert.Equal(t, e.Text(), e.PlainText())
	assert.Equal(t, e.Len(), 7)
}

func TestClear(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.InsertText("abc")
	e.Clear()

	assert.Equal(t, "", e.Text())
	assert.Equal(t, 1, e.History().Len())
	assert.Equal(t, 0, e.History().Index())
	assert.True(t, e.IsEmpty())
}

// =============================================================================
// PAUSE / RESUME
// =============================================================================

func TestPausedEditsAreReconciledOnResume(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.Pause()
	e.InsertText("/mu")

	assert.Equal(t, "", e.Text(), "nothing is committed while paused")
	assert.Equal(t, "/mu", e.PlainText())
	assert.Equal(t, 1, e.History().Len())

	e.Resume()
	assert.Equal(t, "/mu", e.Text())
	assert.Equal(t, 2, e.History().Len())
	assert.False(t, e.Paused())
}

// =============================================================================
// LIVE MARKDOWN
// =============================================================================

func hasStyle(root *surface.Node, style surface.Style) bool {
	var walk func(n *surface.Node) bool
	walk = func(n *surface.Node) bool {
		for _, c := range n.Children {
			if c.Kind == surface.KindElement && (c.Style == style || walk(c)) {
				return true
			}
		}
		return false
	}
	return walk(root)
}

func TestLiveMarkdownKeepsCaret(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.InsertText("**hi** there")

	assert.True(t, hasStyle(e.Root(), surface.StyleBold))
	assert.Equal(t, 12, e.CaretOffset())
	assert.Equal(t, "**hi** there", e.Text())

	e.SetCaretOffset(4)
	e.InsertText("!")
	assert.Equal(t, "**hi!** there", e.Text())
	assert.Equal(t, 5, e.CaretOffset())
}

func TestLiveMarkdownSkippedWithImages(t *testing.T) {
	e := newTestEditor(nil, nil)
	withLoadedImage(e)
	e.InsertText(" **b**")
	assert.False(t, hasStyle(e.Root(), surface.StyleBold))
}

func TestLiveMarkdownOff(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.InsertText("**b**")
	require.True(t, hasStyle(e.Root(), surface.StyleBold))

	e.SetLiveMarkdown(false)
	assert.False(t, hasStyle(e.Root(), surface.StyleBold))
	assert.Equal(t, "**b**", e.PlainText())
}

// =============================================================================
// QUOTES
// =============================================================================

func TestInsertQuoteTagPrepends(t *testing.T) {
	e := newTestEditor(nil, nil)
	e.InsertText("hello")
	e.InsertQuoteTag(surface.Quote{MessageID: "m1", Author: "ann", Text: "hi"})

	assert.Equal(t, surface.QuotePlaceholder+" hello", e.Text())
	assert.Equal(t, 2, e.CaretOffset())

	out := e.Compose()
	require.NotNil(t, out.Metadata)
	assert.Equal(t, []model.QuoteRef{{MessageID: "m1", Author: "ann", Text: "hi"}}, out.Metadata.Quotes)
	assert.Empty(t, out.Metadata.Type)
}

// =============================================================================
// PASTE
// =============================================================================

func TestPasteImageBytesUploads(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, nil)
	e.InsertText("see ")

	cmd := e.HandlePaste(Paste{Image: pngBytes, ImageName: "shot.png", Text: "ignored"})
	require.NotNil(t, cmd)

	imgs := surface.Images(e.Root())
	require.Len(t, imgs, 1)
	assert.False(t, imgs[0].Loaded)
	assert.Equal(t, 1, e.PendingUploads())
	assert.Equal(t, "see "+surface.ImagePlaceholder(imgs[0].ID), e.Text())

	msg := cmd().(ImageUploadedMsg)
	require.NoError(t, msg.Err)
	assert.True(t, e.ApplyUpload(msg))

	img := surface.Images(e.Root())[0]
	assert.True(t, img.Loaded)
	assert.Equal(t, "https://img.example/"+img.ID, img.URL)

	out := e.Compose()
	require.NotNil(t, out.Metadata)
	assert.Equal(t, model.MetadataImages, out.Metadata.Type)
	assert.Equal(t, []model.ImageRef{{ID: img.ID, URL: img.URL}}, out.Metadata.Images)
}

func TestPasteUploadFailureLeavesTokenUnloaded(t *testing.T) {
	store := &fakeStore{uploadErr: errors.New("boom")}
	e := newTestEditor(store, nil)

	cmd := e.HandlePaste(Paste{Image: pngBytes})
	msg := cmd().(ImageUploadedMsg)
	assert.False(t, e.ApplyUpload(msg))

	imgs := surface.Images(e.Root())
	require.Len(t, imgs, 1)
	assert.False(t, imgs[0].Loaded)
	assert.Nil(t, e.Compose().Metadata)
}

func TestPasteWithoutStoreLeavesTokenUnloaded(t *testing.T) {
	e := newTestEditor(nil, nil)
	cmd := e.HandlePaste(Paste{Image: pngBytes})
	msg := cmd().(ImageUploadedMsg)
	assert.ErrorIs(t, msg.Err, imagestore.ErrNoStore)
}

func TestPasteHTMLImageSuppressesText(t *testing.T) {
	store, fetcher := &fakeStore{}, &fakeFetcher{}
	e := newTestEditor(store, fetcher)

	cmd := e.HandlePaste(Paste{
		HTML: `<p>look <img alt="x" src="https://example.com/y.png"></p>`,
		Text: "look",
	})
	require.NotNil(t, cmd)
	assert.True(t, strings.HasPrefix(e.Text(), surface.ImagePlaceholderPrefix))
	assert.Equal(t, 1, e.Len())

	msg := cmd().(ImageUploadedMsg)
	assert.Equal(t, []string{"https://example.com/y.png"}, fetcher.refs)
	assert.True(t, e.ApplyUpload(msg))
}

func TestPasteHTMLDataURI(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, nil)

	cmd := e.HandlePaste(Paste{HTML: `<img src="data:image/png;base64,iVBORw0KGgoAAAANSUhEUg==">`})
	require.NotNil(t, cmd)
	msg := cmd().(ImageUploadedMsg)
	require.NoError(t, msg.Err)
	assert.Len(t, store.uploads, 1)
}

func TestPasteImageURLFetchFailureFallsBackToText(t *testing.T) {
	store, fetcher := &fakeStore{}, &fakeFetcher{err: errors.New("404")}
	e := newTestEditor(store, fetcher)
	e.InsertText("a")

	url := "https://example.com/cat.png"
	cmd := e.HandlePaste(Paste{Text: url})
	require.NotNil(t, cmd)
	assert.Equal(t, 2, e.Len())

	msg := cmd().(ImageUploadedMsg)
	assert.Equal(t, url, msg.Fallback)
	assert.True(t, e.ApplyUpload(msg))
	assert.Equal(t, "a"+url, e.Text())
	assert.Equal(t, 1+len(url), e.CaretOffset())
	assert.Empty(t, store.uploads)
}

func TestPastePlainText(t *testing.T) {
	e := newTestEditor(&fakeStore{}, &fakeFetcher{})
	assert.Nil(t, e.HandlePaste(Paste{Text: "line one\r\nline two"}))
	assert.Equal(t, "line one\nline two", e.Text())
	assert.Nil(t, e.HandlePaste(Paste{}))
}

func TestApplyUploadAfterTokenRemoved(t *testing.T) {
	store := &fakeStore{}
	e := newTestEditor(store, nil)
	cmd := e.HandlePaste(Paste{Image: pngBytes})

	// Remove the pending token before the upload resolves.
	handled, del := e.HandleKeydown("backspace")
	require.True(t, handled)
	assert.Nil(t, del, "unloaded images are not deleted")

	msg := cmd().(ImageUploadedMsg)
	assert.False(t, e.ApplyUpload(msg))
	assert.True(t, e.IsEmpty())

	// Undo brings the token back with the uploaded state.
	require.True(t, e.Undo())
	imgs := surface.Images(e.Root())
	require.Len(t, imgs, 1)
	assert.True(t, imgs[0].Loaded)
}

// =============================================================================
// DRAFTS
// =============================================================================

func TestDraftRoundTrip(t *testing.T) {
	e := newTestEditor(nil, nil)
	withLoadedImage(e)
	e.InsertQuoteTag(surface.Quote{MessageID: "m", Text: "q"})
	d := e.Draft()

	other := newTestEditor(nil, nil)
	other.RestoreDraft(d)
	assert.Equal(t, e.PlainText(), other.PlainText())
	assert.Equal(t, surface.Images(e.Root()), surface.Images(other.Root()))
	assert.Equal(t, surface.Quotes(e.Root()), surface.Quotes(other.Root()))
	assert.Equal(t, 2, other.History().Len())
}
