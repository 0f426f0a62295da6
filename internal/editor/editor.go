// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor owns the logical text of the input line.
//
// The Editor keeps a surface tree of text runs, breaks and atomic tokens in
// sync with a serialized logical text and a bounded undo history. Every
// re-render goes through the surface offset mapper so the caret never jumps.
// While paused (command mode) the surface may be edited but nothing is
// committed; Resume reconciles.
package editor

import (
	"time"

	"github.com/jeranaias/chatline/internal/history"
	"github.com/jeranaias/chatline/internal/imagestore"
	"github.com/jeranaias/chatline/internal/markdown"
	"github.com/jeranaias/chatline/internal/surface"
)

// =============================================================================
// OPTIONS
// =============================================================================

// DefaultUploadTimeout bounds a single fetch or upload.
const DefaultUploadTimeout = 30 * time.Second

// Options configures an Editor.
type Options struct {
	// MaxHistory caps the undo history. Zero means history.DefaultMaxHistory.
	MaxHistory int

	// LiveMarkdown enables the inline bold/italic/code renderer.
	LiveMarkdown bool

	// Store receives pasted images. Nil leaves pasted images unloaded.
	Store imagestore.Store

	// Fetcher resolves pasted image URLs and paths. Nil disables them.
	Fetcher imagestore.Fetcher

	// UploadTimeout bounds each fetch and upload.
	UploadTimeout time.Duration
}

// DefaultOptions returns the options used by New(DefaultOptions()).
func DefaultOptions() Options {
	return Options{
		MaxHistory:    history.DefaultMaxHistory,
		LiveMarkdown:  true,
		UploadTimeout: DefaultUploadTimeout,
	}
}

// =============================================================================
// EDITOR
// =============================================================================

// Editor is the text model owner of the input line.
type Editor struct {
	root  *surface.Node
	caret *surface.Position

	text    string
	history *history.Stack
	paused  bool

	liveMarkdown bool
	store        imagestore.Store
	fetcher      imagestore.Fetcher
	timeout      time.Duration

	// images remembers every image token payload by id so history snapshots
	// can be turned back into tokens.
	images map[string]surface.Image

	// quotes maps a history snapshot to the quote payloads it contains.
	quotes map[string][]surface.Quote
}

// New creates an empty editor.
func New(opts Options) *Editor {
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = DefaultUploadTimeout
	}
	e := &Editor{
		history:      history.New(opts.MaxHistory),
		liveMarkdown: opts.LiveMarkdown,
		store:        opts.Store,
		fetcher:      opts.Fetcher,
		timeout:      opts.UploadTimeout,
	}
	e.reset()
	return e
}

func (e *Editor) reset() {
	e.root = surface.NewRoot()
	e.caret = surface.End(e.root)
	e.text = ""
	e.history.Reset("")
	e.images = make(map[string]surface.Image)
	e.quotes = make(map[string][]surface.Quote)
}

// SetStore replaces the image store.
func (e *Editor) SetStore(s imagestore.Store) {
	e.store = s
}

// SetFetcher replaces the image fetcher.
func (e *Editor) SetFetcher(f imagestore.Fetcher) {
	e.fetcher = f
}

// SetLiveMarkdown toggles the live markdown renderer.
func (e *Editor) SetLiveMarkdown(on bool) {
	e.liveMarkdown = on
	if on {
		e.RenderLiveMarkdown()
		return
	}
	if !e.paused {
		e.rebuildPlain()
	}
}

// =============================================================================
// TEXT ACCESS
// =============================================================================

// PlainText returns the logical text serialized from the surface right now.
// Unlike Text it reflects edits made while paused.
func (e *Editor) PlainText() string {
	return surface.Serialize(e.root)
}

// Text returns the last committed logical text.
func (e *Editor) Text() string {
	return e.text
}

// Root returns the surface tree. Callers must treat it as read-only.
func (e *Editor) Root() *surface.Node {
	return e.root
}

// Caret returns a copy of the caret position.
func (e *Editor) Caret() *surface.Position {
	return e.caret.Clone()
}

// Len returns the logical length of the surface.
func (e *Editor) Len() int {
	return surface.LogicalLength(e.root)
}

// IsEmpty reports whether the surface holds nothing.
func (e *Editor) IsEmpty() bool {
	return e.Len() == 0
}

// Paused reports whether synchronization is suspended.
func (e *Editor) Paused() bool {
	return e.paused
}

// History returns the undo history.
func (e *Editor) History() *history.Stack {
	return e.history
}

// =============================================================================
// CARET
// =============================================================================

// CaretOffset returns the caret as a logical offset.
func (e *Editor) CaretOffset() int {
	if off, ok := surface.SaveCursorPosition(e.root, e.caret); ok {
		return off
	}
	return e.Len()
}

// SetCaretOffset moves the caret to a logical offset, clamped to the surface.
func (e *Editor) SetCaretOffset(offset int) {
	e.caret = surface.RestoreCursorPosition(e.root, offset)
}

// MoveLeft moves the caret one logical character left.
func (e *Editor) MoveLeft() {
	if off := e.CaretOffset(); off > 0 {
		e.SetCaretOffset(off - 1)
	}
}

// MoveRight moves the caret one logical character right.
func (e *Editor) MoveRight() {
	e.SetCaretOffset(e.CaretOffset() + 1)
}

// MoveHome moves the caret to the start.
func (e *Editor) MoveHome() {
	e.SetCaretOffset(0)
}

// MoveEnd moves the caret to the end.
func (e *Editor) MoveEnd() {
	e.caret = surface.End(e.root)
}

// =============================================================================
// SYNCHRONIZATION
// =============================================================================

// SyncMarkdownText recomputes the logical text from the surface and records
// it in the history. It does nothing while paused.
func (e *Editor) SyncMarkdownText() {
	if e.paused {
		return
	}
	e.text = surface.Serialize(e.root)

	if qs := surface.Quotes(e.root); len(qs) > 0 {
		e.quotes[e.text] = qs
	}
	for _, img := range surface.Images(e.root) {
		e.images[img.ID] = img
	}

	if e.history.Save(e.text) {
		e.pruneQuotes()
	}
}

// pruneQuotes forgets quote payloads of snapshots no longer in history.
func (e *Editor) pruneQuotes() {
	for text := range e.quotes {
		if !e.history.Contains(text) {
			delete(e.quotes, text)
		}
	}
}

// RenderLiveMarkdown re-derives the styled surface from its text, keeping
// the caret at the same logical offset. It is skipped while paused, when
// live markdown is off, and while any image token is present.
func (e *Editor) RenderLiveMarkdown() {
	if e.paused || !e.liveMarkdown || surface.HasImages(e.root) {
		return
	}
	offset, hasCaret := surface.SaveCursorPosition(e.root, e.caret)
	e.root = markdown.Render(e.root)
	if hasCaret {
		e.caret = surface.RestoreCursorPosition(e.root, offset)
	} else {
		e.caret = surface.End(e.root)
	}
}

// rebuildPlain drops all styling while keeping tokens and the caret.
func (e *Editor) rebuildPlain() {
	offset := e.CaretOffset()
	plain := surface.NewRoot()
	for _, l := range surface.Leaves(e.root) {
		n := l.Node
		if n.Kind == surface.KindText {
			n = surface.Text(n.Text)
		}
		plain.Children = append(plain.Children, n)
	}
	surface.Normalize(plain)
	e.root = plain
	e.SetCaretOffset(offset)
}

// commit runs the sync and render pass after an edit.
func (e *Editor) commit() {
	e.SyncMarkdownText()
	e.RenderLiveMarkdown()
}

// Pause suspends synchronization. The surface may still be edited.
func (e *Editor) Pause() {
	e.paused = true
}

// Resume re-enables synchronization and immediately reconciles whatever
// happened to the surface while paused.
func (e *Editor) Resume() {
	e.paused = false
	e.SyncMarkdownText()
	e.RenderLiveMarkdown()
}

// Clear empties the editor and its history.
func (e *Editor) Clear() {
	e.reset()
}

// =============================================================================
// EDITING
// =============================================================================

// InsertText inserts s at the caret. Newlines become paragraph breaks.
func (e *Editor) InsertText(s string) {
	if s == "" {
		return
	}
	s = normalizeNewlines(s)
	end := surface.InsertText(e.root, e.CaretOffset(), s)
	e.SetCaretOffset(end)
	e.commit()
}

// InsertParagraphBreak inserts a forced line break at the caret.
func (e *Editor) InsertParagraphBreak() {
	end := surface.InsertNode(e.root, e.CaretOffset(), surface.Break())
	e.SetCaretOffset(end)
	e.commit()
}

// SetText replaces the whole surface with the serialized text s. Known
// image placeholders and quote placeholders of a remembered snapshot become
// tokens again. The caret moves to the end.
func (e *Editor) SetText(s string) {
	e.root = e.parse(s)
	e.caret = surface.End(e.root)
	e.commit()
}

// parse rebuilds a surface from serialized text.
func (e *Editor) parse(s string) *surface.Node {
	resolve := func(id string) (surface.Image, bool) {
		img, ok := e.images[id]
		return img, ok
	}
	return surface.Parse(s, resolve, e.quotes[s])
}

// InsertQuoteTag prepends a quote token and a separating space, and puts
// the caret right after the space.
func (e *Editor) InsertQuoteTag(q surface.Quote) {
	next := surface.InsertNode(e.root, 0, surface.NewQuote(q))
	next = surface.InsertText(e.root, next, " ")
	e.SetCaretOffset(next)
	e.commit()
}

// Undo restores the previous history snapshot. The caret moves to the end.
func (e *Editor) Undo() bool {
	text, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restoreSnapshot(text)
	return true
}

// Redo restores the next history snapshot. The caret moves to the end.
func (e *Editor) Redo() bool {
	text, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restoreSnapshot(text)
	return true
}

func (e *Editor) restoreSnapshot(text string) {
	e.text = text
	e.root = e.parse(text)
	e.caret = surface.End(e.root)
	e.RenderLiveMarkdown()
}

func normalizeNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' {
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
