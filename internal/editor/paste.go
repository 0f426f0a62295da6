// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jeranaias/chatline/internal/imagestore"
	"github.com/jeranaias/chatline/internal/surface"
)

// =============================================================================
// PASTE
// =============================================================================

// Paste is the clipboard content of a paste event. Any field may be empty.
type Paste struct {
	Image     []byte
	ImageName string
	HTML      string
	Text      string
}

// HandlePaste inserts pasted content at the caret, in priority order:
//
//  1. raw image bytes become a pending image token and are uploaded;
//  2. an <img> in pasted HTML is fetched and uploaded the same way, and no
//     text is pasted;
//  3. text naming an image (http(s) image URL or local image file) is
//     fetched and uploaded; any other text is inserted literally.
//
// The returned command performs the network work and reports back with an
// ImageUploadedMsg.
func (e *Editor) HandlePaste(p Paste) tea.Cmd {
	if len(p.Image) > 0 {
		ct, err := imagestore.DetectContentType(p.ImageName, p.Image)
		if err == nil {
			id := e.insertPendingImage()
			return e.uploadCmd(id, imagestore.Image{Name: p.ImageName, ContentType: ct, Data: p.Image})
		}
		log.Printf("editor: ignoring pasted bytes: %v", err)
	}

	if p.HTML != "" {
		if src := firstImageSrc(p.HTML); src != "" {
			if img, ok := decodeDataURI(src); ok {
				id := e.insertPendingImage()
				return e.uploadCmd(id, img)
			}
			if e.fetcher != nil {
				id := e.insertPendingImage()
				return e.fetchUploadCmd(id, src, "")
			}
		}
	}

	if p.Text == "" {
		return nil
	}
	if e.fetcher != nil && e.store != nil && imagestore.IsImageRef(p.Text) {
		id := e.insertPendingImage()
		return e.fetchUploadCmd(id, strings.TrimSpace(p.Text), p.Text)
	}
	e.InsertText(p.Text)
	return nil
}

// insertPendingImage inserts an unloaded image token at the caret.
func (e *Editor) insertPendingImage() string {
	img := surface.Image{ID: uuid.NewString()}
	e.images[img.ID] = img
	end := surface.InsertNode(e.root, e.CaretOffset(), surface.NewImage(img))
	e.SetCaretOffset(end)
	e.commit()
	return img.ID
}

func (e *Editor) uploadCmd(id string, img imagestore.Image) tea.Cmd {
	store, timeout := e.store, e.timeout
	return func() tea.Msg {
		if store == nil {
			return ImageUploadedMsg{ID: id, Err: imagestore.ErrNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		url, err := store.Upload(ctx, id, img)
		return ImageUploadedMsg{ID: id, URL: url, Err: err}
	}
}

// fetchUploadCmd fetches ref and uploads it. A fetch failure carries the
// fallback text; an upload failure does not.
func (e *Editor) fetchUploadCmd(id, ref, fallback string) tea.Cmd {
	store, fetcher, timeout := e.store, e.fetcher, e.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		img, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			return ImageUploadedMsg{ID: id, Err: err, Fallback: fallback}
		}
		if store == nil {
			return ImageUploadedMsg{ID: id, Err: imagestore.ErrNoStore}
		}
		url, err := store.Upload(ctx, id, img)
		return ImageUploadedMsg{ID: id, URL: url, Err: err}
	}
}

// ApplyUpload applies an upload result to the token it belongs to and
// reports whether the surface changed. A token that was removed meanwhile
// is not an error; its remembered payload is still updated so undo brings
// it back loaded.
func (e *Editor) ApplyUpload(msg ImageUploadedMsg) bool {
	node := surface.FindImage(e.root, msg.ID)

	if msg.Err != nil {
		log.Printf("editor: image %s upload failed: %v", msg.ID, msg.Err)
		if msg.Fallback != "" && node != nil {
			e.replaceWithText(node, msg.Fallback)
			delete(e.images, msg.ID)
			return true
		}
		return false
	}

	img := e.images[msg.ID]
	img.ID = msg.ID
	img.Loaded = true
	img.URL = msg.URL
	e.images[msg.ID] = img

	if node == nil {
		return false
	}
	node.Image.Loaded = true
	node.Image.URL = msg.URL
	return true
}

// replaceWithText swaps a token for literal text, keeping the caret on the
// same side of it.
func (e *Editor) replaceWithText(token *surface.Node, text string) {
	start := -1
	for _, l := range surface.Leaves(e.root) {
		if l.Node == token {
			start = l.Start
			break
		}
	}
	if start < 0 {
		return
	}

	caret := e.CaretOffset()
	surface.DeleteRange(e.root, start, start+1)
	end := surface.InsertText(e.root, start, normalizeNewlines(text))
	if caret > start {
		caret += end - start - 1
	}
	e.SetCaretOffset(caret)
	e.commit()
}

// PendingUploads returns the number of image tokens not yet loaded.
func (e *Editor) PendingUploads() int {
	n := 0
	for _, img := range surface.Images(e.root) {
		if !img.Loaded {
			n++
		}
	}
	return n
}

// =============================================================================
// HTML IMAGES
// =============================================================================

// firstImageSrc returns the src of the first <img> element in s.
func firstImageSrc(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Img {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "src" && strings.TrimSpace(a.Val) != "" {
					return strings.TrimSpace(a.Val)
				}
			}
		}
	}
}

// decodeDataURI decodes a base64 data: URI carrying an image.
func decodeDataURI(src string) (imagestore.Image, bool) {
	if !strings.HasPrefix(src, "data:") {
		return imagestore.Image{}, false
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return imagestore.Image{}, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		log.Printf("editor: bad data uri: %v", err)
		return imagestore.Image{}, false
	}
	ct, err := imagestore.DetectContentType("", data)
	if err != nil {
		return imagestore.Image{}, false
	}
	return imagestore.Image{
		Name:        fmt.Sprintf("pasted%s", extFromMeta(meta)),
		ContentType: ct,
		Data:        data,
	}, true
}

func extFromMeta(meta string) string {
	ct := strings.TrimSuffix(meta, ";base64")
	if _, sub, ok := strings.Cut(ct, "/"); ok && sub != "" {
		return "." + strings.TrimSuffix(sub, "+xml")
	}
	return ""
}
