// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/surface"
)

// =============================================================================
// OUTPUT
// =============================================================================

// Compose returns the outgoing message for the current surface: the logical
// text with placeholders, plus quote metadata and, when any image has been
// uploaded, image metadata. Music metadata is added by the command layer.
func (e *Editor) Compose() model.Outgoing {
	out := model.Outgoing{Text: e.PlainText()}

	md := &model.Metadata{}
	for _, q := range surface.Quotes(e.root) {
		md.Quotes = append(md.Quotes, model.QuoteRef{
			MessageID: q.MessageID,
			Author:    q.Author,
			Text:      q.Text,
		})
	}
	for _, img := range surface.Images(e.root) {
		if !img.Loaded {
			continue
		}
		md.Type = model.MetadataImages
		md.Images = append(md.Images, model.ImageRef{ID: img.ID, URL: img.URL})
	}

	if !md.IsEmpty() {
		out.Metadata = md
	}
	return out
}

// =============================================================================
// DRAFTS
// =============================================================================

// Draft is a restorable snapshot of the input line.
type Draft struct {
	Text   string          `json:"text"`
	Images []surface.Image `json:"images,omitempty"`
	Quotes []surface.Quote `json:"quotes,omitempty"`
}

// Draft captures the current surface.
func (e *Editor) Draft() Draft {
	return Draft{
		Text:   e.PlainText(),
		Images: surface.Images(e.root),
		Quotes: surface.Quotes(e.root),
	}
}

// RestoreDraft replaces the editor content with d and starts a fresh
// history whose oldest entry is empty.
func (e *Editor) RestoreDraft(d Draft) {
	e.reset()
	for _, img := range d.Images {
		e.images[img.ID] = img
	}
	if len(d.Quotes) > 0 {
		e.quotes[d.Text] = d.Quotes
	}
	e.SetText(d.Text)
}
