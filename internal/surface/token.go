// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface provides the editable input surface: a tree of text runs,
// paragraph breaks and atomic tokens, plus the mapping between caret
// positions in that tree and offsets into the logical text.
package surface

import (
	"strings"
	"unicode/utf8"
)

// =============================================================================
// TOKEN KINDS
// =============================================================================

// Kind identifies what a Node holds.
type Kind int

const (
	KindElement Kind = iota // Container: the root or a styled span
	KindText                // TextRun: ordinary characters
	KindBreak               // ParagraphBreak: a forced line break
	KindImage               // ImageToken: atomic
	KindQuote               // QuoteToken: atomic
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindBreak:
		return "break"
	case KindImage:
		return "image"
	case KindQuote:
		return "quote"
	default:
		return "unknown"
	}
}

// Placeholders spelled into the serialized text in place of atomic tokens.
const (
	ImagePlaceholderPrefix = "__IMAGE_TAG_"
	ImagePlaceholderSuffix = "__"
	QuotePlaceholder       = "__QUOTE_TAG__"
)

// ImagePlaceholder returns the serialized form of the image with the given id.
func ImagePlaceholder(id string) string {
	return ImagePlaceholderPrefix + id + ImagePlaceholderSuffix
}

// =============================================================================
// ATOMIC TOKEN PAYLOADS
// =============================================================================

// Image is the payload of an ImageToken.
// Loaded stays false until the image storage upload has succeeded.
type Image struct {
	ID     string `json:"id"`
	Loaded bool   `json:"loaded"`
	URL    string `json:"url,omitempty"`
}

// Quote is the payload of a QuoteToken: provenance of a quoted message.
type Quote struct {
	MessageID string `json:"messageId,omitempty"`
	Author    string `json:"author,omitempty"`
	Text      string `json:"text"`
}

// =============================================================================
// LENGTH CONTRACT
// =============================================================================

// LogicalLength returns the number of logical characters n contributes.
// Text contributes its rune count, every other leaf exactly one, and an
// element the sum of its children.
func LogicalLength(n *Node) int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindText:
		return utf8.RuneCountInString(n.Text)
	case KindBreak, KindImage, KindQuote:
		return 1
	case KindElement:
		total := 0
		for _, c := range n.Children {
			total += LogicalLength(c)
		}
		return total
	}
	return 0
}

// IsAtomic reports whether n is a token that can never be split or edited.
func IsAtomic(n *Node) bool {
	return n != nil && (n.Kind == KindImage || n.Kind == KindQuote)
}

// IsLeaf reports whether n contributes to the logical text directly.
func IsLeaf(n *Node) bool {
	return n != nil && n.Kind != KindElement
}

// serializeLeaf writes the serialized form of a leaf.
func serializeLeaf(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindText:
		b.WriteString(n.Text)
	case KindBreak:
		b.WriteByte('\n')
	case KindImage:
		b.WriteString(ImagePlaceholder(n.Image.ID))
	case KindQuote:
		b.WriteString(QuotePlaceholder)
	}
}
