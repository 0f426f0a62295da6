// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/surface"
	"github.com/jeranaias/chatline/internal/ui/styles"
	"github.com/jeranaias/chatline/internal/util"
)

// CaretGlyph is drawn when the caret sits past the last character.
const CaretGlyph = " "

// =============================================================================
// SURFACE RENDERING
// =============================================================================

// RenderSurface draws the token tree with the caret at logical offset
// caret. A negative caret draws no caret.
func RenderSurface(root *surface.Node, caret int, th *styles.Theme) string {
	var b strings.Builder
	drawn := false

	for _, leaf := range surface.Leaves(root) {
		style := leafStyle(root, leaf, th)
		switch leaf.Node.Kind {
		case surface.KindText:
			runes := []rune(leaf.Node.Text)
			if caret >= leaf.Start && caret < leaf.End() && !drawn {
				at := caret - leaf.Start
				b.WriteString(style.Render(string(runes[:at])))
				b.WriteString(th.Caret.Render(string(runes[at])))
				b.WriteString(style.Render(string(runes[at+1:])))
				drawn = true
				continue
			}
			b.WriteString(style.Render(leaf.Node.Text))

		case surface.KindBreak:
			if caret == leaf.Start && !drawn {
				b.WriteString(th.Caret.Render(CaretGlyph))
				drawn = true
			}
			b.WriteString("\n")

		default:
			label := style.Render(TokenLabel(leaf.Node))
			if caret == leaf.Start && !drawn {
				label = th.Caret.Render(TokenLabel(leaf.Node))
				drawn = true
			}
			b.WriteString(label)
		}
	}

	if caret >= 0 && !drawn {
		b.WriteString(th.Caret.Render(CaretGlyph))
	}
	return b.String()
}

// TokenLabel is the on-screen text of an atomic token.
func TokenLabel(n *surface.Node) string {
	switch n.Kind {
	case surface.KindImage:
		if n.Image == nil || !n.Image.Loaded {
			return "[image uploading]"
		}
		return "[image]"
	case surface.KindQuote:
		if n.Quote == nil {
			return "[quote]"
		}
		label := "[quote"
		if n.Quote.Author != "" {
			label += " " + n.Quote.Author
		}
		return label + ": " + util.TruncateWidth(util.FirstLine(n.Quote.Text), 24) + "]"
	default:
		return ""
	}
}

func leafStyle(root *surface.Node, leaf surface.Leaf, th *styles.Theme) lipgloss.Style {
	switch leaf.Node.Kind {
	case surface.KindImage:
		if leaf.Node.Image != nil && leaf.Node.Image.Loaded {
			return th.ImageToken
		}
		return th.ImagePending
	case surface.KindQuote:
		return th.QuoteToken
	}

	parent := root.At(leaf.Path[:len(leaf.Path)-1])
	if parent == nil {
		return th.SpanPlain
	}
	switch parent.Style {
	case surface.StyleBold:
		return th.Bold
	case surface.StyleItalic:
		return th.Italic
	case surface.StyleCode:
		return th.Code
	case surface.StyleMarker:
		return th.Marker
	default:
		return th.SpanPlain
	}
}

// =============================================================================
// COMMAND PLAN RENDERING
// =============================================================================

// RenderPlan draws a command render plan. The caret is placed at logical
// offset caret, counted over the non-hint spans; hints never hold the caret.
func RenderPlan(plan []commands.Span, caret int, th *styles.Theme) string {
	var b strings.Builder
	offset := 0
	drawn := false

	for _, span := range plan {
		style := SpanStyle(span.Kind, th)
		if span.Kind == commands.SpanHint {
			if caret >= 0 && caret == offset && !drawn {
				// caret sits on the first hint character
				runes := []rune(span.Text)
				b.WriteString(th.Caret.Inherit(style).Render(string(runes[:1])))
				b.WriteString(style.Render(string(runes[1:])))
				drawn = true
				continue
			}
			b.WriteString(style.Render(span.Text))
			continue
		}

		runes := []rune(span.Text)
		end := offset + len(runes)
		if caret >= offset && caret < end && !drawn {
			at := caret - offset
			b.WriteString(style.Render(string(runes[:at])))
			b.WriteString(th.Caret.Render(string(runes[at])))
			b.WriteString(style.Render(string(runes[at+1:])))
			drawn = true
		} else {
			b.WriteString(style.Render(span.Text))
		}
		offset = end
	}

	if caret >= 0 && !drawn {
		b.WriteString(th.Caret.Render(CaretGlyph))
	}
	return b.String()
}

// SpanStyle maps a render plan span kind to its style.
func SpanStyle(kind commands.SpanKind, th *styles.Theme) lipgloss.Style {
	switch kind {
	case commands.SpanPrefix:
		return th.SpanPrefix
	case commands.SpanTyped:
		return th.SpanTyped
	case commands.SpanHint:
		return th.SpanHint
	case commands.SpanConfirmed:
		return th.SpanConfirmed
	default:
		return th.SpanPlain
	}
}

// Wrap wraps rendered input to width columns. A non-positive width
// leaves it unchanged.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}
