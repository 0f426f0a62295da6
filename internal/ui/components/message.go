// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jeranaias/chatline/internal/markdown"
	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/surface"
	"github.com/jeranaias/chatline/internal/ui/styles"
	"github.com/jeranaias/chatline/internal/util"
)

// TimeFormat is the layout of transcript timestamps.
const TimeFormat = "15:04"

var imagePlaceholder = regexp.MustCompile(regexp.QuoteMeta(surface.ImagePlaceholderPrefix) + `(.+?)` + regexp.QuoteMeta(surface.ImagePlaceholderSuffix))

// =============================================================================
// TRANSCRIPT MESSAGE
// =============================================================================

// RenderMessage renders one transcript entry: a header line, quoted
// messages, the body and any music card or image list.
func RenderMessage(msg *model.Message, th *styles.Theme, width int) string {
	if msg == nil {
		return ""
	}
	if msg.Role == model.RoleSystem {
		return th.System.Render(Wrap(msg.Content, width))
	}

	var parts []string
	parts = append(parts, renderHeader(msg, th))

	if msg.Metadata != nil {
		for _, q := range msg.Metadata.Quotes {
			parts = append(parts, renderQuote(q, th, width))
		}
	}

	if body := renderBody(msg.Content, th, width); body != "" {
		parts = append(parts, body)
	}

	if msg.IsMusic() {
		parts = append(parts, RenderMusicCard(msg.Metadata, th))
	}
	if msg.Metadata != nil {
		for i, img := range msg.Metadata.Images {
			parts = append(parts, th.ImageRef.Render("image "+strconv.Itoa(i+1)+": "+img.URL))
		}
	}

	return strings.Join(parts, "\n")
}

func renderHeader(msg *model.Message, th *styles.Theme) string {
	author := th.PeerAuthor
	if msg.Role == model.RoleUser {
		author = th.OwnAuthor
	}
	return author.Render(msg.DisplayAuthor()) + " " + th.Timestamp.Render(msg.Timestamp.Format(TimeFormat))
}

func renderQuote(q model.QuoteRef, th *styles.Theme, width int) string {
	text := q.Text
	if q.Author != "" {
		text = q.Author + ": " + text
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	return th.QuoteBlock.Render(util.TruncateWidth(DisplayText(util.FirstLine(text)), inner))
}

// RenderMusicCard renders the shared track of a music message.
func RenderMusicCard(meta *model.Metadata, th *styles.Theme) string {
	line := "♪ " + meta.Artist + " – " + meta.Track
	if meta.AudioURL != "" {
		line += "\n" + th.ImageRef.Render(meta.AudioURL)
	}
	return th.MusicCard.Render(line)
}

// renderBody styles prose as inline markdown and highlights fenced code.
func renderBody(content string, th *styles.Theme, width int) string {
	content = DisplayText(content)
	if strings.TrimSpace(content) == "" {
		return ""
	}

	var out []string
	for _, seg := range SplitFences(content) {
		if seg.Code {
			cb := NewCodeBlock(seg.Language, seg.Text)
			cb.MaxWidth = width
			out = append(out, cb.Render(th))
			continue
		}
		out = append(out, Wrap(RenderSurface(markdown.RenderText(seg.Text), -1, th), width))
	}
	return strings.Join(out, "\n")
}

// DisplayText replaces token placeholders with readable labels. Quote
// placeholders are dropped since quotes render as their own blocks.
func DisplayText(content string) string {
	n := 0
	content = imagePlaceholder.ReplaceAllStringFunc(content, func(string) string {
		n++
		return "[image " + strconv.Itoa(n) + "]"
	})
	return strings.TrimSpace(strings.ReplaceAll(content, surface.QuotePlaceholder, ""))
}
