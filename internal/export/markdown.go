// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/surface"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts the messages to Markdown.
func (e *MarkdownExporter) Export(msgs []*model.Message) ([]byte, error) {
	msgs = filter(msgs, e.options)
	if len(msgs) == 0 {
		return nil, ErrEmpty
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(e.options.Title)))
	sb.WriteString(fmt.Sprintf("messages: %d\n", len(msgs)))
	sb.WriteString(fmt.Sprintf("exported: %s\n", e.options.clock().Format(time.RFC3339)))
	sb.WriteString("generator: chatline\n")
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(e.options.Title)))

	for i, msg := range msgs {
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				escapeMarkdown(msg.DisplayAuthor()),
				formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", escapeMarkdown(msg.DisplayAuthor())))
		}

		if meta := msg.Metadata; meta != nil {
			for _, q := range meta.Quotes {
				sb.WriteString(formatQuote(q))
				sb.WriteString("\n")
			}
		}

		if body := formatContent(msg); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n\n")
		}

		if meta := msg.Metadata; meta != nil && meta.Type == model.MetadataMusic {
			sb.WriteString(formatMusic(meta))
			sb.WriteString("\n\n")
		}

		if i < len(msgs)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatContent rebuilds the message surface from its content and writes
// each leaf as Markdown. Image tokens resolve against the message metadata;
// quote tokens are dropped since quotes are written above the body.
func formatContent(msg *model.Message) string {
	urls := make(map[string]string)
	var quotes []surface.Quote
	if meta := msg.Metadata; meta != nil {
		for _, img := range meta.Images {
			urls[img.ID] = img.URL
		}
		for _, q := range meta.Quotes {
			quotes = append(quotes, surface.Quote{MessageID: q.MessageID, Author: q.Author, Text: q.Text})
		}
	}
	resolve := func(id string) (surface.Image, bool) {
		url, ok := urls[id]
		return surface.Image{ID: id, URL: url, Loaded: ok}, ok
	}

	root := surface.Parse(msg.Content, resolve, quotes)
	var sb strings.Builder
	n := 0
	for _, l := range surface.Leaves(root) {
		switch l.Node.Kind {
		case surface.KindText:
			sb.WriteString(l.Node.Text)
		case surface.KindBreak:
			sb.WriteString("\n")
		case surface.KindImage:
			n++
			sb.WriteString(fmt.Sprintf("![image %d](%s)", n, l.Node.Image.URL))
		}
	}
	return strings.TrimSpace(sb.String())
}

func formatQuote(q model.QuoteRef) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("> **%s**\n", escapeMarkdown(q.Author)))
	for _, line := range strings.Split(strings.TrimSpace(q.Text), "\n") {
		sb.WriteString("> ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatMusic(meta *model.Metadata) string {
	label := fmt.Sprintf("♪ **%s** – %s", escapeMarkdown(meta.Artist), escapeMarkdown(meta.Track))
	if meta.AudioURL == "" {
		return label
	}
	return fmt.Sprintf("%s ([listen](%s))", label, meta.AudioURL)
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
