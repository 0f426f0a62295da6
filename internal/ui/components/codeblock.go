// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline/internal/ui/styles"
)

// Fence opens and closes a code block in message text.
const Fence = "```"

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock is a fenced block of code inside a message.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// Render renders the code block with line numbers and highlighting.
func (c CodeBlock) Render(th *styles.Theme) string {
	code := strings.Trim(c.Code, "\n")
	lines := strings.Split(highlightCode(code, c.Language), "\n")

	gutter := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	rendered := make([]string, 0, len(lines)+1)
	if c.Language != "" {
		rendered = append(rendered, th.ShortcutDesc.Render(c.Language))
	}
	for i, line := range lines {
		rendered = append(rendered, gutter.Render(strconv.Itoa(i+1))+line)
	}

	width := c.MaxWidth - 4
	if width < 20 {
		width = 20
	}
	return th.CodeBlock.MaxWidth(width).Render(strings.Join(rendered, "\n"))
}

// =============================================================================
// FENCE SPLITTING
// =============================================================================

// Segment is a run of message text, either prose or a fenced code block.
type Segment struct {
	Text     string
	Code     bool
	Language string
}

// SplitFences splits text into prose and fenced code segments. An unclosed
// fence runs to the end of the text.
func SplitFences(text string) []Segment {
	var segments []Segment
	var buf []string
	inCode := false
	language := ""

	flush := func() {
		if len(buf) == 0 && !inCode {
			return
		}
		segments = append(segments, Segment{
			Text:     strings.Join(buf, "\n"),
			Code:     inCode,
			Language: language,
		})
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, Fence) {
			flush()
			if inCode {
				inCode = false
				language = ""
			} else {
				inCode = true
				language = strings.TrimSpace(strings.TrimPrefix(line, Fence))
			}
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return segments
}

// highlightCode highlights code with chroma, returning it unchanged when
// no lexer or formatter can handle it.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
