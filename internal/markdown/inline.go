// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders live inline markdown (bold, italic, code) onto
// the input surface. Delimiters stay in the surface as marker spans so the
// logical text, and therefore every caret offset, is unchanged by a render.
package markdown

import (
	"strings"

	"github.com/jeranaias/chatline/internal/surface"
)

// =============================================================================
// INLINE PARSER
// =============================================================================

// ParseInline splits a single line of text into styled surface nodes.
// Concatenating the text of the returned nodes always yields line.
func ParseInline(line string) []*surface.Node {
	var nodes []*surface.Node
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			nodes = append(nodes, surface.Text(plain.String()))
			plain.Reset()
		}
	}

	i := 0
	for i < len(line) {
		// 1. Code: `text` (no nested formatting)
		if line[i] == '`' {
			end := strings.IndexByte(line[i+1:], '`')
			if end > 0 {
				flush()
				closeAt := i + 1 + end
				nodes = append(nodes, surface.Styled(surface.StyleCode,
					marker("`"),
					surface.Text(line[i+1:closeAt]),
					marker("`"),
				))
				i = closeAt + 1
				continue
			}
		}

		// 2. Bold: **text**
		if strings.HasPrefix(line[i:], "**") {
			end := strings.Index(line[i+2:], "**")
			if end > 0 {
				flush()
				closeAt := i + 2 + end
				children := []*surface.Node{marker("**")}
				children = append(children, ParseInline(line[i+2:closeAt])...)
				children = append(children, marker("**"))
				nodes = append(nodes, surface.Styled(surface.StyleBold, children...))
				i = closeAt + 2
				continue
			}
		}

		// 3. Italic: *text* or _text_
		if c := line[i]; (c == '*' || c == '_') && !strings.HasPrefix(line[i:], "**") {
			end := closingItalic(line[i+1:], c)
			if end > 0 {
				flush()
				closeAt := i + 1 + end
				delim := string(c)
				children := []*surface.Node{marker(delim)}
				children = append(children, ParseInline(line[i+1:closeAt])...)
				children = append(children, marker(delim))
				nodes = append(nodes, surface.Styled(surface.StyleItalic, children...))
				i = closeAt + 1
				continue
			}
		}

		plain.WriteByte(line[i])
		i++
	}

	flush()
	return nodes
}

// closingItalic finds the closing single delimiter c in s, skipping doubled
// delimiters that belong to bold.
func closingItalic(s string, c byte) int {
	for j := 0; j < len(s); j++ {
		if s[j] != c {
			continue
		}
		if c == '*' && j+1 < len(s) && s[j+1] == '*' {
			j++
			continue
		}
		return j
	}
	return -1
}

func marker(s string) *surface.Node {
	return surface.Styled(surface.StyleMarker, surface.Text(s))
}
