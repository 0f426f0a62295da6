// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"

	"github.com/jeranaias/chatline/internal/surface"
)

// =============================================================================
// SURFACE RENDERER
// =============================================================================

// Render returns a freshly styled surface carrying the same logical text as
// root. Text between breaks and atomic tokens is re-parsed as inline
// markdown; breaks and tokens are carried over unchanged.
func Render(root *surface.Node) *surface.Node {
	out := surface.NewRoot()
	var line strings.Builder

	flush := func() {
		if line.Len() > 0 {
			out.Children = append(out.Children, ParseInline(line.String())...)
			line.Reset()
		}
	}

	for _, l := range surface.Leaves(root) {
		if l.Node.Kind == surface.KindText {
			line.WriteString(l.Node.Text)
			continue
		}
		flush()
		out.Children = append(out.Children, l.Node)
	}
	flush()

	return out
}

// RenderText builds a styled surface from serialized text. Placeholders
// are not interpreted; callers with atomic tokens use Render instead.
func RenderText(text string) *surface.Node {
	return Render(surface.FromText(text))
}
