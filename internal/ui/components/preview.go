// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/chatline/internal/ui/styles"
	"github.com/jeranaias/chatline/internal/util"
)

// =============================================================================
// MATCH PREVIEW
// =============================================================================

// MatchPreview shows the candidates around the current wheel position.
type MatchPreview struct {
	Before  []string
	Current string
	After   []string
}

// IsEmpty reports whether there is anything to show.
func (p MatchPreview) IsEmpty() bool {
	return p.Current == "" && len(p.Before) == 0 && len(p.After) == 0
}

// View renders the preview as a vertical list, current item in the middle.
func (p MatchPreview) View(th *styles.Theme, width int) string {
	if p.IsEmpty() {
		return ""
	}
	if width <= 2 {
		width = 40
	}

	lines := make([]string, 0, len(p.Before)+len(p.After)+1)
	for _, name := range p.Before {
		lines = append(lines, th.PreviewItem.Render("  "+util.TruncateWidth(name, width-2)))
	}
	lines = append(lines, th.PreviewCurrent.Render("> "+util.TruncateWidth(p.Current, width-2)))
	for _, name := range p.After {
		lines = append(lines, th.PreviewItem.Render("  "+util.TruncateWidth(name, width-2)))
	}
	return strings.Join(lines, "\n")
}
