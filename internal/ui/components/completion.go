// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/ui/styles"
	"github.com/jeranaias/chatline/internal/util"
)

// =============================================================================
// COMPLETION POPUP COMPONENT
// =============================================================================

// CompletionPopup displays the candidates held by a CompletionState.
type CompletionPopup struct {
	state      *commands.CompletionState
	maxVisible int
	width      int
	theme      *styles.Theme
}

// NewCompletionPopup creates a popup over state.
func NewCompletionPopup(state *commands.CompletionState, theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{
		state:      state,
		maxVisible: 8,
		width:      50,
		theme:      theme,
	}
}

// SetWidth sets the popup width.
func (c *CompletionPopup) SetWidth(width int) {
	c.width = width
}

// SetMaxVisible sets the maximum number of visible completions.
func (c *CompletionPopup) SetMaxVisible(max int) {
	if max > 0 {
		c.maxVisible = max
	}
}

// window returns the visible range, keeping the selection in view.
func (c *CompletionPopup) window() (start, end int) {
	n := len(c.state.Completions)
	if n <= c.maxVisible {
		return 0, n
	}
	sel := c.state.Selected
	if sel < 0 {
		sel = 0
	}
	start = sel - c.maxVisible/2
	if start < 0 {
		start = 0
	}
	end = start + c.maxVisible
	if end > n {
		end = n
		start = end - c.maxVisible
	}
	return start, end
}

// View renders the popup, or "" when it has nothing to show.
func (c *CompletionPopup) View() string {
	if c.state == nil || !c.state.Visible || len(c.state.Completions) == 0 {
		return ""
	}

	start, end := c.window()
	var items []string
	for i := start; i < end; i++ {
		items = append(items, c.renderItem(c.state.Completions[i], i == c.state.Selected))
	}
	if hidden := len(c.state.Completions) - (end - start); hidden > 0 {
		items = append(items, c.theme.CompletionDesc.Render("  +"+strconv.Itoa(hidden)+" more"))
	}

	return c.theme.CompletionPopup.
		Width(c.width).
		MaxWidth(c.width + 2).
		Render(strings.Join(items, "\n"))
}

func (c *CompletionPopup) renderItem(comp commands.Completion, selected bool) string {
	nameWidth := c.width / 2
	descWidth := c.width - nameWidth - 4
	if descWidth < 0 {
		descWidth = 0
	}

	nameStyle := c.theme.CompletionItem
	indicator := "  "
	if selected {
		nameStyle = c.theme.CompletionSelected
		indicator = "> "
	}

	name := comp.Display
	if name == "" {
		name = comp.Value
	}
	name = util.PadRight(util.TruncateWidth(name, nameWidth), nameWidth)
	desc := util.TruncateWidth(comp.Description, descWidth)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		c.theme.ShortcutKey.Render(indicator),
		nameStyle.Render(name),
		" ",
		c.theme.CompletionDesc.Render(desc),
	)
}

// ViewCompact renders a single-line hint for the status bar.
func (c *CompletionPopup) ViewCompact() string {
	if c.state == nil || len(c.state.Completions) == 0 {
		return ""
	}
	if len(c.state.Completions) == 1 {
		return c.theme.ShortcutDesc.Render("Tab: complete \"" + c.state.Completions[0].Display + "\"")
	}
	return c.theme.ShortcutDesc.Render("Tab: " + strconv.Itoa(len(c.state.Completions)) + " completions")
}
