// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is a key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line of the chat view.
type StatusBar struct {
	Width          int
	Mode           string
	PendingUploads int
	Spinner        string
	Err            string
	Hint           string
	Shortcuts      []Shortcut
}

// View renders the status bar. An error replaces the shortcuts.
func (s StatusBar) View(th *styles.Theme) string {
	var left []string
	if s.Mode != "" {
		left = append(left, th.HeaderTitle.Render(s.Mode))
	}
	if s.PendingUploads > 0 {
		label := "uploading " + strconv.Itoa(s.PendingUploads) + " image"
		if s.PendingUploads > 1 {
			label += "s"
		}
		if s.Spinner != "" {
			label = s.Spinner + " " + label
		}
		left = append(left, th.Spinner.Render(label))
	}

	var right string
	switch {
	case s.Err != "":
		right = th.Error.Render(styles.StatusIndicators.Error + " " + s.Err)
	case s.Hint != "":
		right = s.Hint
	default:
		hints := make([]string, 0, len(s.Shortcuts))
		for _, sc := range s.Shortcuts {
			hints = append(hints, th.ShortcutKey.Render(sc.Key)+" "+th.ShortcutDesc.Render(sc.Desc))
		}
		right = strings.Join(hints, "  ")
	}

	leftText := strings.Join(left, "  ")
	gap := s.Width - lipgloss.Width(leftText) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	bar := th.StatusBar
	if s.Width > 0 {
		bar = bar.Width(s.Width)
	}
	return bar.Render(leftText + strings.Repeat(" ", gap) + right)
}
