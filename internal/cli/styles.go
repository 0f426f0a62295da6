// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/jeranaias/chatline/internal/commands"
)

// init configures both color libraries from the terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
	if !ColorsEnabled() {
		color.NoColor = true
	}
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	titleColor   = color.New(color.Bold, color.Underline)
	faintColor   = color.New(color.Faint)
	promptColor  = color.New(color.FgCyan, color.Bold)
	authorColor  = color.New(color.FgHiMagenta, color.Bold)
	systemColor  = color.New(color.FgHiBlack, color.Italic)
	musicColor   = color.New(color.FgHiGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen)
)

// spanColors colors the command render plan. Hints are faint so they read
// as suggestions rather than typed text.
var spanColors = map[commands.SpanKind]*color.Color{
	commands.SpanPrefix:    color.New(color.FgCyan, color.Bold),
	commands.SpanTyped:     color.New(color.FgYellow),
	commands.SpanHint:      color.New(color.Faint),
	commands.SpanConfirmed: color.New(color.FgGreen, color.Bold),
	commands.SpanPlain:     color.New(color.Reset),
}

// RenderPlan colors a command render plan for line output.
func RenderPlan(plan []commands.Span) string {
	var b strings.Builder
	for _, s := range plan {
		c, ok := spanColors[s.Kind]
		if !ok {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(c.Sprint(s.Text))
	}
	return b.String()
}

// Divider returns a faint horizontal rule.
func Divider(width int) string {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	return faintColor.Sprint(strings.Repeat("─", width))
}
