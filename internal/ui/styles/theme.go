// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND STATUS STYLES
	// ==========================================================================

	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Error        lipgloss.Style
	Spinner      lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	OwnAuthor  lipgloss.Style
	PeerAuthor lipgloss.Style
	Timestamp  lipgloss.Style
	System     lipgloss.Style
	QuoteBlock lipgloss.Style
	MusicCard  lipgloss.Style
	ImageRef   lipgloss.Style
	CodeBlock  lipgloss.Style

	// ==========================================================================
	// INPUT STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	Caret            lipgloss.Style

	// Live markdown
	Bold   lipgloss.Style
	Italic lipgloss.Style
	Code   lipgloss.Style
	Marker lipgloss.Style

	// Atomic tokens
	ImageToken   lipgloss.Style
	ImagePending lipgloss.Style
	QuoteToken   lipgloss.Style

	// Command render plan
	SpanPrefix    lipgloss.Style
	SpanTyped     lipgloss.Style
	SpanHint      lipgloss.Style
	SpanConfirmed lipgloss.Style
	SpanPlain     lipgloss.Style

	// ==========================================================================
	// COMPLETION AND PREVIEW STYLES
	// ==========================================================================

	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
	CompletionDesc     lipgloss.Style
	PreviewItem        lipgloss.Style
	PreviewCurrent     lipgloss.Style
}

// NewTheme creates a theme for mode "dark", "light" or "auto". Auto asks
// the terminal for its background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	isDark := true
	switch mode {
	case "light":
		isDark = false
	case "auto":
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(TextInverse).
		Background(Purple)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true)
	t.StatusBar = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(TextSecondary).
		Background(Overlay)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Error = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.Spinner = lipgloss.NewStyle().Foreground(Amber)

	t.OwnAuthor = lipgloss.NewStyle().Foreground(OwnAuthor).Bold(true)
	t.PeerAuthor = lipgloss.NewStyle().Foreground(PeerAuthor).Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.System = lipgloss.NewStyle().Foreground(SystemFg).Italic(true)
	t.QuoteBlock = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(QuoteBar).
		PaddingLeft(1)
	t.MusicCard = lipgloss.NewStyle().
		Foreground(Emerald).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Emerald).
		Padding(0, 1)
	t.ImageRef = lipgloss.NewStyle().Foreground(Cyan).Underline(true)
	t.CodeBlock = lipgloss.NewStyle().
		Background(CodeBg).
		Padding(0, 1)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().Foreground(TextMuted)
	t.Caret = lipgloss.NewStyle().Reverse(true)

	t.Bold = lipgloss.NewStyle().Bold(true)
	t.Italic = lipgloss.NewStyle().Italic(true)
	t.Code = lipgloss.NewStyle().Foreground(Amber).Background(CodeBg)
	t.Marker = lipgloss.NewStyle().Foreground(TextMuted)

	t.ImageToken = lipgloss.NewStyle().Foreground(TextInverse).Background(Emerald)
	t.ImagePending = lipgloss.NewStyle().Foreground(TextInverse).Background(Amber)
	t.QuoteToken = lipgloss.NewStyle().Foreground(TextInverse).Background(QuoteBar)

	t.SpanPrefix = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.SpanTyped = lipgloss.NewStyle().Foreground(TextPrimary)
	t.SpanHint = lipgloss.NewStyle().Foreground(TextMuted)
	t.SpanConfirmed = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.SpanPlain = lipgloss.NewStyle().Foreground(TextPrimary)

	t.CompletionPopup = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)
	t.CompletionItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.CompletionSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)
	t.CompletionDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.PreviewItem = lipgloss.NewStyle().Foreground(TextMuted)
	t.PreviewCurrent = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
}

// SetSize updates the layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
