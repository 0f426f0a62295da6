// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/ui/components"
	"github.com/jeranaias/chatline/internal/ui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	prompt        = "> "
)

// View renders the chat view.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}

	header := m.renderHeader(width)
	bottom := m.renderBottom(width)

	// The transcript takes whatever the other parts leave.
	vp := m.viewport
	vp.Width = width
	vp.Height = height - lipgloss.Height(header) - lipgloss.Height(bottom)
	if vp.Height < 1 {
		vp.Height = 1
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, vp.View(), bottom)
}

func (m Model) renderHeader(width int) string {
	title := m.theme.HeaderTitle.Render("chatline")
	info := ""
	if !m.catalogLoaded {
		info = "loading catalog..."
	} else {
		cat := m.parser.Catalog()
		info = plural(len(cat.Commands), "command") + ", " + plural(len(cat.Artists), "artist")
	}
	gap := width - lipgloss.Width(title) - lipgloss.Width(info) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(width).Render(title + strings.Repeat(" ", gap) + info)
}

// renderBottom renders everything below the transcript.
func (m Model) renderBottom(width int) string {
	var parts []string
	if m.showHelp {
		parts = append(parts, m.renderHelp())
	}
	if p := m.renderPreview(width); p != "" {
		parts = append(parts, p)
	}
	if m.cfg.UI.ShowCompletions {
		if p := m.popup.View(); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, m.renderInput(width), m.renderStatusBar(width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderInput draws the input line: the render plan in command mode, the
// styled surface otherwise.
func (m Model) renderInput(width int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	wrap := inner - len(prompt)
	if m.cfg.UI.WrapWidth > 0 && m.cfg.UI.WrapWidth < wrap {
		wrap = m.cfg.UI.WrapWidth
	}

	text := m.editor.PlainText()
	caret := m.editor.CaretOffset()

	var body string
	switch {
	case m.editor.IsEmpty():
		body = m.theme.Caret.Render(" ") + m.theme.InputPlaceholder.Render("Type a message, / for commands")
	case strings.HasPrefix(text, "/"):
		body = components.RenderPlan(m.parser.Parse(text).Plan, caret, m.theme)
	default:
		body = components.RenderSurface(m.editor.Root(), caret, m.theme)
	}

	return m.theme.InputContainer.
		Width(inner).
		Render(m.theme.InputPrompt.Render(prompt) + components.Wrap(body, wrap))
}

// renderPreview lists the neighbouring artists or tracks.
func (m Model) renderPreview(width int) string {
	if !m.cfg.UI.ShowPreview {
		return ""
	}
	text := m.editor.PlainText()
	if !m.parser.Parse(text).IsMusic() {
		return ""
	}
	before, after, current := m.navigator.Preview(text, m.previewSize())
	p := components.MatchPreview{Before: before, Current: current, After: after}
	return p.View(m.theme, clamp(width/2, 20, 60))
}

func (m Model) renderStatusBar(width int) string {
	mode := "text"
	if m.editor.Paused() {
		mode = "command"
		if m.parser.IsCommandReady(m.editor.PlainText()) {
			mode = "ready"
		}
	}
	bar := components.StatusBar{
		Width:          width,
		Mode:           mode,
		PendingUploads: m.editor.PendingUploads(),
		Err:            m.errText,
		Shortcuts:      Shortcuts(m.keyMap.ShortHelp()),
	}
	if m.spinning {
		bar.Spinner = m.spinner.View()
	}
	if m.completion.Visible && m.errText == "" {
		bar.Hint = m.popup.ViewCompact()
	}
	return bar.View(m.theme)
}

func (m Model) renderHelp() string {
	var cols []string
	for _, group := range m.keyMap.FullHelp() {
		var lines []string
		for _, b := range group {
			lines = append(lines, m.theme.ShortcutKey.Render(b.Help().Key)+" "+m.theme.ShortcutDesc.Render(b.Help().Desc))
		}
		cols = append(cols, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cols, "   ")...)
}

// =============================================================================
// LAYOUT HELPERS
// =============================================================================

// layout sizes the viewport for the current window.
func (m *Model) layout() {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}
	m.viewport.Width = width
	m.viewport.Height = clamp(height-6, 1, height)
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	width := m.viewport.Width
	if width <= 0 {
		width = defaultWidth
	}
	atBottom := m.viewport.AtBottom()
	rendered := make([]string, 0, m.transcript.Len())
	for _, msg := range m.transcript.Messages {
		rendered = append(rendered, components.RenderMessage(msg, m.theme, width-2))
	}
	m.viewport.SetContent(strings.Join(rendered, "\n\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func newPopup(state *commands.CompletionState, theme *styles.Theme, width int) *components.CompletionPopup {
	p := components.NewCompletionPopup(state, theme)
	if width > 0 {
		p.SetWidth(clamp(width/2, 30, 60))
	}
	return p
}

func joinWithGap(cols []string, gap string) []string {
	out := make([]string, 0, 2*len(cols))
	for i, c := range cols {
		if i > 0 {
			out = append(out, gap)
		}
		out = append(out, c)
	}
	return out
}

func plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
