// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/editor"
)

// =============================================================================
// KEY ROUTING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		m.layout()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Newline):
		m.editor.InsertParagraphBreak()
		return m, m.afterEdit()

	case key.Matches(msg, m.keyMap.Complete):
		return m.complete()

	case key.Matches(msg, m.keyMap.CompletePrev):
		if m.completion.Visible {
			m.completion.Prev()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.NextCommand):
		if name, ok := m.navigator.NextCommand(m.editor.PlainText()); ok {
			return m.replaceText(name)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PrevCommand):
		if name, ok := m.navigator.PrevCommand(m.editor.PlainText()); ok {
			return m.replaceText(name)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.WheelNext):
		return m.wheel(1)

	case key.Matches(msg, m.keyMap.WheelPrev):
		return m.wheel(-1)

	case key.Matches(msg, m.keyMap.Undo):
		if m.editor.Undo() {
			return m, m.afterEdit()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Redo):
		if m.editor.Redo() {
			return m, m.afterEdit()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Paste):
		return m, ReadClipboardCmd(m.clipboard)

	case key.Matches(msg, m.keyMap.Quote):
		if last := m.transcript.LastQuotable(); last != nil {
			return m.Update(commands.QuoteMsg{Quote: last.QuoteRef()})
		}
		m.errText = "nothing to quote yet"
		return m, nil

	case key.Matches(msg, m.keyMap.DeleteWord):
		cmd := m.editor.DeleteWordBackward()
		return m, tea.Batch(cmd, m.afterEdit())

	case key.Matches(msg, m.keyMap.Cancel):
		if m.completion.Visible {
			m.completion.Clear()
			return m, nil
		}
		m.editor.Clear()
		return m, m.afterEdit()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	return m.handleEditKey(msg)
}

// handleEditKey applies plain terminal editing keys to the editor.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return m, nil
		}
		// A burst of runes is pasted text: terminals without bracketed
		// paste deliver it as one message.
		if len(msg.Runes) > 1 {
			return m.paste(editor.Paste{Text: string(msg.Runes)})
		}
		m.editor.InsertText(string(msg.Runes))
		return m, m.afterEdit()

	case tea.KeySpace:
		m.editor.InsertText(" ")
		return m, m.afterEdit()

	case tea.KeyBackspace:
		handled, cmd := m.editor.HandleKeydown("backspace")
		if !handled {
			cmd = m.editor.DeleteBackward()
		}
		return m, tea.Batch(cmd, m.afterEdit())

	case tea.KeyDelete:
		cmd := m.editor.DeleteForward()
		return m, tea.Batch(cmd, m.afterEdit())

	case tea.KeyLeft:
		m.editor.MoveLeft()
	case tea.KeyRight:
		m.editor.MoveRight()
	case tea.KeyHome, tea.KeyCtrlA:
		m.editor.MoveHome()
	case tea.KeyEnd, tea.KeyCtrlE:
		m.editor.MoveEnd()

	case tea.KeyUp:
		if m.completion.Visible {
			m.completion.Prev()
		} else {
			m.viewport.LineUp(1)
		}
	case tea.KeyDown:
		if m.completion.Visible {
			m.completion.Next()
		} else {
			m.viewport.LineDown(1)
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		delta := 1
		if msg.Type == tea.MouseWheelUp {
			delta = -1
		}
		if m.parser.Parse(m.editor.PlainText()).IsMusic() {
			return m.wheel(delta)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// EDITING ACTIONS
// =============================================================================

// afterEdit runs after every change to the input text. It pauses the
// editor once the text starts with "/", after the edit has committed, so
// the leading "/" is recorded in the undo history and later command text
// is not.
func (m *Model) afterEdit() tea.Cmd {
	m.errText = ""
	m.syncCommandMode()
	m.refreshCompletions()
	return m.scheduleDraftSave()
}

// syncCommandMode pauses the editor for command text and resumes it
// otherwise.
func (m *Model) syncCommandMode() {
	isCommand := strings.HasPrefix(m.editor.PlainText(), "/")
	switch {
	case isCommand && !m.editor.Paused():
		m.editor.Pause()
	case !isCommand && m.editor.Paused():
		m.editor.Resume()
	}
}

// refreshCompletions recomputes the popup for the current text.
func (m *Model) refreshCompletions() {
	text := m.editor.PlainText()
	if !m.cfg.UI.ShowCompletions || !strings.HasPrefix(text, "/") {
		m.completion.Clear()
		return
	}
	m.completion.Update(text, m.completer.Complete(text))
}

// replaceText replaces the whole input, keeping command mode in step.
func (m Model) replaceText(text string) (tea.Model, tea.Cmd) {
	m.editor.SetText(text)
	return m, m.afterEdit()
}

// complete accepts the selected popup entry or, without one, the inline
// hint.
func (m Model) complete() (tea.Model, tea.Cmd) {
	if sel := m.completion.GetSelected(); sel != nil {
		value := sel.Value
		m.completion.Clear()
		return m.replaceText(value)
	}
	text := m.editor.PlainText()
	accepted, ok := m.parser.Accept(text)
	if !ok || accepted == text {
		if m.completion.Visible {
			m.completion.Next()
		}
		return m, nil
	}
	return m.replaceText(accepted)
}

// wheel cycles the artist or track under edit.
func (m Model) wheel(delta int) (tea.Model, tea.Cmd) {
	next, ok := m.navigator.Wheel(m.editor.PlainText(), delta)
	if !ok {
		return m, nil
	}
	return m.replaceText(next)
}

// paste inserts clipboard content and starts the spinner for uploads.
func (m Model) paste(p editor.Paste) (tea.Model, tea.Cmd) {
	cmd := m.editor.HandlePaste(p)
	cmds := []tea.Cmd{cmd, m.afterEdit()}
	if m.editor.PendingUploads() > 0 && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// SUBMIT
// =============================================================================

// submit runs a local command or sends the input. Input with pending
// uploads is never sent.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if n := m.editor.PendingUploads(); n > 0 {
		label := "image"
		if n > 1 {
			label = "images"
		}
		m.errText = "waiting for " + strconv.Itoa(n) + " " + label + " to upload"
		return m, nil
	}

	text := m.editor.PlainText()
	r := m.parser.Parse(text)
	if r.IsCommand() && !r.IsMusic() {
		name := strings.TrimSpace(r.Name)
		if cmd, ok := m.parser.Registry().Execute(m.commandContext(), name, r.Query); ok {
			m.resetInput()
			return m, tea.Batch(cmd, m.scheduleDraftSave())
		}
	}

	music, isMusic := m.parser.Music(text)
	if m.editor.Paused() {
		m.editor.Resume()
	}
	out := m.editor.Compose()
	if out.IsEmpty() || strings.TrimSpace(out.Text) == "" && out.Metadata.IsEmpty() {
		return m, nil
	}
	if isMusic {
		if out.Metadata != nil {
			music.Quotes = out.Metadata.Quotes
		}
		out.Metadata = music
	}

	sent := m.transcript.AddOutgoing(m.Author(), out)
	m.resetInput()
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, tea.Batch(SendCmd(m.sender, sent), m.scheduleDraftSave())
}

// resetInput empties the input line after a send or a local command.
func (m *Model) resetInput() {
	m.editor.Clear()
	m.syncCommandMode()
	m.navigator.Reset()
	m.completion.Clear()
	m.errText = ""
}
