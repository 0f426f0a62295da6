// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline/internal/catalog"
	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/editor"
	"github.com/jeranaias/chatline/internal/surface"
	"github.com/jeranaias/chatline/internal/ui/styles"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if m.editor.PendingUploads() == 0 {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// Catalog
	case catalog.LoadedMsg:
		return m.handleCatalogLoaded(msg)

	// Editor async results
	case editor.ImageUploadedMsg:
		m.editor.ApplyUpload(msg)
		if msg.Err != nil {
			m.errText = "image upload failed: " + msg.Err.Error()
		}
		m.syncCommandMode()
		return m, m.scheduleDraftSave()

	case editor.ImageDeletedMsg:
		m.editor.ApplyDelete(msg)
		return m, nil

	// Command handler results
	case commands.ShowHelpMsg:
		m.transcript.AddSystemMessage(msg.Text)
		m.refreshViewport()
		return m, nil

	case commands.ClearTranscriptMsg:
		m.transcript.Clear()
		m.refreshViewport()
		if m.store != nil {
			return m, ClearHistoryCmd(m.store)
		}
		return m, nil

	case commands.QuoteMsg:
		m.editor.InsertQuoteTag(surface.Quote{
			MessageID: msg.Quote.MessageID,
			Author:    msg.Quote.Author,
			Text:      msg.Quote.Text,
		})
		return m, m.afterEdit()

	case commands.ReloadCatalogMsg:
		m.transcript.AddSystemMessage("Reloading catalog...")
		m.refreshViewport()
		return m, catalog.LoadCmd(m.source)

	case commands.SystemMessageMsg:
		m.transcript.AddSystemMessage(msg.Content)
		m.refreshViewport()
		return m, nil

	// Persistence
	case SentMsg:
		if msg.Err != nil {
			log.Printf("chat: send %s failed: %v", msg.ID, msg.Err)
			m.errText = "send failed: " + msg.Err.Error()
		}
		return m, nil

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case DraftLoadedMsg:
		if msg.Err != nil {
			log.Printf("chat: load draft failed: %v", msg.Err)
			return m, nil
		}
		if msg.Found && m.editor.IsEmpty() {
			m.editor.RestoreDraft(msg.Draft)
			m.syncCommandMode()
			m.refreshCompletions()
		}
		return m, nil

	case DraftSavedMsg:
		if msg.Err != nil {
			log.Printf("chat: save draft failed: %v", msg.Err)
		}
		return m, nil

	case draftTickMsg:
		if msg.seq != m.draftSeq || m.store == nil {
			return m, nil
		}
		return m, SaveDraftCmd(m.store, m.editor.Draft())

	case ConfigChangedMsg:
		m.applyConfig(msg)
		if m.watcher != nil {
			return m, WaitForConfigCmd(m.watcher)
		}
		return m, nil

	case ClipboardMsg:
		if msg.Err != nil {
			m.errText = "clipboard: " + msg.Err.Error()
			return m, nil
		}
		return m.paste(editor.Paste{Text: msg.Text})
	}

	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.popup.SetWidth(clamp(msg.Width/2, 30, 60))
	m.layout()
	m.refreshViewport()
	return m, nil
}

func (m Model) handleCatalogLoaded(msg catalog.LoadedMsg) (tea.Model, tea.Cmd) {
	m.parser.SetCatalog(msg.Catalog)
	m.navigator.Refresh()
	m.catalogLoaded = true
	if msg.Err != nil {
		m.errText = "catalog unavailable: " + msg.Err.Error()
		m.transcript.AddSystemMessage("The catalog could not be loaded; commands will not complete.")
	}
	m.refreshCompletions()
	m.refreshViewport()
	return m, nil
}

func (m Model) handleHistoryLoaded(msg HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		log.Printf("chat: load history failed: %v", msg.Err)
		return m, nil
	}
	current := m.transcript.Messages
	m.transcript.Clear()
	for _, stored := range msg.Messages {
		m.transcript.AddMessage(stored)
	}
	for _, live := range current {
		m.transcript.AddMessage(live)
	}
	m.refreshViewport()
	return m, nil
}

// applyConfig takes over the settings that can change while running.
func (m *Model) applyConfig(msg ConfigChangedMsg) {
	next := msg.Config
	if next == nil {
		return
	}
	if next.UI.Theme != m.cfg.UI.Theme {
		theme := styles.NewTheme(next.UI.Theme)
		theme.SetSize(m.width, m.height)
		m.theme = theme
		m.spinner.Style = theme.Spinner
		m.popup = newPopup(m.completion, theme, m.width)
	}
	if next.Editor.LiveMarkdown != m.cfg.Editor.LiveMarkdown {
		m.editor.SetLiveMarkdown(next.Editor.LiveMarkdown)
	}
	m.parser.DefaultCommand = next.Catalog.DefaultCommand
	m.parser.MusicCommand = next.Catalog.MusicCommand
	m.parser.AudioBaseURL = next.Catalog.AudioBaseURL

	m.cfg = next
	m.refreshCompletions()
	m.layout()
	m.refreshViewport()
	log.Printf("chat: config reloaded")
}

// scheduleDraftSave arms a delayed save. Only the last edit in a burst
// saves.
func (m *Model) scheduleDraftSave() tea.Cmd {
	if m.store == nil || !m.cfg.Storage.SaveDrafts {
		return nil
	}
	m.draftSeq++
	seq := m.draftSeq
	return tea.Tick(draftDelay, func(time.Time) tea.Msg {
		return draftTickMsg{seq: seq}
	})
}
