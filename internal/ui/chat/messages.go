// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline/internal/config"
	"github.com/jeranaias/chatline/internal/editor"
	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/storage"
)

// storeTimeout bounds every draft or transcript store operation.
const storeTimeout = 5 * time.Second

// draftDelay is the quiet period after an edit before the draft is saved.
const draftDelay = time.Second

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// SentMsg reports the outcome of handing a message to the sender.
type SentMsg struct {
	ID  string
	Err error
}

// HistoryLoadedMsg carries the persisted transcript.
type HistoryLoadedMsg struct {
	Messages []*model.Message
	Err      error
}

// DraftLoadedMsg carries the persisted draft, if any.
type DraftLoadedMsg struct {
	Draft editor.Draft
	Found bool
	Err   error
}

// DraftSavedMsg reports the outcome of saving the draft.
type DraftSavedMsg struct {
	Err error
}

// ConfigChangedMsg carries a config reloaded from disk.
type ConfigChangedMsg struct {
	Config *config.Config
}

// ClipboardMsg carries text read from the system clipboard.
type ClipboardMsg struct {
	Text string
	Err  error
}

// draftTickMsg fires draftDelay after edit number seq.
type draftTickMsg struct {
	seq int
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SendCmd hands msg to the sender.
func SendCmd(sender Sender, msg *model.Message) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return SentMsg{ID: msg.ID, Err: sender.Send(ctx, msg)}
	}
}

// LoadHistoryCmd reads the most recent persisted messages.
func LoadHistoryCmd(store *storage.Store, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		msgs, err := store.RecentMessages(ctx, limit)
		return HistoryLoadedMsg{Messages: msgs, Err: err}
	}
}

// LoadDraftCmd reads the persisted draft.
func LoadDraftCmd(store *storage.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		d, found, err := store.LoadDraft(ctx, storage.DefaultDraftKey)
		return DraftLoadedMsg{Draft: d, Found: found, Err: err}
	}
}

// SaveDraftCmd persists d. An empty draft deletes the stored one.
func SaveDraftCmd(store *storage.Store, d editor.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return DraftSavedMsg{Err: store.SaveDraft(ctx, storage.DefaultDraftKey, d)}
	}
}

// ClearHistoryCmd removes the persisted transcript.
func ClearHistoryCmd(store *storage.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := store.ClearMessages(ctx); err != nil {
			log.Printf("chat: clear history failed: %v", err)
		}
		return nil
	}
}

// WaitForConfigCmd waits for the next config reload from w.
func WaitForConfigCmd(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return ConfigChangedMsg{Config: cfg}
	}
}

// ReadClipboardCmd reads the clipboard with read.
func ReadClipboardCmd(read func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := read()
		return ClipboardMsg{Text: text, Err: err}
	}
}
