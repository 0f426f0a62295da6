// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for chatline.
//
// Unsent input is kept as drafts so a restart does not lose what was typed,
// including its images and quotes. Sent messages are kept as a local echo
// of the transcript so they can be quoted after a restart.
//
// # Key Types
//
//   - Store: SQLite database holding drafts and messages
//
// # Usage
//
//	store, err := storage.Open(path)
//	defer store.Close()
//
//	err = store.SaveDraft(ctx, storage.DefaultDraftKey, ed.Draft())
//	draft, ok, err := store.LoadDraft(ctx, storage.DefaultDraftKey)
//
// # Storage Location
//
// The database lives in ~/.chatline/drafts.db unless configured otherwise.
package storage
