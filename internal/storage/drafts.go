// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/chatline/internal/editor"
	"github.com/jeranaias/chatline/internal/surface"
)

// DefaultDraftKey is the draft of the main input line.
const DefaultDraftKey = "main"

// =============================================================================
// DRAFTS
// =============================================================================

// SaveDraft stores d under key, replacing any previous draft. An empty
// draft deletes the key.
func (s *Store) SaveDraft(ctx context.Context, key string, d editor.Draft) error {
	if d.Text == "" {
		return s.DeleteDraft(ctx, key)
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	images, err := json.Marshal(nonNilImages(d.Images))
	if err != nil {
		return fmt.Errorf("failed to encode draft images: %w", err)
	}
	quotes, err := json.Marshal(nonNilQuotes(d.Quotes))
	if err != nil {
		return fmt.Errorf("failed to encode draft quotes: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO drafts (key, text, images, quotes, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			text = excluded.text,
			images = excluded.images,
			quotes = excluded.quotes,
			updated_at = excluded.updated_at`,
		key, d.Text, string(images), string(quotes), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}
	return nil
}

// LoadDraft returns the draft stored under key. It returns false when
// there is none.
func (s *Store) LoadDraft(ctx context.Context, key string) (editor.Draft, bool, error) {
	db, err := s.conn()
	if err != nil {
		return editor.Draft{}, false, err
	}

	var text, images, quotes string
	err = db.QueryRowContext(ctx,
		`SELECT text, images, quotes FROM drafts WHERE key = ?`, key,
	).Scan(&text, &images, &quotes)
	if errors.Is(err, sql.ErrNoRows) {
		return editor.Draft{}, false, nil
	}
	if err != nil {
		return editor.Draft{}, false, fmt.Errorf("failed to load draft %s: %w", key, err)
	}

	d := editor.Draft{Text: text}
	if err := json.Unmarshal([]byte(images), &d.Images); err != nil {
		return editor.Draft{}, false, fmt.Errorf("failed to decode draft images: %w", err)
	}
	if err := json.Unmarshal([]byte(quotes), &d.Quotes); err != nil {
		return editor.Draft{}, false, fmt.Errorf("failed to decode draft quotes: %w", err)
	}
	return d, true, nil
}

// DeleteDraft removes the draft stored under key.
func (s *Store) DeleteDraft(ctx context.Context, key string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", key, err)
	}
	return nil
}

// DraftKeys lists the stored draft keys, most recently updated first.
func (s *Store) DraftKeys(ctx context.Context) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT key FROM drafts ORDER BY updated_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func nonNilImages(in []surface.Image) []surface.Image {
	if in == nil {
		return []surface.Image{}
	}
	return in
}

func nonNilQuotes(in []surface.Quote) []surface.Quote {
	if in == nil {
		return []surface.Quote{}
	}
	return in
}
