// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/chatline/internal/model"
)

// DefaultMessageLimit is the number of messages restored on start.
const DefaultMessageLimit = 200

// =============================================================================
// MESSAGES
// =============================================================================

// AppendMessage stores a transcript message. Storing the same message id
// twice is a no-op.
func (s *Store) AppendMessage(ctx context.Context, msg *model.Message) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	var meta sql.NullString
	if !msg.Metadata.IsEmpty() {
		data, err := json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		meta = sql.NullString{String: string(data), Valid: true}
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err = db.ExecContext(ctx, `
		INSERT OR IGNORE INTO messages (id, role, author, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, string(msg.Role), msg.Author, msg.Content, meta, ts.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to store message %s: %w", msg.ID, err)
	}
	return nil
}

// RecentMessages returns up to limit of the newest messages, oldest first.
func (s *Store) RecentMessages(ctx context.Context, limit int) ([]*model.Message, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, role, author, content, metadata, created_at FROM (
			SELECT * FROM messages ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []*model.Message
	for rows.Next() {
		var (
			msg     model.Message
			role    string
			meta    sql.NullString
			created int64
		)
		if err := rows.Scan(&msg.ID, &role, &msg.Author, &msg.Content, &meta, &created); err != nil {
			return nil, err
		}
		msg.Role = model.Role(role)
		msg.Timestamp = time.UnixMilli(created)
		if meta.Valid {
			msg.Metadata = &model.Metadata{}
			if err := json.Unmarshal([]byte(meta.String), msg.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata of %s: %w", msg.ID, err)
			}
		}
		out = append(out, &msg)
	}
	return out, rows.Err()
}

// ClearMessages removes every stored message.
func (s *Store) ClearMessages(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
