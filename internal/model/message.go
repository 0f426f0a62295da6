// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript and
// the messages produced by the input line.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser   Role = "user"
	RolePeer   Role = "peer"
	RoleSystem Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RolePeer:
		return "Peer"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in the transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Author    string    `json:"author,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Content is the logical text, with image and quote placeholders.
	Content  string    `json:"content"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, author, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Author:    author,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, "", content)
}

// DisplayAuthor returns the author, or the role's display name.
func (m *Message) DisplayAuthor() string {
	if m.Author != "" {
		return m.Author
	}
	return m.Role.DisplayName()
}

// QuoteRef returns the provenance triple used when this message is quoted.
func (m *Message) QuoteRef() QuoteRef {
	return QuoteRef{
		MessageID: m.ID,
		Author:    m.DisplayAuthor(),
		Text:      m.Content,
	}
}

// IsMusic reports whether the message carries a music command.
func (m *Message) IsMusic() bool {
	return m.Metadata != nil && m.Metadata.Type == MetadataMusic
}
