// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// MaxMessages is the maximum number of messages kept in the transcript.
// When exceeded, the oldest messages are pruned.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered list of messages shown in the chat.
type Transcript struct {
	Messages  []*Message `json:"messages"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		Messages:  make([]*Message, 0),
		UpdatedAt: time.Now(),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the transcript.
func (t *Transcript) AddMessage(msg *Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now()
	t.pruneOldMessages()
}

// AddOutgoing records a message sent from the input line.
func (t *Transcript) AddOutgoing(author string, out Outgoing) *Message {
	msg := NewMessage(RoleUser, author, out.Text)
	if !out.Metadata.IsEmpty() {
		msg.Metadata = out.Metadata
	}
	t.AddMessage(msg)
	return msg
}

// AddSystemMessage appends a system notice.
func (t *Transcript) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	t.AddMessage(msg)
	return msg
}

// Last returns the most recent message, or nil if empty.
func (t *Transcript) Last() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// LastQuotable returns the most recent non-system message, or nil.
func (t *Transcript) LastQuotable() *Message {
	return t.QuotableBefore(len(t.Messages))
}

// QuotableBefore returns the closest non-system message before index i.
func (t *Transcript) QuotableBefore(i int) *Message {
	if i > len(t.Messages) {
		i = len(t.Messages)
	}
	for j := i - 1; j >= 0; j-- {
		if t.Messages[j].Role != RoleSystem {
			return t.Messages[j]
		}
	}
	return nil
}

// IndexOf returns the index of the message with the given ID, or -1.
func (t *Transcript) IndexOf(id string) int {
	for i, msg := range t.Messages {
		if msg.ID == id {
			return i
		}
	}
	return -1
}

// MessageByID returns a message by its ID.
func (t *Transcript) MessageByID(id string) *Message {
	if i := t.IndexOf(id); i >= 0 {
		return t.Messages[i]
	}
	return nil
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.Messages = make([]*Message, 0)
	t.UpdatedAt = time.Now()
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// pruneOldMessages keeps the most recent MaxMessages messages.
func (t *Transcript) pruneOldMessages() {
	if len(t.Messages) <= MaxMessages {
		return
	}
	start := len(t.Messages) - MaxMessages
	kept := make([]*Message, MaxMessages)
	copy(kept, t.Messages[start:])
	t.Messages = kept
}
