// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript and
// the messages produced by the input line.
//
// # Key Types
//
//   - Transcript: Ordered, bounded list of messages shown in the chat
//   - Message: Single message with role, author, content and metadata
//   - Outgoing: The {text, metadata} pair produced when the input is sent
//   - Metadata: Music, quote and image attachments of an outgoing message
//
// # Usage
//
// Send what the input line composed:
//
//	out := ed.Compose()
//	msg := transcript.AddOutgoing("me", out)
//	fmt.Println(msg.Content)
package model
