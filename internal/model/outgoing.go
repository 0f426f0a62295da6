// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "encoding/json"

// =============================================================================
// OUTGOING MESSAGE
// =============================================================================

// Metadata types.
const (
	MetadataMusic  = "music"
	MetadataImages = "images"
)

// QuoteRef is the provenance of a quoted message.
type QuoteRef struct {
	MessageID string `json:"messageId,omitempty"`
	Author    string `json:"author,omitempty"`
	Text      string `json:"text"`
}

// ImageRef identifies an uploaded image by token id.
type ImageRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Metadata is the structured part of an outgoing message.
//
// A ready music command sets Type "music" with Artist, Track and AudioURL.
// A message with images sets Type "images". Quotes are independent of Type.
type Metadata struct {
	Type     string     `json:"type,omitempty"`
	Artist   string     `json:"artist,omitempty"`
	Track    string     `json:"track,omitempty"`
	AudioURL string     `json:"audioUrl,omitempty"`
	Quotes   []QuoteRef `json:"quotes,omitempty"`
	Images   []ImageRef `json:"images,omitempty"`
}

// IsEmpty reports whether the metadata carries nothing.
func (m *Metadata) IsEmpty() bool {
	return m == nil || (m.Type == "" && len(m.Quotes) == 0 && len(m.Images) == 0)
}

// Outgoing is what the input line hands to the message-send collaborator.
type Outgoing struct {
	Text     string    `json:"text"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// IsEmpty reports whether there is nothing to send.
func (o Outgoing) IsEmpty() bool {
	return o.Text == "" && o.Metadata.IsEmpty()
}

// JSON encodes the outgoing message.
func (o Outgoing) JSON() ([]byte, error) {
	return json.Marshal(o)
}
