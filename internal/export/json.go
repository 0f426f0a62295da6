// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/chatline/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON. Message content keeps its
// placeholders so the export can be re-read with the metadata.
type JSONExporter struct {
	options *Options
}

// jsonDocument is the exported JSON shape.
type jsonDocument struct {
	Title    string           `json:"title"`
	Exported time.Time        `json:"exported"`
	Messages []*model.Message `json:"messages"`
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts the messages to JSON.
func (e *JSONExporter) Export(msgs []*model.Message) ([]byte, error) {
	msgs = filter(msgs, e.options)
	if len(msgs) == 0 {
		return nil, ErrEmpty
	}
	return json.MarshalIndent(jsonDocument{
		Title:    e.options.Title,
		Exported: e.options.clock().UTC(),
		Messages: msgs,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
