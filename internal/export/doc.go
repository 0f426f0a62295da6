// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a transcript to a file.
//
// # Supported Formats
//
//   - Markdown: human-readable; image tokens become image links and quotes
//     become block quotes
//   - JSON: the messages as stored, placeholders included
//
// # Usage
//
//	exporter, err := export.ForFormat("md", export.DefaultOptions())
//	path, err := export.ToFile(messages, exporter, opts)
package export
