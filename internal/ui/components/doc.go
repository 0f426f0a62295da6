// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the chatline TUI.
//
// Components are pure renderers: they take state owned by the chat model
// and return strings. None of them mutate the editor surface.
//
// # Key Components
//
//   - RenderSurface: the input line's token tree with its caret
//   - RenderPlan: the command render plan with its inline hint
//   - CompletionPopup: every candidate for the current command input
//   - MatchPreview: neighbouring artists or tracks while wheel cycling
//   - RenderMessage: one transcript entry with quotes, music and images
//   - CodeBlock: fenced code with chroma highlighting
//   - StatusBar: key hints, upload progress and errors
package components
