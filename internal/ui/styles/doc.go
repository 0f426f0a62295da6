// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatline TUI.
//
// Colors are lipgloss.AdaptiveColor values so the same theme works on light
// and dark terminals. Theme groups the styles used by the transcript, the
// input line, its live markdown, its atomic tokens and the command render
// plan.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	line := theme.SpanConfirmed.Render("Joy Division")
package styles
