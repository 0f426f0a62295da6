// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the chatline TUI.

The chat package hosts the input line inside a Bubble Tea program: a
transcript viewport above, the rich input line below and a status bar at
the bottom.

# Key Components

## Model (model.go)

The Model struct owns the editor, the command parser and its navigator,
the transcript and the collaborators (draft store, image store, sender).

## Update Loop (update.go, input.go)

Keys are routed to the editor as terminal edits. After every edit the
model pauses the editor when the text starts with "/" and resumes it
otherwise, so command input never enters the undo history. Tab accepts
the inline hint, Alt+Up/Down cycle command names and the mouse wheel (or
Ctrl+N/Ctrl+P) cycles artists and tracks.

## View Rendering (view.go)

The input line shows either the styled surface or, in command mode, the
command render plan with its hint. A completion popup and the wheel
preview sit above it.

# Usage

	m := chat.New(chat.Options{Config: cfg, Theme: styles.NewTheme("dark")})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
