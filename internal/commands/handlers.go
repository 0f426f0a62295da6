// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the input line.
package commands

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline/internal/model"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are sent by local command handlers to update the
// application state.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct {
	Text string
}

// ClearTranscriptMsg triggers clearing the transcript.
type ClearTranscriptMsg struct{}

// QuoteMsg asks the input line to prepend a quote of a message.
type QuoteMsg struct {
	Quote model.QuoteRef
}

// ReloadCatalogMsg triggers reloading the catalog.
type ReloadCatalogMsg struct{}

// SystemMessageMsg adds a system message to the transcript.
type SystemMessageMsg struct {
	Content string
}

// =============================================================================
// HANDLER IMPLEMENTATIONS
// =============================================================================

func handleHelp(ctx *Context, query string) tea.Cmd {
	var r *Registry
	if ctx != nil {
		r = ctx.Registry
	}
	text := HelpText(r)
	return func() tea.Msg {
		return ShowHelpMsg{Text: text}
	}
}

func handleQuote(ctx *Context, query string) tea.Cmd {
	var msg *model.Message
	if ctx != nil && ctx.Transcript != nil {
		msg = ctx.Transcript.LastQuotable()
	}
	if msg == nil {
		return func() tea.Msg {
			return SystemMessageMsg{Content: "Nothing to quote yet."}
		}
	}
	ref := msg.QuoteRef()
	return func() tea.Msg {
		return QuoteMsg{Quote: ref}
	}
}

func handleClear(ctx *Context, query string) tea.Cmd {
	return func() tea.Msg {
		return ClearTranscriptMsg{}
	}
}

func handleReload(ctx *Context, query string) tea.Cmd {
	return func() tea.Msg {
		return ReloadCatalogMsg{}
	}
}

func handleQuit(ctx *Context, query string) tea.Cmd {
	return tea.Quit
}

// =============================================================================
// HELP
// =============================================================================

// HelpText renders the command list grouped by category.
func HelpText(r *Registry) string {
	if r == nil {
		return "No commands available."
	}
	groups := r.ByCategory()
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "\n%s\n", c)
		for _, cmd := range groups[c] {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			fmt.Fprintf(&b, "  %-36s %s\n", usage, cmd.Description)
		}
	}
	b.WriteString("\nTab completes, Alt+Up/Down cycles commands, the mouse wheel cycles artists and tracks.")
	return b.String()
}
