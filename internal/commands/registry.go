// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the input line.
package commands

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline/internal/catalog"
	"github.com/jeranaias/chatline/internal/model"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows query syntax (e.g., "/music: <artist> – <track>")
	Usage string

	// TakesQuery commands complete to "<name>: "
	TakesQuery bool

	// Local commands run in the client. Others are sent as text.
	Local bool

	// Handler executes a local command with the query after ":"
	Handler func(ctx *Context, query string) tea.Cmd

	// Hidden commands don't appear in help or cycling
	Hidden bool

	// Category for grouping in help display
	Category string

	// fromCatalog marks entries created from the catalog command list.
	fromCatalog bool
}

// Context gives command handlers access to application state.
type Context struct {
	Transcript *model.Transcript
	Catalog    *catalog.Catalog
	Registry   *Registry
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all known commands in a stable order: catalog commands in
// catalog order first, then built-in commands in registration order.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

func key(name string) string {
	return strings.ToLower(name)
}

// Register adds a command to the registry, replacing one of the same name.
func (r *Registry) Register(cmd *Command) {
	if old, ok := r.commands[key(cmd.Name)]; ok {
		r.remove(old)
	}
	r.commands[key(cmd.Name)] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[key(alias)] = cmd
	}
	r.order = append(r.order, cmd)
}

func (r *Registry) remove(cmd *Command) {
	delete(r.commands, key(cmd.Name))
	for _, alias := range cmd.Aliases {
		delete(r.aliases, key(alias))
	}
	for i, c := range r.order {
		if c == cmd {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a command by name or alias, ignoring case.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[key(name)]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[key(name)]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands in order.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, len(r.order))
	copy(cmds, r.order)
	return cmds
}

// Names returns the names of visible commands in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, cmd := range r.order {
		if !cmd.Hidden {
			names = append(names, cmd.Name)
		}
	}
	return names
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.order {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// SetCatalogCommands replaces the catalog-sourced commands. Catalog names
// come first in catalog order; a catalog name that is also a built-in keeps
// the built-in definition at the catalog position.
func (r *Registry) SetCatalogCommands(names []string) {
	var builtins []*Command
	for _, cmd := range r.order {
		if cmd.fromCatalog {
			delete(r.commands, key(cmd.Name))
			continue
		}
		builtins = append(builtins, cmd)
	}

	order := make([]*Command, 0, len(names)+len(builtins))
	placed := make(map[*Command]bool)
	for _, name := range names {
		if existing := r.Get(name); existing != nil {
			if !placed[existing] {
				order = append(order, existing)
				placed[existing] = true
			}
			continue
		}
		cmd := &Command{
			Name:        name,
			Description: "Sent to the chat",
			TakesQuery:  true,
			Category:    "Chat",
			fromCatalog: true,
		}
		r.commands[key(name)] = cmd
		order = append(order, cmd)
		placed[cmd] = true
	}
	for _, cmd := range builtins {
		if !placed[cmd] {
			order = append(order, cmd)
		}
	}
	r.order = order
}

// Execute runs a local command. It returns false when name is not a local
// command, in which case the text should be sent as a message.
func (r *Registry) Execute(ctx *Context, name, query string) (tea.Cmd, bool) {
	cmd := r.Get(name)
	if cmd == nil || !cmd.Local || cmd.Handler == nil {
		return nil, false
	}
	return cmd.Handler(ctx, query), true
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        DefaultMusicCommand,
		Description: "Share a track",
		Usage:       DefaultMusicCommand + ": <artist> – <track>",
		TakesQuery:  true,
		Category:    "Music",
	})

	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Local:       true,
		Category:    "Navigation",
		Handler:     handleHelp,
	})

	r.Register(&Command{
		Name:        "/quote",
		Description: "Quote the last message",
		Local:       true,
		Category:    "Conversation",
		Handler:     handleQuote,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the transcript",
		Local:       true,
		Category:    "Conversation",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "/reload",
		Description: "Reload the command and music catalog",
		Local:       true,
		Category:    "Settings",
		Handler:     handleReload,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit chatline",
		Local:       true,
		Category:    "Navigation",
		Handler:     handleQuit,
	})
}
