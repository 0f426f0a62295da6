// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatline/internal/catalog"
	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/config"
	"github.com/jeranaias/chatline/internal/editor"
	"github.com/jeranaias/chatline/internal/imagestore"
	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/storage"
	"github.com/jeranaias/chatline/internal/ui/components"
	"github.com/jeranaias/chatline/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the chat view to its collaborators. Only Config is
// required; nil collaborators disable the feature they back.
type Options struct {
	Config *config.Config
	Theme  *styles.Theme

	// Store persists drafts and the local transcript.
	Store *storage.Store

	// Images receives pasted images; Fetcher resolves pasted URLs and paths.
	Images  imagestore.Store
	Fetcher imagestore.Fetcher

	// Sender delivers composed messages. Nil keeps them local.
	Sender Sender

	// Watcher delivers config reloads.
	Watcher *config.Watcher

	// Clipboard reads the system clipboard. Nil uses atotto/clipboard.
	Clipboard func() (string, error)
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme

	width  int
	height int

	// Input line
	editor     *editor.Editor
	parser     *commands.Parser
	navigator  *commands.Navigator
	completer  *commands.Completer
	completion *commands.CompletionState
	popup      *components.CompletionPopup

	// Transcript
	transcript *model.Transcript
	viewport   viewport.Model

	spinner  spinner.Model
	spinning bool

	keyMap KeyMap

	// Collaborators
	store     *storage.Store
	sender    Sender
	watcher   *config.Watcher
	clipboard func() (string, error)
	source    catalog.Source

	// Status
	catalogLoaded bool
	errText       string
	showHelp      bool
	draftSeq      int
}

// New creates a new chat model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}

	ed := editor.New(editor.Options{
		MaxHistory:    cfg.Editor.MaxHistory,
		LiveMarkdown:  cfg.Editor.LiveMarkdown,
		Store:         opts.Images,
		Fetcher:       opts.Fetcher,
		UploadTimeout: time.Duration(cfg.Images.TimeoutSecs) * time.Second,
	})

	parser := commands.NewParser(commands.NewRegistry(), catalog.Empty())
	parser.DefaultCommand = cfg.Catalog.DefaultCommand
	parser.MusicCommand = cfg.Catalog.MusicCommand
	parser.AudioBaseURL = cfg.Catalog.AudioBaseURL

	completion := commands.NewCompletionState()

	sender := opts.Sender
	if sender == nil {
		sender = LocalSender{Store: opts.Store}
	}
	read := opts.Clipboard
	if read == nil {
		read = clipboard.ReadAll
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		cfg:        cfg,
		theme:      theme,
		editor:     ed,
		parser:     parser,
		navigator:  commands.NewNavigator(parser),
		completer:  commands.NewCompleter(parser),
		completion: completion,
		popup:      components.NewCompletionPopup(completion, theme),
		transcript: model.NewTranscript(),
		viewport:   viewport.New(80, 20),
		spinner:    sp,
		keyMap:     DefaultKeyMap(),
		store:      opts.Store,
		sender:     sender,
		watcher:    opts.Watcher,
		clipboard:  read,
		source:     catalogSource(cfg),
	}
}

func catalogSource(cfg *config.Config) catalog.Source {
	return catalog.Source{
		Commands: cfg.Catalog.Commands,
		Artists:  cfg.Catalog.Artists,
		Timeout:  time.Duration(cfg.Catalog.LoadTimeoutSecs) * time.Second,
	}
}

// Init loads the catalog, the persisted transcript and draft, and starts
// listening for config reloads.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{catalog.LoadCmd(m.source)}
	if m.store != nil {
		cmds = append(cmds, LoadHistoryCmd(m.store, storage.DefaultMessageLimit))
		if m.cfg.Storage.SaveDrafts {
			cmds = append(cmds, LoadDraftCmd(m.store))
		}
	}
	if m.watcher != nil {
		cmds = append(cmds, WaitForConfigCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Editor returns the input line editor.
func (m Model) Editor() *editor.Editor {
	return m.editor
}

// Parser returns the command parser.
func (m Model) Parser() *commands.Parser {
	return m.parser
}

// Transcript returns the transcript.
func (m Model) Transcript() *model.Transcript {
	return m.transcript
}

// Completion returns the completion state.
func (m Model) Completion() *commands.CompletionState {
	return m.completion
}

// Err returns the error shown in the status bar, if any.
func (m Model) Err() string {
	return m.errText
}

// Config returns the effective config.
func (m Model) Config() *config.Config {
	return m.cfg
}

// Author returns the name used for sent messages.
func (m Model) Author() string {
	if m.cfg.Author != "" {
		return m.cfg.Author
	}
	return model.RoleUser.DisplayName()
}

func (m Model) commandContext() *commands.Context {
	return &commands.Context{
		Transcript: m.transcript,
		Catalog:    m.parser.Catalog(),
		Registry:   m.parser.Registry(),
	}
}

func (m Model) previewSize() int {
	if m.cfg.UI.PreviewSize > 0 {
		return m.cfg.UI.PreviewSize
	}
	return commands.DefaultPreviewSize
}
