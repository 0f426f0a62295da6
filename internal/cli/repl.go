// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/chatline/internal/catalog"
	"github.com/jeranaias/chatline/internal/commands"
	"github.com/jeranaias/chatline/internal/config"
	"github.com/jeranaias/chatline/internal/editor"
	"github.com/jeranaias/chatline/internal/model"
	"github.com/jeranaias/chatline/internal/storage"
	"github.com/jeranaias/chatline/internal/surface"
	"github.com/jeranaias/chatline/internal/ui/chat"
	"github.com/jeranaias/chatline/internal/ui/components"
	"github.com/jeranaias/chatline/internal/util"
)

// Prompt is the REPL input prompt.
const Prompt = "chatline> "

// historyLimit is the number of stored messages replayed on start.
const historyLimit = 10

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads input lines. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	PromptWithSuggestion(prompt, text string, pos int) (string, error)
	AppendHistory(item string)
}

// =============================================================================
// REPL
// =============================================================================

// REPLOptions wires a REPL to its collaborators. Only Config is required.
type REPLOptions struct {
	Config  *config.Config
	Session *Session
	Sender  chat.Sender
	Out     io.Writer
	Width   int
}

// Outcome is the result of handling one input line.
type Outcome struct {
	// Quit ends the REPL
	Quit bool

	// Suggestion prefills the next prompt
	Suggestion string

	// Sent is the message that was sent, if any
	Sent *model.Message
}

// REPL is the line-oriented chat. It shares the command parser, the
// completer and the editor with the chat view, but reads whole lines.
type REPL struct {
	cfg        *config.Config
	out        io.Writer
	width      int
	parser     *commands.Parser
	completer  *commands.Completer
	editor     *editor.Editor
	transcript *model.Transcript
	sender     chat.Sender
	store      *storage.Store
	renderer   *glamour.TermRenderer
	source     catalog.Source

	quote   *model.QuoteRef
	hinted  string
	catalog *catalog.Catalog
}

// NewREPL creates a REPL with an empty catalog. Call LoadCatalog before Run.
func NewREPL(opts REPLOptions) (*REPL, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	width := opts.Width
	if cfg.UI.WrapWidth > 0 {
		width = cfg.UI.WrapWidth
	}
	if width <= 0 {
		width = DefaultTerminalWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamourStyle(cfg.UI.Theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	edOpts := editor.Options{
		MaxHistory:    cfg.Editor.MaxHistory,
		UploadTimeout: time.Duration(cfg.Images.TimeoutSecs) * time.Second,
	}
	var store *storage.Store
	if s := opts.Session; s != nil {
		edOpts.Store = s.Images
		edOpts.Fetcher = s.Fetcher
		store = s.Store
	}

	sender := opts.Sender
	if sender == nil {
		sender = chat.LocalSender{Store: store}
	}

	parser := commands.NewParser(commands.NewRegistry(), catalog.Empty())
	parser.DefaultCommand = cfg.Catalog.DefaultCommand
	parser.MusicCommand = cfg.Catalog.MusicCommand
	parser.AudioBaseURL = cfg.Catalog.AudioBaseURL

	return &REPL{
		cfg:        cfg,
		out:        out,
		width:      width,
		parser:     parser,
		completer:  commands.NewCompleter(parser),
		editor:     editor.New(edOpts),
		transcript: model.NewTranscript(),
		sender:     sender,
		store:      store,
		renderer:   renderer,
		source: catalog.Source{
			Commands: cfg.Catalog.Commands,
			Artists:  cfg.Catalog.Artists,
			Timeout:  time.Duration(cfg.Catalog.LoadTimeoutSecs) * time.Second,
		},
		catalog: catalog.Empty(),
	}, nil
}

func glamourStyle(theme string) glamour.TermRendererOption {
	if !ColorsEnabled() {
		return glamour.WithStandardStyle("notty")
	}
	switch theme {
	case "light":
		return glamour.WithStandardStyle("light")
	case "auto":
		return glamour.WithAutoStyle()
	default:
		return glamour.WithStandardStyle("dark")
	}
}

// SetCatalog replaces the catalog used for parsing and completion.
func (r *REPL) SetCatalog(c *catalog.Catalog) {
	if c == nil {
		c = catalog.Empty()
	}
	r.catalog = c
	r.parser.SetCatalog(c)
}

// LoadCatalog loads the configured catalog. On failure the REPL keeps
// working with an empty catalog and the error is returned for display.
func (r *REPL) LoadCatalog(ctx context.Context) error {
	c, err := catalog.Load(ctx, r.source)
	if err != nil {
		r.SetCatalog(catalog.Empty())
		return fmt.Errorf("catalog unavailable: %w", err)
	}
	r.SetCatalog(c)
	return nil
}

// LoadHistory replays the most recent stored messages.
func (r *REPL) LoadHistory(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	msgs, err := r.store.RecentMessages(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	for _, msg := range msgs {
		r.transcript.AddMessage(msg)
		r.printMessage(msg)
	}
	return nil
}

// Transcript returns the REPL transcript.
func (r *REPL) Transcript() *model.Transcript {
	return r.transcript
}

func (r *REPL) author() string {
	if r.cfg.Author != "" {
		return r.cfg.Author
	}
	return model.RoleUser.DisplayName()
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete returns the tab completions for line.
func (r *REPL) Complete(line string) []string {
	var out []string
	for _, c := range r.completer.Complete(line) {
		out = append(out, c.Value)
	}
	if len(out) == 0 {
		if accepted, ok := r.parser.Accept(line); ok {
			out = append(out, accepted)
		}
	}
	return out
}

// =============================================================================
// LINE HANDLING
// =============================================================================

// Handle processes one input line.
//
// A command line with an unambiguous hint is not sent the first time;
// the hint is shown and the accepted text is offered as the next prompt.
// Entering the same line again sends it as typed.
func (r *REPL) Handle(ctx context.Context, line string) (Outcome, error) {
	text := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(text) == "" {
		r.hinted = ""
		return Outcome{}, nil
	}

	res := r.parser.Parse(text)
	if res.IsCommand() && res.Hint() != "" && !r.parser.IsCommandReady(text) && text != r.hinted {
		r.hinted = text
		fmt.Fprintf(r.out, "  %s  %s\n", RenderPlan(res.Plan), faintColor.Sprint("(enter again to send as typed)"))
		accepted, _ := r.parser.Accept(text)
		return Outcome{Suggestion: accepted}, nil
	}
	r.hinted = ""

	if res.IsCommand() && !res.IsMusic() {
		name := strings.TrimSpace(res.Name)
		ctxCmd := &commands.Context{
			Transcript: r.transcript,
			Catalog:    r.catalog,
			Registry:   r.parser.Registry(),
		}
		if cmd, ok := r.parser.Registry().Execute(ctxCmd, name, res.Query); ok {
			return r.apply(ctx, run(cmd))
		}
	}

	return r.send(ctx, text)
}

func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// apply performs the effect of a local command.
func (r *REPL) apply(ctx context.Context, msg tea.Msg) (Outcome, error) {
	switch m := msg.(type) {
	case tea.QuitMsg:
		return Outcome{Quit: true}, nil

	case commands.ShowHelpMsg:
		fmt.Fprintln(r.out, m.Text)

	case commands.ClearTranscriptMsg:
		r.transcript.Clear()
		if r.store != nil {
			if err := r.store.ClearMessages(ctx); err != nil {
				return Outcome{}, fmt.Errorf("failed to clear history: %w", err)
			}
		}
		fmt.Fprintln(r.out, successColor.Sprint("Transcript cleared."))

	case commands.QuoteMsg:
		q := m.Quote
		r.quote = &q
		fmt.Fprintf(r.out, "%s %s\n", faintColor.Sprint("quoting"),
			util.TruncateWidth(q.Author+": "+util.FirstLine(q.Text), r.width-8))

	case commands.ReloadCatalogMsg:
		if err := r.LoadCatalog(ctx); err != nil {
			return Outcome{}, err
		}
		fmt.Fprintf(r.out, "Catalog reloaded: %d commands, %d artists.\n",
			len(r.catalog.Commands), len(r.catalog.Artists))

	case commands.SystemMessageMsg:
		r.printMessage(r.transcript.AddSystemMessage(m.Content))
	}
	return Outcome{}, nil
}

// send composes text through the editor and delivers it. A line naming an
// image is uploaded first, the same way a paste is in the chat view.
func (r *REPL) send(ctx context.Context, text string) (Outcome, error) {
	music, isMusic := r.parser.Music(text)

	r.editor.Clear()
	if cmd := r.editor.HandlePaste(editor.Paste{Text: text}); cmd != nil {
		if up, ok := run(cmd).(editor.ImageUploadedMsg); ok {
			r.editor.ApplyUpload(up)
			if up.Err != nil && up.Fallback == "" {
				log.Printf("cli: image upload failed: %v", up.Err)
				fmt.Fprintf(r.out, "%s image upload failed: %v\n", errorColor.Sprint("[!]"), up.Err)
			}
		}
	}
	if r.quote != nil {
		r.editor.InsertQuoteTag(surface.Quote{
			MessageID: r.quote.MessageID,
			Author:    r.quote.Author,
			Text:      r.quote.Text,
		})
		r.quote = nil
	}

	out := r.editor.Compose()
	r.editor.Clear()
	if isMusic {
		if out.Metadata != nil {
			music.Quotes = out.Metadata.Quotes
		}
		out.Metadata = music
	}

	msg := r.transcript.AddOutgoing(r.author(), out)
	if err := r.sender.Send(ctx, msg); err != nil {
		return Outcome{}, fmt.Errorf("failed to send message: %w", err)
	}
	r.printMessage(msg)
	return Outcome{Sent: msg}, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, titleColor.Sprint("chatline"))
	fmt.Fprintf(r.out, "%s\n", faintColor.Sprintf("%d commands, %d artists. /help lists commands, Tab completes, Ctrl+D exits.",
		len(r.parser.Commands()), len(r.catalog.Artists)))
	fmt.Fprintln(r.out, Divider(r.width))
}

func (r *REPL) printMessage(msg *model.Message) {
	if msg.Role == model.RoleSystem {
		fmt.Fprintln(r.out, systemColor.Sprint("* "+msg.Content))
		return
	}

	fmt.Fprintf(r.out, "%s %s\n", authorColor.Sprint(msg.DisplayAuthor()),
		faintColor.Sprint(msg.Timestamp.Format(components.TimeFormat)))

	meta := msg.Metadata
	if meta != nil {
		for _, q := range meta.Quotes {
			line := util.TruncateWidth(q.Author+": "+util.FirstLine(q.Text), r.width-4)
			fmt.Fprintln(r.out, faintColor.Sprint("│ "+line))
		}
	}

	if body := components.DisplayText(msg.Content); body != "" {
		rendered, err := r.renderer.Render(body)
		if err != nil {
			rendered = body
		}
		fmt.Fprintln(r.out, strings.Trim(rendered, "\n"))
	}

	if meta == nil {
		return
	}
	if meta.Type == model.MetadataMusic {
		fmt.Fprintln(r.out, musicColor.Sprint("♪ "+meta.Artist+" – "+meta.Track))
		if meta.AudioURL != "" {
			fmt.Fprintln(r.out, faintColor.Sprint("  "+meta.AudioURL))
		}
	}
	for i, img := range meta.Images {
		fmt.Fprintf(r.out, "%s %s\n", faintColor.Sprintf("image %d:", i+1), img.URL)
	}
}

// =============================================================================
// LOOP
// =============================================================================

// Run reads lines until the user quits or input ends.
func (r *REPL) Run(ctx context.Context, in LineReader) error {
	r.printWelcome()

	suggestion := ""
	for {
		var line string
		var err error
		if suggestion != "" {
			line, err = in.PromptWithSuggestion(Prompt, suggestion, -1)
			suggestion = ""
		} else {
			line, err = in.Prompt(Prompt)
		}
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if strings.TrimSpace(line) != "" {
			in.AppendHistory(line)
		}

		outcome, err := r.Handle(ctx, line)
		if err != nil {
			fmt.Fprintf(r.out, "%s %v\n", errorColor.Sprint("[Error]"), err)
		}
		if outcome.Quit {
			return nil
		}
		suggestion = outcome.Suggestion
	}
}
