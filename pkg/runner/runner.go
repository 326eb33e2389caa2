package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/guidebot/internal/logging"
	"github.com/aretw0/guidebot/pkg/domain"
)

// Session is the part of a chat session the runner drives.
type Session interface {
	Open() bool
	SubmitText(input string) bool
	SelectOption(target string) bool
	FollowLink(link domain.Link) error
	Close()
	Composing() bool
	Flush(ctx context.Context) error
	Transcript() []domain.Entry
}

// HelpText lists the interactive commands.
const HelpText = "Type a question, a number to pick an option, /links to list links, /open <n> to follow one, /close to leave."

// Runner handles the chat loop of one session using the provided IO strategy.
type Runner struct {
	Handler      IOHandler
	Logger       *slog.Logger
	MaxInputSize int
	Headless     bool

	rendered int
}

// NewRunner creates a Runner. Without WithInputHandler it reads stdin and writes stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:       logging.NewNop(),
		MaxInputSize: MaxInputSize(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run opens the session and processes input until the user closes the chat,
// the input is exhausted or ctx is cancelled. The session is always closed on return.
func (r *Runner) Run(ctx context.Context, s Session) error {
	defer s.Close()

	s.Open()
	if !r.Headless {
		if err := r.Handler.SystemOutput(ctx, HelpText); err != nil {
			return err
		}
	}
	if err := r.emit(ctx, s); err != nil {
		return err
	}

	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				r.Logger.Debug("Chat input ended", "error", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		done, err := r.dispatch(ctx, s, parseCommand(line))
		if err != nil {
			return err
		}
		if err := r.emit(ctx, s); err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, s Session, cmd command) (bool, error) {
	switch cmd.kind {
	case cmdClose:
		s.Close()
		return true, r.Handler.SystemOutput(ctx, "Chat closed.")

	case cmdHelp:
		return false, r.Handler.SystemOutput(ctx, HelpText)

	case cmdOption:
		last, ok := lastBot(s)
		if !ok || cmd.index < 1 || cmd.index > len(last.Options) {
			return false, r.Handler.SystemOutput(ctx, fmt.Sprintf("There is no option %d.", cmd.index))
		}
		s.SelectOption(last.Options[cmd.index-1].Target)
		return false, nil

	case cmdLinks:
		last, ok := lastBot(s)
		if !ok || len(last.Links) == 0 {
			return false, r.Handler.SystemOutput(ctx, "No links on the last message.")
		}
		var b strings.Builder
		for i, l := range last.Links {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%d. %s %s", i+1, l.Label, l.URL)
		}
		return false, r.Handler.SystemOutput(ctx, b.String())

	case cmdOpen:
		last, ok := lastBot(s)
		if !ok || cmd.index < 1 || cmd.index > len(last.Links) {
			return false, r.Handler.SystemOutput(ctx, fmt.Sprintf("There is no link %d.", cmd.index))
		}
		if err := s.FollowLink(last.Links[cmd.index-1]); err != nil {
			return false, r.Handler.SystemOutput(ctx, fmt.Sprintf("Could not open link: %v", err))
		}
		return false, nil
	}

	clean, err := SanitizeInputLimit(cmd.text, r.MaxInputSize)
	if err != nil {
		return false, r.Handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err))
	}
	if !s.SubmitText(clean) {
		return false, nil
	}
	// Show the user entry before the indicator.
	if err := r.emit(ctx, s); err != nil {
		return false, err
	}
	if !s.Composing() {
		return false, nil
	}
	if err := r.Handler.Composing(ctx, true); err != nil {
		return false, err
	}
	flushErr := s.Flush(ctx)
	if err := r.Handler.Composing(ctx, false); err != nil {
		return false, err
	}
	if errors.Is(flushErr, context.Canceled) {
		return true, nil
	}
	return false, flushErr
}

// emit renders transcript entries not shown yet.
func (r *Runner) emit(ctx context.Context, s Session) error {
	entries := s.Transcript()
	for _, e := range entries {
		if e.ID <= r.rendered {
			continue
		}
		if err := r.Handler.Render(ctx, e); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		r.rendered = e.ID
	}
	return nil
}

func lastBot(s Session) (domain.Entry, bool) {
	entries := s.Transcript()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Sender == domain.SenderBot {
			return entries[i], true
		}
	}
	return domain.Entry{}, false
}

type commandKind int

const (
	cmdText commandKind = iota
	cmdOption
	cmdLinks
	cmdOpen
	cmdClose
	cmdHelp
)

type command struct {
	kind  commandKind
	index int
	text  string
}

func parseCommand(line string) command {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "exit", "quit", "/close", "/exit":
		return command{kind: cmdClose}
	case "/help", "?":
		return command{kind: cmdHelp}
	case "/links":
		return command{kind: cmdLinks}
	}

	if fields := strings.Fields(lower); len(fields) > 0 && fields[0] == "/open" {
		n := 0
		if len(fields) == 2 {
			n, _ = strconv.Atoi(fields[1])
		}
		return command{kind: cmdOpen, index: n}
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return command{kind: cmdOption, index: n}
	}
	return command{kind: cmdText, text: line}
}
