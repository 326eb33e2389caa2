package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/guidebot/pkg/domain"
)

// TypingIndicator is shown while a reply is composing.
const TypingIndicator = "typing…"

// TextHandler implements the line-oriented terminal interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Links    LinkFormatter
	// Prompt is written before each read. Empty disables it.
	Prompt string
	// BotName prefixes bot messages.
	BotName string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerLinks configures how links are printed.
func WithTextHandlerLinks(f LinkFormatter) TextHandlerOption {
	return func(h *TextHandler) {
		h.Links = f
	}
}

// WithTextHandlerPrompt overrides the input prompt.
func WithTextHandlerPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Prompt:  "> ",
		BotName: "Assistant",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump moves blocking reads to a goroutine so Input can honour ctx.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

// Render prints bot entries with numbered options and links.
// User entries are skipped: the user already sees what they typed.
func (h *TextHandler) Render(ctx context.Context, entry domain.Entry) error {
	if entry.Sender == domain.SenderUser {
		return nil
	}

	msg := entry.Text
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg); err == nil {
			msg = rendered
		}
	}

	var b strings.Builder
	if h.BotName != "" {
		fmt.Fprintf(&b, "%s: ", h.BotName)
	}
	b.WriteString(strings.TrimSpace(msg))
	b.WriteString("\n")
	for i, opt := range entry.Options {
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, opt.Label)
	}
	for i, l := range entry.Links {
		fmt.Fprintf(&b, "  (link %d) %s\n", i+1, h.formatLink(l))
	}

	_, err := fmt.Fprint(h.Writer, b.String())
	return err
}

func (h *TextHandler) formatLink(l domain.Link) string {
	if h.Links != nil {
		return h.Links(l.Label, l.URL)
	}
	if l.Label == l.URL {
		return l.URL
	}
	return fmt.Sprintf("%s <%s>", l.Label, l.URL)
}

// Composing shows or clears the typing indicator on the current line.
func (h *TextHandler) Composing(ctx context.Context, active bool) error {
	var err error
	if active {
		_, err = fmt.Fprintf(h.Writer, "%s %s", h.BotName, TypingIndicator)
	} else {
		// Carriage return, then erase the line.
		_, err = fmt.Fprint(h.Writer, "\r\x1b[K")
	}
	return err
}

// Input reads one trimmed line, returning io.EOF when the source is exhausted.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		if h.Prompt != "" {
			fmt.Fprint(h.Writer, h.Prompt)
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

// SystemOutput prints a meta-message on its own line.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[%s]\n", msg)
	return err
}
