package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or 80 when it cannot be determined.
func Width(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// NewRenderer returns a function that renders markdown using glamour.
// Word wrap follows the terminal width of stdout.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(Width(os.Stdout)),
	)
	if err != nil {
		return func(s string) (string, error) { return s, nil }
	}

	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return markdown, err
		}
		return strings.TrimSpace(out), nil
	}
}

// Hyperlink renders an OSC 8 terminal hyperlink, clickable in terminals that support it.
func Hyperlink(label, url string) string {
	if label == "" {
		label = url
	}
	return termenv.Hyperlink(url, label)
}
