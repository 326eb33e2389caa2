package runner

import (
	"context"

	"github.com/aretw0/guidebot/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (structured) modes.
type IOHandler interface {
	// Render presents one transcript entry.
	Render(ctx context.Context, entry domain.Entry) error

	// Composing toggles the "typing" indicator.
	Composing(ctx context.Context, active bool) error

	// Input reads one line from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (help, errors, link lists), distinct from content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms bot message text before output (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)

// LinkFormatter renders a link label/URL pair for the terminal (e.g. OSC-8 hyperlinks).
type LinkFormatter func(label, url string) string
