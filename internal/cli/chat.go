package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/guidebot"
	"github.com/aretw0/guidebot/internal/config"
	"github.com/aretw0/guidebot/internal/presentation/tui"
	"github.com/aretw0/guidebot/pkg/adapters/host"
	"github.com/aretw0/guidebot/pkg/runner"
)

// ChatOptions configures an interactive chat.
type ChatOptions struct {
	Config config.Config
	// JSON switches IO to NDJSON events.
	JSON bool
	// Plain disables markdown rendering, hyperlinks and the banner.
	Plain bool
	// BaseURL prefixes internal routes printed by the navigator.
	BaseURL string
	In      io.Reader
	Out     io.Writer
	Logger  *slog.Logger
}

// RunChat runs one chat session against stdin/stdout (or the configured streams).
func RunChat(ctx context.Context, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(opts.Config); err != nil {
			return err
		}
	}

	hooks, err := debugHooks(ctx, logger)
	if err != nil {
		return err
	}
	engine, err := NewEngine(opts.Config, logger, hooks...)
	if err != nil {
		return err
	}

	rich := !opts.JSON && !opts.Plain && opts.Out == os.Stdout && tui.IsTerminal(os.Stdout)

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		var textOpts []runner.TextHandlerOption
		if rich {
			tui.PrintBanner(opts.Out)
			textOpts = append(textOpts,
				runner.WithTextHandlerRenderer(tui.NewRenderer()),
				runner.WithTextHandlerLinks(tui.Hyperlink),
			)
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	}

	visibility := host.NewToggle(true)
	session := engine.NewSession(
		guidebot.WithVisibility(visibility),
		guidebot.WithNavigator(host.NewWriterNavigator(opts.Out, host.WithBaseURL(opts.BaseURL), host.WithNavigatorLogger(logger))),
	)

	r := runner.NewRunner(
		runner.WithInputHandler(handler),
		runner.WithLogger(logger),
		runner.WithMaxInputSize(opts.Config.MaxInputSize),
		runner.WithHeadless(opts.JSON),
	)

	logger.Debug("Chat started", "session_id", session.ID(), "graph", engine.Name)
	return r.Run(ctx, session)
}
