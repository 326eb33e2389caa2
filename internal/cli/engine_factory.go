package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/guidebot"
	"github.com/aretw0/guidebot/internal/config"
	"github.com/aretw0/guidebot/internal/logging"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/observability"
)

// NewLogger builds the stderr logger for the configured level.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.Parse(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// NewEngine initializes an engine with standard CLI conventions:
// the embedded catalog unless a graph directory is configured.
func NewEngine(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*guidebot.Engine, error) {
	if cfg.GraphDir != "" {
		info, err := os.Stat(cfg.GraphDir)
		if err != nil {
			return nil, fmt.Errorf("graph directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("graph directory: %s is not a directory", cfg.GraphDir)
		}
	}

	opts := []guidebot.Option{
		guidebot.WithLogger(logger),
		guidebot.WithPacing(cfg.Pacing),
	}
	if cfg.FallbackMessage != "" {
		opts = append(opts, guidebot.WithFallbackMessage(cfg.FallbackMessage))
	}
	for _, h := range hooks {
		opts = append(opts, guidebot.WithLifecycleHooks(h))
	}

	engine, err := guidebot.New(cfg.GraphDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// debugHooks returns PII-masked log hooks when the logger is at debug level.
func debugHooks(ctx context.Context, logger *slog.Logger) ([]domain.LifecycleHooks, error) {
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return nil, nil
	}
	redact, err := observability.NewPIIMiddleware(observability.DefaultPIIPatterns)
	if err != nil {
		return nil, err
	}
	return []domain.LifecycleHooks{redact(observability.LogHooks(logger))}, nil
}
