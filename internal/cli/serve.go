package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/guidebot"
	"github.com/aretw0/guidebot/internal/config"
	httpAdapter "github.com/aretw0/guidebot/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/guidebot/pkg/adapters/mcp"
	"github.com/aretw0/guidebot/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Config config.Config
	// MCPAddr additionally serves MCP over SSE when set.
	MCPAddr string
	// Watch enables GET /events for Loam graph directories.
	Watch bool
	// Listener overrides Config.Addr, e.g. for tests.
	Listener net.Listener
	Logger   *slog.Logger
}

// Serve runs the HTTP API (and optionally the MCP SSE transport) until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(opts.Config); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	hooks, err := debugHooks(ctx, logger)
	if err != nil {
		return err
	}
	hooks = append(hooks, metrics.Hooks())
	engine, err := NewEngine(opts.Config, logger, hooks...)
	if err != nil {
		return err
	}

	handlerOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithGraphName(engine.Name),
		httpAdapter.WithVersion(guidebot.Version),
		httpAdapter.WithMaxInputSize(opts.Config.MaxInputSize),
		httpAdapter.WithMetricsHandler(metrics.Handler()),
	}
	for _, h := range hooks {
		handlerOpts = append(handlerOpts, httpAdapter.WithLifecycleHooks(h))
	}
	if opts.Watch {
		handlerOpts = append(handlerOpts, httpAdapter.WithWatch(engine.Watch))
	}
	handler, err := httpAdapter.NewHandler(engine, handlerOpts...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.Config.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if opts.Listener != nil {
			logger.Info("Starting GuideBot Server", "addr", opts.Listener.Addr().String(), "graph", engine.Name)
			err = srv.Serve(opts.Listener)
		} else {
			logger.Info("Starting GuideBot Server", "addr", srv.Addr, "graph", engine.Name)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		logger.Info("GuideBot Server stopped gracefully")
		return nil
	})
	if opts.MCPAddr != "" {
		mcpServer := mcpAdapter.NewServer(engine, guidebot.Version,
			mcpAdapter.WithLogger(logger),
			mcpAdapter.WithMaxInputSize(opts.Config.MaxInputSize),
		)
		g.Go(func() error {
			return mcpServer.ServeSSE(ctx, opts.MCPAddr)
		})
	}

	return g.Wait()
}
