package guidebot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/guidebot/internal/logging"
	"github.com/aretw0/guidebot/internal/runtime"
	loamAdapter "github.com/aretw0/guidebot/pkg/adapters/loam"
	"github.com/aretw0/guidebot/pkg/catalog"
	"github.com/aretw0/guidebot/pkg/dialogue"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/intent"
	"github.com/aretw0/guidebot/pkg/ports"
	"github.com/aretw0/guidebot/pkg/transcript"
)

// Engine is the high-level entry point of the library.
// It owns the immutable dialogue graph and classifier and hands out chat sessions.
type Engine struct {
	graph      *dialogue.Graph
	classifier *intent.Classifier
	loader     ports.GraphLoader
	catalog    *catalog.Catalog
	rules      []intent.Rule
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	pacer      ports.Pacer
	fallback   string
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom GraphLoader, bypassing the embedded catalog nodes.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithCatalog replaces the embedded catalog (nodes, rules and fallback text).
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithRules replaces the catalog's intent rules. Order is priority.
func WithRules(rules ...intent.Rule) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithLifecycleHooks registers observability hooks for every session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPacing sets the typing delay before each text reply.
func WithPacing(d time.Duration) Option {
	return func(e *Engine) {
		e.pacer = runtime.Delay(d)
	}
}

// WithPacer sets a custom typing delay source.
func WithPacer(p ports.Pacer) Option {
	return func(e *Engine) {
		e.pacer = p
	}
}

// WithFallbackMessage overrides the clarification text of the fallback response.
func WithFallbackMessage(msg string) Option {
	return func(e *Engine) {
		e.fallback = msg
	}
}

// New builds an Engine.
// With an empty graphDir the embedded catalog is used; otherwise the nodes are read
// from a Loam directory. WithLoader takes precedence over both.
func New(graphDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{pacer: runtime.NoDelay}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		eng.catalog = c
	}

	switch {
	case eng.loader != nil:
		if graphDir != "" {
			eng.Name = filepath.Base(graphDir)
		}
	case graphDir != "":
		l, err := loamAdapter.Open(graphDir)
		if err != nil {
			return nil, err
		}
		eng.loader = l
		eng.Name = filepath.Base(graphDir)
	default:
		l, err := eng.catalog.Loader()
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		eng.loader = l
		eng.Name = "catalog"
	}
	eng.logger = eng.logger.With("graph", eng.Name)

	if eng.rules != nil {
		eng.classifier = intent.New(eng.rules...)
	} else {
		eng.classifier = eng.catalog.Classifier()
	}

	if eng.fallback == "" {
		eng.fallback = eng.catalog.FallbackMessage
	}

	graph, err := dialogue.Build(eng.loader,
		dialogue.WithLogger(eng.logger),
		dialogue.WithFallbackMessage(eng.fallback),
		dialogue.WithRuleTargets(eng.classifier.Targets()),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid dialogue graph: %w", err)
	}
	eng.graph = graph

	eng.logger.Debug("Engine ready", "nodes", graph.Len(), "rules", len(eng.classifier.Rules()))
	return eng, nil
}

// Session is one chat conversation: a transcript plus the turn controller driving it.
type Session = runtime.Controller

// SessionOption configures a single Session.
type SessionOption = runtime.Option

// WithVisibility binds a session to the host's open/closed signal.
func WithVisibility(v ports.Visibility) SessionOption {
	return runtime.WithVisibility(v)
}

// WithNavigator binds a session to the host's navigation primitive.
func WithNavigator(n ports.Navigator) SessionOption {
	return runtime.WithNavigator(n)
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) SessionOption {
	return runtime.WithSessionID(id)
}

// WithClock sets the transcript timestamp source of a session.
func WithClock(clock transcript.Clock) SessionOption {
	return runtime.WithClock(clock)
}

// WithSessionPacer overrides the engine pacing for one session.
func WithSessionPacer(p ports.Pacer) SessionOption {
	return runtime.WithPacer(p)
}

// NewSession starts a conversation. Call Open to render the welcome message and
// Close to discard the session.
func (e *Engine) NewSession(opts ...SessionOption) *Session {
	base := []runtime.Option{
		runtime.WithPacer(e.pacer),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	}
	return runtime.NewController(e.graph, e.classifier, append(base, opts...)...)
}

// Classify maps free text to a target node without touching any session.
func (e *Engine) Classify(input string) intent.Result {
	return e.classifier.Classify(input)
}

// Resolve returns a node by key, including the synthesized fallback response.
func (e *Engine) Resolve(key string) (domain.Node, bool) {
	return e.graph.Resolve(key)
}

// Inspect returns the full graph definition for visualization or introspection tools.
func (e *Engine) Inspect() []domain.Node {
	return e.graph.Nodes()
}

// Rules returns the intent rules in priority order.
func (e *Engine) Rules() []intent.Rule {
	return e.classifier.Rules()
}

// Graph returns the underlying dialogue graph.
func (e *Engine) Graph() *dialogue.Graph {
	return e.graph
}

// Watch returns a channel that signals when the underlying graph source changes.
// Running sessions keep the graph they were created with; hosts rebuild the Engine.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the GraphLoader used by the engine.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}
