package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/guidebot/internal/logging"
	"github.com/aretw0/guidebot/internal/presentation/graph"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/intent"
	"github.com/aretw0/guidebot/pkg/ports"
	"github.com/aretw0/guidebot/pkg/runner"
)

// AppName identifies the service in GET /info.
const AppName = "guidebot-http"

// WatchFunc streams graph source change notifications.
type WatchFunc func(ctx context.Context) (<-chan string, error)

// Server implements ServerInterface over a stateless Assistant.
type Server struct {
	Assistant ports.Assistant
	GraphName string
	Version   string

	logger       *slog.Logger
	watch        WatchFunc
	metrics      http.Handler
	maxInputSize int
	validate     bool
	hooks        domain.LifecycleHooks
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the HTTP handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithWatch enables GET /events.
func WithWatch(w WatchFunc) Option {
	return func(s *Server) {
		s.watch = w
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithGraphName labels the graph in GET /info.
func WithGraphName(name string) Option {
	return func(s *Server) {
		s.GraphName = name
	}
}

// WithVersion sets the build version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = strings.TrimSpace(v)
	}
}

// WithMaxInputSize caps free-text input in bytes.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInputSize = n
	}
}

// WithLifecycleHooks fires OnClassified for every classified request.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithRequestValidation toggles OpenAPI request validation. It is on by default.
func WithRequestValidation(enabled bool) Option {
	return func(s *Server) {
		s.validate = enabled
	}
}

// NewHandler creates the HTTP handler for an assistant.
func NewHandler(assistant ports.Assistant, opts ...Option) (http.Handler, error) {
	server := &Server{
		Assistant:    assistant,
		Version:      "dev",
		logger:       logging.NewNop(),
		maxInputSize: runner.MaxInputSize(),
		validate:     true,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	if server.validate {
		mw, err := requestValidator(server.logger)
		if err != nil {
			return nil, err
		}
		r.Use(mw)
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			server.logger.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(spec)
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return HandlerFromMux(server, r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, Info{
		App:        AppName,
		Version:    s.Version,
		APIVersion: apiVersion,
		Graph:      s.GraphName,
		Nodes:      len(s.Assistant.Inspect()),
	})
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request, params GetGraphParams) {
	format := FormatJSON
	if params.Format != nil {
		format = *params.Format
	}
	nodes := s.Assistant.Inspect()

	switch format {
	case FormatJSON:
		writeJSON(w, http.StatusOK, nodes)
	case FormatMermaid:
		rules := make(map[string]string)
		for _, rule := range s.Assistant.Rules() {
			rules[rule.Name] = rule.Target
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, graph.GenerateMermaid(nodes, graph.Options{Rules: rules, Links: true}))
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown format %q", format))
	}
}

// GetNode handles the GET /nodes/{key} request.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request, key string) {
	node, ok := s.Assistant.Resolve(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, key))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// Classify handles the POST /classify request.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var body TextRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		s.logger.Warn("Classify: Invalid request body", "error", err)
		return
	}
	text, err := s.sanitize(body.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.classify(r.Context(), text))
}

// Reply handles the POST /reply request.
func (s *Server) Reply(w http.ResponseWriter, r *http.Request) {
	var body ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		s.logger.Warn("Reply: Invalid request body", "error", err)
		return
	}

	if body.Option != "" {
		node, ok := s.Assistant.Resolve(body.Option)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, body.Option))
			return
		}
		writeJSON(w, http.StatusOK, Reply{Node: node})
		return
	}

	text, err := s.sanitize(body.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := s.classify(r.Context(), text)
	node, ok := s.Assistant.Resolve(res.Target)
	if !ok {
		s.logger.Warn("Intent target not in graph, using fallback", "target", res.Target)
		node, _ = s.Assistant.Resolve(domain.FallbackKey)
	}
	s.logger.Debug("Reply", "rule", res.Rule, "node", node.Key)
	writeJSON(w, http.StatusOK, Reply{Classification: &res, Node: node})
}

func (s *Server) classify(ctx context.Context, text string) intent.Result {
	res := s.Assistant.Classify(text)
	if s.hooks.OnClassified != nil {
		s.hooks.OnClassified(ctx, &domain.ClassifiedEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventClassified},
			Input:     text,
			Rule:      res.Rule,
			Target:    res.Target,
			Fallback:  res.Fallback,
		})
	}
	return res
}

func (s *Server) sanitize(text string) (string, error) {
	clean, err := runner.SanitizeInputLimit(text, s.maxInputSize)
	if err != nil {
		s.logger.Warn("Input rejected", "error", err, "size", len(text))
		return "", fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(clean) == "" {
		return "", fmt.Errorf("invalid input: %w", domain.ErrEmptyInput)
	}
	return clean, nil
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		writeError(w, http.StatusNotImplemented, errors.New("graph source does not support watching"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events, err := s.watch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("watch error: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

