package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/guidebot/internal/logging"
	"github.com/aretw0/guidebot/internal/presentation/graph"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/intent"
	"github.com/aretw0/guidebot/pkg/ports"
	"github.com/aretw0/guidebot/pkg/runner"
)

// Resource URIs.
const (
	GraphURI        = "guidebot://graph"
	GraphMermaidURI = "guidebot://graph/mermaid"
)

// ReplyResponse aligns with the HTTP Reply schema.
type ReplyResponse struct {
	Classification *intent.Result `json:"classification,omitempty" jsonschema_description:"How free text was classified; absent for option clicks"`
	Node           domain.Node    `json:"node" jsonschema_description:"The node the bot answers with"`
}

// ClassifyArgs are the arguments of classify_intent.
type ClassifyArgs struct {
	Text string `json:"text"`
}

// ReplyArgs are the arguments of reply. Option takes precedence over Text.
type ReplyArgs struct {
	Text   string `json:"text,omitempty"`
	Option string `json:"option,omitempty"`
}

// NodeArgs are the arguments of get_node.
type NodeArgs struct {
	Key string `json:"key"`
}

// RulesResponse lists the intent rules in priority order.
type RulesResponse struct {
	Rules []RuleInfo `json:"rules" jsonschema_description:"Rules in priority order; the first match wins"`
}

// RuleInfo describes one intent rule.
type RuleInfo struct {
	Name     string   `json:"name"`
	Target   string   `json:"target"`
	Keywords []string `json:"keywords,omitempty"`
}

// Server wraps an Assistant and exposes it as an MCP Server.
type Server struct {
	assistant    ports.Assistant
	mcpServer    *server.MCPServer
	logger       *slog.Logger
	maxInputSize int
}

// Option configures the MCP server.
type Option func(*Server)

// WithLogger sets the logger. MCP over stdio owns stdout, so logs must go elsewhere.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize caps the byte size of text accepted by the tools.
// Non-positive values keep runner.MaxInputSize.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxInputSize = n
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(assistant ports.Assistant, version string, opts ...Option) *Server {
	s := &Server{
		assistant:    assistant,
		mcpServer:    server.NewMCPServer("guidebot-mcp", strings.TrimSpace(version)),
		logger:       logging.NewNop(),
		maxInputSize: runner.MaxInputSize(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. to mount it on another transport.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop MCP server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: classify_intent
	s.mcpServer.AddTool(mcp.NewTool("classify_intent",
		mcp.WithDescription("Classify free text against the assistant's ordered keyword rules."),
		mcp.WithString("text", mcp.Required(), mcp.Description("User input")),
		mcp.WithOutputSchema[intent.Result](),
	), mcp.NewStructuredToolHandler(s.handleClassify))

	// TOOL: reply
	s.mcpServer.AddTool(mcp.NewTool("reply",
		mcp.WithDescription("Compute the bot reply to free text or to an option click. Stateless: the caller keeps the transcript."),
		mcp.WithString("text", mcp.Description("Free-text user message")),
		mcp.WithString("option", mcp.Description("Target node key of a clicked option; takes precedence over text")),
		mcp.WithOutputSchema[ReplyResponse](),
	), mcp.NewStructuredToolHandler(s.handleReply))

	// TOOL: get_node
	s.mcpServer.AddTool(mcp.NewTool("get_node",
		mcp.WithDescription("Get one dialogue node by key. 'welcome' is the entry node, 'fallback' the clarification response."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Node key")),
		mcp.WithOutputSchema[domain.Node](),
	), mcp.NewStructuredToolHandler(s.handleGetNode))

	// TOOL: list_rules
	s.mcpServer.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the intent rules in priority order."),
		mcp.WithOutputSchema[RulesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListRules))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full graph definition for introspection."),
		mcp.WithString("format", mcp.Description("json (default) or mermaid"), mcp.Enum("json", "mermaid")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := request.GetString("format", "json")
		text, err := s.renderGraph(format)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest, args ClassifyArgs) (intent.Result, error) {
	clean, err := s.sanitize(args.Text)
	if err != nil {
		s.logger.Warn("MCP classify: Input rejected", "error", err, "size", len(args.Text))
		return intent.Result{}, err
	}
	return s.assistant.Classify(clean), nil
}

func (s *Server) handleReply(ctx context.Context, request mcp.CallToolRequest, args ReplyArgs) (ReplyResponse, error) {
	if args.Option != "" {
		node, ok := s.assistant.Resolve(args.Option)
		if !ok {
			return ReplyResponse{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, args.Option)
		}
		return ReplyResponse{Node: node}, nil
	}

	clean, err := s.sanitize(args.Text)
	if err != nil {
		s.logger.Warn("MCP reply: Input rejected", "error", err, "size", len(args.Text))
		return ReplyResponse{}, err
	}
	res := s.assistant.Classify(clean)
	node, ok := s.assistant.Resolve(res.Target)
	if !ok {
		node, _ = s.assistant.Resolve(domain.FallbackKey)
	}
	return ReplyResponse{Classification: &res, Node: node}, nil
}

func (s *Server) handleGetNode(ctx context.Context, request mcp.CallToolRequest, args NodeArgs) (domain.Node, error) {
	node, ok := s.assistant.Resolve(args.Key)
	if !ok {
		return domain.Node{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, args.Key)
	}
	return node, nil
}

func (s *Server) handleListRules(ctx context.Context, request mcp.CallToolRequest, args struct{}) (RulesResponse, error) {
	rules := s.assistant.Rules()
	out := RulesResponse{Rules: make([]RuleInfo, 0, len(rules))}
	for _, r := range rules {
		out.Rules = append(out.Rules, RuleInfo{Name: r.Name, Target: r.Target, Keywords: r.Keywords})
	}
	return out, nil
}

func (s *Server) renderGraph(format string) (string, error) {
	nodes := s.assistant.Inspect()
	switch format {
	case "", "json":
		b, err := json.Marshal(nodes)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case "mermaid":
		rules := make(map[string]string)
		for _, r := range s.assistant.Rules() {
			rules[r.Name] = r.Target
		}
		return graph.GenerateMermaid(nodes, graph.Options{Rules: rules, Links: true}), nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func (s *Server) registerResources() {
	// EXPOSE: guidebot://graph
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Dialogue Graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.renderGraph("json")
		if err != nil {
			return nil, fmt.Errorf("failed to inspect graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: GraphURI, MIMEType: "application/json", Text: text},
		}, nil
	})

	// EXPOSE: guidebot://graph/mermaid
	s.mcpServer.AddResource(mcp.NewResource(GraphMermaidURI, "Dialogue Graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.renderGraph("mermaid")
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: GraphMermaidURI, MIMEType: "text/plain", Text: text},
		}, nil
	})
}

func (s *Server) sanitize(text string) (string, error) {
	clean, err := runner.SanitizeInputLimit(text, s.maxInputSize)
	if err != nil {
		return "", fmt.Errorf("input rejected: %w", err)
	}
	if strings.TrimSpace(clean) == "" {
		return "", fmt.Errorf("input rejected: %w", domain.ErrEmptyInput)
	}
	return clean, nil
}
