package dialogue

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/aretw0/guidebot/internal/compiler"
	"github.com/aretw0/guidebot/internal/logging"
	"github.com/aretw0/guidebot/internal/validator"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/ports"
)

// Graph is an immutable, validated set of dialogue nodes.
// It is safe to share between sessions: every accessor returns copies.
type Graph struct {
	nodes    map[string]domain.Node
	keys     []string
	fallback domain.Node
}

// Option configures Build.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	fallbackMessage string
	ruleTargets     map[string]string
}

// WithLogger sets the logger used to report warnings such as unreachable nodes.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFallbackMessage overrides the clarification text of the fallback response.
func WithFallbackMessage(msg string) Option {
	return func(o *options) {
		if msg != "" {
			o.fallbackMessage = msg
		}
	}
}

// WithRuleTargets makes Build verify that every intent rule target (keyed by rule name) resolves.
func WithRuleTargets(targets map[string]string) Option {
	return func(o *options) {
		o.ruleTargets = targets
	}
}

// Build loads every node from loader, parses and validates it.
// A graph that fails integrity checks is rejected with a *domain.GraphError.
func Build(loader ports.GraphLoader, opts ...Option) (*Graph, error) {
	o := options{
		logger:          logging.NewNop(),
		fallbackMessage: domain.DefaultFallbackMessage,
	}
	for _, opt := range opts {
		opt(&o)
	}

	keys, err := loader.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	sort.Strings(keys)
	o.logger.Debug("Loading dialogue graph", "nodes", len(keys))

	parser := compiler.NewParser()
	nodes := make([]domain.Node, 0, len(keys))
	for _, key := range keys {
		raw, err := loader.GetNode(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load node %q: %w", key, err)
		}
		node, err := parser.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", key, err)
		}
		nodes = append(nodes, *node)
	}

	return FromNodes(nodes, opts...)
}

// FromNodes validates already-parsed nodes and builds a graph from them.
func FromNodes(nodes []domain.Node, opts ...Option) (*Graph, error) {
	o := options{
		logger:          logging.NewNop(),
		fallbackMessage: domain.DefaultFallbackMessage,
	}
	for _, opt := range opts {
		opt(&o)
	}

	report := validator.ValidateGraph(nodes, domain.EntryNodeKey, o.ruleTargets)
	if err := report.Err(); err != nil {
		return nil, err
	}
	for _, key := range report.Unreachable {
		o.logger.Warn("Unreachable dialogue node", "key", key)
	}

	g := &Graph{nodes: make(map[string]domain.Node, len(nodes))}
	for _, n := range nodes {
		g.nodes[n.Key] = n.Clone()
		g.keys = append(g.keys, n.Key)
	}
	sort.Strings(g.keys)

	entry := g.nodes[domain.EntryNodeKey]
	g.fallback = domain.Node{
		Key:     domain.FallbackKey,
		Message: o.fallbackMessage,
		Options: entry.Clone().Options,
	}

	o.logger.Debug("Dialogue graph built", "nodes", len(g.keys))
	return g, nil
}

// Node looks up a node by key. A missing key is reported through the boolean.
func (g *Graph) Node(key string) (domain.Node, bool) {
	n, ok := g.nodes[key]
	if !ok {
		return domain.Node{}, false
	}
	return n.Clone(), true
}

// Resolve is Node plus the synthesized fallback response for domain.FallbackKey.
func (g *Graph) Resolve(key string) (domain.Node, bool) {
	if key == domain.FallbackKey {
		return g.Fallback(), true
	}
	return g.Node(key)
}

// Entry returns the welcome node.
func (g *Graph) Entry() domain.Node {
	return g.nodes[domain.EntryNodeKey].Clone()
}

// Fallback returns the clarification response, offering the entry node's options.
func (g *Graph) Fallback() domain.Node {
	return g.fallback.Clone()
}

// Keys returns the node keys in sorted order.
func (g *Graph) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Nodes returns a copy of every node, sorted by key.
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, g.nodes[k].Clone())
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.keys)
}
