package dsl

import (
	"fmt"

	"github.com/aretw0/guidebot/pkg/adapters/memory"
	"github.com/aretw0/guidebot/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(key string) *NodeBuilder {
	if nb, ok := b.nodes[key]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			Key: key,
		},
		builder: b,
	}
	b.nodes[key] = nb
	b.order = append(b.order, key)
	return nb
}

// Nodes returns the nodes in the order they were added.
func (b *Builder) Nodes() []domain.Node {
	nodes := make([]domain.Node, 0, len(b.order))
	for _, key := range b.order {
		nodes = append(nodes, b.nodes[key].node.Clone())
	}
	return nodes
}

// Build compiles the graph into a memory.Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	loader, err := memory.NewFromNodes(b.Nodes()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
