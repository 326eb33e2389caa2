package dsl

import (
	"strconv"

	"github.com/aretw0/guidebot/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Say sets the message of the node.
func (n *NodeBuilder) Say(message string) *NodeBuilder {
	n.node.Message = message
	return n
}

// Option appends a selectable reply pointing at target.
// Option IDs are positional ("1", "2", ...).
func (n *NodeBuilder) Option(label, target string) *NodeBuilder {
	n.node.Options = append(n.node.Options, domain.Option{
		ID:     strconv.Itoa(len(n.node.Options) + 1),
		Label:  label,
		Target: target,
	})
	return n
}

// Link appends an internal route link.
func (n *NodeBuilder) Link(label, path string) *NodeBuilder {
	n.node.Links = append(n.node.Links, domain.Link{Label: label, URL: path})
	return n
}

// External appends a link to an absolute URL outside the site.
func (n *NodeBuilder) External(label, url string) *NodeBuilder {
	n.node.Links = append(n.node.Links, domain.Link{Label: label, URL: url, External: true})
	return n
}

// Meta attaches an adapter hint to the node.
func (n *NodeBuilder) Meta(key, value string) *NodeBuilder {
	if n.node.Metadata == nil {
		n.node.Metadata = make(map[string]string)
	}
	n.node.Metadata[key] = value
	return n
}

// Add starts a sibling node; it allows chaining whole graphs in one expression.
func (n *NodeBuilder) Add(key string) *NodeBuilder {
	return n.builder.Add(key)
}
