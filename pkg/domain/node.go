package domain

// Node is a named unit of the conversation graph.
// Nodes are built once when the graph is loaded and never mutated afterwards.
type Node struct {
	Key     string `json:"key" yaml:"key"`
	Message string `json:"message" yaml:"message"`

	// Options are the selectable replies offered with the message, in display order.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Links point at resources related to the message, in display order.
	Links []Link `json:"links,omitempty" yaml:"links,omitempty"`

	// Metadata allows for extensible key-value pairs (e.g. source file of a node).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option is a button-like reply that jumps straight to another node.
type Option struct {
	ID     string `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Target string `json:"target" yaml:"target"`
}

// Link is a resource attached to a node.
// Internal links carry a client route path, external links an absolute URL.
type Link struct {
	Label    string `json:"label" yaml:"label" mapstructure:"label"`
	URL      string `json:"url" yaml:"url" mapstructure:"url"`
	External bool   `json:"external,omitempty" yaml:"external,omitempty" mapstructure:"external"`
}

// Clone returns a deep copy so callers can never alias the graph's slices.
func (n Node) Clone() Node {
	out := n
	if n.Options != nil {
		out.Options = append([]Option(nil), n.Options...)
	}
	if n.Links != nil {
		out.Links = append([]Link(nil), n.Links...)
	}
	if n.Metadata != nil {
		out.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Targets returns the node keys referenced by the node's options.
func (n Node) Targets() []string {
	targets := make([]string, 0, len(n.Options))
	for _, opt := range n.Options {
		targets = append(targets, opt.Target)
	}
	return targets
}
