package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/guidebot/pkg/domain"
)

// Loader implements ports.GraphLoader using an in-memory map.
type Loader struct {
	nodes map[string][]byte
}

// NewLoader creates a Loader from raw node definitions (JSON strings) keyed by node key.
func NewLoader(data map[string]string) *Loader {
	nodes := make(map[string][]byte, len(data))
	for k, v := range data {
		nodes[k] = []byte(v)
	}
	return &Loader{
		nodes: nodes,
	}
}

// NewFromNodes creates a Loader from domain objects, serializing them the way
// a file-backed loader would hand them to the compiler.
func NewFromNodes(nodes ...domain.Node) (*Loader, error) {
	data := make(map[string][]byte, len(nodes))
	for _, n := range nodes {
		if n.Key == "" {
			return nil, fmt.Errorf("node missing key")
		}
		if _, dup := data[n.Key]; dup {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateNode, n.Key)
		}
		bytes, err := json.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal node %s: %w", n.Key, err)
		}
		data[n.Key] = bytes
	}
	return &Loader{nodes: data}, nil
}

// GetNode retrieves the raw definition of a node by key.
func (l *Loader) GetNode(key string) ([]byte, error) {
	content, ok := l.nodes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, key)
	}
	return content, nil
}

// ListNodes returns all available node keys.
func (l *Loader) ListNodes() ([]string, error) {
	keys := make([]string, 0, len(l.nodes))
	for k := range l.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
