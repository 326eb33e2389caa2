package ports

import "context"

// GraphLoader defines how the dialogue graph retrieves node definitions.
// This allows the storage layer (embedded catalog, Loam, Memory) to be decoupled.
type GraphLoader interface {
	// GetNode retrieves the raw definition of a node by key.
	// It returns the raw bytes (which the compiler will parse) or an error.
	GetNode(key string) ([]byte, error)

	// ListNodes returns the keys of every node available in the graph.
	ListNodes() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// Hosts use it to rebuild the graph between sessions; a running session keeps its graph.
type Watchable interface {
	// Watch returns a channel that receives the key of each changed node.
	Watch(ctx context.Context) (<-chan string, error)
}
