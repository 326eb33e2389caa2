package ports

import (
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/intent"
)

// Assistant is the read-only surface of the engine used by stateless adapters (HTTP, MCP).
// None of its methods hold or mutate dialogue state.
type Assistant interface {
	// Classify maps free text to a target through the ordered intent rules.
	Classify(input string) intent.Result

	// Resolve returns the node for key, including the synthesized fallback response.
	Resolve(key string) (domain.Node, bool)

	// Inspect returns every node of the graph, sorted by key.
	Inspect() []domain.Node

	// Rules returns the intent rules in priority order.
	Rules() []intent.Rule
}
