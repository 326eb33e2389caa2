package compiler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/guidebot/pkg/domain"
)

// Parser is responsible for converting raw loader bytes into a Node.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a JSON node definition.
// Missing option IDs are derived from their position so every option stays addressable.
func (p *Parser) Parse(data []byte) (*domain.Node, error) {
	var node domain.Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse node: %w", err)
	}
	node.Key = strings.TrimSpace(node.Key)
	if node.Key == "" {
		return nil, fmt.Errorf("node missing key")
	}

	for i := range node.Options {
		if node.Options[i].ID == "" {
			node.Options[i].ID = strconv.Itoa(i + 1)
		}
		if node.Options[i].Target == "" {
			return nil, fmt.Errorf("node %q: option %q has no target", node.Key, node.Options[i].Label)
		}
	}
	for i, l := range node.Links {
		if l.URL == "" {
			return nil, fmt.Errorf("node %q: link %d has no url", node.Key, i+1)
		}
		if l.Label == "" {
			node.Links[i].Label = l.URL
		}
	}
	return &node, nil
}
