package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/guidebot/pkg/adapters/memory"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/intent"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// RuleSpec is the serialized form of a keyword intent rule.
type RuleSpec struct {
	Name     string   `yaml:"name"`
	Target   string   `yaml:"target"`
	Keywords []string `yaml:"keywords"`
}

// Catalog is a complete assistant definition: nodes, ordered rules and fallback text.
type Catalog struct {
	FallbackMessage string        `yaml:"fallback_message"`
	Rules           []RuleSpec    `yaml:"rules"`
	Nodes           []domain.Node `yaml:"nodes"`
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Raw returns the embedded catalog source.
func Raw() []byte {
	return append([]byte(nil), defaultCatalog...)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i, r := range c.Rules {
		if r.Name == "" || r.Target == "" {
			return nil, fmt.Errorf("rule %d: name and target are required", i+1)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %q: at least one keyword is required", r.Name)
		}
	}
	return &c, nil
}

// Loader exposes the catalog nodes as a ports.GraphLoader.
func (c *Catalog) Loader() (*memory.Loader, error) {
	return memory.NewFromNodes(c.Nodes...)
}

// Classifier builds the intent classifier, preserving rule order.
func (c *Catalog) Classifier() *intent.Classifier {
	rules := make([]intent.Rule, 0, len(c.Rules))
	for _, r := range c.Rules {
		rules = append(rules, intent.KeywordRule(r.Name, r.Target, r.Keywords...))
	}
	return intent.New(rules...)
}
