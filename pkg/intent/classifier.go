package intent

import (
	"strings"

	"github.com/aretw0/guidebot/pkg/domain"
)

// FallbackRuleName names the always-matching rule that terminates every classifier.
const FallbackRuleName = "fallback"

// Predicate decides whether a rule applies to lower-cased input.
type Predicate func(normalized string) bool

// Rule pairs a predicate with the node key it routes to.
type Rule struct {
	Name   string
	Target string
	Match  Predicate

	// Keywords is informational (introspection, docs); Match is authoritative.
	Keywords []string
}

// Result is the outcome of a classification.
type Result struct {
	Target   string `json:"target"`
	Rule     string `json:"rule"`
	Fallback bool   `json:"fallback"`
}

// ContainsAny matches when the input contains any of the keywords as a substring.
// Keywords are lower-cased once, at construction.
func ContainsAny(keywords ...string) Predicate {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k == "" {
			continue
		}
		lowered = append(lowered, strings.ToLower(k))
	}
	return func(normalized string) bool {
		for _, k := range lowered {
			if strings.Contains(normalized, k) {
				return true
			}
		}
		return false
	}
}

// Always matches every input.
func Always() Predicate {
	return func(string) bool { return true }
}

// KeywordRule builds a substring rule from a keyword list.
func KeywordRule(name, target string, keywords ...string) Rule {
	return Rule{
		Name:     name,
		Target:   target,
		Match:    ContainsAny(keywords...),
		Keywords: keywords,
	}
}

// Classifier evaluates rules strictly in the order given.
// The order encodes domain salience, so reordering rules is a policy change.
type Classifier struct {
	rules []Rule
}

// New creates a classifier. An always-true rule targeting the fallback response
// is appended, so classification is total.
func New(rules ...Rule) *Classifier {
	list := make([]Rule, 0, len(rules)+1)
	for _, r := range rules {
		if r.Match == nil {
			continue
		}
		list = append(list, r)
	}
	list = append(list, Rule{
		Name:   FallbackRuleName,
		Target: domain.FallbackKey,
		Match:  Always(),
	})
	return &Classifier{rules: list}
}

// Classify lower-cases the input and returns the target of the first matching rule.
// No other normalization is applied.
func (c *Classifier) Classify(input string) Result {
	normalized := strings.ToLower(input)
	for _, r := range c.rules {
		if r.Match(normalized) {
			return Result{
				Target:   r.Target,
				Rule:     r.Name,
				Fallback: r.Target == domain.FallbackKey,
			}
		}
	}
	// Unreachable: the terminating rule always matches.
	return Result{Target: domain.FallbackKey, Rule: FallbackRuleName, Fallback: true}
}

// Rules returns a copy of the rules in priority order, fallback included.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Targets returns the distinct rule targets keyed by rule name, for graph validation.
func (c *Classifier) Targets() map[string]string {
	targets := make(map[string]string, len(c.rules))
	for _, r := range c.rules {
		targets[r.Name] = r.Target
	}
	return targets
}
