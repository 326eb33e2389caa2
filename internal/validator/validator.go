package validator

import (
	"fmt"
	"sort"

	"github.com/aretw0/guidebot/pkg/domain"
)

// Report is the outcome of a graph integrity pass.
// Errors make the graph unusable; Unreachable is advisory.
type Report struct {
	Errors      []error
	Unreachable []string
}

// Err returns a *domain.GraphError when the report holds violations, nil otherwise.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &domain.GraphError{Errors: r.Errors}
}

// ValidateGraph checks duplicate keys, the entry node, option targets and
// (optionally) intent rule targets, then crawls from entry to find unreachable nodes.
// The fallback key is reserved: it is always a valid target and never a node.
func ValidateGraph(nodes []domain.Node, entry string, ruleTargets map[string]string) Report {
	var report Report

	index := make(map[string]domain.Node, len(nodes))
	for _, n := range nodes {
		if n.Key == domain.FallbackKey {
			report.Errors = append(report.Errors, fmt.Errorf("%w: %q", domain.ErrReservedKey, n.Key))
			continue
		}
		if _, dup := index[n.Key]; dup {
			report.Errors = append(report.Errors, fmt.Errorf("%w: %q", domain.ErrDuplicateNode, n.Key))
			continue
		}
		index[n.Key] = n
	}

	resolves := func(target string) bool {
		if target == domain.FallbackKey {
			return true
		}
		_, ok := index[target]
		return ok
	}

	if _, ok := index[entry]; !ok {
		report.Errors = append(report.Errors, fmt.Errorf("%w: %q", domain.ErrMissingEntryNode, entry))
	}

	for _, key := range sortedKeys(index) {
		for _, target := range index[key].Targets() {
			if !resolves(target) {
				report.Errors = append(report.Errors, &domain.ReferenceError{From: key, Target: target})
			}
		}
	}

	ruleNames := make([]string, 0, len(ruleTargets))
	for name := range ruleTargets {
		ruleNames = append(ruleNames, name)
	}
	sort.Strings(ruleNames)
	for _, name := range ruleNames {
		if target := ruleTargets[name]; !resolves(target) {
			report.Errors = append(report.Errors, &domain.ReferenceError{From: "rule:" + name, Target: target})
		}
	}

	// Crawl
	visited := make(map[string]bool, len(index))
	queue := []string{entry}
	for _, target := range ruleTargets {
		queue = append(queue, target)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		node, ok := index[current]
		if !ok {
			continue
		}
		for _, target := range node.Targets() {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	for _, key := range sortedKeys(index) {
		if !visited[key] {
			report.Unreachable = append(report.Unreachable, key)
		}
	}
	return report
}

func sortedKeys(m map[string]domain.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
