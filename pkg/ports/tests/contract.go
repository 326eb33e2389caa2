package tests

import (
	"testing"

	"github.com/aretw0/guidebot/pkg/ports"
)

// GraphLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.GraphLoader.
func GraphLoaderContractTest(t *testing.T, loader ports.GraphLoader, setupData map[string][]byte) {
	t.Helper()

	t.Run("GetNode_Success", func(t *testing.T) {
		for key, expectedContent := range setupData {
			content, err := loader.GetNode(key)
			if err != nil {
				t.Fatalf("unexpected error getting node %s: %v", key, err)
			}
			if string(content) != string(expectedContent) {
				t.Errorf("content mismatch for %s. got %q, want %q", key, content, expectedContent)
			}
		}
	})

	t.Run("GetNode_NotFound", func(t *testing.T) {
		_, err := loader.GetNode("non-existent-node")
		if err == nil {
			t.Error("expected error for non-existent node, got nil")
		}
	})

	t.Run("ListNodes", func(t *testing.T) {
		keys, err := loader.ListNodes()
		if err != nil {
			t.Fatalf("unexpected error listing nodes: %v", err)
		}

		if len(keys) != len(setupData) {
			t.Errorf("expected %d nodes, got %d", len(setupData), len(keys))
		}

		lookup := make(map[string]bool)
		for _, key := range keys {
			lookup[key] = true
		}

		for key := range setupData {
			if !lookup[key] {
				t.Errorf("node %s missing from list", key)
			}
		}
	})
}
