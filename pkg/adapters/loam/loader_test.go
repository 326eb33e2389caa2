package loam

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/guidebot/internal/testutils"
	"github.com/aretw0/guidebot/pkg/dialogue"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/ports/tests"
)

func mustJSON(t *testing.T, n domain.Node) []byte {
	t.Helper()
	b, err := json.Marshal(n)
	require.NoError(t, err)
	return b
}

func TestLoader_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	docs := []core.Document{
		{ID: "welcome.md", Content: `---
key: welcome
options:
  - label: Pricing
    target: pricing
---
Hi there!`},
		{ID: "pricing.md", Content: `---
key: pricing
---
Plans start at $49.`},
	}
	for _, d := range docs {
		require.NoError(t, repo.Save(ctx, d))
	}

	setupData := map[string][]byte{
		"welcome": mustJSON(t, domain.Node{
			Key:     "welcome",
			Message: "Hi there!",
			Options: []domain.Option{{Label: "Pricing", Target: "pricing"}},
		}),
		"pricing": mustJSON(t, domain.Node{Key: "pricing", Message: "Plans start at $49."}),
	}

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	tests.GraphLoaderContractTest(t, loader, setupData)
}

func TestLoader_PolymorphicLinks(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"regulations.md": `---
options:
  - text: Frameworks
    to: privacy-frameworks.md
links:
  - https://gdpr-info.eu
  - label: DPIA template
    url: /toolkit/dpia
  - label: Partner portal
    url: /partners
    external: true
metadata:
  owner:
    team: legal
  tags: [gdpr, eu]
---
We cover the GDPR.`,
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	raw, err := loader.GetNode("regulations")
	require.NoError(t, err)

	var node domain.Node
	require.NoError(t, json.Unmarshal(raw, &node))

	assert.Equal(t, "regulations", node.Key)
	assert.Equal(t, "We cover the GDPR.", node.Message)
	assert.Equal(t, []domain.Option{{Label: "Frameworks", Target: "privacy-frameworks"}}, node.Options)
	assert.Equal(t, []domain.Link{
		{Label: "https://gdpr-info.eu", URL: "https://gdpr-info.eu", External: true},
		{Label: "DPIA template", URL: "/toolkit/dpia"},
		{Label: "Partner portal", URL: "/partners", External: true},
	}, node.Links)
	assert.Equal(t, "legal", node.Metadata["owner-team"])
	assert.Equal(t, "gdpr,eu", node.Metadata["tags"])
}

func TestLoader_ListNodes_NormalizesKeys(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"welcome.md":  "---\nid: welcome.md\n---\nHello",
		"pricing.json": `{"id": "pricing.json", "message": "Plans"}`,
		"support.md":  "---\nmessage: Reach us\n---\n",
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	keys, err := loader.ListNodes()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"welcome", "pricing", "support"}, keys)

	raw, err := loader.GetNode("pricing")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"key":"pricing"`)
	assert.Contains(t, string(raw), `"message":"Plans"`)
}

func TestLoader_ListNodes_DetectsCollisions(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"foo.md":   "---\nkey: foo\n---\nExplicit",
		"foo.json": `{"key": "foo", "message": "Also foo"}`,
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	_, err := loader.ListNodes()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateNode)
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_InvalidLink(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"welcome.md": "---\nlinks:\n  - label: Missing url\n---\nHi",
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	_, err := loader.GetNode("welcome")
	assert.ErrorContains(t, err, "missing url")
}

func TestOpen_BuildsGraph(t *testing.T) {
	dir, _ := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"welcome.md": "---\noptions:\n  - label: Pricing\n    target: pricing\n---\nHi!",
		"pricing.md": "Plans start at $49.",
	})

	loader, err := Open(dir)
	require.NoError(t, err)

	g, err := dialogue.Build(loader)
	require.NoError(t, err)
	assert.Equal(t, []string{"pricing", "welcome"}, g.Keys())
	assert.Equal(t, "1", g.Entry().Options[0].ID)
}
