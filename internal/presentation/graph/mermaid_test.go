package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/guidebot/internal/presentation/graph"
	"github.com/aretw0/guidebot/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []domain.Node
		opts     graph.Options
		contains []string
		excludes []string
	}{
		{
			name: "Node Shapes",
			nodes: []domain.Node{
				{Key: "welcome"},
				{Key: "fallback"},
				{Key: "pricing"},
			},
			contains: []string{
				"welcome((\"welcome\"))",
				"fallback{{\"fallback\"}}",
				"pricing[\"pricing\"]",
			},
		},
		{
			name: "ID Sanitization",
			nodes: []domain.Node{
				{Key: "toolkit/dpia.md"},
				{Key: "data-rights"},
			},
			contains: []string{
				"toolkit_dpia_md[\"toolkit/dpia.md\"]",
				"data_rights[\"data-rights\"]",
			},
		},
		{
			name: "Option Edges",
			nodes: []domain.Node{
				{Key: "welcome", Options: []domain.Option{
					{Label: "Data \"Rights\"", Target: "data-rights"},
				}},
			},
			contains: []string{
				"welcome -- \"Data 'Rights'\" --> data_rights",
			},
		},
		{
			name: "Links Hidden By Default",
			nodes: []domain.Node{
				{Key: "regulations", Links: []domain.Link{{Label: "GDPR", URL: "https://gdpr-info.eu", External: true}}},
			},
			excludes: []string{"gdpr-info.eu"},
		},
		{
			name: "Links",
			nodes: []domain.Node{
				{Key: "regulations", Links: []domain.Link{
					{Label: "GDPR", URL: "https://gdpr-info.eu", External: true},
					{Label: "Checklists", URL: "/toolkit/checklists"},
				}},
			},
			opts: graph.Options{Links: true},
			contains: []string{
				"regulations -. \"GDPR\" .-> link_1>\"https://gdpr-info.eu\"]",
				"regulations -. \"Checklists\" .-> link_2[\"/toolkit/checklists\"]",
			},
		},
		{
			name:  "Rules",
			nodes: []domain.Node{{Key: "regulations"}},
			opts:  graph.Options{Rules: map[string]string{"gdpr": "regulations", "fallback": "fallback"}},
			contains: []string{
				"input[/\"free text\"/]",
				"input -. \"fallback\" .-> fallback\n    input -. \"gdpr\" .-> regulations",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, tt.opts)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	entries := []domain.Entry{
		{Sender: domain.SenderBot, NodeKey: "welcome"},
		{Sender: domain.SenderUser, Text: "gdpr"},
		{Sender: domain.SenderBot, NodeKey: "regulations"},
		{Sender: domain.SenderBot, NodeKey: "welcome"},
	}
	overlay := graph.OverlayFromTranscript(entries)
	assert.Equal(t, "welcome", overlay.CurrentNode)

	got := graph.GenerateMermaid([]domain.Node{{Key: "welcome"}, {Key: "regulations"}}, graph.Options{Overlay: overlay})
	assert.Contains(t, got, "classDef visited")
	assert.Equal(t, 1, strings.Count(got, "class welcome visited;"))
	assert.Contains(t, got, "class regulations visited;")
	assert.Contains(t, got, "class welcome current;")
}
