package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/guidebot/pkg/domain"
)

// GraphOverlay contains session state to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// Options controls what GenerateMermaid draws besides nodes and option edges.
type Options struct {
	// Rules maps intent rule names to target node keys. They are drawn from a
	// single free-text input node.
	Rules map[string]string
	// Links draws node links as dotted edges to leaf nodes.
	Links   bool
	Overlay *GraphOverlay
}

// GenerateMermaid produces a Mermaid flowchart from a list of nodes.
// It applies semantic styling:
// - Entry (welcome): ((Circle))
// - Fallback: {{Hexagon}}
// - Default: [Rectangle]
// Option buttons become labelled edges.
func GenerateMermaid(nodes []domain.Node, opts Options) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	linkN := 0
	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.Key)

		opener, closer := "[", "]"
		switch node.Key {
		case domain.EntryNodeKey:
			opener, closer = "((", "))"
		case domain.FallbackKey:
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, node.Key, closer)

		for _, opt := range node.Options {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escapeLabel(opt.Label), sanitizeMermaidID(opt.Target))
		}

		if !opts.Links {
			continue
		}
		for _, l := range node.Links {
			linkN++
			leaf := fmt.Sprintf("link_%d", linkN)
			shape := fmt.Sprintf("%s[\"%s\"]", leaf, escapeLabel(l.URL))
			if l.External {
				shape = fmt.Sprintf("%s>\"%s\"]", leaf, escapeLabel(l.URL))
			}
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", safeID, escapeLabel(l.Label), shape)
		}
	}

	if len(opts.Rules) > 0 {
		sb.WriteString("    input[/\"free text\"/]\n")
		names := make([]string, 0, len(opts.Rules))
		for name := range opts.Rules {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "    input -. \"%s\" .-> %s\n", escapeLabel(name), sanitizeMermaidID(opts.Rules[name]))
		}
	}

	if overlay := opts.Overlay; overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, key := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(key)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

// OverlayFromTranscript marks the nodes a session has shown, the last one as current.
func OverlayFromTranscript(entries []domain.Entry) *GraphOverlay {
	o := &GraphOverlay{}
	for _, e := range entries {
		if e.NodeKey == "" {
			continue
		}
		o.VisitedNodes = append(o.VisitedNodes, e.NodeKey)
		o.CurrentNode = e.NodeKey
	}
	return o
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
