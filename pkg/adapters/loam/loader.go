package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/guidebot/pkg/domain"
)

// Loader adapts a Loam repository (one file per node) to ports.GraphLoader.
type Loader struct {
	Repo *loam.TypedRepository[NodeMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[NodeMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[NodeMetadata](repo)), nil
}

// GetNode loads a node file and re-encodes it as the JSON node definition the compiler expects.
func (l *Loader) GetNode(key string) ([]byte, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", key, err)
	}

	node, err := buildNode(doc.ID, doc.Data, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", key, err)
	}

	bytes, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node data: %w", err)
	}
	return bytes, nil
}

func buildNode(docID string, meta NodeMetadata, content string) (domain.Node, error) {
	node := domain.Node{
		Key:     nodeKey(docID, meta),
		Message: strings.TrimSpace(meta.Message),
	}
	if node.Message == "" {
		node.Message = strings.TrimSpace(content)
	}

	for _, o := range meta.Options {
		label := o.Label
		if label == "" {
			label = o.Text
		}
		target := o.Target
		if target == "" {
			target = o.To
		}
		node.Options = append(node.Options, domain.Option{
			ID:     o.ID,
			Label:  label,
			Target: trimExtension(target),
		})
	}

	links, err := decodeLinks(meta.Links)
	if err != nil {
		return domain.Node{}, err
	}
	node.Links = links

	if meta.Metadata != nil {
		node.Metadata = flattenMetadata(meta.Metadata)
	}
	return node, nil
}

// decodeLinks resolves polymorphic link definitions (bare URL strings or maps).
func decodeLinks(raw []any) ([]domain.Link, error) {
	links := make([]domain.Link, 0, len(raw))
	for i, item := range raw {
		var link domain.Link
		switch v := item.(type) {
		case string:
			link = domain.Link{Label: v, URL: v}
		case map[string]any, map[any]any:
			if err := mapstructure.Decode(v, &link); err != nil {
				return nil, fmt.Errorf("failed to decode link %d: %w", i+1, err)
			}
			if link.Label == "" {
				link.Label = link.URL
			}
		default:
			return nil, fmt.Errorf("invalid link definition type: %T", v)
		}
		if link.URL == "" {
			return nil, fmt.Errorf("link %d missing url", i+1)
		}
		link.External = link.External || isAbsoluteURL(link.URL)
		links = append(links, link)
	}
	if len(links) == 0 {
		return nil, nil
	}
	return links, nil
}

func isAbsoluteURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "mailto:")
}

func nodeKey(docID string, meta NodeMetadata) string {
	raw := meta.Key
	if raw == "" {
		raw = meta.ID
	}
	if raw == "" {
		raw = docID
	}
	return trimExtension(raw)
}

// ListNodes lists every node key in the repository.
// Two files resolving to the same key are rejected.
func (l *Loader) ListNodes() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	keys := make([]string, 0, len(docs))

	for _, doc := range docs {
		key := nodeKey(doc.ID, doc.Data)
		if existingPath, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: '%s' is defined in both '%s' and '%s'", domain.ErrDuplicateNode, key, existingPath, doc.ID)
		}
		seen[key] = doc.ID
		keys = append(keys, key)
	}
	return keys, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// flattenMetadata converts nested frontmatter into a flat map using dash-joined keys.
func flattenMetadata(src map[string]any) map[string]string {
	res := make(map[string]string)
	var visit func(prefix string, v any)

	visit = func(prefix string, v any) {
		switch val := v.(type) {
		case map[string]any:
			for k, sub := range val {
				visit(joinKey(prefix, k), sub)
			}
		case map[any]any:
			for k, sub := range val {
				visit(joinKey(prefix, fmt.Sprintf("%v", k)), sub)
			}
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			res[prefix] = strings.Join(parts, ",")
		default:
			if prefix != "" {
				res[prefix] = fmt.Sprintf("%v", val)
			}
		}
	}

	for k, v := range src {
		visit(k, v)
	}
	return res
}

func joinKey(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "-" + k
}
