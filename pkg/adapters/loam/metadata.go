package loam

// NodeMetadata is the frontmatter (or JSON document) of a dialogue node file.
// The markdown body becomes the node message unless "message" is set.
type NodeMetadata struct {
	ID      string `json:"id" mapstructure:"id"`
	Key     string `json:"key" mapstructure:"key"`
	Message string `json:"message" mapstructure:"message"`

	Options []LoaderOption `json:"options" mapstructure:"options"`

	// Links items are either a bare URL string or a {label, url, external} map.
	Links []any `json:"links" mapstructure:"links"`

	Metadata map[string]any `json:"metadata" mapstructure:"metadata"`
}

// LoaderOption accepts both the canonical (label/target) and the short (text/to) spelling.
type LoaderOption struct {
	ID     string `json:"id" mapstructure:"id"`
	Label  string `json:"label" mapstructure:"label"`
	Text   string `json:"text" mapstructure:"text"`
	Target string `json:"target" mapstructure:"target"`
	To     string `json:"to" mapstructure:"to"`
}
