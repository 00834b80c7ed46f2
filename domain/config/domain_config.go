package config

// DomainConfig holds the content rules applied when compiling documents and
// assembling the graph.
type DomainConfig struct {
	// Corpus rules
	DocumentExtension string `yaml:"document_extension" validate:"required,startswith=."`
	DefaultCategory   string `yaml:"default_category" validate:"required"`

	// Derived field rules, counted in runes
	ShortTitleThreshold int    `yaml:"short_title_threshold" validate:"gtefield=ShortTitleLength"`
	ShortTitleLength    int    `yaml:"short_title_length" validate:"min=1"`
	ShortTitleEllipsis  string `yaml:"short_title_ellipsis"`
	ExcerptLength       int    `yaml:"excerpt_length" validate:"min=0"`
	ExcerptEllipsis     string `yaml:"excerpt_ellipsis"`

	// MaxTags caps tags per article; zero means no limit
	MaxTags int `yaml:"max_tags" validate:"min=0"`

	// Graph rules
	NodeSize   int     `yaml:"node_size" validate:"min=1"`
	LinkWeight float64 `yaml:"link_weight" validate:"gt=0"`
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		DocumentExtension: ".md",
		DefaultCategory:   "uncategorized",

		ShortTitleThreshold: 28,
		ShortTitleLength:    24,
		ShortTitleEllipsis:  "...",
		ExcerptLength:       200,
		ExcerptEllipsis:     "...",

		NodeSize:   8,
		LinkWeight: 1,
	}
}

// OrDefault returns c, or the default configuration when c is nil
func (c *DomainConfig) OrDefault() *DomainConfig {
	if c == nil {
		return DefaultDomainConfig()
	}
	return c
}
