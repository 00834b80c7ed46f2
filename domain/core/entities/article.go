package entities

import (
	"slices"

	"kbgraph/domain/core/valueobjects"
)

// Article is one compiled document record. It is the only persisted entity and
// is treated as immutable once the corpus has been compiled.
type Article struct {
	Slug        valueobjects.Slug `json:"slug" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	ShortTitle  string            `json:"shortTitle" validate:"required"`
	Category    string            `json:"category" validate:"required"`
	Tags        []string          `json:"tags"`
	Date        *string           `json:"date"`
	Excerpt     string            `json:"excerpt"`
	Connections []string          `json:"connections"`
	Content     string            `json:"content"`
}

// DisplayName returns the label used for graph nodes
func (a Article) DisplayName() string {
	if a.ShortTitle != "" {
		return a.ShortTitle
	}
	return a.Title
}

// HasTag reports whether the article carries the tag (case-sensitive)
func (a Article) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

// HasDate reports whether a publication date was authored
func (a Article) HasDate() bool {
	return a.Date != nil
}

// ConnectsTo reports whether the article declares a connection to slug
func (a Article) ConnectsTo(slug valueobjects.Slug) bool {
	return slices.Contains(a.Connections, slug.String())
}

// Clone returns a deep copy so callers cannot mutate shared state
func (a Article) Clone() Article {
	c := a
	c.Tags = cloneStrings(a.Tags)
	c.Connections = cloneStrings(a.Connections)
	if a.Date != nil {
		d := *a.Date
		c.Date = &d
	}
	return c
}

// Normalize replaces nil lists with empty ones so the record serializes as []
func (a *Article) Normalize() {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Connections == nil {
		a.Connections = []string{}
	}
}

// CloneAll deep-copies a list of articles
func CloneAll(articles []Article) []Article {
	out := make([]Article, len(articles))
	for i, a := range articles {
		out[i] = a.Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
