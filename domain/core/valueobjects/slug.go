package valueobjects

import (
	"errors"
	"path/filepath"
	"strings"
)

// Slug is the unique identifier of an article, derived from its source filename.
// It is the only join key between articles, graph nodes and links.
type Slug string

// SlugFromPath derives a slug from a document path by stripping the directory
// and the given extension.
func SlugFromPath(path, ext string) Slug {
	return Slug(strings.TrimSuffix(filepath.Base(path), ext))
}

// NewSlug creates a Slug from an existing string
func NewSlug(s string) (Slug, error) {
	if s == "" {
		return "", errors.New("slug cannot be empty")
	}
	if strings.ContainsAny(s, `/\`) {
		return "", errors.New("slug cannot contain path separators")
	}
	return Slug(s), nil
}

// String returns the string representation of the slug
func (s Slug) String() string {
	return string(s)
}

// IsZero checks if the slug is empty
func (s Slug) IsZero() bool {
	return s == ""
}
