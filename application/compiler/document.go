package compiler

import (
	"errors"
	"unicode/utf8"

	"kbgraph/domain/config"
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"
)

// ErrInvalidEncoding marks a document that is not UTF-8 and cannot be defaulted
var ErrInvalidEncoding = errors.New("document is not valid UTF-8")

// ParseDocument derives an article from raw document text.
//
// A missing front-matter block is not a problem. A malformed one yields an
// article whose fields all carry their defaults together with a non-nil
// degraded error; the article is still usable. Only text that is not valid
// UTF-8 is rejected outright with ErrInvalidEncoding.
func ParseDocument(slug valueobjects.Slug, raw []byte, cfg *config.DomainConfig) (article entities.Article, degraded error, err error) {
	cfg = cfg.OrDefault()

	if !utf8.Valid(raw) {
		return entities.Article{}, nil, ErrInvalidEncoding
	}

	frontmatter, body, found, splitErr := splitFrontmatter(string(raw))

	var meta metadata
	switch {
	case splitErr != nil:
		degraded = splitErr
	case found:
		meta, degraded = parseMetadata(frontmatter)
	}

	return buildArticle(slug, meta, body, cfg), degraded, nil
}

// buildArticle applies the field defaults to decoded metadata
func buildArticle(slug valueobjects.Slug, meta metadata, body string, cfg *config.DomainConfig) entities.Article {
	title := meta.Title
	if title == "" {
		title = slug.String()
	}

	category := meta.Category
	if category == "" {
		category = cfg.DefaultCategory
	}

	var date *string
	if meta.Date != "" {
		d := meta.Date
		date = &d
	}

	article := entities.Article{
		Slug:        slug,
		Title:       title,
		ShortTitle:  valueobjects.DeriveShortTitle(meta.ShortTitle, meta.Title, slug, cfg),
		Category:    category,
		Tags:        []string(meta.Tags),
		Date:        date,
		Excerpt:     valueobjects.DeriveExcerpt(meta.Excerpt, body, cfg),
		Connections: []string(meta.Connections),
		Content:     body,
	}
	article.Normalize()

	return article
}
