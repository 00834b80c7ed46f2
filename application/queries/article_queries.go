package queries

import (
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"
	"kbgraph/pkg/common"
	pkgerrors "kbgraph/pkg/errors"
)

// GetArticleQuery represents a query for a single article
type GetArticleQuery struct {
	Slug string `json:"slug"`
}

// Validate validates the query
func (q GetArticleQuery) Validate() error {
	return validateSlug(q.Slug)
}

// ListArticlesQuery lists articles, optionally filtered. When both filters are
// set an article must match both. A zero Pagination returns every match.
type ListArticlesQuery struct {
	Category   string                  `json:"category,omitempty"`
	Tag        string                  `json:"tag,omitempty"`
	Pagination common.PaginationParams `json:"pagination"`
}

// Validate validates the query
func (q ListArticlesQuery) Validate() error {
	p := q.Pagination
	if p.Page < 0 || p.PageSize < 0 || p.PageSize > common.MaxPageSize {
		return pkgerrors.NewValidationError("invalid pagination")
	}
	if p.PageSize > 0 && p.Page == 0 {
		return pkgerrors.NewValidationError("page is required when page_size is set")
	}
	return nil
}

// GetConnectedArticlesQuery resolves the declared connections of an article
type GetConnectedArticlesQuery struct {
	Slug string `json:"slug"`
}

// Validate validates the query
func (q GetConnectedArticlesQuery) Validate() error {
	return validateSlug(q.Slug)
}

// ListCategoriesQuery lists distinct categories
type ListCategoriesQuery struct{}

// Validate validates the query
func (q ListCategoriesQuery) Validate() error { return nil }

// ListTagsQuery lists distinct tags
type ListTagsQuery struct{}

// Validate validates the query
func (q ListTagsQuery) Validate() error { return nil }

// ArticleListResult is a list of articles. Total counts every match, not
// just the current page.
type ArticleListResult struct {
	Articles   []entities.Article     `json:"articles"`
	Total      int                    `json:"total"`
	Pagination *common.PaginationInfo `json:"pagination,omitempty"`
}

// NewArticleListResult wraps articles in a result
func NewArticleListResult(articles []entities.Article) *ArticleListResult {
	if articles == nil {
		articles = []entities.Article{}
	}
	return &ArticleListResult{Articles: articles, Total: len(articles)}
}

func validateSlug(slug string) error {
	if _, err := valueobjects.NewSlug(slug); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
