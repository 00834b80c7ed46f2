package handlers

import (
	"context"
	"fmt"

	"kbgraph/application/queries"
	"kbgraph/application/services"
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"
	"kbgraph/pkg/common"
	pkgerrors "kbgraph/pkg/errors"

	"go.uber.org/zap"
)

// ArticleQueryHandler answers article queries from the serving dataset
type ArticleQueryHandler struct {
	registry *services.Registry
	logger   *zap.Logger
}

// NewArticleQueryHandler creates a new article query handler
func NewArticleQueryHandler(registry *services.Registry, logger *zap.Logger) *ArticleQueryHandler {
	return &ArticleQueryHandler{
		registry: registry,
		logger:   logger,
	}
}

// GetArticle returns one article
func (h *ArticleQueryHandler) GetArticle(ctx context.Context, query queries.GetArticleQuery) (*entities.Article, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}

	article, ok := svc.GetArticle(valueobjects.Slug(query.Slug))
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("article %q", query.Slug))
	}
	return &article, nil
}

// ListArticles returns all articles, or those matching the filters
func (h *ArticleQueryHandler) ListArticles(ctx context.Context, query queries.ListArticlesQuery) (*queries.ArticleListResult, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}

	var articles []entities.Article
	switch {
	case query.Category != "":
		articles = svc.GetArticlesByCategory(query.Category)
	case query.Tag != "":
		articles = svc.GetArticlesByTag(query.Tag)
	default:
		articles = svc.GetAllArticles()
	}

	if query.Category != "" && query.Tag != "" {
		filtered := articles[:0]
		for _, a := range articles {
			if a.HasTag(query.Tag) {
				filtered = append(filtered, a)
			}
		}
		articles = filtered
	}

	p := query.Pagination
	if !p.Enabled() {
		return queries.NewArticleListResult(articles), nil
	}

	start, end := p.Window(len(articles))
	result := queries.NewArticleListResult(articles[start:end])
	result.Total = len(articles)
	result.Pagination = common.BuildPaginationMeta(p.Page, p.PageSize, len(articles))
	return result, nil
}

// GetConnectedArticles resolves an article's declared connections. The
// article itself must exist; dangling connections are dropped.
func (h *ArticleQueryHandler) GetConnectedArticles(ctx context.Context, query queries.GetConnectedArticlesQuery) (*queries.ArticleListResult, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}

	slug := valueobjects.Slug(query.Slug)
	if _, ok := svc.GetArticle(slug); !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("article %q", query.Slug))
	}

	return queries.NewArticleListResult(svc.GetConnectedArticles(slug)), nil
}

// ListCategories returns distinct categories with counts
func (h *ArticleQueryHandler) ListCategories(ctx context.Context, _ queries.ListCategoriesQuery) ([]services.Facet, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}
	return svc.Categories(), nil
}

// ListTags returns distinct tags with counts
func (h *ArticleQueryHandler) ListTags(ctx context.Context, _ queries.ListTagsQuery) ([]services.Facet, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}
	return svc.Tags(), nil
}

func currentService(registry *services.Registry) (*services.ArticleService, error) {
	svc := registry.Current()
	if svc == nil {
		return nil, pkgerrors.NewUnavailableError("article dataset")
	}
	return svc, nil
}
