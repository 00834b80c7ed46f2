package handlers

import (
	"net/http"

	"kbgraph/application/queries"
	querybus "kbgraph/application/queries/bus"
	"kbgraph/pkg/common"
	pkgerrors "kbgraph/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ArticleHandler handles article-related HTTP requests
type ArticleHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(
	queryBus *querybus.QueryBus,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ArticleHandler {
	return &ArticleHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// ListArticles handles GET /articles?category=&tag=&page=&page_size=
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := queries.ListArticlesQuery{
		Category:   params.Get("category"),
		Tag:        params.Get("tag"),
		Pagination: common.ExtractPaginationParams(r),
	}

	h.ask(w, r, query)
}

// GetArticle handles GET /articles/{slug}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetArticleQuery{Slug: chi.URLParam(r, "slug")})
}

// GetConnectedArticles handles GET /articles/{slug}/connections
func (h *ArticleHandler) GetConnectedArticles(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetConnectedArticlesQuery{Slug: chi.URLParam(r, "slug")})
}

// ListCategories handles GET /categories
func (h *ArticleHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ListCategoriesQuery{})
}

// ListTags handles GET /tags
func (h *ArticleHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ListTagsQuery{})
}

func (h *ArticleHandler) ask(w http.ResponseWriter, r *http.Request, query querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := common.RespondJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
