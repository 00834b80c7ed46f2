package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kbgraph/application/queries/bus"
	"kbgraph/application/queries/handlers"
	"kbgraph/application/services"
	"kbgraph/domain/core/aggregates"
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"
	pkgerrors "kbgraph/pkg/errors"
	"kbgraph/pkg/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type observedRequest struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	requests []observedRequest
}

func (m *fakeMetrics) ObserveHTTP(method, route string, status int, _ time.Duration) {
	m.requests = append(m.requests, observedRequest{method, route, status})
}

func (m *fakeMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics\n"))
	})
}

func article(slug, title, category string, tags, connections []string) entities.Article {
	a := entities.Article{
		Slug:        valueobjects.Slug(slug),
		Title:       title,
		ShortTitle:  title,
		Category:    category,
		Tags:        tags,
		Connections: connections,
		Content:     "<b>" + title + "</b>",
	}
	a.Normalize()
	return a
}

func setupRouter(t *testing.T, loaded bool, metrics *fakeMetrics) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	registry := services.NewRegistry(nil, nil, nil, logger)
	if loaded {
		curated, err := valueobjects.NewCuratedSet(1, []valueobjects.TopicPair{
			{Source: "sqli", Target: "xss"},
		})
		require.NoError(t, err)

		registry.Swap(services.NewArticleService([]entities.Article{
			article("xss", "Cross-Site Scripting", "web", []string{"injection"}, []string{"csrf", "ghost"}),
			article("csrf", "Cross-Site Request Forgery", "web", []string{"browser"}, nil),
			article("sqli", "SQL Injection", "database", []string{"injection"}, nil),
			article("island", "Island", "misc", nil, nil),
		}, curated, nil))
	}

	queryBus := bus.NewQueryBus()
	require.NoError(t, handlers.RegisterAll(queryBus, registry, logger))

	opts := Options{EnableCORS: true}
	if metrics != nil {
		opts.Metrics = metrics
	}

	return NewRouter(queryBus, registry, pkgerrors.NewErrorHandler(logger, false), opts, logger).Setup()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type articleList struct {
	Articles   []entities.Article `json:"articles"`
	Total      int                `json:"total"`
	Pagination *struct {
		Page       int  `json:"page"`
		TotalPages int  `json:"total_pages"`
		HasNext    bool `json:"has_next"`
	} `json:"pagination"`
}

func TestRouter_Health(t *testing.T) {
	h := setupRouter(t, false, nil)

	rec := get(t, h, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestRouter_Ready(t *testing.T) {
	t.Run("not loaded", func(t *testing.T) {
		rec := get(t, setupRouter(t, false, nil), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("loaded", func(t *testing.T) {
		rec := get(t, setupRouter(t, true, nil), "/ready")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]interface{}](t, rec)
		assert.Equal(t, "ready", body["status"])
		assert.EqualValues(t, 4, body["articles"])
		assert.EqualValues(t, 1, body["curated_version"])
		assert.NotEmpty(t, body["loaded_at"])
	})
}

func TestRouter_Articles(t *testing.T) {
	h := setupRouter(t, true, nil)

	tests := []struct {
		name   string
		target string
		status int
		slugs  []string
	}{
		{"all", "/api/v1/articles", http.StatusOK, []string{"xss", "csrf", "sqli", "island"}},
		{"by category", "/api/v1/articles?category=web", http.StatusOK, []string{"xss", "csrf"}},
		{"by tag", "/api/v1/articles?tag=injection", http.StatusOK, []string{"xss", "sqli"}},
		{"category and tag", "/api/v1/articles?category=database&tag=injection", http.StatusOK, []string{"sqli"}},
		{"case sensitive", "/api/v1/articles?category=Web", http.StatusOK, []string{}},
		{"connections", "/api/v1/articles/xss/connections", http.StatusOK, []string{"csrf"}},
		{"no connections", "/api/v1/articles/island/connections", http.StatusOK, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec := get(t, h, tt.target)

			// Assert
			require.Equal(t, tt.status, rec.Code)
			list := decode[articleList](t, rec)
			require.NotNil(t, list.Articles, "articles must encode as []")
			slugs := make([]string, 0, len(list.Articles))
			for _, a := range list.Articles {
				slugs = append(slugs, a.Slug.String())
			}
			assert.Equal(t, tt.slugs, slugs)
			assert.Nil(t, list.Pagination)
		})
	}
}

func TestRouter_ArticlesPagination(t *testing.T) {
	h := setupRouter(t, true, nil)

	rec := get(t, h, "/api/v1/articles?page=1&page_size=3")

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[articleList](t, rec)
	assert.Len(t, list.Articles, 3)
	assert.Equal(t, 4, list.Total)
	require.NotNil(t, list.Pagination)
	assert.Equal(t, 2, list.Pagination.TotalPages)
	assert.True(t, list.Pagination.HasNext)
}

func TestRouter_ArticlesPaginationBounds(t *testing.T) {
	h := setupRouter(t, true, nil)

	t.Run("page far past the end is empty", func(t *testing.T) {
		// Act
		rec := get(t, h, "/api/v1/articles?page=922337203685477581&page_size=100")

		// Assert
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		list := decode[articleList](t, rec)
		assert.Empty(t, list.Articles)
		assert.Equal(t, 4, list.Total)
		require.NotNil(t, list.Pagination)
		assert.False(t, list.Pagination.HasNext)
	})

	t.Run("page_size without page is rejected", func(t *testing.T) {
		// Act
		rec := get(t, h, "/api/v1/articles?page_size=2")

		// Assert
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[pkgerrors.ErrorResponse](t, rec)
		assert.Equal(t, string(pkgerrors.ErrorTypeValidation), body.Type)
	})
}

func TestRouter_GetArticle(t *testing.T) {
	h := setupRouter(t, true, nil)

	t.Run("found", func(t *testing.T) {
		rec := get(t, h, "/api/v1/articles/csrf")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
		assert.Contains(t, rec.Body.String(), "<b>Cross-Site Request Forgery</b>")

		a := decode[entities.Article](t, rec)
		assert.Equal(t, valueobjects.Slug("csrf"), a.Slug)
		assert.Equal(t, []string{}, a.Connections)
		assert.Nil(t, a.Date)
	})

	t.Run("missing", func(t *testing.T) {
		rec := get(t, h, "/api/v1/articles/ghost")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decode[pkgerrors.ErrorResponse](t, rec)
		assert.Equal(t, string(pkgerrors.ErrorTypeNotFound), body.Type)
	})

	t.Run("missing connections", func(t *testing.T) {
		rec := get(t, h, "/api/v1/articles/ghost/connections")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_Facets(t *testing.T) {
	h := setupRouter(t, true, nil)

	rec := get(t, h, "/api/v1/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"name":"web","count":2},{"name":"database","count":1},{"name":"misc","count":1}]`,
		rec.Body.String())

	rec = get(t, h, "/api/v1/tags")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"name":"injection","count":2},{"name":"browser","count":1}]`,
		rec.Body.String())
}

func TestRouter_Graph(t *testing.T) {
	h := setupRouter(t, true, nil)

	t.Run("graph data", func(t *testing.T) {
		rec := get(t, h, "/api/v1/graph")
		require.Equal(t, http.StatusOK, rec.Code)

		g := decode[aggregates.Graph](t, rec)
		assert.Len(t, g.Nodes, 4)
		require.Len(t, g.Links, 2)
		assert.Equal(t, aggregates.Link{Source: "xss", Target: "csrf", Value: 1, Kind: aggregates.LinkDeclared}, g.Links[0])
		assert.Equal(t, aggregates.Link{Source: "sqli", Target: "xss", Value: 1, Kind: aggregates.LinkCurated}, g.Links[1])
	})

	t.Run("stats", func(t *testing.T) {
		rec := get(t, h, "/api/v1/graph/stats")
		require.Equal(t, http.StatusOK, rec.Code)

		stats := decode[aggregates.Stats](t, rec)
		assert.Equal(t, 4, stats.NodeCount)
		assert.Equal(t, 2, stats.LinkCount)
		assert.Equal(t, 2, stats.ClusterCount)
	})

	t.Run("neighbors", func(t *testing.T) {
		rec := get(t, h, "/api/v1/graph/nodes/xss/neighbors")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"node_id":"xss"`)
		assert.Contains(t, rec.Body.String(), `"id":"csrf"`)
		assert.Contains(t, rec.Body.String(), `"id":"sqli"`)

		rec = get(t, h, "/api/v1/graph/nodes/ghost/neighbors")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("path", func(t *testing.T) {
		rec := get(t, h, "/api/v1/graph/path?from=csrf&to=sqli")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"from":"csrf","to":"sqli","path":["csrf","xss","sqli"],"hops":2}`,
			rec.Body.String())
	})

	t.Run("path errors", func(t *testing.T) {
		tests := []struct {
			target string
			status int
		}{
			{"/api/v1/graph/path?from=csrf", http.StatusBadRequest},
			{"/api/v1/graph/path?from=csrf&to=ghost", http.StatusNotFound},
			{"/api/v1/graph/path?from=csrf&to=island", http.StatusNotFound},
		}
		for _, tt := range tests {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code, tt.target)
		}
	})
}

func TestRouter_NotReady(t *testing.T) {
	h := setupRouter(t, false, nil)

	for _, target := range []string{"/api/v1/articles", "/api/v1/graph", "/api/v1/tags"} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := setupRouter(t, true, nil)

	rec := get(t, h, "/api/v2/articles")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/articles", strings.NewReader("{}")))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		rec := get(t, setupRouter(t, true, nil), "/metrics")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		metrics := &fakeMetrics{}
		h := setupRouter(t, true, metrics)

		rec := get(t, h, "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)

		get(t, h, "/api/v1/articles/xss")
		get(t, h, "/api/v1/articles/ghost")

		require.Len(t, metrics.requests, 3)
		assert.Equal(t, observedRequest{"GET", "/api/v1/articles/{slug}", http.StatusOK}, metrics.requests[1])
		assert.Equal(t, observedRequest{"GET", "/api/v1/articles/{slug}", http.StatusNotFound}, metrics.requests[2])
	})
}

func TestRouter_CORS(t *testing.T) {
	h := setupRouter(t, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RecoversPanics(t *testing.T) {
	logger := zap.NewNop()
	registry := services.NewRegistry(nil, nil, nil, logger)
	router := NewRouter(bus.NewQueryBus(), registry, pkgerrors.NewErrorHandler(logger, false), Options{}, logger).Setup()
	router.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := get(t, router, "/boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	logger := zap.NewNop()
	registry := services.NewRegistry(nil, nil, nil, logger)
	registry.Swap(services.NewArticleService(nil, valueobjects.CuratedSet{}, nil))
	queryBus := bus.NewQueryBus()
	require.NoError(t, handlers.RegisterAll(queryBus, registry, logger))

	limiter := ratelimit.NewPerMinute(1)
	t.Cleanup(limiter.Stop)
	h := NewRouter(queryBus, registry, pkgerrors.NewErrorHandler(logger, false),
		Options{RateLimiter: limiter}, logger).Setup()

	assert.Equal(t, http.StatusOK, get(t, h, "/api/v1/tags").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/api/v1/tags").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code, "probes are not limited")
}
