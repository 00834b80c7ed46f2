package v1

import (
	"net/http"

	"kbgraph/interfaces/http/rest/handlers"

	"github.com/go-chi/chi/v5"
)

// Mount registers the v1 read API on r
func Mount(r chi.Router, articles *handlers.ArticleHandler, graph *handlers.GraphHandler) {
	r.Use(versionHeaders)

	// Article endpoints
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", articles.ListArticles)
		r.Get("/{slug}", articles.GetArticle)
		r.Get("/{slug}/connections", articles.GetConnectedArticles)
	})

	r.Get("/categories", articles.ListCategories)
	r.Get("/tags", articles.ListTags)

	// Graph endpoints
	r.Route("/graph", func(r chi.Router) {
		r.Get("/", graph.GetGraphData)
		r.Get("/stats", graph.GetGraphStats)
		r.Get("/path", graph.FindPath)
		r.Get("/nodes/{nodeID}/neighbors", graph.GetNeighbors)
	})
}

// versionHeaders adds API version headers to responses
func versionHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		next.ServeHTTP(w, r)
	})
}
