package rest

import (
	"net/http"

	"kbgraph/application/queries/bus"
	"kbgraph/application/services"
	"kbgraph/interfaces/http/rest/handlers"
	"kbgraph/interfaces/http/rest/middleware"
	v1 "kbgraph/interfaces/http/rest/v1"
	"kbgraph/pkg/common"
	pkgerrors "kbgraph/pkg/errors"
	"kbgraph/pkg/ratelimit"
	"kbgraph/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options configures the router
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	// Metrics is optional; /metrics is only served when it is set.
	Metrics MetricsProvider
	// RateLimiter is optional and applies to /api routes only
	RateLimiter ratelimit.Limiter
}

// MetricsProvider exposes request metrics and their scrape endpoint
type MetricsProvider interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

// Router creates and configures the HTTP router
type Router struct {
	queryBus   *bus.QueryBus
	registry   *services.Registry
	errHandler *pkgerrors.ErrorHandler
	opts       Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	queryBus *bus.QueryBus,
	registry *services.Registry,
	errHandler *pkgerrors.ErrorHandler,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		queryBus:   queryBus,
		registry:   registry,
		errHandler: errHandler,
		opts:       opts,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Metrics != nil {
		router.Use(middleware.Metrics(rt.opts.Metrics))
	}

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errHandler.Handle(w, r, pkgerrors.NewNotFoundError("route"))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errHandler.Handle(w, r, &pkgerrors.AppError{
			Type:       pkgerrors.ErrorTypeValidation,
			Message:    "method not allowed",
			HTTPStatus: http.StatusMethodNotAllowed,
		})
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.opts.Metrics.Handler())
	}

	articleHandler := handlers.NewArticleHandler(rt.queryBus, rt.errHandler, rt.logger)
	graphHandler := handlers.NewGraphHandler(rt.queryBus, rt.errHandler, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.opts.RateLimiter != nil {
			r.Use(middleware.RateLimit(rt.opts.RateLimiter, rt.errHandler))
		}
		v1.Mount(r, articleHandler, graphHandler)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	rt.respond(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports ready once an article dataset is being served
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	svc := rt.registry.Current()
	if svc == nil {
		rt.respond(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
		})
		return
	}

	rt.respond(w, http.StatusOK, map[string]interface{}{
		"status":          "ready",
		"articles":        svc.Len(),
		"curated_version": svc.CuratedVersion(),
		"loaded_at":       utils.FormatRFC3339(rt.registry.LoadedAt()),
	})
}

func (rt *Router) respond(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		rt.logger.Error("Failed to encode response", zap.Error(err))
	}
}
