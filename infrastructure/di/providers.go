package di

import (
	"context"
	"fmt"

	"kbgraph/application/compiler"
	"kbgraph/application/ports"
	"kbgraph/application/queries/bus"
	queryhandlers "kbgraph/application/queries/handlers"
	"kbgraph/application/services"
	domainconfig "kbgraph/domain/config"
	"kbgraph/infrastructure/config"
	"kbgraph/infrastructure/observability"
	"kbgraph/infrastructure/persistence/artifact"
	"kbgraph/infrastructure/persistence/curation"
	"kbgraph/interfaces/http/rest"
	pkgerrors "kbgraph/pkg/errors"
	"kbgraph/pkg/ratelimit"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MetricsNamespace prefixes every exported metric
const MetricsNamespace = "kbgraph"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", cfg.ServiceName)), nil
}

// ProvideDomainConfig extracts the content rules
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return cfg.DomainConfig()
}

// ProvideMetrics creates the metrics collector. It is always created so the
// compiler and query bus can record into it; exposure is controlled by
// ENABLE_METRICS.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(MetricsNamespace, !cfg.IsLambda)
}

// ProvideTracing installs the tracer provider
func ProvideTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, error) {
	return observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.EnableTracing,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	}, logger)
}

// ProvideArtifactStore creates the JSON artifact store
func ProvideArtifactStore(cfg *config.Config, logger *zap.Logger) *artifact.JSONStore {
	return artifact.NewJSONStore(cfg.ArtifactPath, cfg.Domain.MaxTags, logger)
}

// ProvideCuratedSource creates the curated pair source
func ProvideCuratedSource(cfg *config.Config, logger *zap.Logger) *curation.YAMLSource {
	return curation.NewYAMLSource(cfg.CuratedPairsPath, logger)
}

// ProvideRegistry creates the article service registry. It starts empty.
func ProvideRegistry(
	reader ports.ArtifactReader,
	pairs ports.CuratedPairSource,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.Registry {
	return services.NewRegistry(reader, pairs, domainCfg, logger)
}

// ProvideQueryBus creates the query bus and registers every handler
func ProvideQueryBus(
	registry *services.Registry,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*bus.QueryBus, error) {
	queryBus := bus.NewQueryBus(
		bus.NewTracingMiddleware(),
		bus.NewMetricsMiddleware(metrics),
	)

	if err := queryhandlers.RegisterAll(queryBus, registry, logger); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}

	return queryBus, nil
}

// ProvideCompiler creates the corpus compiler
func ProvideCompiler(
	domainCfg *domainconfig.DomainConfig,
	writer ports.ArtifactWriter,
	metrics *observability.Collector,
	logger *zap.Logger,
) *compiler.Compiler {
	return compiler.NewCompiler(domainCfg, writer, metrics, logger)
}

// ProvideErrorHandler creates the HTTP error handler. Internal error messages
// are only exposed in development.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRateLimiter creates the per-client limiter, or nil when disabled
func ProvideRateLimiter(cfg *config.Config) *ratelimit.SlidingWindowLimiter {
	if cfg.RateLimitPerMinute == 0 {
		return nil
	}
	return ratelimit.NewPerMinute(cfg.RateLimitPerMinute)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	queryBus *bus.QueryBus,
	registry *services.Registry,
	errHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	limiter *ratelimit.SlidingWindowLimiter,
	logger *zap.Logger,
) *rest.Router {
	opts := rest.Options{EnableCORS: cfg.EnableCORS}
	if cfg.EnableMetrics {
		opts.Metrics = metrics
	}
	if limiter != nil {
		opts.RateLimiter = limiter
	}

	return rest.NewRouter(queryBus, registry, errHandler, opts, logger)
}
