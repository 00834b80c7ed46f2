package di

import (
	"context"

	"kbgraph/application/compiler"
	"kbgraph/application/queries/bus"
	"kbgraph/application/services"
	domainconfig "kbgraph/domain/config"
	"kbgraph/infrastructure/config"
	"kbgraph/infrastructure/observability"
	"kbgraph/infrastructure/persistence/artifact"
	"kbgraph/infrastructure/persistence/curation"
	"kbgraph/interfaces/http/rest"
	"kbgraph/pkg/ratelimit"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DomainConfig  *domainconfig.DomainConfig
	Metrics       *observability.Collector
	Tracer        *observability.TracerProvider
	Store         *artifact.JSONStore
	CuratedSource *curation.YAMLSource
	Registry      *services.Registry
	QueryBus      *bus.QueryBus
	Compiler      *compiler.Compiler
	RateLimiter   *ratelimit.SlidingWindowLimiter
	Router        *rest.Router
}

// Shutdown stops background work, flushes traces and syncs the logger
func (c *Container) Shutdown(ctx context.Context) error {
	if c.RateLimiter != nil {
		c.RateLimiter.Stop()
	}
	err := c.Tracer.Shutdown(ctx)
	_ = c.Logger.Sync()
	return err
}
