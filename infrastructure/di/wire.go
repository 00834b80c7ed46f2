//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"kbgraph/application/ports"
	"kbgraph/infrastructure/config"
	"kbgraph/infrastructure/persistence/artifact"
	"kbgraph/infrastructure/persistence/curation"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideMetrics,
	ProvideTracing,
	ProvideArtifactStore,
	wire.Bind(new(ports.ArtifactReader), new(*artifact.JSONStore)),
	wire.Bind(new(ports.ArtifactWriter), new(*artifact.JSONStore)),
	ProvideCuratedSource,
	wire.Bind(new(ports.CuratedPairSource), new(*curation.YAMLSource)),
	ProvideRegistry,
	ProvideQueryBus,
	ProvideCompiler,
	ProvideErrorHandler,
	ProvideRateLimiter,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
