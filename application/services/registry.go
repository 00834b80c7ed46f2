package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"kbgraph/application/ports"
	"kbgraph/domain/config"

	"go.uber.org/zap"
)

// Registry holds the ArticleService currently serving reads. A reload builds a
// complete new service and swaps it in; readers never observe a partial load.
type Registry struct {
	reader  ports.ArtifactReader
	pairs   ports.CuratedPairSource
	cfg     *config.DomainConfig
	logger  *zap.Logger
	current atomic.Pointer[ArticleService]
	loaded  atomic.Int64
}

// NewRegistry creates an empty registry. Call Reload before serving.
func NewRegistry(
	reader ports.ArtifactReader,
	pairs ports.CuratedPairSource,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *Registry {
	return &Registry{
		reader: reader,
		pairs:  pairs,
		cfg:    cfg.OrDefault(),
		logger: logger,
	}
}

// Current returns the serving service, or nil before the first successful load
func (r *Registry) Current() *ArticleService {
	return r.current.Load()
}

// Ready reports whether a service has been loaded
func (r *Registry) Ready() bool {
	return r.current.Load() != nil
}

// LoadedAt returns when the serving service was swapped in
func (r *Registry) LoadedAt() time.Time {
	ns := r.loaded.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Swap installs svc and returns the previous service
func (r *Registry) Swap(svc *ArticleService) *ArticleService {
	prev := r.current.Swap(svc)
	r.loaded.Store(time.Now().UnixNano())
	return prev
}

// Reload reads the artifact and curated pairs and swaps in a fresh service.
// On error the serving service is left untouched.
func (r *Registry) Reload(ctx context.Context) error {
	articles, err := r.reader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load articles: %w", err)
	}

	curated, err := r.pairs.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load curated pairs: %w", err)
	}

	svc := NewArticleService(articles, curated, r.cfg)
	r.Swap(svc)

	stats := svc.Stats()
	r.logger.Info("Article service loaded",
		zap.Int("articles", svc.Len()),
		zap.Int("nodes", stats.NodeCount),
		zap.Int("links", stats.LinkCount),
		zap.Int("curated_version", curated.Version()),
	)

	return nil
}
