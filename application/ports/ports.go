package ports

import (
	"context"
	"time"

	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"
)

// ArtifactWriter persists the compiled article list.
// Save is a full overwrite, never a merge.
type ArtifactWriter interface {
	Save(ctx context.Context, articles []entities.Article) error

	// Location describes where the artifact is written, for logs
	Location() string
}

// ArtifactReader loads the compiled article list wholesale
type ArtifactReader interface {
	Load(ctx context.Context) ([]entities.Article, error)
}

// ArtifactStore reads and writes the compiled dataset
type ArtifactStore interface {
	ArtifactWriter
	ArtifactReader
}

// CuratedPairSource provides the curated topic-pair list
type CuratedPairSource interface {
	Load(ctx context.Context) (valueobjects.CuratedSet, error)
}

// CompileMetrics records the outcome of a compile run
type CompileMetrics interface {
	ObserveCompile(status string, documents, failures int, duration time.Duration)
}
