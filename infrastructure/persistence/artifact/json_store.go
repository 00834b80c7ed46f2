// Package artifact stores the compiled article list as a JSON file.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"kbgraph/application/ports"
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/validators"
	pkgerrors "kbgraph/pkg/errors"
	"kbgraph/pkg/utils"

	"go.uber.org/zap"
)

var _ ports.ArtifactStore = (*JSONStore)(nil)

// JSONStore reads and writes the artifact at a fixed path
type JSONStore struct {
	path      string
	validator *validators.ArticleValidator
	logger    *zap.Logger
}

// NewJSONStore creates a store for the artifact at path. Loaded articles with
// more than maxTags tags are rejected; zero means no limit.
func NewJSONStore(path string, maxTags int, logger *zap.Logger) *JSONStore {
	return &JSONStore{
		path:      path,
		validator: validators.NewArticleValidator(maxTags),
		logger:    logger,
	}
}

// Location returns the artifact path
func (s *JSONStore) Location() string {
	return s.path
}

// Save replaces the artifact with articles. The file is written next to the
// target and renamed over it, so readers never see a partial artifact.
func (s *JSONStore) Save(ctx context.Context, articles []entities.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if articles == nil {
		articles = []entities.Article{}
	}

	data, err := encode(articles)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode artifact").WithCause(err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.NewIOError(dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return pkgerrors.NewIOError(s.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return pkgerrors.NewIOError(tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.NewIOError(tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return pkgerrors.NewIOError(tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return pkgerrors.NewIOError(s.path, err)
	}

	s.logger.Debug("Artifact written",
		zap.String("path", s.path),
		zap.Int("articles", len(articles)),
		zap.Int("bytes", len(data)),
	)

	return nil
}

// Load reads and validates the artifact
func (s *JSONStore) Load(ctx context.Context) ([]entities.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, pkgerrors.NewIOError(s.path, err)
	}

	var articles []entities.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, pkgerrors.NewParseError(s.path, err)
	}

	for i := range articles {
		if err := utils.ValidateStruct(&articles[i]); err != nil {
			return nil, pkgerrors.NewParseError(s.path, fmt.Errorf("article %d: %w", i, err))
		}
		if err := s.validator.Validate(&articles[i]); err != nil {
			return nil, pkgerrors.NewParseError(s.path, fmt.Errorf("article %d: %w", i, err))
		}
		articles[i].Normalize()
	}
	if articles == nil {
		articles = []entities.Article{}
	}

	return articles, nil
}

// encode renders articles as indented JSON without HTML escaping
func encode(articles []entities.Article) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
