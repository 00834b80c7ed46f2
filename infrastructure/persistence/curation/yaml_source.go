// Package curation loads the curated topic-pair list from YAML.
package curation

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"kbgraph/application/ports"
	"kbgraph/domain/core/valueobjects"
	pkgerrors "kbgraph/pkg/errors"
	"kbgraph/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_pairs.yaml
var defaultPairs []byte

var _ ports.CuratedPairSource = (*YAMLSource)(nil)

type pairFile struct {
	Version int         `yaml:"version" validate:"min=1"`
	Pairs   []pairEntry `yaml:"pairs" validate:"dive"`
}

type pairEntry struct {
	Source string `yaml:"source" validate:"required"`
	Target string `yaml:"target" validate:"required"`
}

// YAMLSource reads curated pairs from a file, or from the built-in list when
// no path is configured
type YAMLSource struct {
	path   string
	logger *zap.Logger
}

// NewYAMLSource creates a source. An empty path selects the built-in list.
func NewYAMLSource(path string, logger *zap.Logger) *YAMLSource {
	return &YAMLSource{
		path:   path,
		logger: logger,
	}
}

// Load reads and validates the pair list
func (s *YAMLSource) Load(ctx context.Context) (valueobjects.CuratedSet, error) {
	if err := ctx.Err(); err != nil {
		return valueobjects.CuratedSet{}, err
	}

	data, origin := defaultPairs, "built-in"
	if s.path != "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return valueobjects.CuratedSet{}, pkgerrors.NewIOError(s.path, err)
		}
		data, origin = raw, s.path
	}

	set, err := Parse(data)
	if err != nil {
		return valueobjects.CuratedSet{}, pkgerrors.NewParseError(origin, err)
	}

	s.logger.Debug("Curated pairs loaded",
		zap.String("source", origin),
		zap.Int("version", set.Version()),
		zap.Int("pairs", set.Len()),
	)

	return set, nil
}

// Parse decodes a curated pair document
func Parse(data []byte) (valueobjects.CuratedSet, error) {
	var file pairFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return valueobjects.CuratedSet{}, fmt.Errorf("failed to parse curated pairs: %w", err)
	}
	if err := utils.ValidateStruct(&file); err != nil {
		return valueobjects.CuratedSet{}, err
	}

	pairs := make([]valueobjects.TopicPair, len(file.Pairs))
	for i, p := range file.Pairs {
		pairs[i] = valueobjects.TopicPair{Source: p.Source, Target: p.Target}
	}

	return valueobjects.NewCuratedSet(file.Version, pairs)
}
