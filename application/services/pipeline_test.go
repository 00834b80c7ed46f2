package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kbgraph/application/compiler"
	"kbgraph/application/services"
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryArtifact struct {
	articles []entities.Article
}

func (m *memoryArtifact) Save(_ context.Context, articles []entities.Article) error {
	m.articles = entities.CloneAll(articles)
	return nil
}

func (m *memoryArtifact) Location() string { return "memory" }

func TestCompileThenQuery(t *testing.T) {
	// Arrange
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"),
		[]byte("---\ntitle: A\nconnections: [b]\n---\nalpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"),
		[]byte("---\ntitle: B\n---\nbravo"), 0o644))

	store := &memoryArtifact{}
	c := compiler.NewCompiler(nil, store, nil, zap.NewNop())

	// Act
	_, err := c.Run(context.Background(), root)
	require.NoError(t, err)
	svc := services.NewArticleService(store.articles, valueobjects.CuratedSet{}, nil)
	graph := svc.GetGraphData()

	// Assert
	ids := []string{}
	for _, n := range graph.Nodes {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
	require.Len(t, graph.Links, 1)
	assert.Equal(t, "a", graph.Links[0].Source)
	assert.Equal(t, "b", graph.Links[0].Target)

	assert.Empty(t, svc.GetConnectedArticles("b"))
	connected := svc.GetConnectedArticles("a")
	require.Len(t, connected, 1)
	assert.Equal(t, valueobjects.Slug("b"), connected[0].Slug)
}
