package artifact

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kbgraph/domain/core/entities"
	pkgerrors "kbgraph/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleArticles() []entities.Article {
	date := "2024-01-15"
	return []entities.Article{
		{
			Slug:        "xss",
			Title:       "Cross <Site> Scripting & Friends",
			ShortTitle:  "Cross <Site> Scripting...",
			Category:    "web",
			Tags:        []string{"injection"},
			Date:        &date,
			Excerpt:     "Script injection...",
			Connections: []string{"csrf"},
			Content:     "# XSS",
		},
		{
			Slug:        "csrf",
			Title:       "csrf",
			ShortTitle:  "csrf",
			Category:    "uncategorized",
			Tags:        []string{},
			Connections: []string{},
		},
	}
}

func TestJSONStore_SaveAndLoad(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "nested", "data", "articles.json")
	store := NewJSONStore(path, 0, zap.NewNop())
	ctx := context.Background()

	// Act
	err := store.Save(ctx, sampleArticles())
	require.NoError(t, err)
	loaded, err := store.Load(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sampleArticles(), loaded)
	assert.Equal(t, path, store.Location())
}

func TestJSONStore_Format(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "articles.json")
	store := NewJSONStore(path, 0, zap.NewNop())

	// Act
	require.NoError(t, store.Save(context.Background(), sampleArticles()))
	raw, err := os.ReadFile(path)

	// Assert
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"slug\": \"xss\","))
	assert.Contains(t, text, `"title": "Cross <Site> Scripting & Friends"`)
	assert.Contains(t, text, `"date": null`)
	assert.Contains(t, text, `"tags": []`)
	assert.Contains(t, text, `"shortTitle"`)
}

func TestJSONStore_SaveOverwrites(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "articles.json")
	store := NewJSONStore(path, 0, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleArticles()))

	// Act
	require.NoError(t, store.Save(ctx, nil))
	loaded, err := store.Load(ctx)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestJSONStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		check   func(error) bool
	}{
		{name: "missing file", content: nil, check: pkgerrors.IsIO},
		{name: "not json", content: strPtr("{nope"), check: pkgerrors.IsParse},
		{name: "wrong shape", content: strPtr(`{"slug":"a"}`), check: pkgerrors.IsParse},
		{name: "missing slug", content: strPtr(`[{"title":"a","shortTitle":"a","category":"c"}]`), check: pkgerrors.IsParse},
		{name: "path in slug", content: strPtr(`[{"slug":"a/b","title":"a","shortTitle":"a","category":"c"}]`), check: pkgerrors.IsParse},
		{name: "empty date", content: strPtr(`[{"slug":"a","title":"a","shortTitle":"a","category":"c","date":""}]`), check: pkgerrors.IsParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			path := filepath.Join(t.TempDir(), "articles.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}
			store := NewJSONStore(path, 0, zap.NewNop())

			// Act
			_, err := store.Load(context.Background())

			// Assert
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestJSONStore_LoadMissingArtifactKeepsCause(t *testing.T) {
	// Arrange
	store := NewJSONStore(filepath.Join(t.TempDir(), "absent.json"), 0, zap.NewNop())

	// Act
	_, err := store.Load(context.Background())

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsIO(err))
	assert.False(t, pkgerrors.IsNotFound(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestJSONStore_LoadEnforcesTagLimit(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "articles.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"slug":"a","title":"a","shortTitle":"a","category":"c","tags":["x","y","z"]}]`), 0o644))

	// Act
	_, limitedErr := NewJSONStore(path, 2, zap.NewNop()).Load(context.Background())
	articles, err := NewJSONStore(path, 0, zap.NewNop()).Load(context.Background())

	// Assert
	require.Error(t, limitedErr)
	assert.True(t, pkgerrors.IsParse(limitedErr))
	assert.Contains(t, limitedErr.Error(), "at most 2 allowed")
	require.NoError(t, err)
	assert.Len(t, articles[0].Tags, 3)
}

func TestJSONStore_LoadNormalizesLists(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "articles.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"slug":"a","title":"a","shortTitle":"a","category":"c","tags":null}]`), 0o644))
	store := NewJSONStore(path, 0, zap.NewNop())

	// Act
	loaded, err := store.Load(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.NotNil(t, loaded[0].Tags)
	assert.NotNil(t, loaded[0].Connections)
}

func TestJSONStore_CancelledContext(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewJSONStore(filepath.Join(t.TempDir(), "a.json"), 0, zap.NewNop())

	// Act
	err := store.Save(ctx, sampleArticles())

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func strPtr(s string) *string { return &s }
