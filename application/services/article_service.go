package services

import (
	"kbgraph/domain/config"
	"kbgraph/domain/core/aggregates"
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"
)

// Facet is a distinct category or tag value with its article count
type Facet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ArticleService answers read-only queries over one loaded article list.
// It is built once and never mutated; every result is a copy the caller owns.
type ArticleService struct {
	articles []entities.Article
	bySlug   map[valueobjects.Slug]int
	graph    *aggregates.Graph
	curated  int
}

// NewArticleService indexes the articles and assembles their graph.
// When a slug repeats, lookups resolve to the first article.
func NewArticleService(articles []entities.Article, curated valueobjects.CuratedSet, cfg *config.DomainConfig) *ArticleService {
	owned := entities.CloneAll(articles)

	bySlug := make(map[valueobjects.Slug]int, len(owned))
	for i, a := range owned {
		if _, exists := bySlug[a.Slug]; !exists {
			bySlug[a.Slug] = i
		}
	}

	return &ArticleService{
		articles: owned,
		bySlug:   bySlug,
		graph:    aggregates.Assemble(owned, curated, cfg),
		curated:  curated.Version(),
	}
}

// GetArticle returns the article with the given slug
func (s *ArticleService) GetArticle(slug valueobjects.Slug) (entities.Article, bool) {
	i, ok := s.bySlug[slug]
	if !ok {
		return entities.Article{}, false
	}
	return s.articles[i].Clone(), true
}

// GetAllArticles returns every article in source order
func (s *ArticleService) GetAllArticles() []entities.Article {
	return entities.CloneAll(s.articles)
}

// GetConnectedArticles resolves the declared connections of an article.
// Unknown targets are dropped; an unknown slug yields an empty list.
func (s *ArticleService) GetConnectedArticles(slug valueobjects.Slug) []entities.Article {
	result := []entities.Article{}

	i, ok := s.bySlug[slug]
	if !ok {
		return result
	}

	for _, target := range s.articles[i].Connections {
		if j, ok := s.bySlug[valueobjects.Slug(target)]; ok {
			result = append(result, s.articles[j].Clone())
		}
	}
	return result
}

// GetArticlesByCategory returns the articles whose category matches exactly
func (s *ArticleService) GetArticlesByCategory(category string) []entities.Article {
	return s.filter(func(a *entities.Article) bool {
		return a.Category == category
	})
}

// GetArticlesByTag returns the articles carrying the tag, matched exactly
func (s *ArticleService) GetArticlesByTag(tag string) []entities.Article {
	return s.filter(func(a *entities.Article) bool {
		return a.HasTag(tag)
	})
}

// GetGraphData returns a copy of the assembled graph
func (s *ArticleService) GetGraphData() *aggregates.Graph {
	return s.graph.Clone()
}

// HasNode reports whether id is a node of the assembled graph
func (s *ArticleService) HasNode(id string) bool {
	return s.graph.HasNode(id)
}

// Neighbors returns the nodes one undirected hop from id
func (s *ArticleService) Neighbors(id string) []aggregates.Node {
	return s.graph.Neighbors(id)
}

// FindPath returns the shortest undirected path between two nodes
func (s *ArticleService) FindPath(from, to string) ([]string, error) {
	return s.graph.FindPath(from, to)
}

// Stats summarizes the assembled graph
func (s *ArticleService) Stats() aggregates.Stats {
	return s.graph.Stats()
}

// Categories lists distinct categories in first-seen order
func (s *ArticleService) Categories() []Facet {
	return s.facets(func(a *entities.Article) []string {
		return []string{a.Category}
	})
}

// Tags lists distinct tags in first-seen order
func (s *ArticleService) Tags() []Facet {
	return s.facets(func(a *entities.Article) []string {
		return a.Tags
	})
}

// Len returns the number of loaded articles
func (s *ArticleService) Len() int {
	return len(s.articles)
}

// CuratedVersion returns the version of the curated pair list in use
func (s *ArticleService) CuratedVersion() int {
	return s.curated
}

func (s *ArticleService) filter(match func(*entities.Article) bool) []entities.Article {
	result := []entities.Article{}
	for i := range s.articles {
		if match(&s.articles[i]) {
			result = append(result, s.articles[i].Clone())
		}
	}
	return result
}

func (s *ArticleService) facets(values func(*entities.Article) []string) []Facet {
	result := []Facet{}
	pos := make(map[string]int)

	for i := range s.articles {
		for _, v := range values(&s.articles[i]) {
			if j, ok := pos[v]; ok {
				result[j].Count++
				continue
			}
			pos[v] = len(result)
			result = append(result, Facet{Name: v, Count: 1})
		}
	}
	return result
}
