package handlers

import (
	"kbgraph/application/queries"
	"kbgraph/application/queries/bus"
	"kbgraph/application/services"

	"go.uber.org/zap"
)

// RegisterAll registers every query handler on the bus
func RegisterAll(queryBus *bus.QueryBus, registry *services.Registry, logger *zap.Logger) error {
	articles := NewArticleQueryHandler(registry, logger)
	graph := NewGraphQueryHandler(registry, logger)

	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.GetArticleQuery{}, bus.HandlerFor(articles.GetArticle)},
		{queries.ListArticlesQuery{}, bus.HandlerFor(articles.ListArticles)},
		{queries.GetConnectedArticlesQuery{}, bus.HandlerFor(articles.GetConnectedArticles)},
		{queries.ListCategoriesQuery{}, bus.HandlerFor(articles.ListCategories)},
		{queries.ListTagsQuery{}, bus.HandlerFor(articles.ListTags)},
		{queries.GetGraphDataQuery{}, bus.HandlerFor(graph.GetGraphData)},
		{queries.GetGraphStatsQuery{}, bus.HandlerFor(graph.GetGraphStats)},
		{queries.GetNeighborsQuery{}, bus.HandlerFor(graph.GetNeighbors)},
		{queries.FindPathQuery{}, bus.HandlerFor(graph.FindPath)},
	}

	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return err
		}
	}

	return nil
}
