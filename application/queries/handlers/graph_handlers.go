package handlers

import (
	"context"
	"fmt"

	"kbgraph/application/queries"
	"kbgraph/application/services"
	"kbgraph/domain/core/aggregates"
	pkgerrors "kbgraph/pkg/errors"

	"go.uber.org/zap"
)

// GraphQueryHandler answers graph queries from the serving dataset
type GraphQueryHandler struct {
	registry *services.Registry
	logger   *zap.Logger
}

// NewGraphQueryHandler creates a new graph query handler
func NewGraphQueryHandler(registry *services.Registry, logger *zap.Logger) *GraphQueryHandler {
	return &GraphQueryHandler{
		registry: registry,
		logger:   logger,
	}
}

// GetGraphData returns the assembled graph
func (h *GraphQueryHandler) GetGraphData(ctx context.Context, _ queries.GetGraphDataQuery) (*aggregates.Graph, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}

	graph := svc.GetGraphData()
	if err := graph.Validate(); err != nil {
		h.logger.Error("Assembled graph failed validation", zap.Error(err))
		return nil, pkgerrors.NewInternalError("graph is inconsistent").WithCause(err)
	}
	return graph, nil
}

// GetGraphStats returns graph statistics
func (h *GraphQueryHandler) GetGraphStats(ctx context.Context, _ queries.GetGraphStatsQuery) (*aggregates.Stats, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}

	stats := svc.Stats()
	return &stats, nil
}

// GetNeighbors returns the nodes one undirected hop away
func (h *GraphQueryHandler) GetNeighbors(ctx context.Context, query queries.GetNeighborsQuery) (*queries.NeighborsResult, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}

	if !svc.HasNode(query.NodeID) {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %q", query.NodeID))
	}

	return &queries.NeighborsResult{
		NodeID:    query.NodeID,
		Neighbors: svc.Neighbors(query.NodeID),
	}, nil
}

// FindPath returns a shortest undirected path
func (h *GraphQueryHandler) FindPath(ctx context.Context, query queries.FindPathQuery) (*queries.PathResult, error) {
	svc, err := currentService(h.registry)
	if err != nil {
		return nil, err
	}

	path, err := svc.FindPath(query.From, query.To)
	if err != nil {
		return nil, err
	}

	return &queries.PathResult{
		From: query.From,
		To:   query.To,
		Path: path,
		Hops: len(path) - 1,
	}, nil
}
