package queries

import (
	"errors"

	"kbgraph/domain/core/aggregates"
	pkgerrors "kbgraph/pkg/errors"
)

// GetGraphDataQuery represents a query for full graph visualization data
type GetGraphDataQuery struct{}

// Validate validates the query
func (q GetGraphDataQuery) Validate() error { return nil }

// GetGraphStatsQuery represents a query for graph statistics
type GetGraphStatsQuery struct{}

// Validate validates the query
func (q GetGraphStatsQuery) Validate() error { return nil }

// GetNeighborsQuery represents a query for the nodes adjacent to one node
type GetNeighborsQuery struct {
	NodeID string `json:"node_id"`
}

// Validate validates the query
func (q GetNeighborsQuery) Validate() error {
	if q.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	return nil
}

// FindPathQuery represents a shortest path query between two nodes
type FindPathQuery struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate validates the query
func (q FindPathQuery) Validate() error {
	var errs []error
	if q.From == "" {
		errs = append(errs, errors.New("from is required"))
	}
	if q.To == "" {
		errs = append(errs, errors.New("to is required"))
	}
	if len(errs) > 0 {
		return pkgerrors.NewValidationError(errors.Join(errs...).Error())
	}
	return nil
}

// NeighborsResult lists the nodes adjacent to NodeID
type NeighborsResult struct {
	NodeID    string            `json:"node_id"`
	Neighbors []aggregates.Node `json:"neighbors"`
}

// PathResult is a shortest path between two nodes
type PathResult struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Path []string `json:"path"`
	Hops int      `json:"hops"`
}
