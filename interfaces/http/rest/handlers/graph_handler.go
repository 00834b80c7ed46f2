package handlers

import (
	"net/http"

	"kbgraph/application/queries"
	querybus "kbgraph/application/queries/bus"
	"kbgraph/pkg/common"
	pkgerrors "kbgraph/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GraphHandler handles graph-related HTTP requests
type GraphHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(
	queryBus *querybus.QueryBus,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *GraphHandler {
	return &GraphHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// GetGraphData handles GET /graph
func (h *GraphHandler) GetGraphData(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetGraphDataQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetGraphStats handles GET /graph/stats
func (h *GraphHandler) GetGraphStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetGraphStatsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetNeighbors handles GET /graph/nodes/{nodeID}/neighbors
func (h *GraphHandler) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	query := queries.GetNeighborsQuery{NodeID: chi.URLParam(r, "nodeID")}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// FindPath handles GET /graph/path?from=&to=
func (h *GraphHandler) FindPath(w http.ResponseWriter, r *http.Request) {
	query := queries.FindPathQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		if !pkgerrors.IsValidation(err) && !pkgerrors.IsNotFound(err) {
			h.logger.Error("Failed to find path",
				zap.String("from", query.From),
				zap.String("to", query.To),
				zap.Error(err),
			)
		}
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *GraphHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
