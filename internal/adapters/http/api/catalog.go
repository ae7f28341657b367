// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/unirank/internal/domain/model"
)

// CatalogDependencies exposes the values users choose from.
type CatalogDependencies interface {
	Countries(ctx context.Context) []string
	Metrics(ctx context.Context) []model.Metric
}

// CatalogHandler serves the filter control options.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type metricResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func newMetricResponse(m model.Metric) metricResponse {
	return metricResponse{Key: m.Key(), Label: m.String()}
}

// HandleCountries handles GET /api/countries requests.
func (h *CatalogHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Countries(r.Context()))
}

// HandleMetrics handles GET /api/metrics requests.
func (h *CatalogHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ms := h.deps.Metrics(r.Context())
	out := make([]metricResponse, len(ms))
	for i, m := range ms {
		out[i] = newMetricResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}
