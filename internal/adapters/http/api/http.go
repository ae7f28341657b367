// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the render service.
type Dependencies interface {
	Render(ctx context.Context, req service.Request) (service.Report, error)
	Countries(ctx context.Context) []string
	Metrics(ctx context.Context) []model.Metric
	DefaultRequest(ctx context.Context) service.Request
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	catalogHandler   *CatalogHandler
	reportHandler    *ReportHandler
	dashboardHandler *dashboardHandler
	logger           logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Get()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		catalogHandler:   NewCatalogHandler(deps),
		reportHandler:    NewReportHandler(deps),
		dashboardHandler: newDashboardHandler(),
		logger:           log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	wrap := func(h http.HandlerFunc, endpoint string) http.Handler {
		return RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.logger)
	}

	mux.Handle("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.Handle("/stats", wrap(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/api/countries", wrap(s.catalogHandler.HandleCountries, "countries"))
	mux.Handle("/api/metrics", wrap(s.catalogHandler.HandleMetrics, "metrics"))
	mux.Handle("/api/report", wrap(s.reportHandler.HandleGetReport, "report"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/", s.dashboardHandler.HandleRoot)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v fully before writing the status; an encoding failure
// is logged and answered with a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Get().Error(context.Background(), "failed to encode response", logger.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: ErrEncode.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Get().Error(context.Background(), "failed to write response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
