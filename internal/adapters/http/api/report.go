// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	service "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/summary"
)

const maxBinsParam = 100

// ReportDependencies defines the interface for render operations.
type ReportDependencies interface {
	Render(ctx context.Context, req service.Request) (service.Report, error)
	DefaultRequest(ctx context.Context) service.Request
}

// ReportHandler handles report requests.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

type tableResponse struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type reportResponse struct {
	Metric       metricResponse             `json:"metric"`
	Countries    []string                   `json:"countries"`
	RowCount     int                        `json:"rowCount"`
	Summary      *summary.Summary           `json:"summary"`
	Distribution []aggregate.Bin            `json:"distribution"`
	ByCountry    []aggregate.CountryAverage `json:"byCountry"`
	Table        tableResponse              `json:"table"`
	Truncated    bool                       `json:"truncated"`
	Notices      []service.Notice           `json:"notices"`
}

// HandleGetReport handles GET /api/report?country=..&metric=..&bins=.. requests.
// Without any country parameter every country is selected; a lone empty
// country parameter selects none.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req, err := h.parseRequest(r)
	if err != nil {
		code := "bad_request"
		if errors.Is(err, model.ErrUnknownMetric) {
			code = "unknown_metric"
		}
		writeError(w, http.StatusBadRequest, code, err)
		return
	}
	report, err := h.deps.Render(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrUnknownMetric) {
			writeError(w, http.StatusBadRequest, "unknown_metric", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%w: %w", ErrRender, err))
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(report))
}

func (h *ReportHandler) parseRequest(r *http.Request) (service.Request, error) {
	q := r.URL.Query()
	req := service.Request{Metric: model.OverallScore}

	if values, ok := q["country"]; ok {
		req.Countries = make([]string, 0, len(values))
		for _, c := range values {
			if c != "" {
				req.Countries = append(req.Countries, c)
			}
		}
	} else {
		req.Countries = h.deps.DefaultRequest(r.Context()).Countries
	}

	if name := q.Get("metric"); name != "" {
		m, err := model.ParseMetric(name)
		if err != nil {
			return service.Request{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		req.Metric = m
	}

	if raw := q.Get("bins"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxBinsParam {
			return service.Request{}, fmt.Errorf("%w: bins must be between 1 and %d", ErrBadRequest, maxBinsParam)
		}
		req.MaxBins = n
	}
	return req, nil
}

func newReportResponse(rep service.Report) reportResponse {
	metrics := model.Metrics()
	columns := []string{model.ColumnUniversityName, model.ColumnCountry}
	for _, m := range metrics {
		columns = append(columns, m.String())
	}

	rows := make([][]any, len(rep.Rows))
	for i, rec := range rep.Rows {
		row := make([]any, 0, len(columns))
		row = append(row, rec.Name, rec.Country)
		for _, m := range metrics {
			if v, ok := rec.Value(m); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		rows[i] = row
	}

	notices := rep.Notices
	if notices == nil {
		notices = []service.Notice{}
	}
	return reportResponse{
		Metric:       newMetricResponse(rep.Metric),
		Countries:    rep.Countries,
		RowCount:     rep.RowCount,
		Summary:      rep.Summary,
		Distribution: rep.Distribution,
		ByCountry:    rep.ByCountry,
		Table:        tableResponse{Columns: columns, Rows: rows},
		Truncated:    rep.Truncated,
		Notices:      notices,
	}
}
