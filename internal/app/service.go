// Package service runs the dashboard render pass over the loaded rankings
// table and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/filter"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/summary"
	"github.com/okian/unirank/pkg/logger"
	"github.com/okian/unirank/pkg/metrics"
)

// Notice codes reported when a render pass degrades to a placeholder.
const (
	NoticeEmptyView = "empty_view"
	NoticeNoData    = "no_data"
)

// Request is one user selection: the countries to keep and the metric to chart.
type Request struct {
	Countries []string
	Metric    model.Metric
	// MaxBins overrides the service's distribution cap when positive.
	MaxBins int
}

// Notice explains why part of a report is empty.
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report is the result of one render pass.
type Report struct {
	Metric    model.Metric
	Countries []string
	// RowCount is the size of the filtered view before any table cap.
	RowCount int
	// Summary is nil when the key metrics could not be computed.
	Summary      *summary.Summary
	Distribution []aggregate.Bin
	ByCountry    []aggregate.CountryAverage
	// Rows is the filtered view for the detail table.
	Rows      filter.View
	Truncated bool
	Notices   []Notice
}

// Service holds the read-only dataset shared by every render pass.
type Service struct {
	dataset   *model.Dataset
	countries []string

	maxBins      int
	maxTableRows int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithMaxBins sets the default cap on distribution bins.
func WithMaxBins(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBins = n
		}
	}
}

// WithMaxTableRows caps the rows returned for the detail table; 0 disables the cap.
func WithMaxTableRows(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxTableRows = n
		}
	}
}

// New constructs a Service over an already loaded dataset. The dataset must
// not be modified afterwards.
func New(ds *model.Dataset, opts ...Option) *Service {
	if ds == nil {
		ds = &model.Dataset{}
	}
	s := &Service{
		dataset:   ds,
		countries: model.DistinctCountries(ds.Records),
		maxBins:   aggregate.DefaultMaxBins,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Countries returns every distinct country of the dataset, sorted.
func (s *Service) Countries(_ context.Context) []string {
	out := make([]string, len(s.countries))
	copy(out, s.countries)
	return out
}

// Metrics returns the selectable metrics in display order.
func (s *Service) Metrics(_ context.Context) []model.Metric {
	return model.Metrics()
}

// DefaultRequest selects every country and the overall score.
func (s *Service) DefaultRequest(ctx context.Context) Request {
	return Request{Countries: s.Countries(ctx), Metric: model.OverallScore}
}

// Render filters the dataset and computes the summary and chart series for req.
// Empty or value-less selections are not errors: they produce an empty
// report with notices. Only an unknown metric fails.
func (s *Service) Render(ctx context.Context, req Request) (Report, error) {
	start := time.Now()
	if !req.Metric.Valid() {
		return Report{}, fmt.Errorf("render: %w: %d", model.ErrUnknownMetric, int(req.Metric))
	}
	bins := s.maxBins
	if req.MaxBins > 0 {
		bins = req.MaxBins
	}

	view := filter.ByCountry(s.dataset, req.Countries)
	report := Report{
		Metric:       req.Metric,
		Countries:    view.Countries(),
		RowCount:     len(view),
		Distribution: aggregate.Distribution(view, req.Metric, bins),
		ByCountry:    aggregate.ByCountry(view, req.Metric),
		Rows:         view,
	}
	if s.maxTableRows > 0 && len(view) > s.maxTableRows {
		report.Rows = view[:s.maxTableRows]
		report.Truncated = true
	}

	sum, err := summary.Summarize(view)
	switch {
	case err == nil:
		report.Summary = &sum
	case errors.Is(err, model.ErrEmptyView):
		report.Notices = append(report.Notices, Notice{
			Code:    NoticeEmptyView,
			Message: "no universities match the selected countries",
		})
	case errors.Is(err, model.ErrNoData):
		report.Notices = append(report.Notices, Notice{
			Code:    NoticeNoData,
			Message: fmt.Sprintf("no %s values in the selection", model.OverallScore),
		})
	default:
		return Report{}, fmt.Errorf("render: %w", err)
	}
	// An all-null overall score was already reported by the summary.
	if len(view) > 0 && len(report.Distribution) == 0 && !(req.Metric == model.OverallScore && report.Summary == nil) {
		report.Notices = append(report.Notices, Notice{
			Code:    NoticeNoData,
			Message: fmt.Sprintf("no %s values in the selection", req.Metric),
		})
	}

	elapsed := time.Since(start)
	metrics.RecordRenderPass(req.Metric.Key(), len(view), float64(elapsed.Microseconds())/1000)
	for _, n := range report.Notices {
		metrics.RecordRenderDegraded(n.Code)
	}

	if len(report.Notices) > 0 {
		s.logger.Warn(ctx, "render degraded",
			logger.String("metric", req.Metric.Key()),
			logger.Int("countries", len(req.Countries)),
			logger.Int("rows", len(view)),
			logger.Any("notices", report.Notices),
		)
	} else {
		s.logger.Debug(ctx, "render pass",
			logger.String("metric", req.Metric.Key()),
			logger.Int("countries", len(req.Countries)),
			logger.Int("rows", len(view)),
			logger.Any("elapsed", elapsed),
		)
	}
	return report, nil
}

// GetStats returns dataset statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	nulls := make(map[string]int, len(model.Metrics()))
	for _, m := range model.Metrics() {
		nulls[m.Key()] = s.dataset.NullCount(m)
	}

	return map[string]interface{}{
		"rows":        s.dataset.Len(),
		"countries":   len(s.countries),
		"skippedRows": s.dataset.Skipped,
		"nulls":       nulls,
		"source":      s.dataset.Source,
		"loadedAt":    s.dataset.LoadedAt,
		"maxBins":     s.maxBins,
	}
}
