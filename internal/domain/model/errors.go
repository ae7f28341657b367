package model

import "errors"

// Sentinel error kinds shared by the loader, summarizer and aggregator.
var (
	// ErrDataUnavailable means the source table is missing or structurally
	// invalid. It is fatal for the process.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrEmptyView means a summary was requested over zero records.
	ErrEmptyView = errors.New("empty view")
	// ErrNoData means no valid numeric values exist to aggregate.
	ErrNoData = errors.New("no data")
	// ErrUnknownMetric means a metric name did not match any column.
	ErrUnknownMetric = errors.New("unknown metric")
)
