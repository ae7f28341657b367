package repository

import (
	"github.com/okian/unirank/pkg/logger"
)

// Option applies a configuration option to the CSVLoader.
type Option func(*CSVLoader)

// WithPath sets the CSV file to read.
func WithPath(path string) Option {
	return func(l *CSVLoader) {
		if path != "" {
			l.path = path
		}
	}
}

// WithLogger sets the logger used for load progress.
func WithLogger(log logger.Logger) Option {
	return func(l *CSVLoader) {
		if log != nil {
			l.logger = log
		}
	}
}
