// Package repository loads the rankings table into memory.
package repository

import (
	"context"

	"github.com/okian/unirank/internal/domain/model"
)

// Source provides the rankings dataset.
type Source interface {
	// Load returns the dataset. Implementations read the source at most once
	// and return the cached result afterwards.
	Load(ctx context.Context) (*model.Dataset, error)
}
