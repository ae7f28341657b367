package repository

import (
	"fmt"

	"github.com/okian/unirank/internal/domain/model"
)

// unavailable wraps err so callers can match it with model.ErrDataUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrDataUnavailable, err)
}
