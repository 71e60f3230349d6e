package loader

import (
	"context"

	"StockPulse/internal/model"
)

// Loader persists normalized rows. Load must be a silent no-op for rows
// whose (symbol, date) pair is already present, and reports how many rows
// were actually inserted.
type Loader interface {
	EnsureSchema(ctx context.Context) error
	Load(ctx context.Context, rows []model.Row) (inserted int64, err error)
	Close() error
}
