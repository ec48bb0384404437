package repository

import (
	"context"
	"time"

	"lease-agent/domain"
)

// QuoteRecorder keeps a history of calculated lease quotes.
type QuoteRecorder interface {
	Record(ctx context.Context, quote domain.LeaseQuote) error
	Recent(ctx context.Context, limit int) ([]domain.LeaseQuote, error)
	// Prune deletes quotes recorded before cutoff and reports how many went.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
