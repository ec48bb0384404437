package repository

import (
	"context"
	"time"

	"lease-agent/domain"
)

// NoopQuoteRecorder discards every quote.
type NoopQuoteRecorder struct{}

func NewNoopQuoteRecorder() *NoopQuoteRecorder { return &NoopQuoteRecorder{} }

func (NoopQuoteRecorder) Record(context.Context, domain.LeaseQuote) error { return nil }

func (NoopQuoteRecorder) Recent(context.Context, int) ([]domain.LeaseQuote, error) {
	return []domain.LeaseQuote{}, nil
}

func (NoopQuoteRecorder) Prune(context.Context, time.Time) (int64, error) { return 0, nil }

func (NoopQuoteRecorder) Close() error { return nil }
