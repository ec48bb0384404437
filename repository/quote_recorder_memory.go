package repository

import (
	"context"
	"sync"
	"time"

	"lease-agent/domain"
)

// QuoteRecorderMemory is an in-memory implementation of QuoteRecorder.
type QuoteRecorderMemory struct {
	mu     sync.Mutex
	data   []domain.LeaseQuote
	nextID int64
}

// NewQuoteRecorderMemory creates a new in-memory quote history.
func NewQuoteRecorderMemory() *QuoteRecorderMemory {
	return &QuoteRecorderMemory{
		data: []domain.LeaseQuote{},
	}
}

// Record stores the quote in memory.
func (r *QuoteRecorderMemory) Record(_ context.Context, quote domain.LeaseQuote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	quote.ID = r.nextID
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now().UTC()
	}
	r.data = append(r.data, quote)
	return nil
}

func (r *QuoteRecorderMemory) Recent(_ context.Context, limit int) ([]domain.LeaseQuote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.LeaseQuote{}
	for i := len(r.data) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}

func (r *QuoteRecorderMemory) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.data[:0]
	for _, q := range r.data {
		if !q.CreatedAt.Before(cutoff) {
			kept = append(kept, q)
		}
	}
	removed := int64(len(r.data) - len(kept))
	r.data = kept
	return removed, nil
}

func (r *QuoteRecorderMemory) Close() error {
	return nil
}
