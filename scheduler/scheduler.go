package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lease-agent/metrics"
	"lease-agent/repository"
)

// Scheduler runs the quote history retention job.
type Scheduler struct {
	cron      *cron.Cron
	recorder  repository.QuoteRecorder
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a Scheduler pruning quotes older than retention. A negative
// retention keeps history forever.
func New(recorder repository.QuoteRecorder, retention time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		recorder:  recorder,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Register schedules the prune job with a six-field cron spec.
func (s *Scheduler) Register(pruneCron string) error {
	if _, err := s.cron.AddFunc(pruneCron, func() {
		if _, err := s.PruneNow(context.Background()); err != nil {
			s.logger.Error("prune quote history", zap.Error(err))
		}
	}); err != nil {
		return errors.Wrap(err, "register prune job")
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// PruneNow deletes quotes recorded before now minus the retention. It is a
// no-op when the retention is not positive.
func (s *Scheduler) PruneNow(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-s.retention)
	n, err := s.recorder.Prune(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	metrics.RecordPruned(n)
	s.logger.Info("pruned quote history", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	return n, nil
}
