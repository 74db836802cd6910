package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/config"
	"github.com/kmbaye/pricetracker/internal/repository/mongodb"
)

// Counter provides the collection-level counts logged by the digest.
type Counter interface {
	Counts(ctx context.Context) (mongodb.DigestCounts, error)
}

// Scheduler emits a periodic structured digest of collection sizes. It only
// reads and logs; core operations never depend on it.
type Scheduler struct {
	cron    *cron.Cron
	counter Counter
	cfg     config.DigestConfig
	logger  *zap.Logger
}

// NewScheduler creates a digest scheduler in the configured timezone, falling
// back to UTC when the timezone cannot be resolved.
func NewScheduler(cfg config.DigestConfig, counter Counter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		counter: counter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.logDigest)
	if err != nil {
		s.logger.Error("failed to schedule stats digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) logDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := s.counter.Counts(ctx)
	if err != nil {
		s.logger.Error("failed to gather digest counts", zap.Error(err))
		return
	}

	s.logger.Info("stats digest",
		zap.Int64("products", counts.Products),
		zap.Int64("stores", counts.Stores),
		zap.Int64("price_entries", counts.Entries),
		zap.Int64("users", counts.Users))
}
