package service

import (
	"context"
	"time"

	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/AbdiAhmed6457/job-portal/prometheus"
	"go.uber.org/zap"
)

// Sweep triggers.
const (
	TriggerSchedule = "schedule"
	TriggerListing  = "listing"
)

// Expirer moves jobs whose deadline is before now to expired.
type Expirer interface {
	ExpireJobs(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper runs the expiration sweep. It owns no schedule; the scheduler and
// the job listing call Sweep.
type Sweeper struct {
	expirer Expirer
	now     Clock
}

// NewSweeper creates a sweeper. A nil clock means time.Now in UTC.
func NewSweeper(expirer Expirer, now Clock) *Sweeper {
	if now == nil {
		now = utcNow
	}
	return &Sweeper{expirer: expirer, now: now}
}

// Sweep expires every pending or approved job past its deadline and returns
// how many changed. Running it twice in a row changes nothing the second time.
func (s *Sweeper) Sweep(ctx context.Context, trigger string) (int64, error) {
	done := prometheus.TrackSweep(trigger)
	now := s.now()

	expired, err := s.expirer.ExpireJobs(ctx, now)
	done(expired, err)
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		logger.FromContext(ctx).Info("Expired jobs past their deadline",
			zap.String("trigger", trigger),
			zap.Int64("expired", expired),
			zap.Time("now", now))
	}
	return expired, nil
}
