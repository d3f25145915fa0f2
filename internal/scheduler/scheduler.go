// Package scheduler runs the background expiration sweep on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeps runs one expiration sweep for the given trigger.
type Sweeps interface {
	Sweep(ctx context.Context, trigger string) (int64, error)
}

const trigger = "schedule"

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New creates a scheduler. Panicking jobs are recovered and a run is skipped
// while the previous one is still going.
func New(log *zap.Logger) *Scheduler {
	cl := cronLogger{log: log.Named("cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: log,
	}
}

// AddSweep registers the sweeper under spec, e.g. "@daily" or "0 0 * * *".
func (s *Scheduler) AddSweep(spec string, sweeper Sweeps) error {
	_, err := s.cron.AddFunc(spec, func() {
		expired, err := sweeper.Sweep(context.Background(), trigger)
		if err != nil {
			s.log.Error("Scheduled sweep failed", zap.Error(err))
			return
		}
		s.log.Debug("Scheduled sweep finished", zap.Int64("expired", expired))
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for a running sweep until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
