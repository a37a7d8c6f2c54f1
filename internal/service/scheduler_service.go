package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"taskboss/internal/logging"
)

// SchedulerService wraps cron-based jobs. A job never runs concurrently with
// itself: a run that is still going when the next one is due causes that
// next run to be skipped. Panics in jobs are recovered and logged.
type SchedulerService struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewSchedulerService(loc *time.Location, logger *zap.Logger) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	cronLog := logging.CronLogger(logger)
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger.Named("scheduler"),
	}
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ScheduleInterval registers a periodic job every given duration.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	// Convert to cron spec: every N seconds.
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	return s.cron.AddFunc(spec, job)
}

// ScheduleRunner runs r every interval, giving each run at most timeout.
// Runs derive from parent so cancelling it aborts a run in flight.
func (s *SchedulerService) ScheduleRunner(parent context.Context, name string, interval, timeout time.Duration, r Runner) (cron.EntryID, error) {
	return s.ScheduleInterval(interval, func() {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("job failed", zap.String("job", name), zap.Error(err))
		}
	})
}

// Runner is a unit of periodic work.
type Runner interface {
	Run(ctx context.Context) error
}
