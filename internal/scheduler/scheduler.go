package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/holidaysync/internal/common/summary"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/rs/zerolog"
)

const defaultRetryDelay = 5 * time.Minute

// SyncRunner runs one pass over the configured countries.
type SyncRunner interface {
	RunAll(ctx context.Context, filter []string, attempt int) (summary.RunSummaryData, error)
}

// Scheduler repeats sync runs in automated mode.
type Scheduler struct {
	config     config.SchedulerConfig
	runner     SyncRunner
	db         *DB
	logger     zerolog.Logger
	filter     []string
	retryDelay time.Duration
	now        func() time.Time
	onCycle    func(summary.RunSummaryData)

	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a Scheduler. db may be nil, in which case the first
// cycle runs immediately and later cycles follow the in-memory clock.
func NewScheduler(cfg config.SchedulerConfig, runner SyncRunner, db *DB, filter []string, logger zerolog.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New("scheduler requires a sync runner")
	}
	if cfg.CycleMinutes <= 0 {
		return nil, fmt.Errorf("invalid cycle_minutes %d", cfg.CycleMinutes)
	}
	return &Scheduler{
		config:     cfg,
		runner:     runner,
		db:         db,
		logger:     logger.With().Str("module", "Scheduler").Logger(),
		filter:     filter,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
	}, nil
}

// WithRetryDelay sets the pause between attempts of a failed cycle.
func (s *Scheduler) WithRetryDelay(d time.Duration) *Scheduler {
	s.retryDelay = d
	return s
}

// OnCycle registers a callback receiving the final summary of every cycle.
func (s *Scheduler) OnCycle(fn func(summary.RunSummaryData)) *Scheduler {
	s.onCycle = fn
	return s
}

func (s *Scheduler) interval() time.Duration {
	return time.Duration(s.config.CycleMinutes) * time.Minute
}

// Start runs cycles until ctx is cancelled. It blocks.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}
	s.isRunning = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	s.logger.Info().Int("cycle_minutes", s.config.CycleMinutes).Int("retry_attempts", s.config.RetryAttempts).Msg("Starting automated sync scheduler")

	var lastCycle time.Time
	for {
		next := s.calculateNextRunTime(ctx, lastCycle)
		wait := next.Sub(s.now())
		if wait > 0 {
			s.logger.Info().Time("next_run_time", next).Msg("Next sync run scheduled")
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.logger.Info().Msg("Context cancelled, exiting scheduler loop")
				return nil
			case <-timer.C:
			}
		}

		if ctx.Err() != nil {
			s.logger.Info().Msg("Context cancelled, exiting scheduler loop")
			return nil
		}

		lastCycle = s.now()
		s.RunCycleWithRetries(ctx)
	}
}

// calculateNextRunTime prefers the run history, then the last in-process
// cycle. A time in the past means "now".
func (s *Scheduler) calculateNextRunTime(ctx context.Context, lastCycle time.Time) time.Time {
	now := s.now()
	last := lastCycle

	if s.db != nil {
		recorded, err := s.db.LastRunTime(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Could not read last run time, using in-process clock")
		} else if recorded != nil && recorded.After(last) {
			last = *recorded
		}
	}

	if last.IsZero() {
		return now
	}
	next := last.Add(s.interval())
	if next.Before(now) {
		return now
	}
	return next
}

// RunCycleWithRetries runs one cycle, retrying up to retry_attempts times
// while the run fails. Interrupted runs are never retried.
func (s *Scheduler) RunCycleWithRetries(ctx context.Context) summary.RunSummaryData {
	maxRetries := s.config.RetryAttempts
	var last summary.RunSummaryData

	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		if attempt > 1 {
			s.logger.Info().Int("attempt", attempt).Int("max_attempts", maxRetries+1).Dur("delay", s.retryDelay).Msg("Retrying sync cycle after delay")
			timer := time.NewTimer(s.retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.logger.Info().Msg("Context cancelled during retry delay, stopping retries")
				s.finishCycle(last)
				return last
			case <-timer.C:
			}
		}

		run, err := s.runner.RunAll(ctx, s.filter, attempt)
		last = run

		if run.Status == summary.RunStatusInterrupted || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Info().Str("run_id", run.RunID).Msg("Sync cycle interrupted, no further retries")
			break
		}
		if !needsRetry(run.Status) {
			s.logger.Info().Str("run_id", run.RunID).Str("status", string(run.Status)).Msg("Sync cycle finished")
			break
		}

		s.logger.Error().
			Str("run_id", run.RunID).
			Str("status", string(run.Status)).
			Strs("failed_countries", run.FailedCountries()).
			Int("attempt", attempt).
			Int("max_attempts", maxRetries+1).
			Msg("Sync cycle failed")
		if attempt == maxRetries+1 {
			s.logger.Error().Str("run_id", run.RunID).Msg("All retry attempts exhausted")
		}
	}

	s.finishCycle(last)
	return last
}

func (s *Scheduler) finishCycle(run summary.RunSummaryData) {
	if s.onCycle != nil {
		s.onCycle(run)
	}
}

func needsRetry(status summary.RunStatus) bool {
	return status == summary.RunStatusFailed || status == summary.RunStatusPartialComplete
}
