package scheduler

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aleister1102/holidaysync/internal/common/summary"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	mu       sync.Mutex
	statuses []summary.RunStatus
	errs     []error
	attempts []int
}

func (r *scriptedRunner) RunAll(_ context.Context, _ []string, attempt int) (summary.RunSummaryData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := len(r.attempts)
	r.attempts = append(r.attempts, attempt)

	run := summary.GetDefaultRunSummaryData()
	run.RunID = "run"
	run.Attempt = attempt
	run.Status = summary.RunStatusCompleted
	if i < len(r.statuses) {
		run.Status = r.statuses[i]
	}
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	return run, err
}

func newTestScheduler(t *testing.T, runner SyncRunner, db *DB, retries int) *Scheduler {
	t.Helper()
	s, err := NewScheduler(config.SchedulerConfig{CycleMinutes: 60, RetryAttempts: retries}, runner, db, nil, zerolog.Nop())
	require.NoError(t, err)
	return s.WithRetryDelay(time.Millisecond)
}

func TestRunCycleWithRetries_RetriesFailedRuns(t *testing.T) {
	runner := &scriptedRunner{statuses: []summary.RunStatus{summary.RunStatusFailed, summary.RunStatusPartialComplete, summary.RunStatusCompleted}}
	s := newTestScheduler(t, runner, nil, 2)

	run := s.RunCycleWithRetries(context.Background())
	assert.Equal(t, summary.RunStatusCompleted, run.Status)
	assert.Equal(t, []int{1, 2, 3}, runner.attempts)
}

func TestRunCycleWithRetries_StopsAfterRetryBudget(t *testing.T) {
	runner := &scriptedRunner{statuses: []summary.RunStatus{summary.RunStatusFailed, summary.RunStatusFailed, summary.RunStatusFailed}}
	s := newTestScheduler(t, runner, nil, 1)

	run := s.RunCycleWithRetries(context.Background())
	assert.Equal(t, summary.RunStatusFailed, run.Status)
	assert.Equal(t, []int{1, 2}, runner.attempts)
}

func TestRunCycleWithRetries_NoRetryWhenInterrupted(t *testing.T) {
	runner := &scriptedRunner{
		statuses: []summary.RunStatus{summary.RunStatusInterrupted},
		errs:     []error{context.Canceled},
	}
	s := newTestScheduler(t, runner, nil, 3)

	run := s.RunCycleWithRetries(context.Background())
	assert.Equal(t, summary.RunStatusInterrupted, run.Status)
	assert.Equal(t, []int{1}, runner.attempts)
}

func TestStart_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	runner := &scriptedRunner{}
	s := newTestScheduler(t, runner, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cycles []summary.RunSummaryData
	s.OnCycle(func(run summary.RunSummaryData) {
		cycles = append(cycles, run)
		cancel()
	})

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	require.Len(t, cycles, 1)
	assert.Equal(t, summary.RunStatusCompleted, cycles[0].Status)
}

func TestCalculateNextRunTime_UsesHistory(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, &scriptedRunner{}, db, 0)
	s.now = func() time.Time { return now }

	assert.True(t, s.calculateNextRunTime(context.Background(), time.Time{}).Equal(now))

	run := summary.GetDefaultRunSummaryData()
	run.RunID = "recent"
	run.Mode = config.ModeAutomated
	run.Status = summary.RunStatusCompleted
	run.StartedAt = now.Add(-10 * time.Minute)
	require.NoError(t, db.RecordRun(context.Background(), run))

	next := s.calculateNextRunTime(context.Background(), time.Time{})
	assert.WithinDuration(t, now.Add(50*time.Minute), next, time.Second)
}

func TestNewScheduler_Validation(t *testing.T) {
	_, err := NewScheduler(config.SchedulerConfig{CycleMinutes: 10}, nil, nil, nil, zerolog.Nop())
	require.Error(t, err)

	_, err = NewScheduler(config.SchedulerConfig{CycleMinutes: 0}, &scriptedRunner{}, nil, nil, zerolog.Nop())
	require.Error(t, err)
}
