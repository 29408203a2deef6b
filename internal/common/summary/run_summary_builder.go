package summary

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// SummaryBuilder handles the creation of run summary data
type SummaryBuilder struct {
	logger zerolog.Logger
}

// NewSummaryBuilder creates a new SummaryBuilder instance
func NewSummaryBuilder(logger zerolog.Logger) *SummaryBuilder {
	return &SummaryBuilder{
		logger: logger.With().Str("module", "SummaryBuilder").Logger(),
	}
}

// SummaryInput contains data needed to build a run summary
type SummaryInput struct {
	RunID     string
	Mode      string
	Attempt   int
	StartTime time.Time
	Outcomes  []CountryOutcome
	RunError  error
}

// BuildSummary creates the run summary and derives its overall status.
func (sb *SummaryBuilder) BuildSummary(input SummaryInput) RunSummaryData {
	summary := GetDefaultRunSummaryData()
	summary.RunID = input.RunID
	summary.Mode = input.Mode
	if input.Attempt > 0 {
		summary.Attempt = input.Attempt
	}
	summary.StartedAt = input.StartTime
	if !input.StartTime.IsZero() {
		summary.Duration = time.Since(input.StartTime)
	}
	if input.Outcomes != nil {
		summary.Countries = input.Outcomes
	}
	if input.RunError != nil {
		summary.ErrorMessage = input.RunError.Error()
	}

	summary.Status = sb.determineStatus(summary.Countries, input.RunError)
	sb.logger.Debug().Str("run_id", summary.RunID).Str("status", string(summary.Status)).Msg("Built run summary")
	return summary
}

func (sb *SummaryBuilder) determineStatus(outcomes []CountryOutcome, runErr error) RunStatus {
	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		return RunStatusInterrupted
	}
	if len(outcomes) == 0 {
		if runErr != nil {
			return RunStatusFailed
		}
		return RunStatusNoTargets
	}

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}

	switch {
	case runErr != nil || failed == len(outcomes):
		return RunStatusFailed
	case failed > 0:
		return RunStatusPartialComplete
	default:
		return RunStatusCompleted
	}
}
