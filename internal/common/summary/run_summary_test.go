package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSummaryBuilder_DetermineStatus(t *testing.T) {
	ok := CountryOutcome{Alpha3: "SGP", Status: OutcomeUnchanged}
	bad := CountryOutcome{Alpha3: "MYS", Status: OutcomeFailed, Error: "boom"}

	tests := []struct {
		name     string
		outcomes []CountryOutcome
		runErr   error
		expected RunStatus
	}{
		{name: "all succeeded", outcomes: []CountryOutcome{ok, ok}, expected: RunStatusCompleted},
		{name: "some failed", outcomes: []CountryOutcome{ok, bad}, expected: RunStatusPartialComplete},
		{name: "all failed", outcomes: []CountryOutcome{bad}, expected: RunStatusFailed},
		{name: "no countries", expected: RunStatusNoTargets},
		{name: "run error without countries", runErr: errors.New("config"), expected: RunStatusFailed},
		{name: "cancelled", outcomes: []CountryOutcome{ok}, runErr: context.Canceled, expected: RunStatusInterrupted},
	}

	builder := NewSummaryBuilder(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := builder.BuildSummary(SummaryInput{RunID: "run", Mode: "onetime", Outcomes: tt.outcomes, RunError: tt.runErr})
			assert.Equal(t, tt.expected, summary.Status)
		})
	}
}

func TestRunSummaryData_Render(t *testing.T) {
	summary := NewSummaryBuilder(zerolog.Nop()).BuildSummary(SummaryInput{
		RunID:     "0f0e",
		Mode:      "onetime",
		StartTime: time.Now().Add(-time.Second),
		Outcomes: []CountryOutcome{
			{Alpha3: "GBR", Status: OutcomeUpdated, Holidays: 24, RawRecords: 30, DuplicatesFolded: 6, Changes: "+2 -1", UpdatedOn: "2025-06-01T09:30:15"},
			{Alpha3: "SGP", Status: OutcomeUnchanged, Holidays: 11, RawRecords: 11, UpdatedOn: "2025-05-01T08:00:00"},
			{Alpha3: "MYS", Status: OutcomeFailed, Error: "extraction mismatch"},
		},
	})

	text := summary.Render()
	assert.Contains(t, text, "Run 0f0e (onetime) PARTIAL_COMPLETE")
	assert.Contains(t, text, "countries: 3, created: 0, updated: 1, unchanged: 1, overwritten: 0, failed: 1")
	assert.Contains(t, text, "GBR updated     24 holidays (raw 30, expanded +0, folded 6, skipped 0) changes +2 -1 updated_on 2025-06-01T09:30:15")
	assert.Contains(t, text, "MYS failed      extraction mismatch")
	assert.Equal(t, []string{"MYS"}, summary.FailedCountries())
	assert.True(t, summary.Status.IsFailure())
}
