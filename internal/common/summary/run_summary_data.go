package summary

import (
	"fmt"
	"strings"
	"time"
)

// Country outcome statuses. The persisted ones mirror the store outcomes.
const (
	OutcomeCreated     = "created"
	OutcomeUpdated     = "updated"
	OutcomeUnchanged   = "unchanged"
	OutcomeOverwritten = "overwritten"
	OutcomeFailed      = "failed"
)

// CountryOutcome is the result of one country's pipeline run.
type CountryOutcome struct {
	Alpha3    string
	Country   string
	Status    string // One of the Outcome* constants
	Holidays  int    // Records in the stored result
	Changes   string // "+N -M" when the store was updated
	UpdatedOn string
	Path      string
	Archive   string
	Error     string
	Duration  time.Duration

	RawRecords         int
	ExpandedDays       int
	DuplicatesFolded   int
	DaysAnnotated      int
	SkippedExpressions []string
}

// Failed reports whether the country run aborted.
func (o CountryOutcome) Failed() bool {
	return o.Status == OutcomeFailed
}

// RunSummaryData holds everything reported about one run.
type RunSummaryData struct {
	RunID        string
	Mode         string
	Attempt      int // 1-based; > 1 only for scheduler retries
	StartedAt    time.Time
	Duration     time.Duration
	Status       RunStatus
	Countries    []CountryOutcome
	ErrorMessage string
}

// GetDefaultRunSummaryData initializes a RunSummaryData with default/empty values.
func GetDefaultRunSummaryData() RunSummaryData {
	return RunSummaryData{
		Mode:      "Unknown",
		Attempt:   1,
		Countries: []CountryOutcome{},
		Status:    RunStatusUnknown,
	}
}

// Counts tallies country outcomes by status.
func (s RunSummaryData) Counts() map[string]int {
	counts := make(map[string]int, 5)
	for _, c := range s.Countries {
		counts[c.Status]++
	}
	return counts
}

// FailedCountries lists the alpha-3 codes of failed countries.
func (s RunSummaryData) FailedCountries() []string {
	var failed []string
	for _, c := range s.Countries {
		if c.Failed() {
			failed = append(failed, c.Alpha3)
		}
	}
	return failed
}

// Render formats the summary as plain text, one line per country.
func (s RunSummaryData) Render() string {
	var b strings.Builder
	counts := s.Counts()

	fmt.Fprintf(&b, "Run %s (%s) %s in %s\n", s.RunID, s.Mode, s.Status, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  countries: %d, created: %d, updated: %d, unchanged: %d, overwritten: %d, failed: %d\n",
		len(s.Countries),
		counts[OutcomeCreated],
		counts[OutcomeUpdated],
		counts[OutcomeUnchanged],
		counts[OutcomeOverwritten],
		counts[OutcomeFailed],
	)

	for _, c := range s.Countries {
		if c.Failed() {
			fmt.Fprintf(&b, "  %s %-11s %s\n", c.Alpha3, c.Status, c.Error)
			continue
		}
		line := fmt.Sprintf("  %s %-11s %d holidays (raw %d, expanded +%d, folded %d, skipped %d)",
			c.Alpha3, c.Status, c.Holidays, c.RawRecords, c.ExpandedDays, c.DuplicatesFolded, len(c.SkippedExpressions))
		if c.Changes != "" {
			line += " changes " + c.Changes
		}
		if c.UpdatedOn != "" {
			line += " updated_on " + c.UpdatedOn
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if s.ErrorMessage != "" {
		fmt.Fprintf(&b, "  error: %s\n", s.ErrorMessage)
	}
	return b.String()
}
