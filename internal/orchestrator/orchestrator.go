package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/holidaysync/internal/common/batchprocessor"
	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/common/summary"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/datastore"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/aleister1102/holidaysync/internal/normalizer"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExtractionSource yields the raw records of one configured country.
type ExtractionSource interface {
	Extract(ctx context.Context, source config.CountryConfig) (*models.Extraction, error)
}

// RunRecorder stores finished run summaries.
type RunRecorder interface {
	RecordRun(ctx context.Context, run summary.RunSummaryData) error
}

// SyncOrchestrator runs the holiday pipeline for one country or for every
// enabled country of the configuration.
type SyncOrchestrator struct {
	config         *config.GlobalConfig
	logger         zerolog.Logger
	source         ExtractionSource
	normalizer     *normalizer.Normalizer
	assembler      *normalizer.ResultAssembler
	persister      *datastore.ChangeAwarePersister
	processor      *batchprocessor.BatchProcessor
	summaryBuilder *summary.SummaryBuilder
	recorder       RunRecorder
	newRunID       func() string
}

// CountryRun is the full result of one country's pipeline.
type CountryRun struct {
	Result  models.HolidayResult
	Persist *datastore.PersistResult
	Stats   normalizer.NormalizeStats
}

// RunCountry extracts, normalizes, assembles and persists one country.
func (so *SyncOrchestrator) RunCountry(ctx context.Context, source config.CountryConfig) (*CountryRun, error) {
	info := source.Info()
	log := so.logger.With().Str("country", info.Alpha3).Str("source_kind", source.SourceKind).Logger()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info().Str("url", source.SourceURL).Msg("Extracting holidays")
	extraction, err := so.source.Extract(ctx, source)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("extraction failed for %s", info.Alpha3))
	}
	if extraction.SourceURL == "" {
		extraction.SourceURL = source.SourceURL
	}

	holidays, stats, err := so.normalizer.Normalize(extraction)
	if err != nil {
		return &CountryRun{Stats: stats}, errorwrapper.WrapError(err, fmt.Sprintf("normalization failed for %s", info.Alpha3))
	}

	var regions []string
	if extraction.IsRegional() {
		regions = extraction.Regions
	}
	result := so.assembler.Assemble(extraction.SourceURL, info, holidays, regions)

	persisted, err := so.persister.Persist(ctx, result, so.persister.StoragePath(info))
	if err != nil {
		return &CountryRun{Result: result, Stats: stats}, err
	}

	log.Info().
		Str("status", string(persisted.Status)).
		Int("holidays", len(result.Holidays)).
		Int("skipped_expressions", len(stats.SkippedExpressions)).
		Msg("Country sync finished")
	return &CountryRun{Result: result, Persist: persisted, Stats: stats}, nil
}

// RunAll syncs every enabled country matching filter (alpha-3 codes, empty
// means all) through the worker pool and records the run summary.
func (so *SyncOrchestrator) RunAll(ctx context.Context, filter []string, attempt int) (summary.RunSummaryData, error) {
	runID := so.newRunID()
	start := time.Now()
	countries := so.config.EnabledCountries(filter)

	log := so.logger.With().Str("run_id", runID).Logger()
	log.Info().Int("countries", len(countries)).Int("attempt", attempt).Msg("Starting holiday sync run")

	results, runErr := batchprocessor.Process(ctx, so.processor, countries,
		func(itemCtx context.Context, source config.CountryConfig, _ int) (summary.CountryOutcome, error) {
			countryStart := time.Now()
			run, err := so.RunCountry(itemCtx, source)
			outcome := buildOutcome(source, run, err)
			outcome.Duration = time.Since(countryStart)
			return outcome, err
		})

	outcomes := make([]summary.CountryOutcome, 0, len(results))
	for i, r := range results {
		if r.Skipped {
			outcome := buildOutcome(countries[i], nil, context.Canceled)
			outcome.Error = "not started: run cancelled"
			outcomes = append(outcomes, outcome)
			continue
		}
		outcomes = append(outcomes, r.Value)
	}

	runSummary := so.summaryBuilder.BuildSummary(summary.SummaryInput{
		RunID:     runID,
		Mode:      so.config.Mode,
		Attempt:   attempt,
		StartTime: start,
		Outcomes:  outcomes,
		RunError:  runErr,
	})

	if so.recorder != nil {
		// Cancelled runs are recorded too.
		if err := so.recorder.RecordRun(context.WithoutCancel(ctx), runSummary); err != nil {
			log.Error().Err(err).Msg("Failed to record run history")
		}
	}

	log.Info().
		Str("status", string(runSummary.Status)).
		Dur("duration", runSummary.Duration).
		Msg("Holiday sync run finished")
	return runSummary, runErr
}

func buildOutcome(source config.CountryConfig, run *CountryRun, err error) summary.CountryOutcome {
	info := source.Info()
	outcome := summary.CountryOutcome{Alpha3: info.Alpha3, Country: info.Name}

	if run != nil {
		outcome.RawRecords = run.Stats.RawRecords
		outcome.ExpandedDays = run.Stats.ExpandedDays
		outcome.DuplicatesFolded = run.Stats.DuplicatesFolded
		outcome.DaysAnnotated = run.Stats.DaysAnnotated
		outcome.SkippedExpressions = run.Stats.SkippedExpressions
	}

	if err != nil {
		outcome.Status = summary.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = string(run.Persist.Status)
	outcome.Holidays = len(run.Result.Holidays)
	outcome.UpdatedOn = run.Persist.UpdatedOn
	outcome.Path = run.Persist.Path
	outcome.Archive = run.Persist.ArchivePath
	if run.Persist.Diff != nil {
		outcome.Changes = run.Persist.Diff.Summary()
	}
	return outcome
}

// IsInterrupted reports whether err comes from a cancelled or timed-out run
// rather than from a single country.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func defaultRunID() string {
	return uuid.NewString()
}
