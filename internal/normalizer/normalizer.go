package normalizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
)

// ErrNoHolidays is returned when an extraction yields nothing usable; an empty
// result must never replace stored data.
var ErrNoHolidays = errors.New("no holidays could be normalized")

// NormalizeStats summarises one normalization pass.
type NormalizeStats struct {
	RawRecords         int
	ExpandedDays       int // extra days produced by ranges
	SkippedExpressions []string
	DuplicatesFolded   int
	DroppedRegions     []string // labels outside the region catalogue
	DaysAnnotated      int
	YearFallbacks      int
}

// Normalizer turns an Extraction into a sorted, de-duplicated, weekday-annotated holiday list.
type Normalizer struct {
	logger    zerolog.Logger
	config    config.NormalizerConfig
	annotator *DayOfWeekAnnotator
	now       func() time.Time
}

func NewNormalizer(cfg config.NormalizerConfig, logger zerolog.Logger) *Normalizer {
	componentLogger := logger.With().Str("component", "Normalizer").Logger()
	return &Normalizer{
		logger:    componentLogger,
		config:    cfg,
		annotator: NewDayOfWeekAnnotator(componentLogger),
		now:       time.Now,
	}
}

// WithClock replaces the clock used for the current-year fallback.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize runs expansion, region merging (regional sources only) or
// de-duplication, date sort and weekday annotation, in that order.
func (n *Normalizer) Normalize(extraction *models.Extraction) ([]models.HolidayRecord, NormalizeStats, error) {
	stats := NormalizeStats{RawRecords: len(extraction.Records)}
	if len(extraction.Records) == 0 {
		return nil, stats, fmt.Errorf("%w: extraction from %s is empty", ErrNoHolidays, extraction.SourceURL)
	}

	records, err := n.expand(extraction, &stats)
	if err != nil {
		return nil, stats, err
	}
	if len(records) == 0 {
		return nil, stats, fmt.Errorf("%w: all %d expressions from %s failed", ErrNoHolidays, stats.RawRecords, extraction.SourceURL)
	}

	before := len(records)
	if extraction.IsRegional() {
		merger := NewRegionMerger(extraction.Regions, n.logger)
		records = merger.Merge(records)
		stats.DroppedRegions = merger.DroppedLabels()
		before -= merger.DroppedHolidays()
		if len(records) == 0 {
			return nil, stats, fmt.Errorf("%w: no record from %s names a catalogued region", ErrNoHolidays, extraction.SourceURL)
		}
	} else {
		records = dedupe(records)
	}
	stats.DuplicatesFolded = before - len(records)

	models.SortHolidays(records)
	stats.DaysAnnotated = n.annotator.Annotate(records)

	for _, record := range records {
		if err := record.Validate(); err != nil {
			return nil, stats, err
		}
	}
	return records, stats, nil
}

func (n *Normalizer) expand(extraction *models.Extraction, stats *NormalizeStats) ([]models.HolidayRecord, error) {
	records := make([]models.HolidayRecord, 0, len(extraction.Records))
	fallbackLogged := false

	for _, raw := range extraction.Records {
		name := CleanText(raw.HolidayName)
		if name == "" {
			n.logger.Warn().Str("date_expression", raw.DateExpression).Msg("Skipping record without holiday name")
			stats.SkippedExpressions = append(stats.SkippedExpressions, raw.DateExpression)
			continue
		}

		year := raw.Year
		if year == 0 && !IsISODate(raw.DateExpression) {
			year = n.now().Year()
			stats.YearFallbacks++
			if !fallbackLogged {
				fallbackErr := &models.UnresolvedYearError{SourceURL: extraction.SourceURL, Fallback: year}
				n.logger.Warn().Err(fallbackErr).Msg("Year not resolved, falling back to current year")
				fallbackLogged = true
			}
		}

		days, err := ExpandDateRange(raw.DateExpression, year)
		if err != nil {
			if n.config.StrictDates {
				return nil, err
			}
			n.logger.Warn().Err(err).Str("holiday", name).Msg("Skipping unparseable date expression")
			stats.SkippedExpressions = append(stats.SkippedExpressions, raw.DateExpression)
			continue
		}
		stats.ExpandedDays += len(days) - 1

		var region []string
		if r := CleanText(raw.Region); r != "" {
			region = []string{r}
		}
		day := ""
		if len(days) == 1 {
			day = CleanText(raw.Day)
		}

		for _, d := range days {
			records = append(records, models.HolidayRecord{
				Date:    d.Format(models.DateLayout),
				Holiday: name,
				Day:     day,
				Region:  region,
			})
		}
	}
	return records, nil
}

// dedupe drops exact repeats of (date, holiday, region), keeping the first.
func dedupe(records []models.HolidayRecord) []models.HolidayRecord {
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, record := range records {
		key := record.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, record)
	}
	return out
}
