package differ

import (
	"fmt"
	"strings"

	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// HolidayDiff describes how a stored holiday list changed.
type HolidayDiff struct {
	Added   []string
	Removed []string
	Stats   DiffStatistics
}

// Summary renders "+N -M" for run summaries.
func (d HolidayDiff) Summary() string {
	return fmt.Sprintf("+%d -%d", d.Stats.LinesAdded, d.Stats.LinesDeleted)
}

// HolidayDiffer compares two holiday lists as canonical line sets.
type HolidayDiffer struct {
	processor *DiffProcessor
	logger    zerolog.Logger
}

func NewHolidayDiffer(config DiffConfig, logger zerolog.Logger) *HolidayDiffer {
	return &HolidayDiffer{
		processor: NewDiffProcessor(config),
		logger:    logger.With().Str("component", "HolidayDiffer").Logger(),
	}
}

func (hd *HolidayDiffer) Diff(previous, current []models.HolidayRecord) HolidayDiff {
	diffs := hd.processor.ProcessLineDiff(render(previous), render(current))

	result := HolidayDiff{Stats: CalculateStats(diffs)}
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			result.Added = append(result.Added, splitLines(diff.Text)...)
		case diffmatchpatch.DiffDelete:
			result.Removed = append(result.Removed, splitLines(diff.Text)...)
		}
	}

	hd.logger.Debug().
		Int("added", result.Stats.LinesAdded).
		Int("removed", result.Stats.LinesDeleted).
		Msg("Computed holiday diff")
	return result
}

func render(records []models.HolidayRecord) string {
	var b strings.Builder
	for _, record := range models.CanonicalHolidays(records) {
		b.WriteString(record.String())
		b.WriteByte('\n')
	}
	return b.String()
}
