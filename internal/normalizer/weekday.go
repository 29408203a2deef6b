package normalizer

import (
	"time"

	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
)

// DayOfWeekAnnotator fills in missing weekday names.
type DayOfWeekAnnotator struct {
	logger zerolog.Logger
}

func NewDayOfWeekAnnotator(logger zerolog.Logger) *DayOfWeekAnnotator {
	return &DayOfWeekAnnotator{
		logger: logger.With().Str("component", "DayOfWeekAnnotator").Logger(),
	}
}

// Annotate sets Day on every record that lacks one and returns how many it set.
// Existing values are left alone; unparseable dates are logged and skipped.
func (a *DayOfWeekAnnotator) Annotate(records []models.HolidayRecord) int {
	annotated := 0
	for i := range records {
		if records[i].Day != "" {
			continue
		}
		date, err := time.Parse(models.DateLayout, records[i].Date)
		if err != nil {
			a.logger.Warn().Err(err).Str("date", records[i].Date).Str("holiday", records[i].Holiday).Msg("Could not derive weekday")
			continue
		}
		records[i].Day = date.Weekday().String()
		annotated++
	}
	return annotated
}
