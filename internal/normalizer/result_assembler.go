package normalizer

import (
	"slices"
	"time"

	"github.com/aleister1102/holidaysync/internal/models"
)

// UpdatedOnLayout is local time at second precision, without offset.
const UpdatedOnLayout = "2006-01-02T15:04:05"

// ResultAssembler wraps a normalized holiday list in its country envelope.
type ResultAssembler struct {
	now func() time.Time
}

func NewResultAssembler(now func() time.Time) *ResultAssembler {
	if now == nil {
		now = time.Now
	}
	return &ResultAssembler{now: now}
}

// Assemble stamps updated_on with the current time. regions is copied into
// countryRegions only when non-empty.
func (a *ResultAssembler) Assemble(sourceURL string, country models.CountryInfo, holidays []models.HolidayRecord, regions []string) models.HolidayResult {
	if holidays == nil {
		holidays = []models.HolidayRecord{}
	}
	result := models.HolidayResult{
		Source:            sourceURL,
		Country:           country.Name,
		CountryAlpha2Code: country.Alpha2,
		CountryAlpha3Code: country.Alpha3,
		Holidays:          holidays,
		UpdatedOn:         a.now().Truncate(time.Second).Format(UpdatedOnLayout),
	}
	if len(regions) > 0 {
		result.CountryRegions = slices.Clone(regions)
	}
	return result
}
