package differ

import (
	"testing"

	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHolidayDiffer_Diff(t *testing.T) {
	differ := NewHolidayDiffer(NewDefaultDiffConfig(), zerolog.Nop())

	previous := []models.HolidayRecord{
		{Date: "2025-01-01", Holiday: "New Year's Day", Day: "Wednesday"},
		{Date: "2025-05-05", Holiday: "Early May bank holiday", Day: "Monday", Region: []string{"Scotland"}},
		{Date: "2025-12-25", Holiday: "Christmas Day", Day: "Thursday"},
	}
	current := []models.HolidayRecord{
		{Date: "2025-12-25", Holiday: "Christmas Day", Day: "Thursday"},
		{Date: "2025-01-01", Holiday: "New Year's Day", Day: "Wednesday"},
		{Date: "2025-05-05", Holiday: "Early May bank holiday", Day: "Monday", Region: []string{"All"}},
		{Date: "2025-12-26", Holiday: "Boxing Day", Day: "Friday"},
	}

	diff := differ.Diff(previous, current)

	assert.False(t, diff.Stats.IsIdentical)
	assert.Equal(t, 2, diff.Stats.LinesAdded)
	assert.Equal(t, 1, diff.Stats.LinesDeleted)
	assert.Equal(t, []string{"2025-05-05 | Early May bank holiday | Monday | Scotland"}, diff.Removed)
	assert.ElementsMatch(t, []string{
		"2025-05-05 | Early May bank holiday | Monday | All",
		"2025-12-26 | Boxing Day | Friday",
	}, diff.Added)
	assert.Equal(t, "+2 -1", diff.Summary())
}

func TestHolidayDiffer_IdenticalIgnoresOrder(t *testing.T) {
	differ := NewHolidayDiffer(NewDefaultDiffConfig(), zerolog.Nop())
	a := []models.HolidayRecord{
		{Date: "2025-01-01", Holiday: "A"},
		{Date: "2025-01-01", Holiday: "B"},
	}
	b := []models.HolidayRecord{a[1], a[0]}

	diff := differ.Diff(a, b)
	assert.True(t, diff.Stats.IsIdentical)
	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
}

func TestHolidayDiffer_FromEmpty(t *testing.T) {
	differ := NewHolidayDiffer(NewDefaultDiffConfig(), zerolog.Nop())

	diff := differ.Diff(nil, []models.HolidayRecord{{Date: "2025-01-01", Holiday: "A", Day: "Wednesday"}})
	assert.Equal(t, 1, diff.Stats.LinesAdded)
	assert.Equal(t, 0, diff.Stats.LinesDeleted)
}
