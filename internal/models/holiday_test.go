package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayResult_JSONFieldOrder(t *testing.T) {
	res := HolidayResult{
		Source:            "https://www.gov.uk/bank-holidays",
		Country:           "United Kingdom",
		CountryAlpha2Code: "GB",
		CountryAlpha3Code: "GBR",
		Holidays: []HolidayRecord{
			{Date: "2025-01-01", Holiday: "New Year’s Day", Day: "Wednesday", Region: []string{"All"}},
			{Date: "2025-01-02", Holiday: "2nd January", Day: "Thursday"},
		},
		UpdatedOn: "2025-06-01T10:00:00",
	}

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t,
		`{"source":"https://www.gov.uk/bank-holidays","country":"United Kingdom","countryAlpha2Code":"GB","countryAlpha3Code":"GBR",`+
			`"holidays":[{"date":"2025-01-01","holiday":"New Year’s Day","day":"Wednesday","region":["All"]},`+
			`{"date":"2025-01-02","holiday":"2nd January","day":"Thursday"}],"updated_on":"2025-06-01T10:00:00"}`,
		string(data))
}

func TestHolidayRecord_Equal(t *testing.T) {
	base := HolidayRecord{Date: "2025-05-05", Holiday: "Early May", Day: "Monday", Region: []string{"Scotland"}}

	assert.True(t, base.Equal(base))
	assert.True(t, HolidayRecord{Date: "x", Holiday: "y"}.Equal(HolidayRecord{Date: "x", Holiday: "y", Region: []string{}}))

	other := base
	other.Region = []string{"Northern Ireland", "Scotland"}
	assert.False(t, base.Equal(other))

	other = base
	other.Day = "Tuesday"
	assert.False(t, base.Equal(other))
}

func TestCanonicalHolidays_IgnoresSameDayOrder(t *testing.T) {
	a := []HolidayRecord{
		{Date: "2025-02-01", Holiday: "B"},
		{Date: "2025-01-01", Holiday: "Z"},
		{Date: "2025-01-01", Holiday: "A"},
	}
	b := []HolidayRecord{
		{Date: "2025-01-01", Holiday: "A"},
		{Date: "2025-01-01", Holiday: "Z"},
		{Date: "2025-02-01", Holiday: "B"},
	}

	assert.Equal(t, CanonicalHolidays(b), CanonicalHolidays(a))
	assert.Equal(t, "Z", a[1].Holiday, "input must not be reordered")
}

func TestSortHolidays_Stable(t *testing.T) {
	records := []HolidayRecord{
		{Date: "2025-03-01", Holiday: "later"},
		{Date: "2025-01-01", Holiday: "first"},
		{Date: "2025-01-01", Holiday: "second"},
	}
	SortHolidays(records)

	assert.Equal(t, []string{"first", "second", "later"}, []string{records[0].Holiday, records[1].Holiday, records[2].Holiday})
}

func TestHolidayRecord_Validate(t *testing.T) {
	assert.NoError(t, HolidayRecord{Date: "2025-01-01", Holiday: "x"}.Validate())
	assert.Error(t, HolidayRecord{Holiday: "x"}.Validate())
	assert.Error(t, HolidayRecord{Date: "2025-01-01"}.Validate())
}

func TestCountryInfo_StorageKey(t *testing.T) {
	assert.Equal(t, "gbr", CountryInfo{Alpha3: "GBR"}.StorageKey())
}
