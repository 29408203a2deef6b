package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const govUKPage = `<html><body>
<div class="govuk-tabs__panel" id="england-and-wales">
  <h2>England and Wales</h2>
  <table>
    <caption>Upcoming bank holidays in England and Wales 2025</caption>
    <thead><tr><th>Date</th><th>Day of the week</th><th>Bank holiday</th></tr></thead>
    <tbody>
      <tr><th>25 December</th><td>Thursday</td><td>Christmas Day</td></tr>
      <tr><th>26 December</th><td>Friday</td><td>Boxing Day</td></tr>
    </tbody>
  </table>
</div>
<div class="govuk-tabs__panel" id="scotland">
  <h2>Scotland 2025</h2>
  <div>
    <table>
      <thead><tr><th>Date</th><th>Day of the week</th><th>Bank holiday</th></tr></thead>
      <tbody>
        <tr><th>2 January</th><td>Thursday</td><td>2nd  January</td></tr>
        <tr><th></th><td>Friday</td><td>Empty date</td></tr>
      </tbody>
    </table>
  </div>
</div>
<table><tr><th>Unrelated</th></tr><tr><td>x</td><td>y</td></tr></table>
</body></html>`

func TestGovUKExtractor_Extract(t *testing.T) {
	source := config.CountryConfig{
		Alpha3:     "GBR",
		SourceKind: config.SourceKindGovUK,
		SourceURL:  "https://www.gov.uk/bank-holidays",
		Regions:    []string{"All", "Scotland", "England and Wales", "Northern Ireland"},
	}
	fetcher := &stubFetcher{pages: map[string]string{source.SourceURL: govUKPage}}

	extraction, err := NewGovUKExtractor(fetcher, zerolog.Nop()).Extract(context.Background(), source)
	require.NoError(t, err)

	assert.True(t, extraction.IsRegional())
	assert.Equal(t, []models.RawRecord{
		{DateExpression: "25 December", HolidayName: "Christmas Day", Region: "England and Wales", Year: 2025},
		{DateExpression: "26 December", HolidayName: "Boxing Day", Region: "England and Wales", Year: 2025},
		{DateExpression: "2 January", HolidayName: "2nd January", Region: "Scotland", Year: 2025},
	}, extraction.Records)
}

func TestGovUKExtractor_FallbacksForMissingContext(t *testing.T) {
	page := `<html><body><table>
<tr><th>Date</th><th>Bank holiday</th></tr>
<tr><th>1 May</th><td>Thursday</td><td>Early May</td></tr>
</table></body></html>`
	source := config.CountryConfig{SourceURL: "https://example.test/uk", Regions: []string{"All", "Scotland"}}
	fetcher := &stubFetcher{pages: map[string]string{source.SourceURL: page}}

	extraction, err := NewGovUKExtractor(fetcher, zerolog.Nop()).
		WithClock(func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) }).
		Extract(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, extraction.Records, 1)
	assert.Equal(t, models.RegionAll, extraction.Records[0].Region)
	assert.Equal(t, 2031, extraction.Records[0].Year)
}

func TestMatchRegion_PrefersLongestLabel(t *testing.T) {
	catalogue := []string{"All", "Wales", "England and Wales"}
	assert.Equal(t, "England and Wales", matchRegion("Holidays in England and Wales", catalogue))
	assert.Equal(t, "Wales", matchRegion("wales only", catalogue))
	assert.Empty(t, matchRegion("All of them", catalogue))
}

func officeHolidaysPage(rows string) string {
	return `<html><body><table class="country-table"><thead><tr><th>Day</th><th>Date</th><th>Holiday Name</th><th>Type</th></tr></thead><tbody>` +
		rows + `</tbody></table></body></html>`
}

func TestOfficeHolidaysExtractor_Extract(t *testing.T) {
	source := config.CountryConfig{
		Alpha3:     "MYS",
		SourceKind: config.SourceKindOfficeHolidays,
		SourceURL:  "https://www.officeholidays.com/countries/malaysia/",
		YearsAhead: 1,
	}
	fetcher := &stubFetcher{pages: map[string]string{
		"https://www.officeholidays.com/countries/malaysia/2025": officeHolidaysPage(`
<tr><td>Wednesday</td><td><time datetime="2025-01-01">Jan 01</time></td><td><a href="#">New Year's Day</a></td><td>Regional Holiday</td></tr>
<tr><td>Thursday</td><td><time datetime="2025-05-01">May 01</time></td><td><a href="#">Labour Day</a></td><td>National Holiday</td></tr>`),
		"https://www.officeholidays.com/countries/malaysia/2026": officeHolidaysPage(`
<tr><td>Monday</td><td><time datetime="2026-08-31">Aug 31</time></td><td><a href="#">National Day</a></td><td> National Holiday </td></tr>`),
	}}

	extractor := NewOfficeHolidaysExtractor(fetcher, zerolog.Nop()).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })
	extraction, err := extractor.Extract(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, []models.RawRecord{
		{DateExpression: "2025-05-01", HolidayName: "Labour Day", Year: 2025},
		{DateExpression: "2026-08-31", HolidayName: "National Day", Year: 2026},
	}, extraction.Records)
	assert.False(t, extraction.IsRegional())
}

func TestOfficeHolidaysExtractor_Mismatch(t *testing.T) {
	source := config.CountryConfig{SourceURL: "https://example.test/my"}
	fetcher := &stubFetcher{pages: map[string]string{
		"https://example.test/my/2025": officeHolidaysPage(`
<tr><td>Thursday</td><td><time datetime="2025-05-01">May 01</time></td><td></td><td>National Holiday</td></tr>`),
	}}

	extractor := NewOfficeHolidaysExtractor(fetcher, zerolog.Nop()).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })
	_, err := extractor.Extract(context.Background(), source)

	var mismatch *models.ExtractionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Dates)
	assert.Equal(t, 0, mismatch.Names)
}

func TestOfficeHolidaysExtractor_FetchError(t *testing.T) {
	extractor := NewOfficeHolidaysExtractor(&stubFetcher{}, zerolog.Nop())
	_, err := extractor.Extract(context.Background(), config.CountryConfig{SourceURL: "https://example.test/my"})
	require.Error(t, err)
}

const sgMetadata = `{"data":{"collectionMetadata":{"childDatasets":["d_2025","d_2026"]}}}`

func TestDataGovSGExtractor_Extract(t *testing.T) {
	source := config.CountryConfig{
		Alpha3:             "SGP",
		SourceKind:         config.SourceKindDataGovSG,
		SourceURL:          "https://api.example.test/collections/691/metadata",
		DatasetURLTemplate: "https://api.example.test/datastore_search?resource_id=%s",
	}
	fetcher := &stubFetcher{pages: map[string]string{
		source.SourceURL: sgMetadata,
		"https://api.example.test/datastore_search?resource_id=d_2025": `{"result":{"records":[
			{"_id":1,"date":"2025-08-09 ","day":" Saturday","holiday":"National Day "},
			{"_id":2,"date":"2025-01-01","day":"Wednesday","holiday":"New Year’s Day"}]}}`,
		"https://api.example.test/datastore_search?resource_id=d_2026": `{"result":{"records":[]}}`,
	}}

	extraction, err := NewDataGovSGExtractor(fetcher, zerolog.Nop()).Extract(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, []models.RawRecord{
		{DateExpression: "2025-08-09", HolidayName: "National Day", Day: "Saturday"},
		{DateExpression: "2025-01-01", HolidayName: "New Year’s Day", Day: "Wednesday"},
	}, extraction.Records)
	assert.Len(t, fetcher.fetched, 3)
}

func TestDataGovSGExtractor_Errors(t *testing.T) {
	base := config.CountryConfig{
		SourceURL:          "https://api.example.test/meta",
		DatasetURLTemplate: "https://api.example.test/ds/%s",
	}

	tests := []struct {
		name   string
		source func() config.CountryConfig
		pages  map[string]string
	}{
		{
			name: "template without placeholder",
			source: func() config.CountryConfig {
				s := base
				s.DatasetURLTemplate = "https://api.example.test/ds"
				return s
			},
		},
		{
			name:   "invalid metadata json",
			source: func() config.CountryConfig { return base },
			pages:  map[string]string{base.SourceURL: "<html>"},
		},
		{
			name:   "metadata without datasets",
			source: func() config.CountryConfig { return base },
			pages:  map[string]string{base.SourceURL: `{"data":{}}`},
		},
		{
			name:   "dataset without records",
			source: func() config.CountryConfig { return base },
			pages: map[string]string{
				base.SourceURL:                 `{"data":{"collectionMetadata":{"childDatasets":["x"]}}}`,
				"https://api.example.test/ds/x": `{"result":{}}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewDataGovSGExtractor(&stubFetcher{pages: tt.pages}, zerolog.Nop())
			_, err := extractor.Extract(context.Background(), tt.source())
			require.Error(t, err)
		})
	}
}
