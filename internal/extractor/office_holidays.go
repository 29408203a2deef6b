package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
)

const nationalHolidayType = "National Holiday"

// OfficeHolidaysExtractor reads the national holidays of officeholidays.com
// country pages, one page per year.
type OfficeHolidaysExtractor struct {
	fetcher Fetcher
	logger  zerolog.Logger
	now     func() time.Time
}

func NewOfficeHolidaysExtractor(fetcher Fetcher, logger zerolog.Logger) *OfficeHolidaysExtractor {
	return &OfficeHolidaysExtractor{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "OfficeHolidaysExtractor").Logger(),
		now:     time.Now,
	}
}

func (e *OfficeHolidaysExtractor) WithClock(now func() time.Time) *OfficeHolidaysExtractor {
	e.now = now
	return e
}

func (e *OfficeHolidaysExtractor) Kind() string {
	return config.SourceKindOfficeHolidays
}

func (e *OfficeHolidaysExtractor) Extract(ctx context.Context, source config.CountryConfig) (*models.Extraction, error) {
	extraction := &models.Extraction{SourceURL: source.SourceURL}
	startYear := e.now().Year()

	for year := startYear; year <= startYear+source.YearsAhead; year++ {
		pageURL := fmt.Sprintf("%s/%d", strings.TrimRight(source.SourceURL, "/"), year)
		body, err := e.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to fetch %s", pageURL))
		}

		records, err := e.parseYearPage(body, pageURL, year)
		if err != nil {
			return nil, err
		}
		extraction.Records = append(extraction.Records, records...)
	}

	e.logger.Info().
		Str("country", source.Alpha3).
		Int("years", source.YearsAhead+1).
		Int("records", len(extraction.Records)).
		Msg("Parsed office holiday pages")
	return extraction, nil
}

func (e *OfficeHolidaysExtractor) parseYearPage(body []byte, pageURL string, year int) ([]models.RawRecord, error) {
	doc, err := parseDocument(body, pageURL)
	if err != nil {
		return nil, err
	}

	var dates, names []string
	doc.Find("table.country-table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if strings.TrimSpace(cells.Eq(3).Text()) != nationalHolidayType {
			return
		}
		cells.Eq(1).Find("time[datetime]").Each(func(_ int, t *goquery.Selection) {
			dates = append(dates, strings.TrimSpace(t.AttrOr("datetime", "")))
		})
		cells.Eq(2).Children().Each(func(_ int, child *goquery.Selection) {
			if name := selectionText(child); name != "" {
				names = append(names, name)
			}
		})
	})

	if len(dates) != len(names) {
		return nil, &models.ExtractionMismatchError{SourceURL: pageURL, Dates: len(dates), Names: len(names)}
	}

	records := make([]models.RawRecord, 0, len(dates))
	for i := range dates {
		records = append(records, models.RawRecord{
			DateExpression: dates[i],
			HolidayName:    names[i],
			Year:           year,
		})
	}
	return records, nil
}
