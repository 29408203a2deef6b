package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/aleister1102/holidaysync/internal/normalizer"
	"github.com/rs/zerolog"
)

// headingSearchDepth bounds how many ancestor levels are searched for a
// table's heading or year.
const headingSearchDepth = 4

// GovUKExtractor reads the per-region bank holiday tables of gov.uk.
type GovUKExtractor struct {
	fetcher Fetcher
	logger  zerolog.Logger
	now     func() time.Time
}

func NewGovUKExtractor(fetcher Fetcher, logger zerolog.Logger) *GovUKExtractor {
	return &GovUKExtractor{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "GovUKExtractor").Logger(),
		now:     time.Now,
	}
}

func (e *GovUKExtractor) WithClock(now func() time.Time) *GovUKExtractor {
	e.now = now
	return e
}

func (e *GovUKExtractor) Kind() string {
	return config.SourceKindGovUK
}

func (e *GovUKExtractor) Extract(ctx context.Context, source config.CountryConfig) (*models.Extraction, error) {
	body, err := e.fetcher.Fetch(ctx, source.SourceURL)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to fetch %s", source.SourceURL))
	}

	doc, err := parseDocument(body, source.SourceURL)
	if err != nil {
		return nil, err
	}

	extraction := &models.Extraction{SourceURL: source.SourceURL, Regions: source.Regions}
	tables := doc.Find("table").FilterFunction(isBankHolidayTable)

	tables.Each(func(_ int, table *goquery.Selection) {
		region, year := e.tableContext(table, source.Regions)
		if year == 0 {
			year = e.now().Year()
			e.logger.Warn().Str("url", source.SourceURL).Int("fallback_year", year).Msg("Could not determine year for table")
		}
		if region == "" {
			region = models.RegionAll
			e.logger.Warn().Str("url", source.SourceURL).Msg("Could not determine region for table, using All")
		}

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			dateCell := row.Find("th").First()
			cells := row.Find("td")
			if dateCell.Length() == 0 || cells.Length() < 2 {
				return
			}
			dateText := selectionText(dateCell)
			name := selectionText(cells.Eq(1))
			if dateText == "" || name == "" {
				return
			}
			extraction.Records = append(extraction.Records, models.RawRecord{
				DateExpression: dateText,
				HolidayName:    name,
				Region:         region,
				Year:           year,
			})
		})
	})

	e.logger.Info().
		Str("country", source.Alpha3).
		Int("tables", tables.Length()).
		Int("records", len(extraction.Records)).
		Msg("Parsed bank holiday tables")
	return extraction, nil
}

func isBankHolidayTable(_ int, table *goquery.Selection) bool {
	var hasDate, hasName bool
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		text := th.Text()
		if containsFold(text, "date") {
			hasDate = true
		}
		if containsFold(text, "bank holiday") {
			hasName = true
		}
	})
	return hasDate && hasName
}

// tableContext finds the region and year a table belongs to, looking at its
// caption first and then at the nearest preceding heading of each ancestor.
func (e *GovUKExtractor) tableContext(table *goquery.Selection, catalogue []string) (string, int) {
	texts := []string{table.Find("caption").First().Text()}

	node := table
	for level := 0; level < headingSearchDepth && node.Length() > 0; level++ {
		if heading := node.PrevAllFiltered("h1, h2, h3, strong").First(); heading.Length() > 0 {
			texts = append(texts, heading.Text())
		}
		node = node.Parent()
	}

	var region string
	var year int
	for _, text := range texts {
		if region == "" {
			region = matchRegion(text, catalogue)
		}
		if year == 0 {
			year = normalizer.ResolveYear(text)
		}
		if region != "" && year != 0 {
			return region, year
		}
	}

	if year == 0 {
		node = table.Parent()
		for level := 0; level < headingSearchDepth && node.Length() > 0 && year == 0; level++ {
			year = normalizer.ResolveYear(node.Text())
			node = node.Parent()
		}
	}
	return region, year
}

// matchRegion returns the catalogue region named in text. Longer labels are
// tried first so "England and Wales" is not shadowed by a shorter label.
func matchRegion(text string, catalogue []string) string {
	best := ""
	for _, region := range catalogue {
		if region == models.RegionAll {
			continue
		}
		if containsFold(text, region) && len(region) > len(best) {
			best = region
		}
	}
	return best
}
