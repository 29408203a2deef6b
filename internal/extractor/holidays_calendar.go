package extractor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/aleister1102/holidaysync/internal/normalizer"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

const (
	yearMenuSelector   = "div.year-menu ul li:not(.holTBD) a[href]"
	regionalHolidayTag = "Regional"
)

// HolidaysCalendarExtractor crawls a holidays-calendar.net country index and
// every year page linked from its year menu.
type HolidaysCalendarExtractor struct {
	client      *http.Client
	userAgent   string
	maxBodySize int
	config      config.CrawlerConfig
	logger      zerolog.Logger
}

func NewHolidaysCalendarExtractor(client *http.Client, userAgent string, cfg config.CrawlerConfig, logger zerolog.Logger) *HolidaysCalendarExtractor {
	return &HolidaysCalendarExtractor{
		client:    client,
		userAgent: userAgent,
		config:    cfg,
		logger:    logger.With().Str("component", "HolidaysCalendarExtractor").Logger(),
	}
}

// WithMaxBodySize makes pages larger than size bytes fail the crawl; 0 means no limit.
func (e *HolidaysCalendarExtractor) WithMaxBodySize(size int) *HolidaysCalendarExtractor {
	e.maxBodySize = size
	return e
}

func (e *HolidaysCalendarExtractor) Kind() string {
	return config.SourceKindHolidaysCalendar
}

// crawlState collects per-page results from concurrent colly callbacks.
type crawlState struct {
	mu        sync.Mutex
	yearLinks []string
	seen      map[string]bool
	pages     map[string][]models.RawRecord
	indexBody []byte
	firstErr  error
}

func (s *crawlState) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.firstErr == nil {
		s.firstErr = err
	}
}

func (e *HolidaysCalendarExtractor) Extract(ctx context.Context, source config.CountryConfig) (*models.Extraction, error) {
	state := &crawlState{
		seen:  make(map[string]bool),
		pages: make(map[string][]models.RawRecord),
	}

	collector, err := e.createCollector(ctx)
	if err != nil {
		return nil, err
	}
	e.setupCallbacks(collector, state)

	if err := collector.Visit(source.SourceURL); err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to visit %s", source.SourceURL))
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if state.firstErr != nil {
		return nil, state.firstErr
	}

	extraction := &models.Extraction{SourceURL: source.SourceURL}
	if len(state.yearLinks) == 0 {
		// Pages without a year menu carry their own listing.
		records, err := e.parsePage(state.indexBody, source.SourceURL)
		if err != nil {
			return nil, err
		}
		extraction.Records = records
		return extraction, nil
	}

	for _, link := range state.yearLinks {
		extraction.Records = append(extraction.Records, state.pages[link]...)
	}

	e.logger.Info().
		Str("country", source.Alpha3).
		Int("year_pages", len(state.yearLinks)).
		Int("records", len(extraction.Records)).
		Msg("Crawled holiday calendar")
	return extraction, nil
}

func (e *HolidaysCalendarExtractor) createCollector(ctx context.Context) (*colly.Collector, error) {
	maxDepth := e.config.MaxDepth
	if maxDepth < 2 {
		maxDepth = 2
	}
	parallelism := e.config.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	collector := colly.NewCollector(
		colly.Async(true),
		colly.MaxDepth(maxDepth),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)
	if e.client != nil {
		collector.SetClient(e.client)
	}
	if e.userAgent != "" {
		collector.UserAgent = e.userAgent
	}
	// colly truncates silently at MaxBodySize; one extra byte lets OnResponse detect it.
	collector.MaxBodySize = 0
	if e.maxBodySize > 0 {
		collector.MaxBodySize = e.maxBodySize + 1
	}

	err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: parallelism,
		Delay:       time.Duration(e.config.DelayMs) * time.Millisecond,
	})
	if err != nil {
		return nil, errorwrapper.WrapError(err, "error setting up colly limit rule")
	}
	return collector, nil
}

func (e *HolidaysCalendarExtractor) setupCallbacks(collector *colly.Collector, state *crawlState) {
	collector.OnRequest(func(r *colly.Request) {
		e.logger.Debug().Str("url", r.URL.String()).Int("depth", r.Depth).Msg("Visiting calendar page")
	})

	collector.OnError(func(r *colly.Response, err error) {
		e.logger.Error().Str("url", r.Request.URL.String()).Int("status", r.StatusCode).Err(err).Msg("Request failed")
		if r.StatusCode > 0 {
			state.fail(errorwrapper.NewHTTPErrorWithURL(r.StatusCode, err.Error(), r.Request.URL.String()))
			return
		}
		state.fail(errorwrapper.NewNetworkError(r.Request.URL.String(), "request failed", err))
	})

	collector.OnHTML(yearMenuSelector, func(el *colly.HTMLElement) {
		if el.Request.Depth != 1 {
			return
		}
		link := el.Request.AbsoluteURL(el.Attr("href"))
		if link == "" {
			return
		}

		state.mu.Lock()
		if state.seen[link] {
			state.mu.Unlock()
			return
		}
		state.seen[link] = true
		state.yearLinks = append(state.yearLinks, link)
		state.mu.Unlock()

		if err := el.Request.Visit(link); err != nil && !strings.Contains(err.Error(), "already visited") {
			state.fail(errorwrapper.WrapError(err, fmt.Sprintf("failed to visit year page %s", link)))
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		pageURL := r.Request.URL.String()
		if e.maxBodySize > 0 && len(r.Body) > e.maxBodySize {
			state.fail(errorwrapper.NewValidationError("max_content_bytes", e.maxBodySize,
				fmt.Sprintf("response from %s exceeds the limit", pageURL)))
			return
		}
		if r.Request.Depth == 1 {
			state.mu.Lock()
			state.indexBody = r.Body
			state.mu.Unlock()
			return
		}

		records, err := e.parsePage(r.Body, pageURL)
		if err != nil {
			state.fail(err)
			return
		}
		state.mu.Lock()
		state.pages[pageURL] = records
		state.mu.Unlock()
	})
}

// parsePage reads one year page: the year comes from <title>, the holidays
// from every div.details block not marked regional.
func (e *HolidaysCalendarExtractor) parsePage(body []byte, pageURL string) ([]models.RawRecord, error) {
	doc, err := parseDocument(body, pageURL)
	if err != nil {
		return nil, err
	}

	year := normalizer.ResolveYear(doc.Find("title").First().Text())

	var dates, names []string
	doc.Find("div.details").Each(func(_ int, details *goquery.Selection) {
		if isRegionalBlock(details) {
			return
		}
		details.ChildrenFiltered("div").ChildrenFiltered("span").Each(func(_ int, group *goquery.Selection) {
			spans := group.ChildrenFiltered("span")
			if spans.Length() >= 1 {
				dates = append(dates, selectionText(spans.Eq(0)))
			}
			if spans.Length() >= 2 {
				names = append(names, selectionText(spans.Eq(1)))
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

	e.logger.Debug().Str("url", pageURL).Int("year", year).Int("records", len(records)).Msg("Parsed calendar page")
	return records, nil
}

func isRegionalBlock(details *goquery.Selection) bool {
	return details.Find("span > span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), regionalHolidayTag)
	}).Length() > 0
}
