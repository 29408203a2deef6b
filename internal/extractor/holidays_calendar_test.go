package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarIndex = `<html><head><title>USA Public Holidays</title></head><body>
<div class="year-menu"><ul>
  <li><a href="/calendar/usa_2025.html">2025</a></li>
  <li><a href="/calendar/usa_2026.html">2026</a></li>
  <li class="holTBD"><a href="/calendar/usa_2027.html">2027</a></li>
</ul></div>
</body></html>`

const calendarYear2025 = `<html><head><title>USA Public Holidays 2025</title></head><body>
<div class="details"><div><span><span>January 1</span><span>New Year's Day</span></span></div></div>
<div class="details"><div><span><span>December 24<br>–25</span><span>Christmas  Holidays</span></span></div></div>
<div class="details"><div><span><span>March 3</span><span>Local Day</span><span><span>Regional</span></span></span></div></div>
</body></html>`

const calendarYear2026 = `<html><head><title>USA Public Holidays 2026</title></head><body>
<div class="details"><div><span><span>July 4</span><span>Independence Day</span></span></div></div>
</body></html>`

func newCalendarServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestCalendarExtractor(server *httptest.Server) *HolidaysCalendarExtractor {
	cfg := config.NewDefaultCrawlerConfig()
	cfg.DelayMs = 0
	return NewHolidaysCalendarExtractor(server.Client(), "holidaysync-test", cfg, zerolog.Nop())
}

func TestHolidaysCalendarExtractor_FollowsYearMenu(t *testing.T) {
	server := newCalendarServer(t, map[string]string{
		"/calendar/usa_en.html":   calendarIndex,
		"/calendar/usa_2025.html": calendarYear2025,
		"/calendar/usa_2026.html": calendarYear2026,
	})
	source := config.CountryConfig{Alpha3: "USA", SourceURL: server.URL + "/calendar/usa_en.html"}

	extraction, err := newTestCalendarExtractor(server).Extract(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, source.SourceURL, extraction.SourceURL)
	assert.Equal(t, []models.RawRecord{
		{DateExpression: "January 1", HolidayName: "New Year's Day", Year: 2025},
		{DateExpression: "December 24–25", HolidayName: "Christmas Holidays", Year: 2025},
		{DateExpression: "July 4", HolidayName: "Independence Day", Year: 2026},
	}, extraction.Records)
}

func TestHolidaysCalendarExtractor_PageWithoutYearMenu(t *testing.T) {
	server := newCalendarServer(t, map[string]string{"/single.html": calendarYear2026})
	source := config.CountryConfig{SourceURL: server.URL + "/single.html"}

	extraction, err := newTestCalendarExtractor(server).Extract(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, extraction.Records, 1)
	assert.Equal(t, 2026, extraction.Records[0].Year)
}

func TestHolidaysCalendarExtractor_Mismatch(t *testing.T) {
	broken := `<html><head><title>Holidays 2025</title></head><body>
<div class="details"><div><span><span>January 1</span></span></div></div>
</body></html>`
	server := newCalendarServer(t, map[string]string{
		"/index.html": `<div class="year-menu"><ul><li><a href="/2025.html">2025</a></li></ul></div>`,
		"/2025.html":  broken,
	})

	_, err := newTestCalendarExtractor(server).Extract(context.Background(), config.CountryConfig{SourceURL: server.URL + "/index.html"})
	var mismatch *models.ExtractionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Dates)
}

func TestHolidaysCalendarExtractor_YearPageNotFound(t *testing.T) {
	server := newCalendarServer(t, map[string]string{"/calendar/usa_en.html": calendarIndex})

	_, err := newTestCalendarExtractor(server).Extract(context.Background(), config.CountryConfig{SourceURL: server.URL + "/calendar/usa_en.html"})
	require.Error(t, err)
}

func TestHolidaysCalendarExtractor_OversizedPage(t *testing.T) {
	server := newCalendarServer(t, map[string]string{
		"/calendar/usa_en.html":   calendarIndex,
		"/calendar/usa_2025.html": calendarYear2025 + "<!--" + strings.Repeat("x", 4096) + "-->",
		"/calendar/usa_2026.html": calendarYear2026,
	})
	source := config.CountryConfig{SourceURL: server.URL + "/calendar/usa_en.html"}

	_, err := newTestCalendarExtractor(server).WithMaxBodySize(2048).Extract(context.Background(), source)
	var vErr *errorwrapper.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "max_content_bytes", vErr.Field)
}
