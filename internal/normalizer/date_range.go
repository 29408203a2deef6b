package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aleister1102/holidaysync/internal/models"
)

const maxRangeDays = 366

var (
	ordinalSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	weekdayPrefix = regexp.MustCompile(`(?i)^(mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?\s+`)
	bareDay       = regexp.MustCompile(`^\d{1,2}$`)
	isoDate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	trailingYear  = regexp.MustCompile(`\b\d{4}$`)
	septAbbrev    = regexp.MustCompile(`(?i)\bsept\b`)
	// A hyphen right after a day number, outside ISO dates: "24-25", "30-October 1".
	unspacedRange = regexp.MustCompile(`(^|[^\d-])(\d{1,2})-(\d{1,2}\b|[A-Za-z])`)
)

// Month-first ("December 24") and day-first ("24 December") forms, full or abbreviated.
var dayLayouts = []string{
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// IsISODate reports whether expression is already a YYYY-MM-DD date.
func IsISODate(expression string) bool {
	return isoDate.MatchString(strings.TrimSpace(expression))
}

// ExpandDateRange turns a single day ("April 3") or a dash-joined range
// ("December 24–25", "December 24-25", "December 24–January 2") into one date per calendar day,
// ascending. year applies to sides that do not carry their own year.
//
// A bare-day end inherits the start's month. When that day is before the
// start day the range crosses into the following month, so "December 30–2"
// ends on January 2 of the next year. An end with its own month earlier than
// the start month lands in the next year.
func ExpandDateRange(expression string, year int) ([]time.Time, error) {
	expr := CleanText(expression)
	if expr == "" {
		return nil, &models.MalformedRangeError{Expression: expression, Reason: "empty expression"}
	}

	normalized := strings.ReplaceAll(expr, "—", "–")
	normalized = strings.ReplaceAll(normalized, " - ", "–")
	normalized = unspacedRange.ReplaceAllString(normalized, "${1}${2}–${3}")
	parts := strings.Split(normalized, "–")

	if len(parts) == 1 {
		day, err := parseDay(parts[0], year)
		if err != nil {
			return nil, err
		}
		return []time.Time{day}, nil
	}
	if len(parts) != 2 {
		return nil, &models.MalformedRangeError{Expression: expression, Reason: fmt.Sprintf("expected a start and an end, got %d parts", len(parts))}
	}

	startText := cleanDateText(parts[0])
	endText := cleanDateText(parts[1])
	if startText == "" || endText == "" {
		return nil, &models.MalformedRangeError{Expression: expression, Reason: "missing start or end"}
	}

	start, end, err := resolveBounds(startText, endText, year)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &models.MalformedRangeError{Expression: expression, Reason: "range ends before it starts"}
	}

	span := int(end.Sub(start).Hours()/24) + 1
	if span > maxRangeDays {
		return nil, &models.MalformedRangeError{Expression: expression, Reason: fmt.Sprintf("range spans %d days", span)}
	}

	days := make([]time.Time, 0, span)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

func resolveBounds(startText, endText string, year int) (time.Time, time.Time, error) {
	// "24–26 December": the start borrows the end's month.
	if bareDay.MatchString(startText) && !bareDay.MatchString(endText) {
		end, err := parseDay(endText, year)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		day, _ := strconv.Atoi(startText)
		month, y := end.Month(), end.Year()
		if day > end.Day() {
			month, y = shiftMonth(month, y, -1)
		}
		start, err := dateInMonth(startText, day, month, y)
		return start, end, err
	}

	start, err := parseDay(startText, year)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if bareDay.MatchString(endText) {
		day, _ := strconv.Atoi(endText)
		month, y := start.Month(), start.Year()
		if day < start.Day() {
			month, y = shiftMonth(month, y, 1)
		}
		end, err := dateInMonth(endText, day, month, y)
		return start, end, err
	}

	end, err := parseDay(endText, start.Year())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) && !hasOwnYear(endText) {
		end = end.AddDate(1, 0, 0)
	}
	return start, end, nil
}

// parseDay parses one side of an expression, appending year unless the text carries one.
func parseDay(text string, year int) (time.Time, error) {
	cleaned := cleanDateText(text)
	if isoDate.MatchString(cleaned) {
		day, err := time.Parse(models.DateLayout, cleaned)
		if err != nil {
			return time.Time{}, &models.DateParseError{Expression: text, Year: year, Err: err}
		}
		return day, nil
	}

	withYear := cleaned
	if !hasOwnYear(cleaned) {
		withYear = fmt.Sprintf("%s %d", cleaned, year)
	}

	var lastErr error
	for _, layout := range dayLayouts {
		day, err := time.Parse(layout, withYear)
		if err == nil {
			return day, nil
		}
		lastErr = err
	}
	return time.Time{}, &models.DateParseError{Expression: text, Year: year, Err: lastErr}
}

func cleanDateText(text string) string {
	s := CleanText(text)
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.ReplaceAll(s, ".", " ")
	s = septAbbrev.ReplaceAllString(s, "Sep")
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	s = weekdayPrefix.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func hasOwnYear(text string) bool {
	return isoDate.MatchString(text) || trailingYear.MatchString(text)
}

func shiftMonth(month time.Month, year int, delta int) (time.Month, int) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Month(), t.Year()
}

func dateInMonth(text string, day int, month time.Month, year int) (time.Time, error) {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > last {
		return time.Time{}, &models.DateParseError{
			Expression: text,
			Year:       year,
			Err:        fmt.Errorf("day %d out of range for %s", day, month),
		}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}
