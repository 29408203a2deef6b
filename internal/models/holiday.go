package models

import (
	"fmt"
	"slices"
	"strings"
)

// DateLayout is the canonical date format of a HolidayRecord.
const DateLayout = "2006-01-02"

// RegionAll is the sentinel region meaning "every tracked region".
const RegionAll = "All"

// HolidayRecord is one holiday on one calendar day.
type HolidayRecord struct {
	Date    string   `json:"date"`
	Holiday string   `json:"holiday"`
	Day     string   `json:"day,omitempty"`
	Region  []string `json:"region,omitempty"`
}

// Validate checks the mandatory fields.
func (r HolidayRecord) Validate() error {
	if r.Date == "" {
		return fmt.Errorf("holiday record %q has no date", r.Holiday)
	}
	if r.Holiday == "" {
		return fmt.Errorf("holiday record on %s has no name", r.Date)
	}
	return nil
}

// Key identifies a record for de-duplication: date, holiday and region set.
func (r HolidayRecord) Key() string {
	return r.Date + "\x00" + r.Holiday + "\x00" + strings.Join(r.Region, "\x1f")
}

// Equal compares every field. Nil and empty region lists are equal.
func (r HolidayRecord) Equal(other HolidayRecord) bool {
	return r.Date == other.Date &&
		r.Holiday == other.Holiday &&
		r.Day == other.Day &&
		slices.Equal(r.Region, other.Region)
}

// String renders the record as one diffable line.
func (r HolidayRecord) String() string {
	line := r.Date + " | " + r.Holiday + " | " + r.Day
	if len(r.Region) > 0 {
		line += " | " + strings.Join(r.Region, ", ")
	}
	return line
}

// HolidayResult is the per-country document stored on disk.
type HolidayResult struct {
	Source            string          `json:"source"`
	Country           string          `json:"country"`
	CountryAlpha2Code string          `json:"countryAlpha2Code"`
	CountryAlpha3Code string          `json:"countryAlpha3Code"`
	CountryRegions    []string        `json:"countryRegions,omitempty"`
	Holidays          []HolidayRecord `json:"holidays"`
	UpdatedOn         string          `json:"updated_on"`
}

// CountryInfo identifies the country a result belongs to.
type CountryInfo struct {
	Name   string
	Alpha2 string
	Alpha3 string
}

// StorageKey is the lowercase alpha-3 code used as the file name.
func (c CountryInfo) StorageKey() string {
	return strings.ToLower(c.Alpha3)
}

// SortHolidays orders records by date, keeping the relative order of same-day records.
func SortHolidays(records []HolidayRecord) {
	slices.SortStableFunc(records, func(a, b HolidayRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
}

// CanonicalHolidays returns a copy ordered by every field, so two lists with
// the same content compare equal regardless of same-day ordering.
func CanonicalHolidays(records []HolidayRecord) []HolidayRecord {
	out := slices.Clone(records)
	slices.SortFunc(out, func(a, b HolidayRecord) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		if c := strings.Compare(a.Holiday, b.Holiday); c != 0 {
			return c
		}
		if c := strings.Compare(a.Day, b.Day); c != 0 {
			return c
		}
		return slices.Compare(a.Region, b.Region)
	})
	return out
}
