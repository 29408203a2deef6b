package config

import (
	"strings"

	"github.com/aleister1102/holidaysync/internal/models"
)

// CountryConfig describes one country and where its holidays come from.
type CountryConfig struct {
	Name       string   `json:"name" yaml:"name" validate:"required"`
	Alpha2     string   `json:"alpha2" yaml:"alpha2" validate:"required,iso3166_1_alpha2"`
	Alpha3     string   `json:"alpha3" yaml:"alpha3" validate:"required,iso3166_1_alpha3"`
	SourceKind string   `json:"source_kind" yaml:"source_kind" validate:"required,sourcekind"`
	SourceURL  string   `json:"source_url" yaml:"source_url" validate:"required,url"`
	Regions    []string `json:"regions,omitempty" yaml:"regions,omitempty" validate:"omitempty,regioncatalogue"`
	// YearsAhead is how many years after the current one are fetched (office_holidays).
	YearsAhead int `json:"years_ahead,omitempty" yaml:"years_ahead,omitempty" validate:"min=0,max=5"`
	// DatasetURLTemplate is a fmt template taking a dataset id (data_gov_sg).
	DatasetURLTemplate string `json:"dataset_url_template,omitempty" yaml:"dataset_url_template,omitempty"`
	Disabled           bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

func (c CountryConfig) Info() models.CountryInfo {
	return models.CountryInfo{
		Name:   c.Name,
		Alpha2: strings.ToUpper(c.Alpha2),
		Alpha3: strings.ToUpper(c.Alpha3),
	}
}

// NewDefaultCountries returns the countries synced out of the box.
func NewDefaultCountries() []CountryConfig {
	return []CountryConfig{
		{
			Name:               "Singapore",
			Alpha2:             "SG",
			Alpha3:             "SGP",
			SourceKind:         SourceKindDataGovSG,
			SourceURL:          "https://api-production.data.gov.sg/v2/public/api/collections/691/metadata",
			DatasetURLTemplate: "https://data.gov.sg/api/action/datastore_search?resource_id=%s",
		},
		{
			Name:       "Malaysia",
			Alpha2:     "MY",
			Alpha3:     "MYS",
			SourceKind: SourceKindOfficeHolidays,
			SourceURL:  "https://www.officeholidays.com/countries/malaysia",
			YearsAhead: DefaultOfficeHolidaysYearsAhead,
		},
		{
			Name:       "United Kingdom",
			Alpha2:     "GB",
			Alpha3:     "GBR",
			SourceKind: SourceKindGovUK,
			SourceURL:  "https://www.gov.uk/bank-holidays",
			Regions:    []string{models.RegionAll, "Scotland", "England and Wales", "Northern Ireland"},
		},
		{
			Name:       "United States",
			Alpha2:     "US",
			Alpha3:     "USA",
			SourceKind: SourceKindHolidaysCalendar,
			SourceURL:  "https://www.holidays-calendar.net/calendar/usa_en.html",
		},
		{
			Name:       "Vietnam",
			Alpha2:     "VN",
			Alpha3:     "VNM",
			SourceKind: SourceKindHolidaysCalendar,
			SourceURL:  "https://www.holidays-calendar.net/calendar/vietnam_en.html",
		},
		{
			Name:       "France",
			Alpha2:     "FR",
			Alpha3:     "FRA",
			SourceKind: SourceKindHolidaysCalendar,
			SourceURL:  "https://www.holidays-calendar.net/calendar/france_en.html",
		},
	}
}
