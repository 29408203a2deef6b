package models

// RawRecord is one holiday as a source presents it, before normalization.
type RawRecord struct {
	// DateExpression is a single day or a dash-joined range, e.g. "December 24–25".
	DateExpression string
	HolidayName    string
	Region         string
	// Day is set only by sources whose weekday names are trusted verbatim.
	Day string
	// Year is the year resolved for the page the record came from; 0 when unresolved.
	Year int
}

// Extraction is everything an extractor produced for one country.
type Extraction struct {
	SourceURL string
	Records   []RawRecord
	// Regions is the declared region catalogue; empty for non-regional sources.
	Regions []string
}

// IsRegional reports whether records must go through region merging.
func (e *Extraction) IsRegional() bool {
	return len(e.Regions) >= 2
}
