package models

import "fmt"

// ExtractionMismatchError means a source yielded unequal numbers of dates and names.
type ExtractionMismatchError struct {
	SourceURL string
	Dates     int
	Names     int
}

func (e *ExtractionMismatchError) Error() string {
	return fmt.Sprintf("extraction mismatch at %s: %d dates vs %d holiday names", e.SourceURL, e.Dates, e.Names)
}

// DateParseError means one side of a date expression is not a recognised date.
type DateParseError struct {
	Expression string
	Year       int
	Err        error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse date %q for year %d: %v", e.Expression, e.Year, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// MalformedRangeError means a range did not split into exactly a start and an end.
type MalformedRangeError struct {
	Expression string
	Reason     string
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed date range %q: %s", e.Expression, e.Reason)
}

// UnresolvedYearError means no year could be read from a page; the current year is used instead.
type UnresolvedYearError struct {
	SourceURL string
	Fallback  int
}

func (e *UnresolvedYearError) Error() string {
	return fmt.Sprintf("no year found at %s, using %d", e.SourceURL, e.Fallback)
}

// CorruptStorageFileError means an existing store file is not valid JSON.
type CorruptStorageFileError struct {
	Path string
	Err  error
}

func (e *CorruptStorageFileError) Error() string {
	return fmt.Sprintf("corrupt storage file %s: %v", e.Path, e.Err)
}

func (e *CorruptStorageFileError) Unwrap() error {
	return e.Err
}

// StorageWriteError is fatal for the country run.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}
