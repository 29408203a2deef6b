package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// CleanText NFC-normalizes s and collapses whitespace runs (non-breaking
// spaces included) into single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// ResolveYear returns the first four-digit year found in text, or 0.
func ResolveYear(text string) int {
	match := yearPattern.FindString(text)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}
