package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/holidaysync/internal/normalizer"
)

func parseDocument(body []byte, sourceURL string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", sourceURL, err)
	}
	// Line breaks split dates like "December 24<br>–25"; drop them so the text joins up.
	doc.Find("br").Remove()
	return doc, nil
}

func selectionText(s *goquery.Selection) string {
	return normalizer.CleanText(s.Text())
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
