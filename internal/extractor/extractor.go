package extractor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/httpclient"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
)

// Extractor turns one configured source into raw holiday records.
type Extractor interface {
	Kind() string
	Extract(ctx context.Context, source config.CountryConfig) (*models.Extraction, error)
}

// Fetcher returns the body of a successful GET.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Registry dispatches extraction by source kind.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: make(map[string]Extractor, len(extractors))}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// NewDefaultRegistry wires every built-in adapter to the shared HTTP client.
func NewDefaultRegistry(client *httpclient.HTTPClient, crawlerCfg config.CrawlerConfig, logger zerolog.Logger) *Registry {
	return NewRegistry(
		NewHolidaysCalendarExtractor(client.Client(), client.UserAgent(), crawlerCfg, logger).
			WithMaxBodySize(client.MaxContentSize()),
		NewGovUKExtractor(client, logger),
		NewOfficeHolidaysExtractor(client, logger),
		NewDataGovSGExtractor(client, logger),
	)
}

// Register adds or replaces the extractor for its kind.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[e.Kind()] = e
}

func (r *Registry) Get(kind string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[kind]
	if !ok {
		return nil, errorwrapper.WrapError(errorwrapper.ErrNotFound, fmt.Sprintf("no extractor for source kind %q", kind))
	}
	return e, nil
}

func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.extractors))
	for kind := range r.extractors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Extract runs the extractor registered for source.SourceKind.
func (r *Registry) Extract(ctx context.Context, source config.CountryConfig) (*models.Extraction, error) {
	e, err := r.Get(source.SourceKind)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, source)
}
