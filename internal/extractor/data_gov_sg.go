package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	childDatasetsPath = "data.collectionMetadata.childDatasets"
	datasetRowsPath   = "result.records"
)

// DataGovSGExtractor reads the public holiday collection of data.gov.sg: the
// collection metadata lists child datasets, each holding dated records.
type DataGovSGExtractor struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

func NewDataGovSGExtractor(fetcher Fetcher, logger zerolog.Logger) *DataGovSGExtractor {
	return &DataGovSGExtractor{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "DataGovSGExtractor").Logger(),
	}
}

func (e *DataGovSGExtractor) Kind() string {
	return config.SourceKindDataGovSG
}

func (e *DataGovSGExtractor) Extract(ctx context.Context, source config.CountryConfig) (*models.Extraction, error) {
	if !strings.Contains(source.DatasetURLTemplate, "%s") {
		return nil, errorwrapper.NewValidationError("dataset_url_template", source.DatasetURLTemplate, "must contain a %s placeholder for the dataset id")
	}

	metadata, err := e.fetchJSON(ctx, source.SourceURL)
	if err != nil {
		return nil, err
	}

	datasets := gjson.GetBytes(metadata, childDatasetsPath)
	if !datasets.IsArray() {
		return nil, errorwrapper.NewError("collection metadata at %s has no %s array", source.SourceURL, childDatasetsPath)
	}

	extraction := &models.Extraction{SourceURL: source.SourceURL}
	for _, dataset := range datasets.Array() {
		datasetID := dataset.String()
		datasetURL := fmt.Sprintf(source.DatasetURLTemplate, datasetID)

		body, err := e.fetchJSON(ctx, datasetURL)
		if err != nil {
			return nil, err
		}

		rows := gjson.GetBytes(body, datasetRowsPath)
		if !rows.IsArray() {
			return nil, errorwrapper.NewError("dataset %s has no %s array", datasetID, datasetRowsPath)
		}
		rows.ForEach(func(_, row gjson.Result) bool {
			extraction.Records = append(extraction.Records, models.RawRecord{
				DateExpression: strings.TrimSpace(row.Get("date").String()),
				HolidayName:    strings.TrimSpace(row.Get("holiday").String()),
				Day:            strings.TrimSpace(row.Get("day").String()),
			})
			return true
		})

		e.logger.Debug().Str("dataset", datasetID).Int("rows", len(rows.Array())).Msg("Read dataset")
	}

	e.logger.Info().
		Str("country", source.Alpha3).
		Int("datasets", len(datasets.Array())).
		Int("records", len(extraction.Records)).
		Msg("Read holiday datasets")
	return extraction, nil
}

func (e *DataGovSGExtractor) fetchJSON(ctx context.Context, url string) ([]byte, error) {
	body, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to fetch %s", url))
	}
	if !gjson.ValidBytes(body) {
		return nil, errorwrapper.NewError("response from %s is not valid JSON", url)
	}
	return body, nil
}
