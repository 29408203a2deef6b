package datastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aleister1102/holidaysync/internal/common/filemanager"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// HolidaySnapshotRow is one archived holiday of one written result.
type HolidaySnapshotRow struct {
	CountryAlpha3 string   `parquet:"country_alpha3"`
	Source        string   `parquet:"source"`
	UpdatedOn     string   `parquet:"updated_on"`
	Date          string   `parquet:"date"`
	Holiday       string   `parquet:"holiday"`
	Day           *string  `parquet:"day,optional"`
	Regions       []string `parquet:"regions,list"`
}

// ParquetSnapshotArchive keeps every written version of a country result as
// <archive-dir>/<alpha3>/<updated_on>.parquet.
type ParquetSnapshotArchive struct {
	archiveDir  string
	compression string
	fileManager *filemanager.FileManager
	logger      zerolog.Logger
}

func NewParquetSnapshotArchive(cfg config.StorageConfig, logger zerolog.Logger) *ParquetSnapshotArchive {
	return &ParquetSnapshotArchive{
		archiveDir:  cfg.ArchiveDir,
		compression: cfg.ArchiveCompression,
		fileManager: filemanager.NewFileManager(logger),
		logger:      logger.With().Str("component", "ParquetSnapshotArchive").Logger(),
	}
}

// WriteSnapshot writes result to a new parquet file and returns its path.
func (a *ParquetSnapshotArchive) WriteSnapshot(ctx context.Context, result models.HolidayResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	countryDir := filepath.Join(a.archiveDir, strings.ToLower(result.CountryAlpha3Code))
	if err := a.fileManager.EnsureDirectory(countryDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory %s: %w", countryDir, err)
	}

	file, filePath, err := createSnapshotFile(countryDir, result.UpdatedOn)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[HolidaySnapshotRow](file, a.compressionOption())
	if _, err := writer.Write(snapshotRows(result)); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write snapshot rows to %s: %w", filePath, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close snapshot writer for %s: %w", filePath, err)
	}

	a.logger.Debug().Str("file", filePath).Int("rows", len(result.Holidays)).Msg("Snapshot archived")
	return filePath, nil
}

// ListSnapshots returns the archived snapshot paths of a country, oldest first.
func (a *ParquetSnapshotArchive) ListSnapshots(country models.CountryInfo) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(a.archiveDir, country.StorageKey(), "*.parquet"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadSnapshot loads every row of one snapshot file.
func (a *ParquetSnapshotArchive) ReadSnapshot(filePath string) ([]HolidaySnapshotRow, error) {
	osFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", filePath, err)
	}
	defer func() { _ = osFile.Close() }()

	stat, err := osFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot %s: %w", filePath, err)
	}
	if stat.Size() == 0 {
		return []HolidaySnapshotRow{}, nil
	}

	pqFile, err := parquet.OpenFile(osFile, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %s: %w", filePath, err)
	}

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	var rows []HolidaySnapshotRow
	for {
		var row HolidaySnapshotRow
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading row from %s: %w", filePath, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (a *ParquetSnapshotArchive) compressionOption() parquet.WriterOption {
	switch strings.ToLower(a.compression) {
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}

func snapshotRows(result models.HolidayResult) []HolidaySnapshotRow {
	rows := make([]HolidaySnapshotRow, 0, len(result.Holidays))
	for _, holiday := range result.Holidays {
		row := HolidaySnapshotRow{
			CountryAlpha3: result.CountryAlpha3Code,
			Source:        result.Source,
			UpdatedOn:     result.UpdatedOn,
			Date:          holiday.Date,
			Holiday:       holiday.Holiday,
			Regions:       holiday.Region,
		}
		if holiday.Day != "" {
			day := holiday.Day
			row.Day = &day
		}
		rows = append(rows, row)
	}
	return rows
}

// maxSnapshotSuffix bounds the "_N" suffixes tried for one updated_on.
const maxSnapshotSuffix = 99

// createSnapshotFile creates a new file named after updatedOn, never replacing
// an existing snapshot: a second write within the same second gets "_1", "_2"...
func createSnapshotFile(dir, updatedOn string) (*os.File, string, error) {
	for n := 0; n <= maxSnapshotSuffix; n++ {
		filePath := filepath.Join(dir, snapshotFileName(updatedOn, n))
		file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return file, filePath, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("failed to create snapshot file %s: %w", filePath, err)
		}
	}
	return nil, "", fmt.Errorf("too many snapshots in %s for updated_on %s", dir, updatedOn)
}

// snapshotFileName keeps the timestamp sortable and free of ':' for portable paths.
// Suffixed names sort after the unsuffixed one.
func snapshotFileName(updatedOn string, n int) string {
	if updatedOn == "" {
		updatedOn = "unknown"
	}
	name := strings.ReplaceAll(updatedOn, ":", "-")
	if n > 0 {
		name += fmt.Sprintf("_%02d", n)
	}
	return name + ".parquet"
}

// ToHolidayRecord converts an archived row back into a HolidayRecord.
func (r HolidaySnapshotRow) ToHolidayRecord() models.HolidayRecord {
	record := models.HolidayRecord{Date: r.Date, Holiday: r.Holiday}
	if r.Day != nil {
		record.Day = *r.Day
	}
	if len(r.Regions) > 0 {
		record.Region = r.Regions
	}
	return record
}
