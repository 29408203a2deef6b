package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/common/filemanager"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/differ"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
)

// PersistStatus is the outcome of one Persist call.
type PersistStatus string

const (
	StatusCreated     PersistStatus = "created"
	StatusUnchanged   PersistStatus = "unchanged"
	StatusUpdated     PersistStatus = "updated"
	StatusOverwritten PersistStatus = "overwritten"
)

// Wrote reports whether the status implies the file was (re)written.
func (s PersistStatus) Wrote() bool {
	return s != StatusUnchanged
}

// PersistResult describes what Persist did.
type PersistResult struct {
	Status PersistStatus
	Path   string
	// UpdatedOn is the timestamp now in the file: the new one after a write,
	// the stored one when unchanged.
	UpdatedOn   string
	Diff        *differ.HolidayDiff
	ArchivePath string
}

// SnapshotWriter archives a written result.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, result models.HolidayResult) (string, error)
}

// ChangeAwarePersister writes a country result only when its holidays differ
// from what is already stored.
type ChangeAwarePersister struct {
	logger      zerolog.Logger
	config      config.StorageConfig
	fileManager *filemanager.FileManager
	differ      *differ.HolidayDiffer
	archive     SnapshotWriter
}

// ChangeAwarePersisterBuilder provides a fluent interface for creating ChangeAwarePersister
type ChangeAwarePersisterBuilder struct {
	logger  zerolog.Logger
	config  config.StorageConfig
	archive SnapshotWriter
}

func NewChangeAwarePersisterBuilder(logger zerolog.Logger) *ChangeAwarePersisterBuilder {
	return &ChangeAwarePersisterBuilder{
		logger: logger.With().Str("component", "ChangeAwarePersister").Logger(),
		config: config.NewDefaultStorageConfig(),
	}
}

func (b *ChangeAwarePersisterBuilder) WithStorageConfig(cfg config.StorageConfig) *ChangeAwarePersisterBuilder {
	b.config = cfg
	return b
}

// WithArchive enables snapshot archiving of every written version.
func (b *ChangeAwarePersisterBuilder) WithArchive(archive SnapshotWriter) *ChangeAwarePersisterBuilder {
	b.archive = archive
	return b
}

func (b *ChangeAwarePersisterBuilder) Build() (*ChangeAwarePersister, error) {
	if b.config.DataDir == "" {
		return nil, errorwrapper.NewValidationError("data_dir", b.config.DataDir, "data directory is not configured")
	}
	if b.config.Equivalence == "" {
		b.config.Equivalence = config.EquivalenceFull
	}
	return &ChangeAwarePersister{
		logger:      b.logger,
		config:      b.config,
		fileManager: filemanager.NewFileManager(b.logger),
		differ:      differ.NewHolidayDiffer(differ.NewDefaultDiffConfig(), b.logger),
		archive:     b.archive,
	}, nil
}

// StoragePath returns <data-dir>/<alpha3 lowercased>.json.
func (p *ChangeAwarePersister) StoragePath(country models.CountryInfo) string {
	return filepath.Join(p.config.DataDir, country.StorageKey()+".json")
}

// Persist compares result against the file at storagePath and writes it when
// the file is missing, unreadable, or holds different holidays. Only a failed
// write is returned as an error.
func (p *ChangeAwarePersister) Persist(ctx context.Context, result models.HolidayResult, storagePath string) (*PersistResult, error) {
	log := p.logger.With().Str("country", result.CountryAlpha3Code).Str("path", storagePath).Logger()

	existing, err := p.loadExisting(ctx, storagePath)
	status := StatusUpdated
	var diff *differ.HolidayDiff

	switch {
	case errors.Is(err, errorwrapper.ErrNotFound):
		status = StatusCreated
		log.Info().Msg("Store file does not exist, creating it")
	case err != nil:
		status = StatusOverwritten
		log.Warn().Err(err).Msg("Existing store file is unreadable, overwriting it")
	case p.equivalent(existing.Holidays, result.Holidays):
		log.Info().Str("updated_on", existing.UpdatedOn).Msg("No changes detected, keeping existing file")
		return &PersistResult{Status: StatusUnchanged, Path: storagePath, UpdatedOn: existing.UpdatedOn}, nil
	default:
		d := p.differ.Diff(existing.Holidays, result.Holidays)
		diff = &d
		log.Info().Str("changes", d.Summary()).Msg("Changes detected, updating file")
	}

	if err := p.write(ctx, result, storagePath); err != nil {
		return nil, err
	}

	persisted := &PersistResult{Status: status, Path: storagePath, UpdatedOn: result.UpdatedOn, Diff: diff}
	if p.archive != nil {
		archivePath, err := p.archive.WriteSnapshot(ctx, result)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to archive snapshot")
		} else {
			persisted.ArchivePath = archivePath
		}
	}

	log.Info().Str("status", string(status)).Int("holidays", len(result.Holidays)).Str("updated_on", result.UpdatedOn).Msg("Store file written")
	return persisted, nil
}

func (p *ChangeAwarePersister) loadExisting(ctx context.Context, path string) (*models.HolidayResult, error) {
	opts := filemanager.DefaultFileReadOptions()
	opts.Context = ctx
	data, err := p.fileManager.ReadFile(path, opts)
	if err != nil {
		if errors.Is(err, errorwrapper.ErrNotFound) {
			return nil, err
		}
		return nil, &models.CorruptStorageFileError{Path: path, Err: err}
	}

	var existing models.HolidayResult
	if err := json.Unmarshal(data, &existing); err != nil {
		return nil, &models.CorruptStorageFileError{Path: path, Err: err}
	}
	return &existing, nil
}

func (p *ChangeAwarePersister) write(ctx context.Context, result models.HolidayResult, path string) error {
	data, err := p.Encode(result)
	if err != nil {
		return &models.StorageWriteError{Path: path, Err: err}
	}

	opts := filemanager.DefaultFileWriteOptions()
	opts.Context = ctx
	if err := p.fileManager.WriteFile(path, data, opts); err != nil {
		return &models.StorageWriteError{Path: path, Err: err}
	}
	return nil
}

// Encode renders result as indented JSON with a trailing newline, leaving
// non-ASCII text and HTML characters unescaped.
func (p *ChangeAwarePersister) Encode(result models.HolidayResult) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", strings.Repeat(" ", p.config.IndentSpaces))
	if err := encoder.Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode holiday result: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *ChangeAwarePersister) equivalent(stored, fresh []models.HolidayRecord) bool {
	if p.config.Equivalence == config.EquivalenceDateHoliday {
		return slices.Equal(dateHolidayKeys(stored), dateHolidayKeys(fresh))
	}
	return slices.EqualFunc(models.CanonicalHolidays(stored), models.CanonicalHolidays(fresh), models.HolidayRecord.Equal)
}

func dateHolidayKeys(records []models.HolidayRecord) []string {
	keys := make([]string, 0, len(records))
	for _, record := range records {
		keys = append(keys, record.Date+"\x00"+record.Holiday)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}
