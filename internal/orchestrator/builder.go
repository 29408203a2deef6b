package orchestrator

import (
	"time"

	"github.com/aleister1102/holidaysync/internal/common/batchprocessor"
	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/common/summary"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/datastore"
	"github.com/aleister1102/holidaysync/internal/normalizer"
	"github.com/rs/zerolog"
)

// SyncOrchestratorBuilder provides a fluent interface for creating SyncOrchestrator
type SyncOrchestratorBuilder struct {
	config    *config.GlobalConfig
	logger    zerolog.Logger
	source    ExtractionSource
	persister *datastore.ChangeAwarePersister
	recorder  RunRecorder
	now       func() time.Time
	newRunID  func() string
}

func NewSyncOrchestratorBuilder(logger zerolog.Logger) *SyncOrchestratorBuilder {
	return &SyncOrchestratorBuilder{
		logger:   logger.With().Str("component", "SyncOrchestrator").Logger(),
		now:      time.Now,
		newRunID: defaultRunID,
	}
}

func (b *SyncOrchestratorBuilder) WithConfig(cfg *config.GlobalConfig) *SyncOrchestratorBuilder {
	b.config = cfg
	return b
}

func (b *SyncOrchestratorBuilder) WithSource(source ExtractionSource) *SyncOrchestratorBuilder {
	b.source = source
	return b
}

// WithPersister overrides the persister built from storage_config.
func (b *SyncOrchestratorBuilder) WithPersister(persister *datastore.ChangeAwarePersister) *SyncOrchestratorBuilder {
	b.persister = persister
	return b
}

func (b *SyncOrchestratorBuilder) WithRecorder(recorder RunRecorder) *SyncOrchestratorBuilder {
	b.recorder = recorder
	return b
}

// WithClock fixes the time used for updated_on and year fallbacks.
func (b *SyncOrchestratorBuilder) WithClock(now func() time.Time) *SyncOrchestratorBuilder {
	b.now = now
	return b
}

func (b *SyncOrchestratorBuilder) WithRunIDGenerator(newRunID func() string) *SyncOrchestratorBuilder {
	b.newRunID = newRunID
	return b
}

func (b *SyncOrchestratorBuilder) Build() (*SyncOrchestrator, error) {
	if b.config == nil {
		return nil, errorwrapper.NewValidationError("config", nil, "global config is required")
	}
	if b.source == nil {
		return nil, errorwrapper.NewValidationError("source", nil, "extraction source is required")
	}

	persister := b.persister
	if persister == nil {
		builder := datastore.NewChangeAwarePersisterBuilder(b.logger).WithStorageConfig(b.config.StorageConfig)
		if b.config.StorageConfig.ArchiveEnabled {
			builder = builder.WithArchive(datastore.NewParquetSnapshotArchive(b.config.StorageConfig, b.logger))
		}
		var err error
		persister, err = builder.Build()
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to build persister")
		}
	}

	processor := batchprocessor.NewBatchProcessor(batchprocessor.BatchProcessorConfig{
		MaxConcurrent: b.config.RunnerConfig.MaxConcurrentCountries,
		ItemTimeout:   time.Duration(b.config.RunnerConfig.CountryTimeoutSecs) * time.Second,
	}, b.logger)

	return &SyncOrchestrator{
		config:         b.config,
		logger:         b.logger,
		source:         b.source,
		normalizer:     normalizer.NewNormalizer(b.config.NormalizerConfig, b.logger).WithClock(b.now),
		assembler:      normalizer.NewResultAssembler(b.now),
		persister:      persister,
		processor:      processor,
		summaryBuilder: summary.NewSummaryBuilder(b.logger),
		recorder:       b.recorder,
		newRunID:       b.newRunID,
	}, nil
}
