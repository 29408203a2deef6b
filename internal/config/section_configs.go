package config

// FetcherConfig configures the HTTP client shared by all extractors.
type FetcherConfig struct {
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	TimeoutSecs        int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"min=1"`
	MaxRetries         int    `json:"max_retries" yaml:"max_retries" validate:"min=0,max=10"`
	RetryDelaySecs     int    `json:"retry_delay_secs,omitempty" yaml:"retry_delay_secs,omitempty" validate:"min=0,max=300"`
	MaxContentBytes    int    `json:"max_content_bytes,omitempty" yaml:"max_content_bytes,omitempty" validate:"min=0"`
	EnableHTTP2        bool   `json:"enable_http2" yaml:"enable_http2"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	Proxy              string `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
}

func NewDefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		UserAgent:       DefaultFetcherUserAgent,
		TimeoutSecs:     DefaultFetcherTimeoutSecs,
		MaxRetries:      DefaultFetcherMaxRetries,
		RetryDelaySecs:  DefaultFetcherRetryDelaySecs,
		MaxContentBytes: DefaultFetcherMaxContentBytes,
		EnableHTTP2:     true,
	}
}

// CrawlerConfig configures the colly collector used for multi-page calendar sites.
type CrawlerConfig struct {
	MaxDepth    int `json:"max_depth,omitempty" yaml:"max_depth,omitempty" validate:"min=1,max=5"`
	Parallelism int `json:"parallelism,omitempty" yaml:"parallelism,omitempty" validate:"min=1"`
	DelayMs     int `json:"delay_ms" yaml:"delay_ms" validate:"min=0"`
}

func NewDefaultCrawlerConfig() CrawlerConfig {
	return CrawlerConfig{
		MaxDepth:    DefaultCrawlerMaxDepth,
		Parallelism: DefaultCrawlerParallelism,
		DelayMs:     DefaultCrawlerDelayMs,
	}
}

// NormalizerConfig controls how bad date expressions are treated.
type NormalizerConfig struct {
	// StrictDates aborts the country run on the first unparseable expression
	// instead of skipping it.
	StrictDates bool `json:"strict_dates" yaml:"strict_dates"`
}

func NewDefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{StrictDates: false}
}

// StorageConfig defines where results, archives and history live
type StorageConfig struct {
	DataDir        string `json:"data_dir,omitempty" yaml:"data_dir,omitempty" validate:"required"`
	IndentSpaces   int    `json:"indent_spaces,omitempty" yaml:"indent_spaces,omitempty" validate:"min=0,max=8"`
	Equivalence    string `json:"equivalence,omitempty" yaml:"equivalence,omitempty" validate:"oneof=full date_holiday"`
	ArchiveEnabled bool   `json:"archive_enabled" yaml:"archive_enabled"`
	ArchiveDir     string `json:"archive_dir,omitempty" yaml:"archive_dir,omitempty" validate:"required_if=ArchiveEnabled true"`
	// ArchiveCompression is the parquet codec of archived snapshots.
	ArchiveCompression string `json:"archive_compression,omitempty" yaml:"archive_compression,omitempty" validate:"omitempty,oneof=zstd snappy gzip none"`
}

func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DataDir:            DefaultStorageDataDir,
		IndentSpaces:       DefaultStorageIndentSpaces,
		Equivalence:        DefaultStorageEquivalence,
		ArchiveEnabled:     DefaultStorageArchiveEnabled,
		ArchiveDir:         DefaultStorageArchiveDir,
		ArchiveCompression: DefaultStorageArchiveCompression,
	}
}

// RunnerConfig bounds how countries are processed in one run.
type RunnerConfig struct {
	MaxConcurrentCountries int `json:"max_concurrent_countries,omitempty" yaml:"max_concurrent_countries,omitempty" validate:"min=1,max=32"`
	CountryTimeoutSecs     int `json:"country_timeout_secs,omitempty" yaml:"country_timeout_secs,omitempty" validate:"min=1"`
}

func NewDefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		MaxConcurrentCountries: DefaultRunnerMaxConcurrentCountries,
		CountryTimeoutSecs:     DefaultRunnerCountryTimeoutSecs,
	}
}

// SchedulerConfig defines configuration for automated mode and the run history
type SchedulerConfig struct {
	CycleMinutes  int    `json:"cycle_minutes,omitempty" yaml:"cycle_minutes,omitempty" validate:"min=1"`
	RetryAttempts int    `json:"retry_attempts" yaml:"retry_attempts" validate:"min=0"`
	SQLiteDBPath  string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty"`
}

func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CycleMinutes:  DefaultSchedulerCycleMinutes,
		RetryAttempts: DefaultSchedulerRetryAttempts,
		SQLiteDBPath:  DefaultSchedulerSQLiteDBPath,
	}
}
