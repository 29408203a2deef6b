package config

const (
	ModeOnetime   = "onetime"
	ModeAutomated = "automated"

	// Source kinds understood by the extractor registry.
	SourceKindHolidaysCalendar = "holidays_calendar"
	SourceKindGovUK            = "gov_uk"
	SourceKindOfficeHolidays   = "office_holidays"
	SourceKindDataGovSG        = "data_gov_sg"

	// Equivalence modes of the change-aware persister.
	EquivalenceFull        = "full"
	EquivalenceDateHoliday = "date_holiday"

	ConfigPathEnvVar = "HOLIDAYSYNC_CONFIG_PATH"

	// Fetcher Defaults
	DefaultFetcherUserAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultFetcherTimeoutSecs     = 30
	DefaultFetcherMaxRetries      = 2
	DefaultFetcherRetryDelaySecs  = 2
	DefaultFetcherMaxContentBytes = 10 * 1024 * 1024

	// Crawler Defaults
	DefaultCrawlerMaxDepth    = 2
	DefaultCrawlerParallelism = 2
	DefaultCrawlerDelayMs     = 250

	// Storage Defaults
	DefaultStorageDataDir            = "data"
	DefaultStorageArchiveDir         = "database/archive"
	DefaultStorageIndentSpaces       = 4
	DefaultStorageEquivalence        = EquivalenceFull
	DefaultStorageArchiveEnabled     = false
	DefaultStorageArchiveCompression = "zstd"

	// Runner Defaults
	DefaultRunnerMaxConcurrentCountries = 2
	DefaultRunnerCountryTimeoutSecs     = 300

	// Scheduler Defaults
	DefaultSchedulerCycleMinutes    = 1440
	DefaultSchedulerRetryAttempts   = 2
	DefaultSchedulerSQLiteDBPath    = "database/scheduler/run_history.db"
	DefaultOfficeHolidaysYearsAhead = 1
)
