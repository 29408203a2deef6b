package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, ModeOnetime, cfg.Mode)
	assert.Equal(t, DefaultStorageDataDir, cfg.StorageConfig.DataDir)
	assert.Equal(t, EquivalenceFull, cfg.StorageConfig.Equivalence)
	assert.Len(t, cfg.Countries, 6)
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	configData := `
mode: automated
log_config:
  log_level: debug
storage_config:
  data_dir: /srv/holidays
  equivalence: date_holiday
countries:
  - name: United Kingdom
    alpha2: GB
    alpha3: GBR
    source_kind: gov_uk
    source_url: https://www.gov.uk/bank-holidays
    regions: [All, Scotland, England and Wales, Northern Ireland]
`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, ModeAutomated, cfg.Mode)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "/srv/holidays", cfg.StorageConfig.DataDir)
	assert.Equal(t, EquivalenceDateHoliday, cfg.StorageConfig.Equivalence)
	// untouched sections keep their defaults
	assert.Equal(t, DefaultStorageIndentSpaces, cfg.StorageConfig.IndentSpaces)
	assert.Equal(t, DefaultRunnerMaxConcurrentCountries, cfg.RunnerConfig.MaxConcurrentCountries)
	require.Len(t, cfg.Countries, 1)
	assert.Equal(t, "GBR", cfg.Countries[0].Info().Alpha3)
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "settings.json")
	configData := `{"mode": "onetime", "runner_config": {"max_concurrent_countries": 4}}`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.RunnerConfig.MaxConcurrentCountries)
	assert.Len(t, cfg.Countries, 6)
}

func TestLoadGlobalConfig_InvalidContent(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configFile, []byte("{not json"), 0644))

	_, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config content")
}

func TestGetConfigPath_EnvVar(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "from-env.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("mode: onetime\n"), 0644))
	t.Setenv(ConfigPathEnvVar, configFile)

	assert.Equal(t, configFile, GetConfigPath(""))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *GlobalConfig)
		wantErr string
	}{
		{
			name:    "bad mode",
			mutate:  func(cfg *GlobalConfig) { cfg.Mode = "continuous" },
			wantErr: "'mode'",
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" },
			wantErr: "loglevel",
		},
		{
			name:    "unknown source kind",
			mutate:  func(cfg *GlobalConfig) { cfg.Countries[0].SourceKind = "rss" },
			wantErr: "sourcekind",
		},
		{
			name:    "bad alpha3",
			mutate:  func(cfg *GlobalConfig) { cfg.Countries[1].Alpha3 = "MYR" },
			wantErr: "iso3166_1_alpha3",
		},
		{
			name:    "duplicate country",
			mutate:  func(cfg *GlobalConfig) { cfg.Countries[1] = cfg.Countries[0] },
			wantErr: "unique",
		},
		{
			name:    "single region catalogue",
			mutate:  func(cfg *GlobalConfig) { cfg.Countries[2].Regions = []string{"All", "Scotland"} },
			wantErr: "regioncatalogue",
		},
		{
			name:    "unknown equivalence",
			mutate:  func(cfg *GlobalConfig) { cfg.StorageConfig.Equivalence = "hash" },
			wantErr: "oneof",
		},
		{
			name:    "no countries",
			mutate:  func(cfg *GlobalConfig) { cfg.Countries = nil },
			wantErr: "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGlobalConfig_EnabledCountries(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.Countries[0].Disabled = true

	assert.Len(t, cfg.EnabledCountries(nil), 5)

	filtered := cfg.EnabledCountries([]string{"gbr", " fra ", "SGP"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "GBR", filtered[0].Alpha3)
	assert.Equal(t, "FRA", filtered[1].Alpha3)
}

func TestLoadGlobalConfig_ExampleFile(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join("..", "..", "config.example.yaml"), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, NewDefaultGlobalConfig().Countries, cfg.Countries)
	assert.Equal(t, NewDefaultStorageConfig(), cfg.StorageConfig)
	require.NoError(t, ValidateConfig(cfg))
}
