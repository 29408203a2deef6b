package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/aleister1102/holidaysync/internal/common/filemanager"
	"github.com/aleister1102/holidaysync/internal/logger"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type GlobalConfig struct {
	Mode             string               `json:"mode,omitempty" yaml:"mode,omitempty" validate:"required,mode"`
	LogConfig        logger.FileLogConfig `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	FetcherConfig    FetcherConfig        `json:"fetcher_config,omitempty" yaml:"fetcher_config,omitempty"`
	CrawlerConfig    CrawlerConfig        `json:"crawler_config,omitempty" yaml:"crawler_config,omitempty"`
	NormalizerConfig NormalizerConfig     `json:"normalizer_config,omitempty" yaml:"normalizer_config,omitempty"`
	StorageConfig    StorageConfig        `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	RunnerConfig     RunnerConfig         `json:"runner_config,omitempty" yaml:"runner_config,omitempty"`
	SchedulerConfig  SchedulerConfig      `json:"scheduler_config,omitempty" yaml:"scheduler_config,omitempty"`
	Countries        []CountryConfig      `json:"countries,omitempty" yaml:"countries,omitempty" validate:"required,min=1,unique=Alpha3,dive"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Mode:             ModeOnetime,
		LogConfig:        logger.NewDefaultFileLogConfig(),
		FetcherConfig:    NewDefaultFetcherConfig(),
		CrawlerConfig:    NewDefaultCrawlerConfig(),
		NormalizerConfig: NewDefaultNormalizerConfig(),
		StorageConfig:    NewDefaultStorageConfig(),
		RunnerConfig:     NewDefaultRunnerConfig(),
		SchedulerConfig:  NewDefaultSchedulerConfig(),
		Countries:        NewDefaultCountries(),
	}
}

// EnabledCountries returns the configured countries that are not disabled,
// restricted to the given alpha-3 codes when filter is non-empty.
func (c *GlobalConfig) EnabledCountries(filter []string) []CountryConfig {
	wanted := make(map[string]bool, len(filter))
	for _, code := range filter {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			wanted[code] = true
		}
	}

	var out []CountryConfig
	for _, country := range c.Countries {
		if country.Disabled {
			continue
		}
		if len(wanted) > 0 && !wanted[strings.ToUpper(country.Alpha3)] {
			continue
		}
		out = append(out, country)
	}
	return out
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// YAML is used when the file extension is .yaml or .yml, JSON otherwise.
// With no config file anywhere the defaults are returned.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	if providedPath != "" && !fileExists(providedPath) {
		return nil, errorwrapper.NewValidationError("config_file", providedPath, "config file does not exist")
	}

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		logger.Debug().Msg("No config file found, using defaults")
		return cfg, nil
	}

	fileManager := filemanager.NewFileManager(logger)
	opts := filemanager.DefaultFileReadOptions()
	opts.MaxSize = 1024 * 1024

	data, err := fileManager.ReadFile(filePath, opts)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse config content")
	}

	logger.Debug().Str("path", filePath).Int("countries", len(cfg.Countries)).Msg("Configuration loaded")
	return cfg, nil
}

func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errorwrapper.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

func isYAMLFile(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".yaml" || ext == ".yml"
}
