package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/holidaysync/internal/common/summary"
	"github.com/aleister1102/holidaysync/internal/config"
	"github.com/aleister1102/holidaysync/internal/datastore"
	"github.com/aleister1102/holidaysync/internal/extractor"
	"github.com/aleister1102/holidaysync/internal/httpclient"
	"github.com/aleister1102/holidaysync/internal/logger"
	"github.com/aleister1102/holidaysync/internal/orchestrator"
	"github.com/aleister1102/holidaysync/internal/scheduler"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(ParseFlags()))
}

func run(flags AppFlags) int {
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		log.Printf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
		return 1
	}

	if flags.Mode != "" {
		gCfg.Mode = flags.Mode
	}
	if flags.DataDir != "" {
		gCfg.StorageConfig.DataDir = flags.DataDir
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Printf("[FATAL] Main: Could not initialize logger: %v", err)
		return 1
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Error().Err(err).Msg("Configuration validation failed")
		return 1
	}
	zLogger.Info().Str("mode", gCfg.Mode).Int("countries", len(gCfg.Countries)).Msg("Configuration validated successfully")

	var historyDB *scheduler.DB
	if gCfg.SchedulerConfig.SQLiteDBPath != "" {
		historyDB, err = scheduler.NewDB(gCfg.SchedulerConfig.SQLiteDBPath, zLogger)
		if err != nil {
			zLogger.Error().Err(err).Msg("Failed to open run history database")
			return 1
		}
		defer historyDB.Close()
	}

	if flags.History > 0 {
		return printHistory(os.Stdout, historyDB, flags.History, flags.Countries)
	}
	if flags.Snapshots != "" {
		archive := datastore.NewParquetSnapshotArchive(gCfg.StorageConfig, zLogger)
		return printSnapshots(os.Stdout, archive, flags.Snapshots)
	}

	httpClient, err := newHTTPClient(gCfg.FetcherConfig, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize HTTP client")
		return 1
	}
	registry := extractor.NewDefaultRegistry(httpClient, gCfg.CrawlerConfig, zLogger)

	builder := orchestrator.NewSyncOrchestratorBuilder(zLogger).
		WithConfig(gCfg).
		WithSource(registry)
	if historyDB != nil {
		builder = builder.WithRecorder(historyDB)
	}
	syncOrchestrator, err := builder.Build()
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize sync orchestrator")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, initiating graceful shutdown...")
		cancel()
	}()

	if gCfg.Mode == config.ModeAutomated {
		return runAutomated(ctx, gCfg, syncOrchestrator, historyDB, flags.Countries, zLogger)
	}
	return runOnetime(ctx, syncOrchestrator, flags.Countries, zLogger)
}

func runOnetime(ctx context.Context, so *orchestrator.SyncOrchestrator, countries []string, zLogger zerolog.Logger) int {
	zLogger.Info().Strs("countries", countries).Msg("Running in onetime mode...")
	runSummary, err := so.RunAll(ctx, countries, 1)
	fmt.Print(runSummary.Render())

	if err != nil && orchestrator.IsInterrupted(err) {
		zLogger.Info().Msg("Onetime sync interrupted")
		return 130
	}
	if runSummary.Status.IsFailure() {
		zLogger.Error().Strs("failed_countries", runSummary.FailedCountries()).Str("status", string(runSummary.Status)).Msg("Onetime sync finished with failures")
		return 1
	}
	zLogger.Info().Msg("Application finished.")
	return 0
}

func runAutomated(ctx context.Context, gCfg *config.GlobalConfig, so *orchestrator.SyncOrchestrator, db *scheduler.DB, countries []string, zLogger zerolog.Logger) int {
	s, err := scheduler.NewScheduler(gCfg.SchedulerConfig, so, db, countries, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize scheduler")
		return 1
	}
	s.OnCycle(func(run summary.RunSummaryData) {
		fmt.Print(run.Render())
	})

	if err := s.Start(ctx); err != nil {
		zLogger.Error().Err(err).Msg("Scheduler error")
		return 1
	}
	zLogger.Info().Msg("Automated mode stopped.")
	return 0
}

func newHTTPClient(cfg config.FetcherConfig, zLogger zerolog.Logger) (*httpclient.HTTPClient, error) {
	retry := httpclient.DefaultRetryHandlerConfig()
	retry.MaxRetries = cfg.MaxRetries
	retry.BaseDelay = time.Duration(cfg.RetryDelaySecs) * time.Second

	return httpclient.NewHTTPClientBuilder(zLogger).
		WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second).
		WithUserAgent(cfg.UserAgent).
		WithMaxContentSize(cfg.MaxContentBytes).
		WithHTTP2(cfg.EnableHTTP2).
		WithInsecureSkipVerify(cfg.InsecureSkipVerify).
		WithProxy(cfg.Proxy).
		WithRetry(retry).
		Build()
}
