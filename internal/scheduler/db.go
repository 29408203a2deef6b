package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/holidaysync/internal/common/summary"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection holding the run history.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// RunHistoryEntry represents a record in the run_history table.
type RunHistoryEntry struct {
	ID           int64
	RunID        string
	Mode         string
	Attempt      int
	Status       summary.RunStatus
	StartedAt    time.Time
	Duration     time.Duration
	Countries    int
	Created      int
	Updated      int
	Unchanged    int
	Overwritten  int
	Failed       int
	ErrorMessage sql.NullString
}

// CountryHistoryEntry represents a record in the run_countries table.
type CountryHistoryEntry struct {
	RunID     string
	Attempt   int
	Alpha3    string
	Status    string
	Holidays  int
	Changes   sql.NullString
	UpdatedOn sql.NullString
	Error     sql.NullString
}

// NewDB opens (and creates if needed) the SQLite database at dataSourceName
// and ensures the schema is set up.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	if dataSourceName == "" {
		return nil, fmt.Errorf("sqlite_db_path is required for the run history")
	}
	logger = logger.With().Str("module", "RunHistoryDB").Logger()
	logger.Info().Str("db_path", dataSourceName).Msg("Initializing run history database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create run history database directory")
		return nil, fmt.Errorf("failed to create run history database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		logger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open run history database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// SQLite allows a single writer.
	dbInstance.SetMaxOpenConns(1)

	db := &DB{
		db:     dbInstance,
		logger: logger,
	}

	if err := db.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info().Str("path", dataSourceName).Msg("Run history database initialized")
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the run_history and run_countries tables if they don't exist.
func (d *DB) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS run_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		attempt INTEGER NOT NULL DEFAULT 1,
		status TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		countries INTEGER NOT NULL DEFAULT 0,
		created INTEGER NOT NULL DEFAULT 0,
		updated INTEGER NOT NULL DEFAULT 0,
		unchanged INTEGER NOT NULL DEFAULT 0,
		overwritten INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		UNIQUE (run_id, attempt)
	);
	CREATE TABLE IF NOT EXISTS run_countries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		attempt INTEGER NOT NULL DEFAULT 1,
		alpha3 TEXT NOT NULL,
		status TEXT NOT NULL,
		holidays INTEGER NOT NULL DEFAULT 0,
		changes TEXT,
		updated_on TEXT,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_run_countries_alpha3 ON run_countries (alpha3);
	`
	if _, err := d.db.ExecContext(ctx, query); err != nil {
		d.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	d.logger.Debug().Msg("Schema initialized (run_history and run_countries tables ensured)")
	return nil
}

// RecordRun stores a finished run and its per-country outcomes in one transaction.
func (d *DB) RecordRun(ctx context.Context, run summary.RunSummaryData) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin run history transaction: %w", err)
	}
	defer tx.Rollback()

	counts := run.Counts()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO run_history (run_id, mode, attempt, status, started_at, duration_ms, countries, created, updated, unchanged, overwritten, failed, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Mode, run.Attempt, string(run.Status), run.StartedAt.UTC(), run.Duration.Milliseconds(),
		len(run.Countries),
		counts[summary.OutcomeCreated],
		counts[summary.OutcomeUpdated],
		counts[summary.OutcomeUnchanged],
		counts[summary.OutcomeOverwritten],
		counts[summary.OutcomeFailed],
		nullString(run.ErrorMessage),
	)
	if err != nil {
		d.logger.Error().Err(err).Str("run_id", run.RunID).Msg("Failed to record run")
		return fmt.Errorf("failed to insert run record: %w", err)
	}

	for _, c := range run.Countries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_countries (run_id, attempt, alpha3, status, holidays, changes, updated_on, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Attempt, c.Alpha3, c.Status, c.Holidays, nullString(c.Changes), nullString(c.UpdatedOn), nullString(c.Error),
		)
		if err != nil {
			return fmt.Errorf("failed to insert country record for %s: %w", c.Alpha3, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run history: %w", err)
	}
	d.logger.Info().Str("run_id", run.RunID).Int("attempt", run.Attempt).Str("status", string(run.Status)).Msg("Recorded run in history")
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (d *DB) RecentRuns(ctx context.Context, limit int) ([]RunHistoryEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, run_id, mode, attempt, status, started_at, duration_ms, countries, created, updated, unchanged, overwritten, failed, error_message
		FROM run_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	var entries []RunHistoryEntry
	for rows.Next() {
		var (
			e          RunHistoryEntry
			status     string
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Mode, &e.Attempt, &status, &e.StartedAt, &durationMS,
			&e.Countries, &e.Created, &e.Updated, &e.Unchanged, &e.Overwritten, &e.Failed, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		e.Status = summary.RunStatus(status)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountryHistory returns the recorded outcomes of one country, newest first.
func (d *DB) CountryHistory(ctx context.Context, alpha3 string, limit int) ([]CountryHistoryEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT run_id, attempt, alpha3, status, holidays, changes, updated_on, error
		FROM run_countries WHERE alpha3 = ? ORDER BY id DESC LIMIT ?`, alpha3, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query country history: %w", err)
	}
	defer rows.Close()

	var entries []CountryHistoryEntry
	for rows.Next() {
		var e CountryHistoryEntry
		if err := rows.Scan(&e.RunID, &e.Attempt, &e.Alpha3, &e.Status, &e.Holidays, &e.Changes, &e.UpdatedOn, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan country record: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastRunTime retrieves the start time of the most recent run that did not
// fail outright. It returns nil when no such run exists.
func (d *DB) LastRunTime(ctx context.Context) (*time.Time, error) {
	query := `SELECT started_at FROM run_history WHERE status IN (?, ?, ?) ORDER BY started_at DESC LIMIT 1`
	var startedAt time.Time
	err := d.db.QueryRowContext(ctx, query,
		string(summary.RunStatusCompleted),
		string(summary.RunStatusPartialComplete),
		string(summary.RunStatusNoTargets),
	).Scan(&startedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			d.logger.Debug().Msg("No previous run found in history")
			return nil, nil
		}
		d.logger.Error().Err(err).Msg("Failed to query last run time")
		return nil, fmt.Errorf("failed to query last run time: %w", err)
	}
	return &startedAt, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
