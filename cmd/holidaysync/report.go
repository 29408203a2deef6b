package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/aleister1102/holidaysync/internal/datastore"
	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/aleister1102/holidaysync/internal/scheduler"
)

// printHistory lists recent runs, or the recent outcomes of each given country.
func printHistory(w io.Writer, db *scheduler.DB, limit int, countries []string) int {
	if db == nil {
		log.Println("[ERROR] Main: run history is disabled (scheduler_config.sqlite_db_path is empty)")
		return 1
	}
	ctx := context.Background()

	if len(countries) > 0 {
		for _, code := range countries {
			entries, err := db.CountryHistory(ctx, code, limit)
			if err != nil {
				log.Printf("[ERROR] Main: Could not read history of %s: %v", code, err)
				return 1
			}
			fmt.Fprintf(w, "%s: %d recorded runs\n", code, len(entries))
			for _, e := range entries {
				fmt.Fprintf(w, "  %-36s attempt %d  %-11s %3d holidays", e.RunID, e.Attempt, e.Status, e.Holidays)
				if e.Changes.Valid {
					fmt.Fprintf(w, "  changes %s", e.Changes.String)
				}
				if e.UpdatedOn.Valid {
					fmt.Fprintf(w, "  updated_on %s", e.UpdatedOn.String)
				}
				if e.Error.Valid {
					fmt.Fprintf(w, "  error: %s", e.Error.String)
				}
				fmt.Fprintln(w)
			}
		}
		return 0
	}

	runs, err := db.RecentRuns(ctx, limit)
	if err != nil {
		log.Printf("[ERROR] Main: Could not read run history: %v", err)
		return 1
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-36s %-9s attempt %d  %-16s %3d countries  created %d updated %d unchanged %d overwritten %d failed %d  %s\n",
			r.StartedAt.Local().Format(time.RFC3339), r.RunID, r.Mode, r.Attempt, r.Status, r.Countries,
			r.Created, r.Updated, r.Unchanged, r.Overwritten, r.Failed, r.Duration.Round(time.Millisecond))
	}
	return 0
}

// printSnapshots lists the archived versions of one country, oldest first,
// followed by the holidays of the newest one.
func printSnapshots(w io.Writer, archive *datastore.ParquetSnapshotArchive, alpha3 string) int {
	paths, err := archive.ListSnapshots(models.CountryInfo{Alpha3: alpha3})
	if err != nil {
		log.Printf("[ERROR] Main: Could not list snapshots of %s: %v", alpha3, err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Fprintf(w, "No snapshots archived for %s\n", alpha3)
		return 0
	}

	var latest []datastore.HolidaySnapshotRow
	for _, path := range paths {
		rows, err := archive.ReadSnapshot(path)
		if err != nil {
			log.Printf("[ERROR] Main: Could not read snapshot %s: %v", path, err)
			return 1
		}
		fmt.Fprintf(w, "%s  %d holidays\n", filepath.Base(path), len(rows))
		latest = rows
	}

	if len(latest) > 0 {
		fmt.Fprintf(w, "Latest snapshot (updated_on %s):\n", latest[0].UpdatedOn)
	}
	for _, row := range latest {
		fmt.Fprintf(w, "  %s\n", row.ToHolidayRecord().String())
	}
	return 0
}
