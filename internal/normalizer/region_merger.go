package normalizer

import (
	"slices"
	"strings"

	"github.com/aleister1102/holidaysync/internal/models"
	"github.com/rs/zerolog"
)

// RegionMerger folds per-region copies of the same holiday into one record.
type RegionMerger struct {
	tracked map[string]bool
	logger  zerolog.Logger
	dropped []string
	// holidays dropped by the last Merge for lack of a catalogue region
	droppedHolidays int
}

// NewRegionMerger builds a merger for a declared catalogue. The sentinel
// "All" may appear in the catalogue and is not a tracked region itself.
func NewRegionMerger(catalogue []string, logger zerolog.Logger) *RegionMerger {
	tracked := make(map[string]bool, len(catalogue))
	for _, region := range catalogue {
		region = CleanText(region)
		if region != "" && region != models.RegionAll {
			tracked[region] = true
		}
	}
	return &RegionMerger{
		tracked: tracked,
		logger:  logger.With().Str("component", "RegionMerger").Logger(),
	}
}

// DroppedLabels lists the labels outside the catalogue seen by the last Merge.
func (m *RegionMerger) DroppedLabels() []string {
	return m.dropped
}

func (m *RegionMerger) DroppedHolidays() int {
	return m.droppedHolidays
}

// TrackedRegions returns the tracked set in lexical order.
func (m *RegionMerger) TrackedRegions() []string {
	regions := make([]string, 0, len(m.tracked))
	for region := range m.tracked {
		regions = append(regions, region)
	}
	slices.Sort(regions)
	return regions
}

// Merge groups records by (date, holiday), unions their regions, sorts each
// region list, and replaces a list covering every tracked region with ["All"].
// A record without a region, or with "All", counts as covering every region.
// Labels outside the catalogue are dropped, and a holiday left with no
// region at all is dropped with them. Output keeps first-occurrence order.
func (m *RegionMerger) Merge(records []models.HolidayRecord) []models.HolidayRecord {
	type group struct {
		record  models.HolidayRecord
		regions map[string]bool
	}

	groups := make(map[string]*group, len(records))
	order := make([]string, 0, len(records))
	m.dropped = nil
	m.droppedHolidays = 0

	for _, record := range records {
		key := record.Date + "\x00" + record.Holiday
		g, exists := groups[key]
		if !exists {
			g = &group{record: record, regions: make(map[string]bool)}
			groups[key] = g
			order = append(order, key)
		}
		if g.record.Day == "" {
			g.record.Day = record.Day
		}

		if len(record.Region) == 0 {
			g.regions[models.RegionAll] = true
		}
		for _, region := range record.Region {
			region = strings.TrimSpace(region)
			if region == "" {
				continue
			}
			if region != models.RegionAll && !m.tracked[region] {
				m.logger.Warn().Str("date", record.Date).Str("holiday", record.Holiday).Str("region", region).Msg("Dropping region outside the catalogue")
				m.dropped = append(m.dropped, region)
				continue
			}
			g.regions[region] = true
		}
	}

	merged := make([]models.HolidayRecord, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if len(g.regions) == 0 {
			m.droppedHolidays++
			continue
		}
		g.record.Region = m.collapse(g.regions)
		merged = append(merged, g.record)
	}
	return merged
}

func (m *RegionMerger) collapse(regions map[string]bool) []string {
	if regions[models.RegionAll] {
		return []string{models.RegionAll}
	}

	covered := 0
	list := make([]string, 0, len(regions))
	for region := range regions {
		list = append(list, region)
		if m.tracked[region] {
			covered++
		}
	}
	if len(m.tracked) > 0 && covered == len(m.tracked) {
		return []string{models.RegionAll}
	}
	slices.Sort(list)
	return list
}
