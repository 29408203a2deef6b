package differ

import (
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffConfig tunes diff-match-patch.
type DiffConfig struct {
	// Timeout bounds DiffMain; zero means no limit.
	Timeout time.Duration
}

func NewDefaultDiffConfig() DiffConfig {
	return DiffConfig{Timeout: time.Second}
}

// DiffProcessor handles the core line diffing
type DiffProcessor struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config DiffConfig
}

func NewDiffProcessor(config DiffConfig) *DiffProcessor {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = config.Timeout
	return &DiffProcessor{
		dmp:    dmp,
		config: config,
	}
}

// ProcessLineDiff diffs two texts line by line; every returned diff holds whole lines.
func (dp *DiffProcessor) ProcessLineDiff(text1, text2 string) []diffmatchpatch.Diff {
	chars1, chars2, lines := dp.dmp.DiffLinesToChars(text1, text2)
	diffs := dp.dmp.DiffMain(chars1, chars2, false)
	return dp.dmp.DiffCharsToLines(diffs, lines)
}

// DiffStatistics holds diff calculation results
type DiffStatistics struct {
	LinesAdded   int
	LinesDeleted int
	IsIdentical  bool
}

// CalculateStats counts inserted and deleted lines.
func CalculateStats(diffs []diffmatchpatch.Diff) DiffStatistics {
	stats := DiffStatistics{IsIdentical: true}
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			stats.LinesAdded += len(splitLines(diff.Text))
			stats.IsIdentical = false
		case diffmatchpatch.DiffDelete:
			stats.LinesDeleted += len(splitLines(diff.Text))
			stats.IsIdentical = false
		}
	}
	return stats
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
