package report

import (
	"time"

	"pulse/internal/intel"
	"pulse/internal/textutil"
)

// Merge combines deterministic cards with generated signals, deterministic
// first so the cards win title collisions. Titles are deduplicated
// case-insensitively, empty titles and economy-typed entries are discarded,
// and the result is capped at maxSignals.
func Merge(deterministic, generated []intel.Signal, maxSignals int) []intel.Signal {
	seen := make(map[string]struct{})
	var merged []intel.Signal
	for _, group := range [][]intel.Signal{deterministic, generated} {
		for _, signal := range group {
			key := textutil.FoldKey(signal.Title)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			if intel.ParseSignalType(string(signal.Type)) == intel.TypeEconomy {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, signal)
		}
	}
	if maxSignals > 0 && len(merged) > maxSignals {
		merged = merged[:maxSignals]
	}
	return merged
}

// Build assembles the persisted report for one refresh.
func Build(now time.Time, intelligence intel.Intelligence, raw intel.RawInputs) intel.Report {
	return intel.Report{
		Timestamp:    now.Format("2006-01-02T15:04:05"),
		Intelligence: intelligence,
		RawInputs:    raw,
	}
}
