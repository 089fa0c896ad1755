package main

import (
	"time"

	"pulse/internal/store"
)

// shortRunID trims a run UUID down to its leading segment for table output.
func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

// clip bounds a cell to max runes so wide hooks do not blow up the table.
func clip(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}

func formatLocalTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04:05")
}

func runDuration(run *store.Run) string {
	if run == nil || run.FinishedAt == nil || run.StartedAt.IsZero() {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
