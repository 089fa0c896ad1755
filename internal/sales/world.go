package sales

import (
	"strings"

	"pulse/internal/intel"
	"pulse/internal/report"
)

// WorldContext is the agenda snapshot shared by every customer in a run.
type WorldContext struct {
	ContextSummary string
	NewsTitles     []string
	Signals        []intel.Signal
}

// Degraded reports whether the context carries no usable agenda.
func (w WorldContext) Degraded() bool {
	switch w.ContextSummary {
	case report.ContextMissing, report.ContextCorrupt, report.ContextIncomplete:
		return true
	}
	return false
}

// LoadWorldContext reads the current report cache. A missing or broken
// cache degrades to an explicit no-context state instead of failing the
// run: sales can proceed, just without an agenda to connect to.
func LoadWorldContext(cache *report.Cache) WorldContext {
	loaded, err := cache.Load()
	if err != nil {
		return WorldContext{ContextSummary: report.DegradationMarker(err)}
	}

	intelligence := loaded.Intelligence
	if intelligence.ContextSummary == "" && len(intelligence.Signals) == 0 {
		return WorldContext{ContextSummary: report.ContextIncomplete}
	}

	titles := make([]string, 0, len(intelligence.Signals))
	for _, signal := range intelligence.Signals {
		title := strings.TrimSpace(signal.Title)
		if title == "" {
			continue
		}
		titles = append(titles, title)
	}

	summary := intelligence.ContextSummary
	if summary == "" {
		summary = "Gündem Verisi"
	}
	return WorldContext{
		ContextSummary: summary,
		NewsTitles:     titles,
		Signals:        intelligence.Signals,
	}
}
