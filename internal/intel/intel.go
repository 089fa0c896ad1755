// Package intel defines the marketable-signal domain model shared by the
// refresh pipeline, the sales flow, and the read API.
package intel

import "strings"

// SignalType categorizes a marketable signal. Unknown values normalize to
// TypeOther so downstream consumers never see free-form categories.
type SignalType string

const (
	TypeTech          SignalType = "TECH"
	TypeGame          SignalType = "GAME"
	TypeEntertainment SignalType = "ENTERTAINMENT"
	TypeHealth        SignalType = "HEALTH"
	TypeSports        SignalType = "SPORTS"
	TypeLifestyle     SignalType = "LIFESTYLE"
	TypeMusic         SignalType = "MUSIC"
	TypeOther         SignalType = "OTHER"

	// TypeEconomy is never emitted; it exists so economy-labelled generator
	// output can be recognized and discarded.
	TypeEconomy SignalType = "ECONOMY"
)

// ParseSignalType maps free-form generator output onto the closed set of
// signal types. Empty or unrecognized input yields TypeOther.
func ParseSignalType(value string) SignalType {
	normalized := SignalType(strings.ToUpper(strings.TrimSpace(value)))
	switch normalized {
	case TypeTech, TypeGame, TypeEntertainment, TypeHealth, TypeSports, TypeLifestyle, TypeMusic, TypeOther:
		return normalized
	case TypeEconomy:
		return TypeEconomy
	default:
		return TypeOther
	}
}

// Signal is one marketable signal: a curated observation about the public
// agenda paired with a brand-free marketing angle.
type Signal struct {
	Type        SignalType `json:"signal_type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
	Published   string     `json:"published"`
	Hook        string     `json:"marketing_hook"`
}

// Intelligence is the curated output of one refresh: a short context summary
// plus the merged signal list.
type Intelligence struct {
	ContextSummary string   `json:"context_summary"`
	Signals        []Signal `json:"marketable_signals"`
}

// RawInputs records how much source material fed a refresh. The counts make
// degraded runs visible without storing the raw material itself.
type RawInputs struct {
	Weather          string `json:"weather"`
	HolidayCount     int    `json:"holiday_count"`
	SchoolBreakCount int    `json:"school_break_count"`
	TrendsCount      int    `json:"trends_count"`
	NewsCount        int    `json:"news_count"`
	NewsItemCount    int    `json:"news_items_count"`
}

// Report is the persisted result of one refresh, written to the cache file
// and served by the read API.
type Report struct {
	Timestamp    string       `json:"timestamp"`
	Intelligence Intelligence `json:"intelligence"`
	RawInputs    RawInputs    `json:"raw_inputs"`
}
