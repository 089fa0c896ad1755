package sanitize

import (
	"regexp"

	"pulse/internal/curation"
	"pulse/internal/intel"
	"pulse/internal/textutil"
)

const (
	maxTitleRunes   = 180
	maxDescRunes    = 240
	maxSourceRunes  = 80
	maxHookRunes    = 180
	maxSummaryRunes = 280
)

// Spec-like tokens (bare numbers, display/battery/bandwidth units). A
// description carrying one of these while the title does not is treated as a
// hallucinated detail. Boundaries are spelled out because the generated text
// is Turkish and \b only understands ASCII word characters.
var specTokenPattern = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(\d+(\.\d+)?|oled|hz|mah|gb|5g|inç)([^\p{L}\p{N}]|$)`)

// Sanitizer rewrites generated intelligence so that only grounded, on-policy
// text survives: brand and campaign phrases are stripped, hallucinated specs
// are replaced, weak hooks fall back to the intent template, and any signal
// tripping the safety rules is discarded outright.
type Sanitizer struct {
	rules *curation.Rules
}

// New returns a Sanitizer backed by the supplied rule set.
func New(rules *curation.Rules) *Sanitizer {
	return &Sanitizer{rules: rules}
}

// Intelligence sanitizes every generated signal and caps the context summary.
// The input is not modified.
func (s *Sanitizer) Intelligence(in intel.Intelligence) intel.Intelligence {
	out := intel.Intelligence{
		ContextSummary: textutil.Truncate(s.rules.StripPhrases(in.ContextSummary), maxSummaryRunes),
	}
	for _, signal := range in.Signals {
		cleaned, ok := s.Signal(signal)
		if !ok {
			continue
		}
		out.Signals = append(out.Signals, cleaned)
	}
	return out
}

// Signal sanitizes a single generated signal. The second return value is
// false when the signal must be dropped: economy-typed output and text that
// fails the final safety pass never reach the report.
func (s *Sanitizer) Signal(signal intel.Signal) (intel.Signal, bool) {
	signalType := intel.ParseSignalType(string(signal.Type))
	if signalType == intel.TypeEconomy {
		return intel.Signal{}, false
	}

	title := textutil.Truncate(s.rules.StripPhrases(signal.Title), maxTitleRunes)
	description := s.safeDescription(title, signal.Description)
	source := textutil.Clean(signal.Source, maxSourceRunes)
	published := textutil.Clean(signal.Published, maxSourceRunes)

	intent, _ := s.rules.DetectIntent(title+" "+description, source)
	hook := s.enforceHook(signal.Hook, intent)

	if !s.rules.AllowedText(title + " " + description + " " + hook) {
		return intel.Signal{}, false
	}

	return intel.Signal{
		Type:        signalType,
		Title:       title,
		Description: textutil.Truncate(description, maxDescRunes),
		Source:      source,
		Published:   published,
		Hook:        hook,
	}, true
}

// safeDescription returns the stripped description unless it introduces
// spec-like tokens absent from the title, in which case a title-derived
// sentence replaces it. An empty description also falls back to the title.
func (s *Sanitizer) safeDescription(title, description string) string {
	t := textutil.Truncate(s.rules.StripPhrases(title), maxTitleRunes)
	d := textutil.Truncate(s.rules.StripPhrases(description), maxDescRunes)
	if d == "" {
		return t + " gündemde."
	}
	if specTokenPattern.MatchString(d) && !specTokenPattern.MatchString(t) {
		return t + " ile ilgili yeni gelişmeler gündeme geldi."
	}
	return d
}

// enforceHook keeps a generated hook only when it is long enough and touches
// a connectivity marker; otherwise the intent's template takes its place.
func (s *Sanitizer) enforceHook(hook, intent string) string {
	h := s.rules.StripPhrases(hook)
	if s.rules.AcceptableHook(h) {
		return textutil.Truncate(h, maxHookRunes)
	}
	return textutil.Truncate(s.rules.Hook(intent), maxHookRunes)
}
