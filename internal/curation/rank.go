package curation

import (
	"math/rand"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"pulse/internal/feeds"
)

// ScoredItem is a feed item that survived the gates, annotated with its
// detected intent and relevance score.
type ScoredItem struct {
	feeds.Item
	Intent string
	Score  int
}

// FilterAndRank runs the deterministic gates over deduplicated items:
// brand-safety check, global-chart exclusion, hard-drop, intent scoring.
// Survivors come back ordered by score descending, ties broken by title
// using case-insensitive Turkish collation.
func (r *Rules) FilterAndRank(items []feeds.Item) []ScoredItem {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.Text())
	}
	safety := r.Check(texts)
	allowed := make(map[string]struct{}, len(safety.Allowed))
	for _, text := range safety.Allowed {
		allowed[text] = struct{}{}
	}

	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		text := item.Text()
		if _, ok := allowed[text]; !ok {
			continue
		}
		if item.FromChart(r.chartHost, chartRegionGlobal) {
			continue
		}
		if _, dropped := r.HardDrop(text); dropped {
			continue
		}

		intent, score := r.DetectIntent(text, item.Source)
		if item.FromChart(r.chartHost, chartRegionTR) {
			intent = IntentMusic
			score += 6
		}
		scored = append(scored, ScoredItem{Item: item, Intent: intent, Score: score})
	}

	collator := collate.New(language.Turkish, collate.IgnoreCase)
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return collator.CompareString(scored[i].Title, scored[j].Title) < 0
	})
	return scored
}

// Select shuffles ranked items and applies the global cap. The shuffle
// spreads source variety before the cap; rng is injectable so tests stay
// deterministic, and nil skips shuffling entirely.
func Select(items []ScoredItem, rng *rand.Rand, max int) []ScoredItem {
	out := append([]ScoredItem(nil), items...)
	if rng != nil {
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// ChartTitles extracts the titles contributed by the home-locale chart feed,
// preserving item order. These seed the deterministic music card.
func (r *Rules) ChartTitles(items []ScoredItem) []string {
	var titles []string
	for _, item := range items {
		if item.FromChart(r.chartHost, chartRegionTR) {
			titles = append(titles, item.Title)
		}
	}
	return titles
}
