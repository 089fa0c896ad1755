package feeds

import (
	"net/url"
	"strings"

	"pulse/internal/textutil"
)

// Rune caps applied while converting feed entries. The generator and report
// layers apply their own caps; these keep raw items bounded at the edge.
const (
	maxTitleRunes     = 180
	maxSummaryRunes   = 180
	maxPublishedRunes = 80
	maxSourceRunes    = 60
)

// Item is one normalized feed entry. Items are ephemeral: they live for a
// single refresh and never touch storage.
type Item struct {
	Title     string
	Summary   string
	Published string
	Source    string
	FeedURL   string
}

// Text returns the combined searchable text the safety and intent rules
// operate on.
func (it Item) Text() string {
	return textutil.CollapseSpace(it.Title + " " + it.Summary + " " + it.Source)
}

// FromChart reports whether the item was pulled from a chart feed on the
// given host whose URL contains the region segment (e.g. "/tr/").
func (it Item) FromChart(host, region string) bool {
	u := strings.ToLower(it.FeedURL)
	return strings.Contains(u, strings.ToLower(host)) && strings.Contains(u, region)
}

// IsTrend reports whether the item came from a trend aggregation feed rather
// than an editorial source.
func (it Item) IsTrend() bool {
	parsed, err := url.Parse(strings.ToLower(it.FeedURL))
	if err != nil {
		return false
	}
	return strings.Contains(parsed.Host, "trends") || strings.Contains(parsed.Path, "/trends")
}

// SourceHost derives the short source label for a feed URL: the host without
// its www prefix.
func SourceHost(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	return textutil.Truncate(host, maxSourceRunes)
}

// Dedup removes items whose case-folded title was already seen, preserving
// order. Items with empty titles are dropped.
func Dedup(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		key := textutil.FoldKey(item.Title)
		if key == "" {
			continue
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
