// Package feeds pulls the configured RSS/Atom sources concurrently and
// normalizes their entries into bounded items.
package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"pulse/internal/config"
	"pulse/internal/logging"
	"pulse/internal/textutil"
)

const userAgent = "pulse/1.0 (+https://github.com/pulse-crm/pulse)"

// Fetcher pulls every configured source and joins the results. Feed failures
// are soft: a broken or slow source contributes nothing and the refresh
// continues.
type Fetcher struct {
	client  *http.Client
	sources []string
	perFeed int
	timeout time.Duration
	logger  *slog.Logger
}

func NewFetcher(cfg *config.Config, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.Feeds.FetchTimeoutSeconds) * time.Second
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		sources: append([]string(nil), cfg.Feeds.Sources...),
		perFeed: cfg.Feeds.MaxPerFeed,
		timeout: timeout,
		logger:  logging.WithComponent(logger, "feeds"),
	}
}

// Fetch retrieves all sources concurrently and returns the de-duplicated
// items in source order. The wall clock is bounded by the slowest single
// fetch, not the sum: every source runs in its own goroutine with its own
// timeout.
func (f *Fetcher) Fetch(ctx context.Context) []Item {
	results := make([][]Item, len(f.sources))
	var wg sync.WaitGroup
	for i, source := range f.sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			items, err := f.fetchOne(ctx, source)
			if err != nil {
				f.logger.Warn("feed fetch failed",
					logging.String(logging.FieldFeed, source),
					logging.Error(err))
				return
			}
			results[i] = items
		}(i, source)
	}
	wg.Wait()

	var all []Item
	for _, items := range results {
		all = append(all, items...)
	}
	return Dedup(all)
}

func (f *Fetcher) fetchOne(ctx context.Context, source string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]Item, 0, f.perFeed)
	for _, entry := range feed.Items {
		if len(items) >= f.perFeed {
			break
		}
		item, ok := entryToItem(entry, source)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func entryToItem(entry *gofeed.Item, feedURL string) (Item, bool) {
	if entry == nil {
		return Item{}, false
	}
	title := textutil.Clean(entry.Title, maxTitleRunes)
	if title == "" {
		return Item{}, false
	}
	summary := entry.Description
	if summary == "" {
		summary = entry.Content
	}
	published := entry.Published
	if published == "" {
		published = entry.Updated
	}
	return Item{
		Title:     title,
		Summary:   textutil.Clean(summary, maxSummaryRunes),
		Published: textutil.Clean(published, maxPublishedRunes),
		Source:    SourceHost(feedURL),
		FeedURL:   feedURL,
	}, true
}
