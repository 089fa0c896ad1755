package feeds_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pulse/internal/config"
	"pulse/internal/feeds"
)

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title>%s</channel></rss>`

func rssItem(title, description string) string {
	return fmt.Sprintf(
		"<item><title>%s</title><description>%s</description><pubDate>Mon, 02 Feb 2026 10:00:00 GMT</pubDate></item>",
		title, description)
}

func newFetcherConfig(t *testing.T, sources []string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Feeds.Sources = sources
	cfg.Feeds.FetchTimeoutSeconds = 1
	cfg.Feeds.MaxPerFeed = 2
	cfg.Feeds.MaxItems = 80
	return &cfg
}

func TestFetchCollectsAndDeduplicates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a.xml", func(w http.ResponseWriter, r *http.Request) {
		items := rssItem("Yarıyıl tatili planı", "&lt;p&gt;Aileler için&amp;nbsp;öneriler&lt;/p&gt;") +
			rssItem("Konser bileti gündemde", "Satış takvimi") +
			rssItem("Üçüncü haber", "per-feed cap bunu dışarıda bırakır")
		fmt.Fprintf(w, feedTemplate, "Feed A", items)
	})
	mux.HandleFunc("/b.xml", func(w http.ResponseWriter, r *http.Request) {
		items := rssItem("KONSER BILETI GÜNDEMDE", "tekrar") +
			rssItem("Yeni dizi fragmanı", "izleme listesi")
		fmt.Fprintf(w, feedTemplate, "Feed B", items)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := newFetcherConfig(t, []string{server.URL + "/a.xml", server.URL + "/b.xml"})
	fetcher := feeds.NewFetcher(cfg, nil)

	items := fetcher.Fetch(context.Background())
	if len(items) != 3 {
		t.Fatalf("expected 3 items after cap and dedup, got %d: %+v", len(items), items)
	}
	if items[0].Title != "Yarıyıl tatili planı" {
		t.Fatalf("expected first feed order preserved, got %q", items[0].Title)
	}
	if items[0].Summary != "Aileler için öneriler" {
		t.Fatalf("expected markup stripped from summary, got %q", items[0].Summary)
	}
	if items[2].Title != "Yeni dizi fragmanı" {
		t.Fatalf("expected case-insensitive duplicate dropped, got %q", items[2].Title)
	}
	if items[0].Source == "" || items[0].Source == "unknown" {
		t.Fatalf("expected source host label, got %q", items[0].Source)
	}
}

func TestFetchSkipsFailedFeeds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, feedTemplate, "OK", rssItem("Tek haber", "özet"))
	})
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := newFetcherConfig(t, []string{server.URL + "/broken.xml", server.URL + "/ok.xml"})
	fetcher := feeds.NewFetcher(cfg, nil)

	items := fetcher.Fetch(context.Background())
	if len(items) != 1 || items[0].Title != "Tek haber" {
		t.Fatalf("expected only healthy feed items, got %+v", items)
	}
}

func TestFetchBoundedByHangingFeed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fast.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, feedTemplate, "Fast", rssItem("Hızlı haber", "özet"))
	})
	mux.HandleFunc("/hang.xml", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(30 * time.Second):
		case <-r.Context().Done():
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sources := []string{
		server.URL + "/fast.xml",
		server.URL + "/hang.xml",
		server.URL + "/fast.xml",
		server.URL + "/fast.xml",
		server.URL + "/fast.xml",
	}
	cfg := newFetcherConfig(t, sources)
	fetcher := feeds.NewFetcher(cfg, nil)

	start := time.Now()
	items := fetcher.Fetch(context.Background())
	elapsed := time.Since(start)

	if elapsed > 3*time.Second {
		t.Fatalf("expected gather bounded by per-feed timeout, took %s", elapsed)
	}
	if len(items) != 1 {
		t.Fatalf("expected deduplicated fast items, got %+v", items)
	}
}

func TestDedupKeepsFirstOccurrence(t *testing.T) {
	items := []feeds.Item{
		{Title: "Konser takvimi", Source: "a"},
		{Title: "KONSER TAKVIMI", Source: "b"},
		{Title: "", Source: "c"},
		{Title: "Başka haber", Source: "d"},
	}
	out := feeds.Dedup(items)
	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out))
	}
	if out[0].Source != "a" || out[1].Source != "d" {
		t.Fatalf("expected first occurrence kept, got %+v", out)
	}
}

func TestSourceHost(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.webtekno.com/rss.xml", "webtekno.com"},
		{"https://tr.ign.com/feed.xml", "tr.ign.com"},
		{"not a url", "unknown"},
	}
	for _, tc := range cases {
		if got := feeds.SourceHost(tc.in); got != tc.want {
			t.Errorf("SourceHost(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChartAndTrendDetection(t *testing.T) {
	chartTR := feeds.Item{FeedURL: "https://spotifycharts.com/regional/tr/daily/latest/rss"}
	chartGlobal := feeds.Item{FeedURL: "https://spotifycharts.com/viral/global/daily/latest/rss"}
	trend := feeds.Item{FeedURL: "https://trends24.in/turkey/rss.xml"}
	news := feeds.Item{FeedURL: "https://www.webtekno.com/rss.xml"}

	if !chartTR.FromChart("spotifycharts.com", "/tr/") {
		t.Error("expected TR chart feed to match")
	}
	if chartTR.FromChart("spotifycharts.com", "/global/") {
		t.Error("TR chart feed must not match global segment")
	}
	if !chartGlobal.FromChart("spotifycharts.com", "/global/") {
		t.Error("expected global chart feed to match")
	}
	if !trend.IsTrend() {
		t.Error("expected trend feed detection")
	}
	if news.IsTrend() {
		t.Error("news feed must not be a trend feed")
	}
}
