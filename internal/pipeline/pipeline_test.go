package pipeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"pulse/internal/config"
	"pulse/internal/intel"
	"pulse/internal/notifications"
	"pulse/internal/pipeline"
	"pulse/internal/report"
	"pulse/internal/services/llm"
	"pulse/internal/services/openmeteo"
	"pulse/internal/store"
	"pulse/internal/testsupport"
)

// The fixed clock falls on a Wednesday so the weekend hint lands on the
// following Saturday, exactly one official holiday (30 August) sits inside
// the lookahead window, and the default school breaks are already over.
var refreshNow = time.Date(2026, time.August, 19, 10, 0, 0, 0, time.UTC)

// Six raw entries: two safety drops (politics, finance), one case-folded
// duplicate pair, and three rankable items (travel > gaming > entertainment).
const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Gündem</title>
<link>https://example.com/gundem</link>
<description>Test feed</description>
<item><title>Cumhurbaşkanı seçim takvimini açıkladı</title><description>Siyasi gündem yoğun.</description><pubDate>Wed, 19 Aug 2026 06:00:00 GMT</pubDate></item>
<item><title>Borsa İstanbul rekor kırdı</title><description>Piyasalar hareketli.</description></item>
<item><title>Uzun hafta sonu tatil planı yapanlar arttı</title><description>Tatilciler rotalarını belirledi.</description><pubDate>Wed, 19 Aug 2026 07:00:00 GMT</pubDate></item>
<item><title>Konser biletleri satışa çıktı</title><description>Sahne programı açıklandı.</description></item>
<item><title>KONSER BİLETLERİ SATIŞA ÇIKTI</title><description>Sahne programı açıklandı.</description></item>
<item><title>Yeni oyun güncellemesi yayınlandı</title><description>Oyuncular merakla bekliyordu.</description></item>
</channel>
</rss>`

const singleItemXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Oyun</title>
<link>https://example.com/oyun</link>
<description>Test feed</description>
<item><title>Yeni oyun güncellemesi yayınlandı</title><description>Oyuncular merakla bekliyordu.</description></item>
</channel>
</rss>`

// Gateway output exercising every sanitizer path: an acceptable signal, an
// economy drop, a duplicate of the deterministic weather card, a branded
// title with a weak hook, and a description with ungrounded device details.
const generatedContent = `{
  "context_summary": "Hafta sonu öncesi oyun ve konser gündemi hareketli.",
  "marketable_signals": [
    {"signal_type": "TECH", "title": "Yeni telefon tanıtıldı", "description": "Cihaz 120 Hz ekran ve 5000 mAh pil ile geliyor", "source": "webtekno.example", "published": "2026-08-19", "marketing_hook": "Segment: Cihaz yenileyenler | Senaryo: Yeni telefon kurulumu | İhtiyaç: ilk kurulumda yoğun mobil internet bağlantısı"},
    {"signal_type": "ECONOMY", "title": "Dolar rekor kırdı", "description": "Kur hareketliliği sürüyor.", "source": "ekonomi.example", "published": "2026-08-19", "marketing_hook": "Segment: Genel | Senaryo: Gündem takibi | İhtiyaç: mobil internet"},
    {"signal_type": "LIFESTYLE", "title": "İstanbul hava durumu: Güneşli", "description": "Hava açık geçecek.", "source": "model", "published": "2026-08-19", "marketing_hook": "Segment: Genel | Senaryo: Dışarıda vakit | İhtiyaç: hareket halinde mobil internet kullanımı"},
    {"signal_type": "ENTERTAINMENT", "title": "Vodafone yeni dizi sezonu başlıyor", "description": "Yeni sezon bölümleri yayında.", "source": "beyazperde.example", "published": "2026-08-18", "marketing_hook": "kısa"}
  ]
}`

func serveFeed(t *testing.T, xml string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		_, _ = io.WriteString(w, xml)
	}))
	t.Cleanup(server.Close)
	return server
}

func stubWeather(t *testing.T, code int) *openmeteo.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"daily":{"weather_code":[%d]}}`, code)
	}))
	t.Cleanup(server.Close)
	return openmeteo.NewClient(openmeteo.Config{BaseURL: server.URL})
}

func stubGateway(t *testing.T, status int, content string) *llm.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "upstream unavailable", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return llm.NewClient(
		llm.Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		llm.WithRetryMaxAttempts(1),
	)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
	data   []notifications.Payload
}

func (r *recordingNotifier) Publish(_ context.Context, event notifications.Event, payload notifications.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.data = append(r.data, payload)
	return nil
}

func newRefreshPipeline(t *testing.T, cfg *config.Config, gateway *llm.Client) (*pipeline.Pipeline, *store.Store, *recordingNotifier) {
	t.Helper()

	st := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{}
	p, err := pipeline.New(cfg, st, gateway, nil,
		pipeline.WithWeatherClient(stubWeather(t, 0)),
		pipeline.WithRand(nil),
		pipeline.WithClock(func() time.Time { return refreshNow }),
		pipeline.WithNotifier(notifier),
	)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return p, st, notifier
}

func signalTitles(signals []intel.Signal) []string {
	titles := make([]string, 0, len(signals))
	for _, signal := range signals {
		titles = append(titles, signal.Title)
	}
	return titles
}

func TestRefreshMergesDeterministicAndGeneratedSignals(t *testing.T) {
	feed := serveFeed(t, feedXML)
	cfg := testsupport.NewConfig(t, testsupport.WithSources(feed.URL))
	p, st, notifier := newRefreshPipeline(t, cfg, stubGateway(t, http.StatusOK, generatedContent))

	result, err := p.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.RunID == "" {
		t.Error("expected a run ID")
	}
	if result.FallbackUsed {
		t.Error("fallback used even though the gateway responded")
	}
	if result.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", result.ItemCount)
	}

	rpt := result.Report
	if rpt.Timestamp != "2026-08-19T10:00:00" {
		t.Errorf("Timestamp = %q", rpt.Timestamp)
	}
	if rpt.Intelligence.ContextSummary != "Hafta sonu öncesi oyun ve konser gündemi hareketli." {
		t.Errorf("ContextSummary = %q", rpt.Intelligence.ContextSummary)
	}

	titles := signalTitles(rpt.Intelligence.Signals)
	want := []string{
		"Yaklaşan resmi tatil: 2026-08-30: Zafer Bayramı (Resmi Tatil)",
		"Hafta sonu yaklaşıyor: 2026-08-22: Hafta sonu başlıyor (Cumartesi)",
		"İstanbul hava durumu: Güneşli",
		"Yeni telefon tanıtıldı",
		"yeni dizi sezonu başlıyor",
	}
	if len(titles) != len(want) {
		t.Fatalf("signal titles = %q, want %q", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("signal %d title = %q, want %q", i, titles[i], want[i])
		}
	}

	signals := rpt.Intelligence.Signals
	if signals[2].Source != "open-meteo" {
		t.Errorf("weather source = %q, want the deterministic card to win the merge", signals[2].Source)
	}
	if signals[3].Description != "Yeni telefon tanıtıldı ile ilgili yeni gelişmeler gündeme geldi." {
		t.Errorf("ungrounded description kept: %q", signals[3].Description)
	}
	if signals[3].Hook != "Segment: Cihaz yenileyenler | Senaryo: Yeni telefon kurulumu | İhtiyaç: ilk kurulumda yoğun mobil internet bağlantısı" {
		t.Errorf("acceptable hook rewritten: %q", signals[3].Hook)
	}
	if signals[4].Hook != "Segment: Dizi/film izleyenler | Senaryo: Yeni içerikler/izleme maratonu | İhtiyaç: akıcı izleme için stabil bağlantı ve yeterli internet" {
		t.Errorf("weak hook kept: %q", signals[4].Hook)
	}

	raw := rpt.RawInputs
	if raw.Weather != "Güneşli" {
		t.Errorf("Weather = %q", raw.Weather)
	}
	if raw.HolidayCount != 1 || raw.SchoolBreakCount != 0 {
		t.Errorf("calendar counts = %d/%d, want 1/0", raw.HolidayCount, raw.SchoolBreakCount)
	}
	if raw.TrendsCount != 0 {
		t.Errorf("TrendsCount = %d, want 0", raw.TrendsCount)
	}
	if raw.NewsCount != 3 || raw.NewsItemCount != 3 {
		t.Errorf("news counts = %d/%d, want 3/3", raw.NewsCount, raw.NewsItemCount)
	}

	cached, err := report.NewCache(cfg.Paths.CacheFile).Load()
	if err != nil {
		t.Fatalf("cache load: %v", err)
	}
	if cached.Timestamp != rpt.Timestamp || len(cached.Intelligence.Signals) != len(signals) {
		t.Errorf("cached report differs: %s with %d signals", cached.Timestamp, len(cached.Intelligence.Signals))
	}

	run, err := st.LatestRun(context.Background())
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if run.Status != store.RunStatusCompleted {
		t.Errorf("run status = %q", run.Status)
	}
	if run.ItemCount != 3 || run.SignalCount != 5 || run.FallbackUsed {
		t.Errorf("run counters = %d items, %d signals, fallback=%v", run.ItemCount, run.SignalCount, run.FallbackUsed)
	}
	if run.FinishedAt == nil {
		t.Error("run row left open")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.events) != 1 || notifier.events[0] != notifications.EventRefreshCompleted {
		t.Fatalf("notified events = %v", notifier.events)
	}
	if got := notifier.data[0]["signals"]; got != "5" {
		t.Errorf("notification signals = %q", got)
	}
	if got := notifier.data[0]["fallback"]; got != "false" {
		t.Errorf("notification fallback = %q", got)
	}
}

func TestRefreshFallsBackWhenGatewayFails(t *testing.T) {
	feed := serveFeed(t, feedXML)
	cfg := testsupport.NewConfig(t, testsupport.WithSources(feed.URL))
	p, st, notifier := newRefreshPipeline(t, cfg, stubGateway(t, http.StatusInternalServerError, ""))

	result, err := p.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !result.FallbackUsed {
		t.Fatal("expected the deterministic digest")
	}

	rpt := result.Report
	if rpt.Intelligence.ContextSummary != "LLM yanıt veremediği için deterministik özet üretildi." {
		t.Errorf("ContextSummary = %q", rpt.Intelligence.ContextSummary)
	}

	titles := signalTitles(rpt.Intelligence.Signals)
	want := []string{
		"Yaklaşan resmi tatil: 2026-08-30: Zafer Bayramı (Resmi Tatil)",
		"Hafta sonu yaklaşıyor: 2026-08-22: Hafta sonu başlıyor (Cumartesi)",
		"İstanbul hava durumu: Güneşli",
		"Uzun hafta sonu tatil planı yapanlar arttı",
		"Yeni oyun güncellemesi yayınlandı",
		"Konser biletleri satışa çıktı",
	}
	if len(titles) != len(want) {
		t.Fatalf("signal titles = %q, want %q", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("signal %d title = %q, want %q", i, titles[i], want[i])
		}
	}

	digest := rpt.Intelligence.Signals[3]
	if digest.Type != intel.TypeOther {
		t.Errorf("digest type = %q, want OTHER", digest.Type)
	}
	if digest.Description != "Uzun hafta sonu tatil planı yapanlar arttı gündemde." {
		t.Errorf("digest description = %q", digest.Description)
	}
	if digest.Hook != "Segment: Seyahat edenler | Senaryo: Tatil/ziyaret planı | İhtiyaç: yolda ve şehir dışında kesintisiz bağlantı ve internet kullanımı" {
		t.Errorf("digest hook = %q", digest.Hook)
	}

	run, err := st.LatestRun(context.Background())
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if run.Status != store.RunStatusCompleted {
		t.Errorf("run status = %q", run.Status)
	}
	if !run.FallbackUsed {
		t.Error("run row should record the fallback")
	}
	if run.SignalCount != 6 {
		t.Errorf("run SignalCount = %d, want 6", run.SignalCount)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.events) != 1 || notifier.events[0] != notifications.EventRefreshCompleted {
		t.Fatalf("notified events = %v", notifier.events)
	}
	if got := notifier.data[0]["fallback"]; got != "true" {
		t.Errorf("notification fallback = %q", got)
	}
}

func TestRefreshToleratesHungFeed(t *testing.T) {
	hung := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(hung.Close)
	good := serveFeed(t, singleItemXML)

	cfg := testsupport.NewConfig(t, testsupport.WithSources(hung.URL, good.URL))
	cfg.Feeds.FetchTimeoutSeconds = 1
	p, _, _ := newRefreshPipeline(t, cfg, stubGateway(t, http.StatusInternalServerError, ""))

	result, err := p.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want the healthy feed's single item", result.ItemCount)
	}

	found := false
	for _, title := range signalTitles(result.Report.Intelligence.Signals) {
		if title == "Yeni oyun güncellemesi yayınlandı" {
			found = true
		}
	}
	if !found {
		t.Error("digest missing the healthy feed's item")
	}
}
