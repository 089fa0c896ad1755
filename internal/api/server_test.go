package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pulse/internal/config"
	"pulse/internal/intel"
	"pulse/internal/report"
	"pulse/internal/store"
	"pulse/internal/testsupport"
)

func newTestServer(t *testing.T) (*Server, *config.Config, *store.Store) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	srv := NewServer(cfg, st, nil)
	if srv == nil {
		t.Fatal("NewServer returned nil despite a configured bind address")
	}
	return srv, cfg, st
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestNewServerDisabledWithoutBind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = ""
	st := testsupport.MustOpenStore(t, cfg)

	if srv := NewServer(cfg, st, nil); srv != nil {
		t.Fatal("expected nil server when no bind address is configured")
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := get(t, srv, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	resp := decodeBody[map[string]string](t, w)
	if resp["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", resp)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST health = %d, want 405", rec.Code)
	}
}

func TestHandleReportDegradations(t *testing.T) {
	srv, cfg, _ := newTestServer(t)

	resp := decodeBody[ReportResponse](t, get(t, srv, "/api/report"))
	if resp.Available || resp.ContextSummary != report.ContextMissing {
		t.Fatalf("missing cache: %+v", resp)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Paths.CacheFile), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfg.Paths.CacheFile, []byte("{bozuk json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp = decodeBody[ReportResponse](t, get(t, srv, "/api/report"))
	if resp.Available || resp.ContextSummary != report.ContextCorrupt {
		t.Fatalf("corrupt cache: %+v", resp)
	}

	cache := report.NewCache(cfg.Paths.CacheFile)
	if err := cache.Save(intel.Report{Timestamp: "2026-08-23T09:00:00"}); err != nil {
		t.Fatalf("save empty report: %v", err)
	}
	resp = decodeBody[ReportResponse](t, get(t, srv, "/api/report"))
	if resp.Available || resp.ContextSummary != report.ContextIncomplete {
		t.Fatalf("empty report: %+v", resp)
	}
}

func TestHandleReportServesCachedReport(t *testing.T) {
	srv, cfg, _ := newTestServer(t)

	saved := intel.Report{
		Timestamp: "2026-08-23T09:00:00",
		Intelligence: intel.Intelligence{
			ContextSummary: "Hafta sonu gündemi sakin.",
			Signals: []intel.Signal{
				{Type: intel.TypeOther, Title: "Test sinyali", Description: "Test sinyali gündemde."},
			},
		},
		RawInputs: intel.RawInputs{Weather: "Güneşli", NewsCount: 1, NewsItemCount: 1},
	}
	if err := report.NewCache(cfg.Paths.CacheFile).Save(saved); err != nil {
		t.Fatalf("save report: %v", err)
	}

	w := get(t, srv, "/api/report")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	resp := decodeBody[ReportResponse](t, w)
	if !resp.Available {
		t.Fatal("report should be available")
	}
	if resp.ContextSummary != "Hafta sonu gündemi sakin." {
		t.Errorf("ContextSummary = %q", resp.ContextSummary)
	}
	if resp.Report == nil {
		t.Fatal("report payload missing")
	}
	if resp.Report.Timestamp != saved.Timestamp {
		t.Errorf("Timestamp = %q", resp.Report.Timestamp)
	}
	if len(resp.Report.Intelligence.Signals) != 1 {
		t.Errorf("signals = %d, want 1", len(resp.Report.Intelligence.Signals))
	}
	if resp.Report.RawInputs.Weather != "Güneşli" {
		t.Errorf("RawInputs.Weather = %q", resp.Report.RawInputs.Weather)
	}
}

func TestHandleOpportunity(t *testing.T) {
	srv, _, st := newTestServer(t)
	ctx := context.Background()
	testsupport.SeedDemo(t, st)

	reasoning := `{"analysis":"Oyun gündemi yoğun.","grounding":{"fallback_used":false}}`
	if _, err := st.UpsertOpportunity(ctx, &store.Opportunity{
		CustomerID:        1,
		PersonaLabel:      "Genç Oyuncu",
		CurrentIntent:     "gaming",
		SuggestedProduct:  "Sınırsız Gaming Pass",
		MarketingHeadline: "Oyun gecesi başlasın",
		MarketingContent:  "Hafta sonu turnuvasına düşük gecikmeyle katılın.",
		Reasoning:         reasoning,
	}); err != nil {
		t.Fatalf("UpsertOpportunity: %v", err)
	}

	w := get(t, srv, "/api/sales-opportunities/1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody[OpportunityResponse](t, w)
	if resp.CustomerID != 1 {
		t.Errorf("CustomerID = %d", resp.CustomerID)
	}
	if resp.SuggestedProduct != "Sınırsız Gaming Pass" {
		t.Errorf("SuggestedProduct = %q", resp.SuggestedProduct)
	}
	parsed, ok := resp.AIReasoning.(map[string]any)
	if !ok {
		t.Fatalf("ai_reasoning not decoded: %#v", resp.AIReasoning)
	}
	if parsed["analysis"] != "Oyun gündemi yoğun." {
		t.Errorf("analysis = %v", parsed["analysis"])
	}
	if resp.CreatedAt == "" {
		t.Error("created_at missing")
	}

	if w := get(t, srv, "/api/sales-opportunities/999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown customer = %d, want 404", w.Code)
	}
	if w := get(t, srv, "/api/sales-opportunities/abc"); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id = %d, want 400", w.Code)
	}
	if w := get(t, srv, "/api/sales-opportunities/"); w.Code != http.StatusNotFound {
		t.Errorf("empty id = %d, want 404", w.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv, cfg, st := newTestServer(t)
	ctx := context.Background()

	customers, products, err := st.SeedDemo(ctx)
	if err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}

	resp := decodeBody[StatusResponse](t, get(t, srv, "/api/status"))
	if resp.Customers != int64(customers) || resp.Products != int64(products) {
		t.Errorf("counts = %d/%d, want %d/%d", resp.Customers, resp.Products, customers, products)
	}
	if resp.Opportunities != 0 {
		t.Errorf("Opportunities = %d, want 0", resp.Opportunities)
	}
	if resp.LatestRun != nil {
		t.Errorf("LatestRun before any refresh: %+v", resp.LatestRun)
	}
	if resp.DatabasePath != cfg.DatabasePath() {
		t.Errorf("DatabasePath = %q", resp.DatabasePath)
	}
	if !resp.Daemon.Running || resp.Daemon.PID == 0 {
		t.Errorf("daemon info = %+v", resp.Daemon)
	}

	run, err := st.StartRun(ctx, "run-status-test")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	run.Status = store.RunStatusCompleted
	run.ItemCount = 12
	run.SignalCount = 5
	if err := st.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	resp = decodeBody[StatusResponse](t, get(t, srv, "/api/status"))
	if resp.LatestRun == nil {
		t.Fatal("LatestRun missing after a run")
	}
	if resp.LatestRun.RunID != "run-status-test" || resp.LatestRun.Status != string(store.RunStatusCompleted) {
		t.Errorf("LatestRun = %+v", resp.LatestRun)
	}
	if resp.LatestRun.FinishedAt == "" {
		t.Error("LatestRun.FinishedAt missing")
	}
}

func TestHandleRunsHonorsLimit(t *testing.T) {
	srv, _, st := newTestServer(t)
	ctx := context.Background()

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		if _, err := st.StartRun(ctx, id); err != nil {
			t.Fatalf("StartRun %s: %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	resp := decodeBody[RunListResponse](t, get(t, srv, "/api/runs?limit=2"))
	if len(resp.Runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(resp.Runs))
	}
	if resp.Runs[0].RunID != "run-c" || resp.Runs[1].RunID != "run-b" {
		t.Errorf("run order = %q, %q", resp.Runs[0].RunID, resp.Runs[1].RunID)
	}
	if resp.Runs[0].Status != string(store.RunStatusRunning) {
		t.Errorf("run status = %q", resp.Runs[0].Status)
	}
}

func TestBearerTokenGuardsEndpoints(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("sekret"))
	st := testsupport.MustOpenStore(t, cfg)
	srv := NewServer(cfg, st, nil)
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}

	if w := get(t, srv, "/api/status"); w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer yanlis")
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	rec = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", rec.Code)
	}

	// Health probes stay open even with a token configured.
	if w := get(t, srv, "/api/health"); w.Code != http.StatusOK {
		t.Errorf("health = %d, want 200", w.Code)
	}
}

func TestServerStartServesAndStops(t *testing.T) {
	srv, _, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	resp, err := http.Get("http://" + srv.Addr() + "/api/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
}
