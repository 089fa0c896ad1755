package sales_test

import (
	"os"
	"path/filepath"
	"testing"

	"pulse/internal/intel"
	"pulse/internal/report"
	"pulse/internal/sales"
)

func TestLoadWorldContextMissingFile(t *testing.T) {
	cache := report.NewCache(filepath.Join(t.TempDir(), "missing", "intelligence.json"))

	world := sales.LoadWorldContext(cache)
	if world.ContextSummary != report.ContextMissing {
		t.Fatalf("expected %q, got %q", report.ContextMissing, world.ContextSummary)
	}
	if !world.Degraded() {
		t.Fatal("missing cache must degrade")
	}
	if len(world.NewsTitles) != 0 || len(world.Signals) != 0 {
		t.Fatalf("expected empty agenda, got %#v", world)
	}
}

func TestLoadWorldContextCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intelligence.json")
	if err := os.WriteFile(path, []byte("{bozuk json"), 0o644); err != nil {
		t.Fatalf("write corrupt cache: %v", err)
	}

	world := sales.LoadWorldContext(report.NewCache(path))
	if world.ContextSummary != report.ContextCorrupt {
		t.Fatalf("expected %q, got %q", report.ContextCorrupt, world.ContextSummary)
	}
	if !world.Degraded() {
		t.Fatal("corrupt cache must degrade")
	}
}

func TestLoadWorldContextEmptyIntelligence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intelligence.json")
	cache := report.NewCache(path)
	if err := cache.Save(intel.Report{Timestamp: "2026-08-23T09:00:00"}); err != nil {
		t.Fatalf("save empty report: %v", err)
	}

	world := sales.LoadWorldContext(cache)
	if world.ContextSummary != report.ContextIncomplete {
		t.Fatalf("expected %q, got %q", report.ContextIncomplete, world.ContextSummary)
	}
}

func TestLoadWorldContextExtractsTitles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intelligence.json")
	cache := report.NewCache(path)
	saved := intel.Report{
		Timestamp: "2026-08-23T09:00:00",
		Intelligence: intel.Intelligence{
			ContextSummary: "Hafta sonu gündemi yoğun.",
			Signals: []intel.Signal{
				{Type: intel.TypeEntertainment, Title: "  Yeni dizi sezonu başladı  "},
				{Type: intel.TypeMusic, Title: ""},
				{Type: intel.TypeLifestyle, Title: "Hafta sonu yaklaşıyor: 2026-08-22"},
			},
		},
	}
	if err := cache.Save(saved); err != nil {
		t.Fatalf("save report: %v", err)
	}

	world := sales.LoadWorldContext(cache)
	if world.Degraded() {
		t.Fatalf("valid cache must not degrade: %#v", world)
	}
	if world.ContextSummary != "Hafta sonu gündemi yoğun." {
		t.Fatalf("unexpected summary: %q", world.ContextSummary)
	}
	want := []string{"Yeni dizi sezonu başladı", "Hafta sonu yaklaşıyor: 2026-08-22"}
	if len(world.NewsTitles) != len(want) {
		t.Fatalf("expected %d titles, got %v", len(want), world.NewsTitles)
	}
	for i, title := range want {
		if world.NewsTitles[i] != title {
			t.Fatalf("title %d: expected %q, got %q", i, title, world.NewsTitles[i])
		}
	}
	if len(world.Signals) != 3 {
		t.Fatalf("expected raw signals preserved, got %d", len(world.Signals))
	}
}

func TestLoadWorldContextDefaultSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intelligence.json")
	cache := report.NewCache(path)
	saved := intel.Report{
		Timestamp: "2026-08-23T09:00:00",
		Intelligence: intel.Intelligence{
			Signals: []intel.Signal{{Type: intel.TypeOther, Title: "Gündem maddesi"}},
		},
	}
	if err := cache.Save(saved); err != nil {
		t.Fatalf("save report: %v", err)
	}

	world := sales.LoadWorldContext(cache)
	if world.ContextSummary != "Gündem Verisi" {
		t.Fatalf("expected default summary, got %q", world.ContextSummary)
	}
	if world.Degraded() {
		t.Fatal("signals without summary still count as context")
	}
}
