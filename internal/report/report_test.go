package report_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"pulse/internal/intel"
	"pulse/internal/report"
	"pulse/internal/services"
)

func TestMergePrefersDeterministicOnTitleCollision(t *testing.T) {
	deterministic := []intel.Signal{
		{Type: intel.TypeMusic, Title: "Konser bileti satışta", Source: "spotifycharts.com"},
	}
	generated := []intel.Signal{
		{Type: intel.TypeEntertainment, Title: "KONSER BILETI SATIŞTA", Source: "webtekno.com"},
		{Type: intel.TypeTech, Title: "Katlanabilir telefonlar yaygınlaşıyor"},
	}

	merged := report.Merge(deterministic, generated, 18)
	if len(merged) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(merged))
	}
	if merged[0].Source != "spotifycharts.com" {
		t.Fatalf("deterministic signal must win the collision, got %+v", merged[0])
	}
	if merged[1].Title != "Katlanabilir telefonlar yaygınlaşıyor" {
		t.Fatalf("unexpected second signal %+v", merged[1])
	}
}

func TestMergeDropsEconomyAndEmptyTitles(t *testing.T) {
	generated := []intel.Signal{
		{Type: intel.TypeEconomy, Title: "Piyasa özeti"},
		{Type: intel.TypeOther, Title: "   "},
		{Type: intel.TypeOther, Title: "Geçerli sinyal"},
	}
	merged := report.Merge(nil, generated, 18)
	if len(merged) != 1 || merged[0].Title != "Geçerli sinyal" {
		t.Fatalf("expected only the valid signal, got %v", merged)
	}
}

func TestMergeCapsTotal(t *testing.T) {
	var generated []intel.Signal
	for i := 0; i < 25; i++ {
		generated = append(generated, intel.Signal{
			Type:  intel.TypeOther,
			Title: fmt.Sprintf("Sinyal %d", i),
		})
	}
	merged := report.Merge(nil, generated, 18)
	if len(merged) != 18 {
		t.Fatalf("expected 18 signals after cap, got %d", len(merged))
	}
}

func TestBuildTimestampFormat(t *testing.T) {
	now := time.Date(2026, time.August, 23, 14, 5, 6, 0, time.UTC)
	built := report.Build(now, intel.Intelligence{}, intel.RawInputs{Weather: "Güneşli"})
	if built.Timestamp != "2026-08-23T14:05:06" {
		t.Fatalf("unexpected timestamp %q", built.Timestamp)
	}
	if built.RawInputs.Weather != "Güneşli" {
		t.Fatalf("raw inputs not carried: %+v", built.RawInputs)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "intelligence.json")
	cache := report.NewCache(path)

	want := report.Build(
		time.Date(2026, time.August, 23, 9, 0, 0, 0, time.UTC),
		intel.Intelligence{
			ContextSummary: "Gündem özeti",
			Signals: []intel.Signal{
				{Type: intel.TypeTech, Title: "Başlık", Description: "Açıklama", Hook: "Mobil internet gerekiyor"},
			},
		},
		intel.RawInputs{Weather: "Bulutlu", NewsCount: 12},
	)
	if err := cache.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n  \"timestamp\"") {
		t.Fatalf("cache should be indented JSON, got %q", raw)
	}

	got, err := cache.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestCacheLoadMissingFile(t *testing.T) {
	cache := report.NewCache(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := cache.Load(); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCacheLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intelligence.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cache := report.NewCache(path)
	if _, err := cache.Load(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
