package intel_test

import (
	"encoding/json"
	"strings"
	"testing"

	"pulse/internal/intel"
)

func TestParseSignalType(t *testing.T) {
	cases := []struct {
		in   string
		want intel.SignalType
	}{
		{"TECH", intel.TypeTech},
		{"music", intel.TypeMusic},
		{" Lifestyle ", intel.TypeLifestyle},
		{"ECONOMY", intel.TypeEconomy},
		{"", intel.TypeOther},
		{"FINANCE", intel.TypeOther},
	}
	for _, tc := range cases {
		if got := intel.ParseSignalType(tc.in); got != tc.want {
			t.Errorf("ParseSignalType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReportWireFormat(t *testing.T) {
	report := intel.Report{
		Timestamp: "2026-02-14T09:00:00",
		Intelligence: intel.Intelligence{
			ContextSummary: "özet",
			Signals: []intel.Signal{
				{
					Type:        intel.TypeMusic,
					Title:       "Spotify TR: Bugünün öne çıkan şarkıları",
					Description: "Türkiye'de Spotify listelerinde öne çıkan şarkılar gündemde.",
					Source:      "spotifycharts.com",
					Published:   "2026-02-14",
					Hook:        "Segment: Spotify/müzik dinleyenler",
				},
			},
		},
		RawInputs: intel.RawInputs{Weather: "Güneşli", NewsItemCount: 42},
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	for _, key := range []string{
		`"timestamp"`, `"intelligence"`, `"raw_inputs"`,
		`"context_summary"`, `"marketable_signals"`,
		`"signal_type"`, `"marketing_hook"`, `"news_items_count"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("serialized report missing %s: %s", key, data)
		}
	}
}
