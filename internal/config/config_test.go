package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"pulse/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PULSE_GATEWAY_API_KEY", "env-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "pulse")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7519" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Gateway.APIKey != "env-key" {
		t.Fatalf("expected gateway key from env, got %q", cfg.Gateway.APIKey)
	}
	if len(cfg.Feeds.Sources) == 0 {
		t.Fatal("expected default feed sources")
	}
	if cfg.Feeds.MaxPerFeed != 6 || cfg.Feeds.MaxItems != 80 {
		t.Fatalf("unexpected feed caps: %d/%d", cfg.Feeds.MaxPerFeed, cfg.Feeds.MaxItems)
	}
	if cfg.Curation.SignalCountMin != 8 || cfg.Curation.SignalCountMax != 12 {
		t.Fatalf("unexpected signal bounds: %d..%d", cfg.Curation.SignalCountMin, cfg.Curation.SignalCountMax)
	}
	if cfg.Curation.MergedSignalCap != 18 {
		t.Fatalf("unexpected merged cap: %d", cfg.Curation.MergedSignalCap)
	}
	if len(cfg.Agenda.SchoolBreaks) != 2 {
		t.Fatalf("expected default school break windows, got %d", len(cfg.Agenda.SchoolBreaks))
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "pulse.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.IndexDir, filepath.Dir(cfg.Paths.CacheFile)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "pulse.toml")

	type payload struct {
		Gateway struct {
			APIKey    string `toml:"api_key"`
			BaseURL   string `toml:"base_url"`
			ChatModel string `toml:"chat_model"`
		} `toml:"gateway"`
		Feeds struct {
			Sources    []string `toml:"sources"`
			MaxPerFeed int      `toml:"max_per_feed"`
		} `toml:"feeds"`
		Workflow struct {
			RefreshIntervalMinutes int `toml:"refresh_interval_minutes"`
		} `toml:"workflow"`
	}
	custom := payload{}
	custom.Gateway.APIKey = "abc123"
	custom.Gateway.BaseURL = "https://example.com/v1/"
	custom.Gateway.ChatModel = "test/model"
	custom.Feeds.Sources = []string{"https://example.com/feed.xml", " https://example.com/feed.xml "}
	custom.Feeds.MaxPerFeed = 3
	custom.Workflow.RefreshIntervalMinutes = 30

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Gateway.APIKey != "abc123" {
		t.Fatalf("expected gateway key from file, got %q", cfg.Gateway.APIKey)
	}
	if cfg.Gateway.BaseURL != "https://example.com/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.ChatModel != "test/model" {
		t.Fatalf("unexpected chat model: %q", cfg.Gateway.ChatModel)
	}
	if len(cfg.Feeds.Sources) != 1 {
		t.Fatalf("expected duplicate sources collapsed, got %v", cfg.Feeds.Sources)
	}
	if cfg.Feeds.MaxPerFeed != 3 {
		t.Fatalf("expected max_per_feed 3, got %d", cfg.Feeds.MaxPerFeed)
	}
	if cfg.Workflow.RefreshIntervalMinutes != 30 {
		t.Fatalf("expected refresh interval 30, got %d", cfg.Workflow.RefreshIntervalMinutes)
	}
}

func TestEnvVarFallbacksForSecrets(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OPENROUTER_API_KEY", "env-router")
	t.Setenv("PULSE_API_TOKEN", "env-token")
	t.Setenv("PULSE_NTFY_TOPIC", "env-topic")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gateway.APIKey != "env-router" {
		t.Errorf("expected gateway key from OPENROUTER_API_KEY, got %q", cfg.Gateway.APIKey)
	}
	if cfg.Paths.APIToken != "env-token" {
		t.Errorf("expected api token from env, got %q", cfg.Paths.APIToken)
	}
	if cfg.Notifications.NtfyTopic != "env-topic" {
		t.Errorf("expected ntfy topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[gateway]") {
		t.Fatalf("sample config missing gateway section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "pulse") {
		t.Fatalf("expected data dir to mention pulse, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Gateway.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid gateway URL")
	}

	cfg = config.Default()
	cfg.Feeds.Sources = []string{"::bad::"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid feed URL")
	}

	cfg = config.Default()
	cfg.Feeds.MaxPerFeed = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max_per_feed exceeds max_items")
	}

	cfg = config.Default()
	cfg.Curation.SignalCountMin = 10
	cfg.Curation.SignalCountMax = 4
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when signal bounds invert")
	}

	cfg = config.Default()
	cfg.Curation.SafetyRules = []config.Rule{{Pattern: "(", Reason: "broken"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid safety pattern")
	}

	cfg = config.Default()
	cfg.Curation.IntentRules = []config.IntentRule{{Pattern: "tatil", Intent: "", Weight: 6}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for intent rule without intent")
	}

	cfg = config.Default()
	cfg.Agenda.Latitude = 120
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}

	cfg = config.Default()
	cfg.Agenda.SchoolBreaks = []config.SchoolBreak{{Start: "2026-02-10", End: "2026-02-01", Name: "x"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when break end precedes start")
	}
}
