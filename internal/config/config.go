package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	CacheFile string `toml:"cache_file"`
	IndexDir  string `toml:"index_dir"`
	APIBind   string `toml:"api_bind"`
	APIToken  string `toml:"api_token"`
}

// Gateway contains connection settings for the OpenAI-compatible model
// gateway used for chat completions and embeddings.
type Gateway struct {
	BaseURL        string            `toml:"base_url"`
	APIKey         string            `toml:"api_key"`
	ChatModel      string            `toml:"chat_model"`
	EmbedModel     string            `toml:"embed_model"`
	TimeoutSeconds int               `toml:"timeout_seconds"`
	Metadata       map[string]string `toml:"metadata"`
}

// Feeds contains the ingestion source list and fetch bounds.
type Feeds struct {
	Sources             []string `toml:"sources"`
	FetchTimeoutSeconds int      `toml:"fetch_timeout_seconds"`
	MaxPerFeed          int      `toml:"max_per_feed"`
	MaxItems            int      `toml:"max_items"`
	ChartHost           string   `toml:"chart_host"`
}

// Rule is a user-supplied pattern override for the safety or hard-drop
// tables. Patterns are RE2 alternations matched as whole words.
type Rule struct {
	Pattern string `toml:"pattern"`
	Reason  string `toml:"reason"`
}

// IntentRule is a user-supplied weighted intent pattern override.
type IntentRule struct {
	Pattern string `toml:"pattern"`
	Intent  string `toml:"intent"`
	Weight  int    `toml:"weight"`
}

// Curation contains the policy data driving filtering, ranking, and
// sanitization. Empty lists fall back to the compiled-in defaults; these are
// product-policy knobs, not engineering constants.
type Curation struct {
	MaxGeneratorItems int               `toml:"max_generator_items"`
	SignalCountMin    int               `toml:"signal_count_min"`
	SignalCountMax    int               `toml:"signal_count_max"`
	MergedSignalCap   int               `toml:"merged_signal_cap"`
	MinHookLength     int               `toml:"min_hook_length"`
	LowValueSources   []string          `toml:"low_value_sources"`
	BlockPhrases      []string          `toml:"block_phrases"`
	HookMarkers       []string          `toml:"hook_markers"`
	Hooks             map[string]string `toml:"hooks"`
	SafetyRules       []Rule            `toml:"safety_rule"`
	DropRules         []Rule            `toml:"drop_rule"`
	IntentRules       []IntentRule      `toml:"intent_rule"`
}

// SchoolBreak is one configured school holiday window.
type SchoolBreak struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
	Name  string `toml:"name"`
}

// Agenda contains the deterministic signal synthesis settings.
type Agenda struct {
	Latitude             float64       `toml:"latitude"`
	Longitude            float64       `toml:"longitude"`
	HolidayLookaheadDays int           `toml:"holiday_lookahead_days"`
	WeekendLookaheadDays int           `toml:"weekend_lookahead_days"`
	BreakLookaheadDays   int           `toml:"break_lookahead_days"`
	SchoolBreaks         []SchoolBreak `toml:"school_break"`
}

// Retrieval contains vector index settings for the product catalog.
type Retrieval struct {
	Collection     string `toml:"collection"`
	CandidateCount int    `toml:"candidate_count"`
}

// Sales contains batching bounds for the recommendation flow.
type Sales struct {
	BatchSize    int `toml:"batch_size"`
	MaxCustomers int `toml:"max_customers"`
}

// Workflow contains daemon timing configuration.
type Workflow struct {
	RefreshIntervalMinutes int  `toml:"refresh_interval_minutes"`
	RunSalesAfterRefresh   bool `toml:"run_sales_after_refresh"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	RunSummaries          bool   `toml:"run_summaries"`
	Errors                bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format    string `toml:"format"`
	Level     string `toml:"level"`
	Directory string `toml:"directory"`
}

// Config encapsulates all configuration values for Pulse.
//
// Configuration sections by subsystem:
//   - Paths: data directory, report cache file, index dir, API bind/token
//   - Gateway: OpenAI-compatible chat + embeddings endpoint
//   - Feeds: source URLs and fetch bounds
//   - Curation: safety/intent policy data and signal caps
//   - Agenda: deterministic calendar/weather synthesis settings
//   - Retrieval: product catalog vector index
//   - Sales: recommendation flow batching
//   - Workflow: daemon refresh cadence
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and directory
type Config struct {
	Paths         Paths         `toml:"paths"`
	Gateway       Gateway       `toml:"gateway"`
	Feeds         Feeds         `toml:"feeds"`
	Curation      Curation      `toml:"curation"`
	Agenda        Agenda        `toml:"agenda"`
	Retrieval     Retrieval     `toml:"retrieval"`
	Sales         Sales         `toml:"sales"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pulse/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// ResolvePath reports where the configuration would be read from and whether
// that file exists. An empty path walks the default search order.
func ResolvePath(path string) (string, bool, error) {
	return resolveConfigPath(path)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pulse.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories daemon operation requires.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DataDir,
		filepath.Dir(c.Paths.CacheFile),
		c.Paths.IndexDir,
	}
	if c.Logging.Directory != "" {
		dirs = append(dirs, c.Logging.Directory)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "pulse.db")
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "pulsed.lock")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
