package testsupport

import (
	"path/filepath"
	"testing"

	"pulse/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.CacheFile = filepath.Join(base, "cache", "intelligence.json")
	cfgVal.Paths.IndexDir = filepath.Join(base, "index")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Gateway.APIKey = "test"
	cfgVal.Feeds.Sources = nil
	cfgVal.Logging.Directory = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGateway points the generation gateway at the provided base URL.
func WithGateway(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gateway.BaseURL = baseURL
	}
}

// WithSources overrides the feed source URLs on the test config.
func WithSources(urls ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Feeds.Sources = urls
	}
}

// WithAPIToken enables bearer-token auth on the read API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
