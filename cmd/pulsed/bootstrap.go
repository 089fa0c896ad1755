package main

import (
	"strings"
	"time"

	"pulse/internal/config"
	"pulse/internal/logging"
)

// loadConfig resolves and validates the configuration, then makes sure every
// directory it points at exists. An empty path walks the default search
// order.
func loadConfig(path string) (*config.Config, string, error) {
	cfg, resolvedPath, _, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, "", err
	}
	return cfg, resolvedPath, nil
}

// startupAttrs assembles the structured fields for the startup log line so
// operators can see where the daemon reads and listens from one line.
func startupAttrs(cfg *config.Config, configPath string) []any {
	attrs := []logging.Attr{logging.String("config", configPath)}
	if cfg == nil {
		return logging.Args(attrs...)
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		bind = "disabled"
	}
	attrs = append(attrs,
		logging.String("data_dir", cfg.Paths.DataDir),
		logging.String("database", cfg.DatabasePath()),
		logging.String("api_bind", bind),
		logging.Duration("refresh_interval", time.Duration(cfg.Workflow.RefreshIntervalMinutes)*time.Minute),
		logging.Bool("sales_after_refresh", cfg.Workflow.RunSalesAfterRefresh),
	)
	return logging.Args(attrs...)
}
