package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGateway()
	c.normalizeFeeds()
	c.normalizeCuration()
	c.normalizeAgenda()
	c.normalizeRetrieval()
	c.normalizeSales()
	c.normalizeWorkflow()
	c.normalizeNotifications()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheFile) == "" {
		c.Paths.CacheFile = defaultCacheFile
	}
	if c.Paths.CacheFile, err = expandPath(c.Paths.CacheFile); err != nil {
		return fmt.Errorf("paths.cache_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.IndexDir) == "" {
		c.Paths.IndexDir = defaultIndexDir
	}
	if c.Paths.IndexDir, err = expandPath(c.Paths.IndexDir); err != nil {
		return fmt.Errorf("paths.index_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("PULSE_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeGateway() {
	c.Gateway.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gateway.BaseURL), "/")
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = defaultGatewayBaseURL
	}
	c.Gateway.APIKey = strings.TrimSpace(c.Gateway.APIKey)
	if c.Gateway.APIKey == "" {
		if value, ok := os.LookupEnv("PULSE_GATEWAY_API_KEY"); ok {
			c.Gateway.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Gateway.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Gateway.APIKey = strings.TrimSpace(value)
		}
	}
	c.Gateway.ChatModel = strings.TrimSpace(c.Gateway.ChatModel)
	if c.Gateway.ChatModel == "" {
		c.Gateway.ChatModel = defaultChatModel
	}
	c.Gateway.EmbedModel = strings.TrimSpace(c.Gateway.EmbedModel)
	if c.Gateway.EmbedModel == "" {
		c.Gateway.EmbedModel = defaultEmbedModel
	}
	if c.Gateway.TimeoutSeconds <= 0 {
		c.Gateway.TimeoutSeconds = defaultGatewayTimeout
	}
}

func (c *Config) normalizeFeeds() {
	if len(c.Feeds.Sources) == 0 {
		c.Feeds.Sources = defaultFeedSources()
	} else {
		sources := make([]string, 0, len(c.Feeds.Sources))
		seen := make(map[string]struct{}, len(c.Feeds.Sources))
		for _, source := range c.Feeds.Sources {
			trimmed := strings.TrimSpace(source)
			if trimmed == "" {
				continue
			}
			if _, exists := seen[trimmed]; exists {
				continue
			}
			seen[trimmed] = struct{}{}
			sources = append(sources, trimmed)
		}
		c.Feeds.Sources = sources
	}
	if c.Feeds.FetchTimeoutSeconds <= 0 {
		c.Feeds.FetchTimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if c.Feeds.MaxPerFeed <= 0 {
		c.Feeds.MaxPerFeed = defaultMaxPerFeed
	}
	if c.Feeds.MaxItems <= 0 {
		c.Feeds.MaxItems = defaultMaxItems
	}
	c.Feeds.ChartHost = strings.ToLower(strings.TrimSpace(c.Feeds.ChartHost))
	if c.Feeds.ChartHost == "" {
		c.Feeds.ChartHost = defaultChartHost
	}
}

func (c *Config) normalizeCuration() {
	if c.Curation.MaxGeneratorItems <= 0 {
		c.Curation.MaxGeneratorItems = defaultMaxGeneratorItems
	}
	if c.Curation.SignalCountMin <= 0 {
		c.Curation.SignalCountMin = defaultSignalCountMin
	}
	if c.Curation.SignalCountMax <= 0 {
		c.Curation.SignalCountMax = defaultSignalCountMax
	}
	if c.Curation.SignalCountMax < c.Curation.SignalCountMin {
		c.Curation.SignalCountMax = c.Curation.SignalCountMin
	}
	if c.Curation.MergedSignalCap <= 0 {
		c.Curation.MergedSignalCap = defaultMergedSignalCap
	}
	if c.Curation.MinHookLength <= 0 {
		c.Curation.MinHookLength = defaultMinHookLength
	}
	c.Curation.LowValueSources = normalizeList(c.Curation.LowValueSources, true)
	c.Curation.BlockPhrases = normalizeList(c.Curation.BlockPhrases, true)
	c.Curation.HookMarkers = normalizeList(c.Curation.HookMarkers, true)
}

func (c *Config) normalizeAgenda() {
	if c.Agenda.Latitude == 0 && c.Agenda.Longitude == 0 {
		c.Agenda.Latitude = defaultLatitude
		c.Agenda.Longitude = defaultLongitude
	}
	if c.Agenda.HolidayLookaheadDays <= 0 {
		c.Agenda.HolidayLookaheadDays = defaultHolidayLookahead
	}
	if c.Agenda.WeekendLookaheadDays <= 0 {
		c.Agenda.WeekendLookaheadDays = defaultWeekendLookahead
	}
	if c.Agenda.BreakLookaheadDays <= 0 {
		c.Agenda.BreakLookaheadDays = defaultBreakLookahead
	}
	if len(c.Agenda.SchoolBreaks) == 0 {
		c.Agenda.SchoolBreaks = defaultSchoolBreaks()
	}
}

func (c *Config) normalizeRetrieval() {
	c.Retrieval.Collection = strings.TrimSpace(c.Retrieval.Collection)
	if c.Retrieval.Collection == "" {
		c.Retrieval.Collection = defaultCollection
	}
	if c.Retrieval.CandidateCount <= 0 {
		c.Retrieval.CandidateCount = defaultCandidateCount
	}
}

func (c *Config) normalizeSales() {
	if c.Sales.BatchSize <= 0 {
		c.Sales.BatchSize = defaultSalesBatchSize
	}
	if c.Sales.MaxCustomers <= 0 {
		c.Sales.MaxCustomers = defaultSalesMaxCustomers
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.RefreshIntervalMinutes <= 0 {
		c.Workflow.RefreshIntervalMinutes = defaultRefreshMinutes
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("PULSE_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Directory) == "" {
		c.Logging.Directory = defaultLogDir
	}
	var err error
	if c.Logging.Directory, err = expandPath(c.Logging.Directory); err != nil {
		return fmt.Errorf("logging.directory: %w", err)
	}
	return nil
}

func normalizeList(values []string, lower bool) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if lower {
			trimmed = strings.ToLower(trimmed)
		}
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
