package config

const (
	defaultDataDir             = "~/.local/share/pulse"
	defaultCacheFile           = "~/.local/share/pulse/cache/intelligence.json"
	defaultIndexDir            = "~/.local/share/pulse/index"
	defaultAPIBind             = "127.0.0.1:7519"
	defaultGatewayBaseURL      = "https://openrouter.ai/api/v1"
	defaultChatModel           = "google/gemini-3-flash-preview"
	defaultEmbedModel          = "openai/text-embedding-3-small"
	defaultGatewayTimeout      = 60
	defaultFetchTimeoutSeconds = 10
	defaultMaxPerFeed          = 6
	defaultMaxItems            = 80
	defaultChartHost           = "spotifycharts.com"
	defaultMaxGeneratorItems   = 24
	defaultSignalCountMin      = 8
	defaultSignalCountMax      = 12
	defaultMergedSignalCap     = 18
	defaultMinHookLength       = 16
	defaultLatitude            = 41.0082
	defaultLongitude           = 28.9784
	defaultHolidayLookahead    = 60
	defaultWeekendLookahead    = 10
	defaultBreakLookahead      = 90
	defaultCollection          = "products"
	defaultCandidateCount      = 6
	defaultSalesBatchSize      = 10
	defaultSalesMaxCustomers   = 30
	defaultRefreshMinutes      = 360
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogDir              = "~/.local/share/pulse/logs"
)

func defaultFeedSources() []string {
	return []string{
		"https://www.trthaber.com/sondakika.rss",
		"https://www.bloomberght.com/rss",
		"https://www.ntv.com.tr/ekonomi.rss",
		"https://tr.ign.com/feed.xml",
		"https://www.webtekno.com/rss.xml",
		"https://shiftdelete.net/feed",
		"https://www.merlininkazani.com/rss",
		"https://onedio.com/support/rss.xml",
		"https://www.hurriyet.com.tr/rss/magazin",
		"https://www.medyatava.com/rss",
		"https://www.kralmuzik.com.tr/rss",
		"https://www.ntv.com.tr/sanat.rss",
		"https://www.fanatik.com.tr/rss/futbol",
		"https://tr.motor1.com/rss/articles/all/",
		"https://www.ntv.com.tr/saglik.rss",
		"https://www.beyazperde.com/rss/haberler/",
		"https://www.mobilizm.com/feed/",
		"https://webrazzi.com/feed/",
		"https://www.egitime.com/rss.xml",
		"https://www.producthunt.com/feed/rss",
		"https://rsshub.app/twitter/trends",
		"https://rsshub.app/twitter/trends/tr",
		"https://www.trendsmap.com/rss",
		"https://spotifycharts.com/regional/tr/daily/latest/rss",
		"https://spotifycharts.com/regional/global/daily/latest/rss",
		"https://spotifycharts.com/viral/tr/daily/latest/rss",
		"https://spotifycharts.com/viral/global/daily/latest/rss",
		"https://www.beyazperde.com/rss/filmler/",
		"https://www.beyazperde.com/rss/diziler/",
		"https://www.dexerto.com/feed/",
		"https://www.hitc.com/en-gb/rss/",
		"https://www.socialmediatoday.com/rss/",
		"https://www.dexerto.com/gaming/feed/",
		"https://www.twitch.tv/p/en/feed/",
		"https://www.gamesindustry.biz/rss",
		"https://trends24.in/turkey/rss.xml",
	}
}

func defaultSchoolBreaks() []SchoolBreak {
	return []SchoolBreak{
		{Start: "2026-01-19", End: "2026-01-30", Name: "Yarıyıl Tatili (15 Tatil)"},
		{Start: "2026-03-16", End: "2026-03-20", Name: "İkinci Dönem Ara Tatili"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			CacheFile: defaultCacheFile,
			IndexDir:  defaultIndexDir,
			APIBind:   defaultAPIBind,
		},
		Gateway: Gateway{
			BaseURL:        defaultGatewayBaseURL,
			ChatModel:      defaultChatModel,
			EmbedModel:     defaultEmbedModel,
			TimeoutSeconds: defaultGatewayTimeout,
		},
		Feeds: Feeds{
			Sources:             defaultFeedSources(),
			FetchTimeoutSeconds: defaultFetchTimeoutSeconds,
			MaxPerFeed:          defaultMaxPerFeed,
			MaxItems:            defaultMaxItems,
			ChartHost:           defaultChartHost,
		},
		Curation: Curation{
			MaxGeneratorItems: defaultMaxGeneratorItems,
			SignalCountMin:    defaultSignalCountMin,
			SignalCountMax:    defaultSignalCountMax,
			MergedSignalCap:   defaultMergedSignalCap,
			MinHookLength:     defaultMinHookLength,
		},
		Agenda: Agenda{
			Latitude:             defaultLatitude,
			Longitude:            defaultLongitude,
			HolidayLookaheadDays: defaultHolidayLookahead,
			WeekendLookaheadDays: defaultWeekendLookahead,
			BreakLookaheadDays:   defaultBreakLookahead,
			SchoolBreaks:         defaultSchoolBreaks(),
		},
		Retrieval: Retrieval{
			Collection:     defaultCollection,
			CandidateCount: defaultCandidateCount,
		},
		Sales: Sales{
			BatchSize:    defaultSalesBatchSize,
			MaxCustomers: defaultSalesMaxCustomers,
		},
		Workflow: Workflow{
			RefreshIntervalMinutes: defaultRefreshMinutes,
			RunSalesAfterRefresh:   true,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNotifyTimeout,
			RunSummaries:          true,
			Errors:                true,
		},
		Logging: Logging{
			Format:    defaultLogFormat,
			Level:     defaultLogLevel,
			Directory: defaultLogDir,
		},
	}
}
