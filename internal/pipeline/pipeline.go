package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pulse/internal/agenda"
	"pulse/internal/config"
	"pulse/internal/curation"
	"pulse/internal/feeds"
	"pulse/internal/intel"
	"pulse/internal/logging"
	"pulse/internal/notifications"
	"pulse/internal/report"
	"pulse/internal/sanitize"
	"pulse/internal/services"
	"pulse/internal/services/llm"
	"pulse/internal/services/openmeteo"
	"pulse/internal/store"
)

// Pipeline owns the collaborators of the refresh flow. Construct it once and
// reuse it across runs; it carries no per-run state.
type Pipeline struct {
	cfg       *config.Config
	store     *store.Store
	gateway   *llm.Client
	fetcher   *feeds.Fetcher
	weather   *openmeteo.Client
	rules     *curation.Rules
	sanitizer *sanitize.Sanitizer
	cache     *report.Cache
	notifier  notifications.Service
	logger    *slog.Logger
	rng       *rand.Rand
	now       func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithWeatherClient overrides the Open-Meteo client.
func WithWeatherClient(client *openmeteo.Client) Option {
	return func(p *Pipeline) {
		if client != nil {
			p.weather = client
		}
	}
}

// WithRand overrides the selection shuffle source. Passing nil disables
// shuffling, which keeps test runs fully deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		p.rng = rng
	}
}

// WithClock overrides the time source used for calendar lookahead and report
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithNotifier overrides the notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(p *Pipeline) {
		if notifier != nil {
			p.notifier = notifier
		}
	}
}

// New builds a refresh pipeline over the given store and gateway.
func New(cfg *config.Config, st *store.Store, gateway *llm.Client, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	rules, err := curation.NewRules(cfg)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "compile curation rules", "", err)
	}

	p := &Pipeline{
		cfg:     cfg,
		store:   st,
		gateway: gateway,
		fetcher: feeds.NewFetcher(cfg, logger),
		weather: openmeteo.NewClient(openmeteo.Config{
			Latitude:  cfg.Agenda.Latitude,
			Longitude: cfg.Agenda.Longitude,
		}),
		rules:     rules,
		sanitizer: sanitize.New(rules),
		cache:     report.NewCache(cfg.Paths.CacheFile),
		notifier:  notifications.NewService(cfg),
		logger:    logging.WithComponent(logger, "pipeline"),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result summarizes one completed refresh.
type Result struct {
	RunID        string
	Report       intel.Report
	ItemCount    int
	SignalCount  int
	FallbackUsed bool
}

// Refresh executes one run: collect, curate, generate, assemble, persist.
// The run is recorded in the store whether it completes or fails.
func (p *Pipeline) Refresh(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)
	start := time.Now()

	run, err := p.store.StartRun(ctx, runID)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "pipeline", "start run", "", err)
	}
	logger.Info("refresh started", logging.Int("sources", len(p.cfg.Feeds.Sources)))

	result, err := p.refresh(ctx, logger)
	if err != nil {
		run.Status = store.RunStatusFailed
		run.Error = err.Error()
		// The run row must close even when the refresh itself was canceled.
		if finishErr := p.store.FinishRun(context.WithoutCancel(ctx), run); finishErr != nil {
			logger.Error("failed to record run failure", logging.Error(finishErr))
		}
		if !errors.Is(err, context.Canceled) {
			p.publish(ctx, logger, notifications.EventError, notifications.Payload{
				"context": "refresh",
				"error":   err.Error(),
			})
		}
		return nil, err
	}

	result.RunID = runID
	run.Status = store.RunStatusCompleted
	run.ItemCount = result.ItemCount
	run.SignalCount = result.SignalCount
	run.FallbackUsed = result.FallbackUsed
	if err := p.store.FinishRun(ctx, run); err != nil {
		logger.Error("failed to record run completion", logging.Error(err))
	}

	logger.Info("refresh completed",
		logging.Int("items", result.ItemCount),
		logging.Int("signals", result.SignalCount),
		logging.Bool("fallback", result.FallbackUsed),
		logging.Duration("run_duration", time.Since(start)))
	p.publish(ctx, logger, notifications.EventRefreshCompleted, notifications.Payload{
		"signals":  strconv.Itoa(result.SignalCount),
		"items":    strconv.Itoa(result.ItemCount),
		"fallback": strconv.FormatBool(result.FallbackUsed),
	})
	return result, nil
}

func (p *Pipeline) refresh(ctx context.Context, logger *slog.Logger) (*Result, error) {
	now := p.now()

	mats := p.collect(ctx, logger, now)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	curateDone := p.stageStart(logger, "curate")
	ranked := p.rules.FilterAndRank(mats.items)
	selected := curation.Select(ranked, p.rng, p.cfg.Feeds.MaxItems)
	curateDone()
	logger.Info("items curated",
		logging.Int("fetched", len(mats.items)),
		logging.Int("ranked", len(ranked)),
		logging.Int("selected", len(selected)))

	trends := trendTitles(selected)
	genCtx := p.buildContext(now, mats, trends, selected)

	generateDone := p.stageStart(logger, "generate")
	intelligence, fallbackUsed := p.generate(ctx, logger, genCtx)
	generateDone()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assembleDone := p.stageStart(logger, "assemble")
	var deterministic []intel.Signal
	if card, ok := agenda.MusicCard(now, p.rules.ChartTitles(selected), p.rules); ok {
		deterministic = append(deterministic, card)
	}
	deterministic = append(deterministic,
		agenda.CalendarCards(now, mats.holidays, mats.schoolBreaks, mats.weekendHint, mats.weather, p.rules)...)

	intelligence.Signals = report.Merge(deterministic, intelligence.Signals, p.cfg.Curation.MergedSignalCap)

	// Every selected item carries a title, so the title count and the item
	// count coincide; both are recorded to match the cache contract.
	built := report.Build(now, intelligence, intel.RawInputs{
		Weather:          mats.weather,
		HolidayCount:     len(mats.holidays),
		SchoolBreakCount: len(mats.schoolBreaks),
		TrendsCount:      len(trends),
		NewsCount:        len(selected),
		NewsItemCount:    len(selected),
	})
	if err := p.cache.Save(built); err != nil {
		assembleDone()
		return nil, err
	}
	assembleDone()

	return &Result{
		Report:       built,
		ItemCount:    len(selected),
		SignalCount:  len(intelligence.Signals),
		FallbackUsed: fallbackUsed,
	}, nil
}

func (p *Pipeline) stageStart(logger *slog.Logger, stage string) func() {
	start := time.Now()
	logger.Info("stage started",
		logging.String(logging.FieldStage, stage),
		logging.String(logging.FieldEventType, "stage_start"))
	return func() {
		logger.Info("stage completed",
			logging.String(logging.FieldStage, stage),
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.Duration("stage_duration", time.Since(start)))
	}
}

func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, event notifications.Event, data notifications.Payload) {
	if err := p.notifier.Publish(ctx, event, data); err != nil {
		logger.Warn("notification delivery failed",
			logging.String("event", string(event)),
			logging.Error(err))
	}
}
