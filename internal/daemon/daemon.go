package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"pulse/internal/api"
	"pulse/internal/config"
	"pulse/internal/logging"
	"pulse/internal/notifications"
	"pulse/internal/pipeline"
	"pulse/internal/retrieval"
	"pulse/internal/sales"
	"pulse/internal/services/llm"
	"pulse/internal/store"
)

const gatewayProbeTimeout = 15 * time.Second

// Daemon coordinates the scheduled refresh loop, the sales flow, and the read
// API, and enforces single-instance execution via a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	gateway  *llm.Client
	pipeline *pipeline.Pipeline
	index    *retrieval.Index
	flow     *sales.Flow
	notifier notifications.Service
	api      *api.Server

	lockPath string
	lock     *flock.Flock

	startedAt time.Time
	running   atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type options struct {
	gateway       *llm.Client
	notifier      notifications.Service
	pipelineOpts  []pipeline.Option
	retrievalOpts []retrieval.Option
}

// Option customizes daemon construction.
type Option func(*options)

// WithGateway substitutes the model gateway client built from configuration.
func WithGateway(client *llm.Client) Option {
	return func(o *options) {
		o.gateway = client
	}
}

// WithNotifier substitutes the notification service shared by the daemon and
// the pipeline.
func WithNotifier(notifier notifications.Service) Option {
	return func(o *options) {
		o.notifier = notifier
	}
}

// WithPipelineOptions forwards options to the refresh pipeline.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(o *options) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// WithRetrievalOptions forwards options to the product index.
func WithRetrievalOptions(opts ...retrieval.Option) Option {
	return func(o *options) {
		o.retrievalOpts = append(o.retrievalOpts, opts...)
	}
}

// New constructs a daemon with initialized dependencies. The store stays open
// until Close.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	var settings options
	for _, opt := range opts {
		opt(&settings)
	}

	gateway := settings.gateway
	if gateway == nil {
		gateway = llm.NewClient(llm.Config{
			APIKey:         cfg.Gateway.APIKey,
			BaseURL:        cfg.Gateway.BaseURL,
			Model:          cfg.Gateway.ChatModel,
			TimeoutSeconds: cfg.Gateway.TimeoutSeconds,
			Metadata:       cfg.Gateway.Metadata,
		})
	}

	notifier := settings.notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	pipelineOpts := append([]pipeline.Option{pipeline.WithNotifier(notifier)}, settings.pipelineOpts...)
	pipe, err := pipeline.New(cfg, st, gateway, logger, pipelineOpts...)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	index, err := retrieval.Open(cfg, settings.retrievalOpts...)
	if err != nil {
		return nil, fmt.Errorf("open product index: %w", err)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		store:    st,
		gateway:  gateway,
		pipeline: pipe,
		index:    index,
		flow:     sales.NewFlow(cfg, st, index, gateway, logger),
		notifier: notifier,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.api = api.NewServer(cfg, st, logger, api.WithDaemonInfo(d.info))
	return d, nil
}

// Start acquires the daemon lock, brings up the API server, and launches the
// refresh loop. The first refresh runs immediately; later ones follow the
// configured interval until ctx is canceled or Stop is called.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another pulse daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.startedAt = time.Now()

	if d.api != nil {
		if err := d.api.Start(runCtx); err != nil {
			cancel()
			d.cancel = nil
			_ = d.lock.Unlock()
			return fmt.Errorf("start api server: %w", err)
		}
	}

	d.running.Store(true)
	d.wg.Add(1)
	go d.runLoop(runCtx)

	d.logger.Info("pulse daemon started",
		logging.String("lock", d.lockPath),
		logging.Duration("refresh_interval", d.interval()))
	return nil
}

// Stop halts the refresh loop, shuts down the API server, and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if d.api != nil {
		d.api.Stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("pulse daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the refresh loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// APIAddr returns the bound API listener address, or "" when the API is
// disabled or not started.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.Addr()
}

func (d *Daemon) info() api.DaemonInfo {
	info := api.DaemonInfo{
		Running: d.running.Load(),
		PID:     os.Getpid(),
	}
	if !d.startedAt.IsZero() {
		info.StartedAt = d.startedAt.UTC().Format(time.RFC3339)
	}
	return info
}

func (d *Daemon) interval() time.Duration {
	minutes := d.cfg.Workflow.RefreshIntervalMinutes
	if minutes <= 0 {
		minutes = config.Default().Workflow.RefreshIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (d *Daemon) runLoop(ctx context.Context) {
	defer d.wg.Done()

	probeCtx, cancel := context.WithTimeout(ctx, gatewayProbeTimeout)
	if err := d.gateway.HealthCheck(probeCtx); err != nil && !errors.Is(err, context.Canceled) {
		// Not fatal: refresh falls back to the deterministic digest when
		// the gateway stays unreachable.
		d.logger.Warn("gateway health check failed", logging.Error(err))
	}
	cancel()

	d.runOnce(ctx)

	ticker := time.NewTicker(d.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runOnce(ctx)
		}
	}
}

// runOnce executes a single scheduled cycle: refresh the agenda, then chain
// the sales flow when configured. A failed refresh skips the sales flow; the
// previous cached report would only repeat the opportunities already stored.
func (d *Daemon) runOnce(ctx context.Context) {
	if _, err := d.pipeline.Refresh(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			d.logger.Error("scheduled refresh failed", logging.Error(err))
		}
		return
	}
	if d.cfg.Workflow.RunSalesAfterRefresh {
		d.runSales(ctx)
	}
}

func (d *Daemon) runSales(ctx context.Context) {
	if err := d.ensureIndex(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// The flow still runs: an empty index yields no candidates and the
		// grounding layer falls back to the safe default product.
		d.logger.Warn("catalog index unavailable", logging.Error(err))
	}

	processed, err := d.flow.Run(ctx, sales.RunOptions{})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.logger.Error("sales flow failed", logging.Error(err))
		d.publish(ctx, notifications.EventError, notifications.Payload{
			"context": "sales",
			"error":   err.Error(),
		})
		return
	}
	d.publish(ctx, notifications.EventSalesCompleted, notifications.Payload{
		"processed": strconv.Itoa(processed),
	})
}

// ensureIndex populates the product index on first use so a fresh daemon can
// run the sales flow without a manual catalog index command.
func (d *Daemon) ensureIndex(ctx context.Context) error {
	if d.index.Count() > 0 {
		return nil
	}
	products, err := d.store.ActiveProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if len(products) == 0 {
		return nil
	}
	indexed, err := d.index.Rebuild(ctx, products)
	if err != nil {
		return fmt.Errorf("index catalog: %w", err)
	}
	d.logger.Info("catalog indexed", logging.Int("products", indexed))
	return nil
}

func (d *Daemon) publish(ctx context.Context, event notifications.Event, data notifications.Payload) {
	if err := d.notifier.Publish(ctx, event, data); err != nil {
		d.logger.Warn("notification delivery failed",
			logging.String("event", string(event)),
			logging.Error(err))
	}
}
