package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ridewise/ridewise/internal/cache"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/ridewise/ridewise/internal/fleet"
	"github.com/ridewise/ridewise/internal/notify/email"
	"github.com/ridewise/ridewise/internal/notify/ntfy"
	"github.com/ridewise/ridewise/internal/notify/webpush"
	"github.com/ridewise/ridewise/internal/scheduler"
)

// AlertSender publishes fleet alerts to an outside channel.
type AlertSender interface {
	Enabled() bool
	SendAlert(ctx context.Context, alert fleet.Alert) error
}

// Engine is the background side of RideWise. It owns the fleet simulator,
// the caches, the notifiers and the scheduled jobs that tie them together.
type Engine struct {
	cfg       *config.Config
	db        database.DB
	cache     *cache.AppCache
	simulator *fleet.Simulator
	scheduler *scheduler.Scheduler
	email     *email.NotificationService
	ntfy      *ntfy.Client
	webpush   *webpush.Client
	alerters  []AlertSender
	now       func() time.Time

	alertMu    sync.Mutex
	lastAlerts map[string]struct{}
}

// New creates a new Engine instance.
func New(cfg *config.Config, db database.DB) (*Engine, error) {
	ntfyClient := ntfy.NewClient(cfg.Ntfy)
	webpushClient := webpush.NewClient(cfg.WebPush)
	if err := webpushClient.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid webpush config: %w", err)
	}

	sched, err := scheduler.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	e := &Engine{
		cfg:        cfg,
		db:         db,
		cache:      cache.NewAppCache(cfg.Cache, cfg.Fleet.TickInterval),
		simulator:  fleet.NewSimulator(cfg.Fleet.InitialTotal, cfg.Fleet.InitialRented),
		scheduler:  sched,
		email:      email.New(cfg.Email),
		ntfy:       ntfyClient,
		webpush:    webpushClient,
		alerters:   []AlertSender{ntfyClient, webpushClient},
		now:        time.Now,
		lastAlerts: make(map[string]struct{}),
	}

	if err := e.setupJobs(); err != nil {
		_ = sched.Stop()
		return nil, fmt.Errorf("failed to setup jobs: %w", err)
	}

	log.Info("Engine initialized",
		"cache", cfg.Cache.Type,
		"email", e.email.Enabled(),
		"ntfy", ntfyClient.Enabled(),
		"webpush", webpushClient.Enabled(),
	)
	return e, nil
}

// GetScheduler returns the scheduler instance for API access.
func (e *Engine) GetScheduler() *scheduler.Scheduler {
	return e.scheduler
}

// GetCache returns the application caches.
func (e *Engine) GetCache() *cache.AppCache {
	return e.cache
}

// GetEmail returns the email notifier used for booking receipts.
func (e *Engine) GetEmail() *email.NotificationService {
	return e.email
}

// GetWebPush returns the push subscription registry.
func (e *Engine) GetWebPush() *webpush.Client {
	return e.webpush
}

// Run starts the scheduler and blocks until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// seed the cache so the first request doesn't wait a full tick
	if err := e.cache.SetFleetStats(ctx, e.simulator.Snapshot()); err != nil {
		log.Warn("Failed to seed fleet cache", "error", err)
	}

	e.scheduler.Start()

	<-ctx.Done()
	return nil
}

// Close stops the engine and waits for running jobs.
func (e *Engine) Close() error {
	return e.scheduler.Stop()
}
