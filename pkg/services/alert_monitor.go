package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/alerts"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
)

// DefaultAlertRefreshInterval is how often alerts are re-synthesized.
const DefaultAlertRefreshInterval = 60 * time.Second

// AlertMonitor re-synthesizes the alert feed from the collections.
type AlertMonitor interface {
	// Refresh runs one synthesis pass and reports whether the feed changed.
	Refresh(ctx context.Context) bool

	// RunScheduler waits for every collection to finish its initial load,
	// runs a pass, then repeats every interval. Cancel the context or call
	// Stop to end it.
	RunScheduler(ctx context.Context, interval time.Duration)

	// Stop ends the scheduler and waits for an in-flight pass.
	Stop()
}

type alertMonitor struct {
	set       *collections.Set
	store     *alerts.Store
	newTicker alerts.TickerFunc
	now       func() time.Time
	logger    *zap.Logger

	mu   sync.Mutex
	task *alerts.Task
}

func NewAlertMonitor(set *collections.Set, store *alerts.Store, logger *zap.Logger) AlertMonitor {
	return &alertMonitor{
		set:       set,
		store:     store,
		newTicker: alerts.NewTimeTicker,
		now:       time.Now,
		logger:    logger.Named("alert-monitor"),
	}
}

var _ AlertMonitor = (*alertMonitor)(nil)

func (m *alertMonitor) Refresh(ctx context.Context) bool {
	candidates := alerts.Synthesize(m.set.Snapshot(), m.now())
	changed := m.store.Reconcile(candidates)
	if changed {
		m.logger.Info("Alert feed replaced", zap.Int("alerts", len(candidates)))
	} else {
		m.logger.Debug("Alert feed unchanged", zap.Int("alerts", len(candidates)))
	}
	return changed
}

func (m *alertMonitor) RunScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultAlertRefreshInterval
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.task != nil {
		m.logger.Warn("Alert scheduler already running")
		return
	}

	m.logger.Info("Alert scheduler started", zap.Duration("interval", interval))
	m.task = alerts.Schedule(ctx, interval, m.newTicker, m.set.WaitReady, func(ctx context.Context) {
		m.Refresh(ctx)
	})
}

func (m *alertMonitor) Stop() {
	m.mu.Lock()
	task := m.task
	m.task = nil
	m.mu.Unlock()

	if task != nil {
		task.Stop()
		m.logger.Info("Alert scheduler stopped")
	}
}
