package app

import (
	"context"
	"log"
	"time"

	"github.com/HMC-Makerspace/MAKE-sub001/internal/clock"
	"github.com/HMC-Makerspace/MAKE-sub001/internal/domain"
)

type MonitorRepository interface {
	ListOverdueCheckouts(ctx context.Context, now time.Time) ([]domain.Checkout, error)
	IncrementNotifications(ctx context.Context, checkoutID string) error
}

// Notifier hands overdue reminders to the external mail collaborator.
type Notifier interface {
	NotifyOverdue(ctx context.Context, checkout domain.Checkout) error
}

// ExpirationMonitor sweeps the ledger for overdue checkouts off the request
// path. Delivery is at-least-once: a crash between sending and incrementing
// the counter re-sends on the next sweep, which is acceptable for reminders.
type ExpirationMonitor struct {
	repo     MonitorRepository
	notifier Notifier
	clock    clock.Clock
	interval time.Duration
	logger   *log.Logger
}

const defaultSweepInterval = time.Hour

func NewExpirationMonitor(repo MonitorRepository, notifier Notifier, clk clock.Clock, opts ...MonitorOption) *ExpirationMonitor {
	m := &ExpirationMonitor{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		interval: defaultSweepInterval,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type MonitorOption func(*ExpirationMonitor)

// WithSweepInterval overrides the default time between sweeps.
func WithSweepInterval(d time.Duration) MonitorOption {
	return func(m *ExpirationMonitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithMonitorLogger(logger *log.Logger) MonitorOption {
	return func(m *ExpirationMonitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (m *ExpirationMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Sweep(ctx); err != nil {
				m.logger.Printf("WARN: overdue sweep failed: %v", err)
			}
		}
	}
}

// Sweep sends one reminder per full overdue day: a checkout that has been
// overdue longer than notifications_sent days gets notified and its counter
// bumped. A failed notification is logged and skipped, never fatal.
func (m *ExpirationMonitor) Sweep(ctx context.Context) error {
	now := m.clock.Now()

	overdue, err := m.repo.ListOverdueCheckouts(ctx, now)
	if err != nil {
		return err
	}

	for _, checkout := range overdue {
		daysOverdue := now.Sub(checkout.TimeDue).Hours() / 24
		if daysOverdue <= float64(checkout.NotificationsSent) {
			continue
		}
		if err := m.notifier.NotifyOverdue(ctx, checkout); err != nil {
			m.logger.Printf("WARN: notify holder %s for checkout %s: %v", checkout.HolderID, checkout.ID, err)
			continue
		}
		if err := m.repo.IncrementNotifications(ctx, checkout.ID); err != nil {
			m.logger.Printf("WARN: record notification for checkout %s: %v", checkout.ID, err)
		}
	}
	return nil
}
