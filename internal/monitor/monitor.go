// Package monitor provides background health monitoring for a running harbor.
package monitor

import (
	"context"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/health"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
)

// Monitor periodically checks the health of a harbor and reports status
// changes.
type Monitor struct {
	interval time.Duration
	ctl      *control.Control
	started  time.Time
	autoSave bool
	onChange func(prev, next *health.CheckResult)

	last *health.CheckResult
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAutoSave saves the harbor after every check.
func WithAutoSave(enabled bool) Option {
	return func(m *Monitor) {
		m.autoSave = enabled
	}
}

// WithStarted sets the time uptime is measured from.
func WithStarted(t time.Time) Option {
	return func(m *Monitor) {
		m.started = t
	}
}

// OnChange registers fn to run when the health status changes. The first
// check always counts as a change; prev is nil then.
func OnChange(fn func(prev, next *health.CheckResult)) Option {
	return func(m *Monitor) {
		m.onChange = fn
	}
}

// New creates a new Monitor.
func New(interval time.Duration, ctl *control.Control, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		ctl:      ctl,
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Last returns the most recent check result, or nil before the first check.
func (m *Monitor) Last() *health.CheckResult {
	return m.last
}

// Run starts the monitoring loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting health monitor", "interval", m.interval, "autoSave", m.autoSave)

	// Run an immediate check, then loop on interval.
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("health monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check runs one health check and handles transitions.
func (m *Monitor) check(ctx context.Context) *health.CheckResult {
	result := health.Check(ctx, m.ctl, m.started)
	prev := m.last
	m.last = result

	if prev == nil || prev.Status != result.Status {
		switch result.Status {
		case health.StatusUnhealthy:
			logging.Warn("harbor unhealthy", "problems", result.Problems)
		case health.StatusFull:
			logging.Info("harbor is full")
		default:
			logging.Debug("harbor healthy", "freeSlots", result.FreeSlots)
		}
		if m.onChange != nil {
			m.onChange(prev, result)
		}
	}

	if m.autoSave && ctx.Err() == nil {
		if err := m.ctl.Save(ctx); err != nil {
			logging.Warn("monitor failed to save harbor", "error", err)
		}
	}
	return result
}
