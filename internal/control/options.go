package control

import (
	"math/rand/v2"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/driver"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/metrics"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/snapshot"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
)

// DefaultSimulationInterval is the time between simulated days.
const DefaultSimulationInterval = 5 * time.Second

type options struct {
	dockChoice    string
	berthing      string
	startDate     time.Time
	logPath       string
	overwriteLog  bool
	fs            system.FileSystem
	store         snapshot.Store
	metrics       *metrics.Collector
	rand          *rand.Rand
	simInterval   time.Duration
	boatsPerDay   int
	watchInterval time.Duration
}

func defaultOptions() options {
	return options{
		dockChoice:    port.DefaultDockChoice,
		berthing:      dock.DefaultBerthing,
		fs:            system.DefaultFS(),
		simInterval:   DefaultSimulationInterval,
		boatsPerDay:   driver.DefaultBoatsPerDay,
		watchInterval: driver.DefaultWatchInterval,
	}
}

// Option configures a Control.
type Option func(*options)

// WithDockChoice selects the dock choice policy by name.
func WithDockChoice(name string) Option {
	return func(o *options) {
		o.dockChoice = name
	}
}

// WithBerthing selects the berthing algorithm by name.
func WithBerthing(name string) Option {
	return func(o *options) {
		o.berthing = name
	}
}

// WithStartDate sets the date of a fresh harbor.
func WithStartDate(t time.Time) Option {
	return func(o *options) {
		o.startDate = t
	}
}

// WithAuditLog records harbor activity to path. With overwrite set, an
// existing log is deleted when the Control is created.
func WithAuditLog(path string, overwrite bool) Option {
	return func(o *options) {
		o.logPath = path
		o.overwriteLog = overwrite
	}
}

// WithFileSystem sets the file system for the audit log and its watcher.
func WithFileSystem(fsys system.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithStore sets where snapshots are saved and loaded.
func WithStore(s snapshot.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithMetrics sets the collector. A private collector is used otherwise.
func WithMetrics(m *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithRand sets the random source for AddRandom.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithSimulation sets the simulation interval and arrivals per day.
func WithSimulation(interval time.Duration, boatsPerDay int) Option {
	return func(o *options) {
		o.simInterval = interval
		o.boatsPerDay = boatsPerDay
	}
}

// WithLogWatch sets how often the audit log is polled.
func WithLogWatch(interval time.Duration) Option {
	return func(o *options) {
		o.watchInterval = interval
	}
}
