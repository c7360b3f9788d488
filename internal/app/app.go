// Package app provides the application context for harbor-ctl.
// It allows dependency injection for testing.
package app

import (
	"context"
	"math/rand/v2"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/config"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/metrics"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/snapshot"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
)

// App holds the application dependencies
type App struct {
	// Config is the loaded configuration
	Config *config.Config

	// FS is used for the audit log and the snapshot file
	FS system.FileSystem

	// Metrics collects harbor metrics
	Metrics *metrics.Collector

	// Store overrides the store chosen by the configured backend
	Store snapshot.Store

	// Rand is the random source for generated boats
	Rand *rand.Rand
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets the configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithFileSystem sets a custom file system
func WithFileSystem(fsys system.FileSystem) Option {
	return func(a *App) {
		a.FS = fsys
	}
}

// WithStore sets a custom snapshot store
func WithStore(s snapshot.Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithRand sets the random source
func WithRand(r *rand.Rand) Option {
	return func(a *App) {
		a.Rand = r
	}
}

// New creates a new App with the given options.
func New(opts ...Option) *App {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}
	if app.Config == nil {
		app.Config = config.Default()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Metrics == nil {
		app.Metrics = metrics.NewCollector("")
	}
	return app
}

// OpenStore returns the snapshot store for the configured backend.
func (a *App) OpenStore() (snapshot.Store, error) {
	if a.Store != nil {
		return a.Store, nil
	}
	path, err := a.Config.SnapshotPath()
	if err != nil {
		return nil, err
	}
	if a.Config.Persistence.Backend == config.BackendSQLite {
		return snapshot.NewSQLiteStore(path)
	}
	return snapshot.NewFileStore(path, a.FS), nil
}

// Control builds a harbor from the configuration and loads the saved
// state when there is one. The caller must Close it.
func (a *App) Control(ctx context.Context) (*control.Control, error) {
	ctl, err := a.NewControl()
	if err != nil {
		return nil, err
	}
	if ctl.Open(ctx) {
		logging.Debug("loaded saved harbor")
	}
	return ctl, nil
}

// NewControl builds a fresh harbor from the configuration without
// loading saved state.
func (a *App) NewControl(extra ...control.Option) (*control.Control, error) {
	cfg := a.Config
	store, err := a.OpenStore()
	if err != nil {
		return nil, err
	}
	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}

	opts := []control.Option{
		control.WithDockChoice(cfg.DockChoice),
		control.WithBerthing(cfg.Berthing),
		control.WithFileSystem(a.FS),
		control.WithStore(store),
		control.WithMetrics(a.Metrics),
		control.WithSimulation(cfg.Simulation.Interval.Duration, cfg.Simulation.BoatsPerDay),
		control.WithLogWatch(cfg.LogWatch.Interval.Duration),
	}
	if logPath != "" {
		opts = append(opts, control.WithAuditLog(logPath, cfg.OverwriteLog))
	}
	if a.Rand != nil {
		opts = append(opts, control.WithRand(a.Rand))
	}
	opts = append(opts, extra...)

	return control.New(cfg.Docks, opts...)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
