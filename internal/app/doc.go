// Package app provides the application context for harbor-ctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config  *config.Config     // Loaded harbor.toml
//	    FS      system.FileSystem  // Audit log and snapshot file access
//	    Metrics *metrics.Collector // Prometheus collector
//	    Store   snapshot.Store     // Optional store override
//	    Rand    *rand.Rand         // Optional random source
//	}
//
// # Creating a Harbor
//
// Control builds a control.Control from the configuration and loads the
// saved state:
//
//	ctl, err := app.Default.Control(ctx)
//	defer ctl.Close(ctx)
//
// # Available Options
//
//	WithConfig(cfg)       // Custom configuration
//	WithFileSystem(fs)    // Custom file system
//	WithStore(store)      // Custom snapshot store
//	WithRand(r)           // Deterministic boat generation
package app
