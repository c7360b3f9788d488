// Package driver runs background loops against a harbor.
//
// A Simulation admits a number of random boats and then advances the day,
// once per interval. A LogWatcher polls the audit log's modification time
// and calls back when it moves forward.
//
// Both are Runners and are usually wrapped in a Task, which makes start
// and stop safe to call from several goroutines:
//
//	sim := driver.NewTask("simulation", driver.NewSimulation(target, 5*time.Second))
//	sim.Start(ctx) // true
//	sim.Start(ctx) // false, already running
//	sim.Stop()
//
// Stopping is cooperative. A simulated day checks for cancellation only
// between arrivals, so a tick is never cut short.
package driver
