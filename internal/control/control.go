// Package control owns the running harbor and serializes every access to
// it. Front ends and background drivers all go through a Control.
package control

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/audit"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/driver"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/metrics"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/snapshot"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
)

// Task names used in logs and metrics.
const (
	TaskSimulation = "simulation"
	TaskLogWatcher = "log_watcher"
)

// Event tells subscribers what changed.
type Event int

const (
	// EventHarbor follows any change to the harbor.
	EventHarbor Event = iota + 1
	// EventLog follows a change to the audit log file.
	EventLog
)

// Control is a mutex-guarded handle to a harbor.
type Control struct {
	mu         sync.Mutex
	harbor     port.Harbor
	log        *audit.Logger
	turnedAway []*boat.Boat
	rand       *rand.Rand

	opts    options
	metrics *metrics.Collector

	sim     *driver.Task
	watcher *driver.Task

	subMu       sync.Mutex
	subscribers []func(Event)
}

var _ driver.Target = (*Control)(nil)

// New builds a Control around a fresh harbor with the given dock sizes.
func New(sizes []int, opts ...Option) (*Control, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Control{
		opts:    o,
		metrics: o.metrics,
		rand:    o.rand,
	}
	if c.metrics == nil {
		c.metrics = metrics.NewCollector("")
	}

	p, err := c.newPort(sizes, o.startDate)
	if err != nil {
		return nil, err
	}
	c.install(p, nil, o.overwriteLog)

	c.sim = driver.NewTask(TaskSimulation, driver.NewSimulation(c, o.simInterval,
		driver.WithBoatsPerDay(o.boatsPerDay),
		driver.OnDay(func(r driver.DayReport) {
			logging.Debug("simulated day", "arrived", r.Arrived, "turnedAway", r.TurnedAway, "skipped", r.Skipped)
		})))
	if o.logPath != "" {
		c.watcher = driver.NewTask(TaskLogWatcher, driver.NewLogWatcher(o.logPath, o.watchInterval,
			func(time.Time) { c.notify(EventLog) },
			driver.WithWatchFileSystem(o.fs)))
	}
	return c, nil
}

func (c *Control) newPort(sizes []int, start time.Time) (*port.Port, error) {
	popts := []port.Option{
		port.WithDockChoice(c.opts.dockChoice),
		port.WithBerthing(c.opts.berthing),
	}
	if !start.IsZero() {
		popts = append(popts, port.WithStartDate(start))
	}
	return port.New(sizes, popts...)
}

// install replaces the engine. Callers hold mu or own c exclusively.
func (c *Control) install(p *port.Port, turnedAway []*boat.Boat, overwrite bool) {
	c.turnedAway = turnedAway
	if c.opts.logPath == "" {
		c.harbor = p
		c.log = nil
	} else {
		c.log = audit.New(p, c.opts.logPath,
			audit.WithFileSystem(c.opts.fs),
			audit.WithOverwrite(overwrite),
			audit.WithErrorHandler(func(err error) {
				logging.Warn("audit log write failed", "path", c.opts.logPath, "error", err)
				c.metrics.RecordAuditFailure()
			}))
		c.harbor = c.log
	}
	c.metrics.ObserveHarbor(c.harbor)
}

// Metrics returns the collector fed by this Control.
func (c *Control) Metrics() *metrics.Collector { return c.metrics }

// LogPath returns the audit log location, or "" when logging is off.
func (c *Control) LogPath() string { return c.opts.logPath }

// Subscribe registers fn to be called after changes. Callbacks run on
// the goroutine that made the change, without the lock held.
func (c *Control) Subscribe(fn func(Event)) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Control) notify(e Event) {
	c.subMu.Lock()
	subs := append(([]func(Event))(nil), c.subscribers...)
	c.subMu.Unlock()
	for _, fn := range subs {
		fn(e)
	}
}

// Add offers b to the harbor. A boat with no room is remembered as turned
// away.
func (c *Control) Add(b *boat.Boat) (bool, error) {
	ok, err := c.add(b)
	if err == nil {
		c.notify(EventHarbor)
	}
	return ok, err
}

func (c *Control) add(b *boat.Boat) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok, err := c.harbor.TryAdd(b)
	switch {
	case err != nil:
		if errors.IsDuplicateIdentity(err) {
			c.metrics.RecordArrival(b, metrics.ResultDuplicate)
		}
		return false, err
	case ok:
		c.metrics.RecordArrival(b, metrics.ResultAdmitted)
	default:
		c.metrics.RecordArrival(b, metrics.ResultTurnedAway)
		c.turnedAway = append(c.turnedAway, b)
	}
	c.metrics.ObserveHarbor(c.harbor)
	return ok, nil
}

// Admit is Add, for the simulation driver.
func (c *Control) Admit(b *boat.Boat) (bool, error) {
	return c.Add(b)
}

// AddRandom offers a randomly generated boat, redrawing its code if it
// clashes with a berthed boat.
func (c *Control) AddRandom() (*boat.Boat, bool, error) {
	c.mu.Lock()
	_, b := boat.Random(c.rand)
	c.mu.Unlock()

	var (
		ok  bool
		err error
	)
	for attempt := 0; attempt < 10; attempt++ {
		ok, err = c.Add(b)
		if !errors.IsDuplicateIdentity(err) {
			return b, ok, err
		}
		c.mu.Lock()
		b.RegenerateCode(c.rand)
		c.mu.Unlock()
	}
	return b, false, err
}

// Remove releases the boat with the given identity code.
func (c *Control) Remove(identity string) (*boat.Boat, error) {
	c.mu.Lock()
	// Unknown codes are rejected here, before the audit decorator is reached.
	b, found := port.Base(c.harbor).Find(identity)
	if !found {
		c.metrics.RecordRemoval(false)
		c.mu.Unlock()
		return nil, errors.BoatNotFound(identity)
	}
	ok := c.harbor.TryRemove(b)
	c.metrics.RecordRemoval(ok)
	c.metrics.ObserveHarbor(c.harbor)
	c.mu.Unlock()

	c.notify(EventHarbor)
	if !ok {
		return nil, errors.BoatNotFound(identity)
	}
	return b, nil
}

// MaxTickDays bounds a single multi-day advance. TickDays holds the
// harbor lock for the whole advance.
const MaxTickDays = 3650

// CheckTickDays reports whether n is a valid number of days to advance.
func CheckTickDays(n int) error {
	if n < 1 || n > MaxTickDays {
		return errors.ValidationError(fmt.Sprintf("days must be between 1 and %d, got %d", MaxTickDays, n))
	}
	return nil
}

// Tick advances the harbor by one day.
func (c *Control) Tick() {
	c.TickDays(1)
}

// TickDays advances the harbor by n days and returns every boat that
// left along the way.
func (c *Control) TickDays(n int) []*boat.Boat {
	var left []*boat.Boat
	c.mu.Lock()
	for i := 0; i < n; i++ {
		c.harbor.IncrementTime()
		today := c.harbor.LeftToday()
		c.metrics.RecordTick(today)
		left = append(left, today...)
	}
	c.metrics.ObserveHarbor(c.harbor)
	c.mu.Unlock()

	c.notify(EventHarbor)
	return left
}

// View runs fn with the harbor locked. fn must not keep the harbor or
// call back into c.
func (c *Control) View(fn func(h port.Harbor)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.harbor)
}

// TurnedAway returns every boat rejected for lack of space since the
// harbor was created or reset.
func (c *Control) TurnedAway() []*boat.Boat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*boat.Boat(nil), c.turnedAway...)
}

// Stats summarizes the harbor.
type Stats struct {
	port.Stats
	TurnedAway int  `json:"turnedAway"`
	Simulating bool `json:"simulating"`
}

// Stats returns a summary of the harbor.
func (c *Control) Stats() Stats {
	c.mu.Lock()
	s := Stats{Stats: port.Summarize(c.harbor), TurnedAway: len(c.turnedAway)}
	c.mu.Unlock()
	s.Simulating = c.sim.Running()
	return s
}

// Rows lists every slot.
func (c *Control) Rows() []port.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return port.Rows(c.harbor)
}

// LogLines returns the last n audit log lines, all of them when n <= 0.
func (c *Control) LogLines(n int) ([]string, error) {
	if c.opts.logPath == "" {
		return nil, nil
	}
	return audit.Tail(c.opts.fs, c.opts.logPath, n)
}

// LastLogLine returns the most recent audit log line.
func (c *Control) LastLogLine() (string, error) {
	if c.opts.logPath == "" {
		return "", nil
	}
	return audit.LastLine(c.opts.fs, c.opts.logPath)
}

// Reset replaces the harbor with an empty one. Missing or non-positive
// sizes keep the current topology. The date carries over.
func (c *Control) Reset(sizes []int) error {
	c.mu.Lock()
	current := port.Base(c.harbor)
	if len(sizes) == 0 {
		sizes = current.Sizes()
	}
	for _, size := range sizes {
		if size <= 0 {
			sizes = current.Sizes()
			break
		}
	}
	p, err := c.newPort(sizes, current.Date())
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.install(p, nil, false)
	c.mu.Unlock()

	logging.Debug("harbor reset", "sizes", sizes)
	c.notify(EventHarbor)
	return nil
}

// Save writes a snapshot to the configured store.
func (c *Control) Save(ctx context.Context) error {
	if c.opts.store == nil {
		return errors.PersistenceFailed("save", stderrors.New("no store configured"))
	}
	c.mu.Lock()
	snap := snapshot.Capture(c.harbor, c.turnedAway)
	c.mu.Unlock()

	err := c.opts.store.Save(ctx, snap)
	c.metrics.RecordPersistence("save", err)
	return err
}

// Load replaces the harbor with the stored snapshot. On failure the
// current harbor is left untouched.
func (c *Control) Load(ctx context.Context) error {
	if c.opts.store == nil {
		return errors.PersistenceFailed("load", stderrors.New("no store configured"))
	}
	snap, err := c.opts.store.Load(ctx)
	if err == nil {
		err = c.restore(snap)
	}
	c.metrics.RecordPersistence("load", err)
	if err != nil {
		return err
	}
	c.notify(EventHarbor)
	return nil
}

func (c *Control) restore(snap snapshot.Snapshot) error {
	p, turnedAway, err := snapshot.Restore(snap)
	if err != nil {
		return errors.PersistenceFailed("restore", err)
	}
	c.mu.Lock()
	c.install(p, turnedAway, false)
	c.mu.Unlock()
	return nil
}

// Open loads the stored snapshot if there is one. A missing snapshot
// keeps the fresh harbor silently; an unreadable one keeps it with a
// warning. It reports whether a snapshot was loaded.
func (c *Control) Open(ctx context.Context) bool {
	if c.opts.store == nil {
		return false
	}
	err := c.Load(ctx)
	switch {
	case err == nil:
		return true
	case stderrors.Is(err, snapshot.ErrNotFound):
		logging.Debug("no saved harbor, starting fresh")
	default:
		logging.Warn("could not load saved harbor, starting fresh", "error", err)
	}
	return false
}

// StartSimulation starts the simulation driver. It reports false if it
// was already running.
func (c *Control) StartSimulation(ctx context.Context) bool {
	started := c.sim.Start(ctx)
	c.metrics.SetTaskRunning(TaskSimulation, true)
	return started
}

// StopSimulation asks the simulation driver to stop after its current
// unit of work and waits for it.
func (c *Control) StopSimulation(ctx context.Context) error {
	c.sim.Stop()
	err := c.sim.Wait(ctx)
	c.metrics.SetTaskRunning(TaskSimulation, c.sim.Running())
	return err
}

// SimulationRunning reports whether the simulation driver is active.
func (c *Control) SimulationRunning() bool {
	return c.sim.Running()
}

// StartLogWatcher starts polling the audit log. It reports false if it
// was already running or logging is off.
func (c *Control) StartLogWatcher(ctx context.Context) bool {
	if c.watcher == nil {
		return false
	}
	started := c.watcher.Start(ctx)
	c.metrics.SetTaskRunning(TaskLogWatcher, true)
	return started
}

// StopLogWatcher stops polling the audit log and waits for it.
func (c *Control) StopLogWatcher(ctx context.Context) error {
	if c.watcher == nil {
		return nil
	}
	c.watcher.Stop()
	err := c.watcher.Wait(ctx)
	c.metrics.SetTaskRunning(TaskLogWatcher, c.watcher.Running())
	return err
}

// Close stops the background drivers and closes the store.
func (c *Control) Close(ctx context.Context) error {
	if err := c.StopSimulation(ctx); err != nil {
		return err
	}
	if err := c.StopLogWatcher(ctx); err != nil {
		return err
	}
	if c.opts.store != nil {
		return c.opts.store.Close()
	}
	return nil
}

// Store returns the snapshot store, or nil when none is configured.
func (c *Control) Store() snapshot.Store { return c.opts.store }

// FileSystem returns the file system used for the audit log.
func (c *Control) FileSystem() system.FileSystem { return c.opts.fs }
