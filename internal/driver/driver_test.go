package driver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/testutil"
)

// fakeTarget admits boats up to capacity and rejects the first n
// admissions with a duplicate identity error.
type fakeTarget struct {
	mu         sync.Mutex
	capacity   int
	duplicates int
	admitted   []*boat.Boat
	ticks      int
}

func (f *fakeTarget) Admit(b *boat.Boat) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.duplicates > 0 {
		f.duplicates--
		return false, errors.DuplicateIdentity(b.IdentityCode(), "port")
	}
	if len(f.admitted) >= f.capacity {
		return false, nil
	}
	f.admitted = append(f.admitted, b)
	return true, nil
}

func (f *fakeTarget) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
}

func (f *fakeTarget) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.admitted), f.ticks
}

func TestSimulation_Day(t *testing.T) {
	target := &fakeTarget{capacity: 3}
	var reports []DayReport
	sim := NewSimulation(target, time.Hour,
		WithBoatsPerDay(5),
		WithRand(testutil.Rand(1)),
		OnDay(func(r DayReport) { reports = append(reports, r) }))

	report := sim.Day(context.Background())
	if report.Arrived != 3 || report.TurnedAway != 2 || report.Skipped != 0 {
		t.Errorf("report = %+v, want 3 arrived, 2 turned away", report)
	}
	if _, ticks := target.counts(); ticks != 1 {
		t.Errorf("ticks = %d, want 1", ticks)
	}
	if len(reports) != 1 || reports[0] != report {
		t.Errorf("OnDay reports = %v", reports)
	}
}

func TestSimulation_RegeneratesDuplicateCodes(t *testing.T) {
	target := &fakeTarget{capacity: 10, duplicates: 3}
	sim := NewSimulation(target, time.Hour, WithBoatsPerDay(1), WithRand(testutil.Rand(2)))

	report := sim.Day(context.Background())
	if report.Arrived != 1 {
		t.Errorf("report = %+v, want the boat admitted after new codes", report)
	}
}

func TestSimulation_GivesUpOnPersistentDuplicates(t *testing.T) {
	target := &fakeTarget{capacity: 10, duplicates: 100}
	sim := NewSimulation(target, time.Hour, WithBoatsPerDay(2), WithRand(testutil.Rand(3)))

	report := sim.Day(context.Background())
	if report.Skipped != 2 {
		t.Errorf("report = %+v, want 2 skipped", report)
	}
	if _, ticks := target.counts(); ticks != 1 {
		t.Errorf("ticks = %d, want 1", ticks)
	}
}

func TestSimulation_CancelledBeforeArrivals(t *testing.T) {
	target := &fakeTarget{capacity: 10}
	sim := NewSimulation(target, time.Hour, WithRand(testutil.Rand(4)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim.Day(ctx)

	admitted, ticks := target.counts()
	if admitted != 0 || ticks != 0 {
		t.Errorf("cancelled day admitted %d and ticked %d times", admitted, ticks)
	}
}

func TestSimulation_RunInTask(t *testing.T) {
	target := &fakeTarget{capacity: 1000}
	sim := NewSimulation(target, 5*time.Millisecond, WithBoatsPerDay(2), WithRand(testutil.Rand(5)))
	task := NewTask("simulation", sim)

	if !task.Start(context.Background()) {
		t.Fatal("first Start should start the task")
	}
	if task.Start(context.Background()) {
		t.Error("second Start should be a no-op")
	}
	if !task.Running() {
		t.Error("task should be running")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ticks := target.counts(); ticks >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("simulation did not tick")
		}
		time.Sleep(time.Millisecond)
	}

	task.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := task.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if task.Running() {
		t.Error("task should have stopped")
	}

	// Every completed day admitted both boats before ticking.
	admitted, ticks := target.counts()
	if admitted < 2*ticks || admitted > 2*ticks+2 {
		t.Errorf("admitted %d boats over %d ticks", admitted, ticks)
	}

	if !task.Start(context.Background()) {
		t.Error("a stopped task should start again")
	}
	task.Stop()
	_ = task.Wait(ctx)
}

func TestTask_StopAndWaitWhenIdle(t *testing.T) {
	task := NewTask("idle", NewSimulation(&fakeTarget{}, time.Hour))
	task.Stop()
	if err := task.Wait(context.Background()); err != nil {
		t.Errorf("Wait on idle task = %v", err)
	}
	if task.Running() {
		t.Error("idle task should not be running")
	}
}

func TestTask_ParentCancel(t *testing.T) {
	task := NewTask("watch", NewLogWatcher("/none", time.Millisecond, nil,
		WithWatchFileSystem(system.NewMockFS())))
	ctx, cancel := context.WithCancel(context.Background())
	task.Start(ctx)
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if err := task.Wait(waitCtx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
}

func TestLogWatcher_Poll(t *testing.T) {
	fsys := system.NewMockFS()
	var changes []time.Time
	w := NewLogWatcher("/port.log", time.Hour, func(mod time.Time) {
		changes = append(changes, mod)
	}, WithWatchFileSystem(fsys))

	if w.Poll() {
		t.Error("first poll on a missing file should not report a change")
	}
	if w.Poll() {
		t.Error("missing file should not report a change")
	}

	if err := fsys.AppendFile("/port.log", []byte("line\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if !w.Poll() {
		t.Error("creating the file should report a change")
	}
	if w.Poll() {
		t.Error("unchanged file should not report a change")
	}

	fsys.Touch("/port.log")
	if !w.Poll() {
		t.Error("touching the file should report a change")
	}

	if len(changes) != 2 {
		t.Fatalf("got %d callbacks, want 2", len(changes))
	}
	if !changes[1].After(changes[0]) {
		t.Error("reported times should increase")
	}
}

func TestLogWatcher_BaselineOnExistingFile(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddFile("/port.log", []byte("old\n"), 0644)
	w := NewLogWatcher("/port.log", time.Hour, nil, WithWatchFileSystem(fsys))

	if w.Poll() {
		t.Error("baseline poll should not report a change")
	}
	fsys.Touch("/port.log")
	if !w.Poll() {
		t.Error("expected a change after touch")
	}
}

func TestLogWatcher_Run(t *testing.T) {
	fsys := system.NewMockFS()
	changed := make(chan time.Time, 10)
	w := NewLogWatcher("/port.log", 2*time.Millisecond, func(mod time.Time) {
		changed <- mod
	}, WithWatchFileSystem(fsys))
	task := NewTask("log watcher", w)

	task.Start(context.Background())
	defer func() {
		task.Stop()
		_ = task.Wait(context.Background())
	}()

	// Keep writing until a poll after the baseline sees it.
	deadline := time.After(5 * time.Second)
	for {
		if err := fsys.AppendFile("/port.log", []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-changed:
			return
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("watcher did not report the change")
		}
	}
}
