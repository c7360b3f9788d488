package control

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/snapshot"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/testutil"
)

var startDate = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

type env struct {
	ctl   *Control
	fs    *system.MockFS
	store *snapshot.FileStore
}

func newEnv(t *testing.T, sizes []int, opts ...Option) *env {
	t.Helper()
	fsys := system.NewMockFS()
	store := snapshot.NewFileStore("/state/port.json", fsys)
	base := []Option{
		WithStartDate(startDate),
		WithFileSystem(fsys),
		WithAuditLog("/state/port.log", false),
		WithStore(store),
		WithRand(testutil.Rand(42)),
	}
	ctl, err := New(sizes, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = ctl.Close(context.Background()) })
	return &env{ctl: ctl, fs: fsys, store: store}
}

func TestAdd_TracksTurnedAway(t *testing.T) {
	e := newEnv(t, []int{2})

	if ok, err := e.ctl.Add(testutil.Sailing(t, "AAA")); !ok || err != nil {
		t.Fatalf("Add = %v, %v", ok, err)
	}
	ok, err := e.ctl.Add(testutil.Motor(t, "BBB"))
	if ok || err != nil {
		t.Fatalf("Add(no room) = %v, %v; want false, nil", ok, err)
	}

	away := e.ctl.TurnedAway()
	if len(away) != 1 || away[0].IdentityCode() != "M-BBB" {
		t.Errorf("TurnedAway = %v", away)
	}
	if s := e.ctl.Stats(); s.TurnedAway != 1 || s.Boats != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestAdd_DuplicateNotTurnedAway(t *testing.T) {
	e := newEnv(t, []int{4})
	if _, err := e.ctl.Add(testutil.Motor(t, "AAA")); err != nil {
		t.Fatal(err)
	}
	_, err := e.ctl.Add(testutil.Motor(t, "AAA"))
	if !errors.IsDuplicateIdentity(err) {
		t.Errorf("error = %v, want duplicate identity", err)
	}
	if len(e.ctl.TurnedAway()) != 0 {
		t.Error("a duplicate is not a turned-away boat")
	}
}

func TestAddRandom(t *testing.T) {
	e := newEnv(t, []int{64})
	for i := 0; i < 10; i++ {
		b, ok, err := e.ctl.AddRandom()
		if err != nil {
			t.Fatalf("AddRandom error: %v", err)
		}
		if b == nil || !ok {
			t.Fatalf("AddRandom = %v, %v", b, ok)
		}
	}
	if got := e.ctl.Stats().Boats; got != 10 {
		t.Errorf("Boats = %d, want 10", got)
	}
}

func TestRemove(t *testing.T) {
	e := newEnv(t, []int{4})
	if _, err := e.ctl.Add(testutil.Motor(t, "AAA")); err != nil {
		t.Fatal(err)
	}

	b, err := e.ctl.Remove("m-aaa")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if b.IdentityCode() != "M-AAA" {
		t.Errorf("removed %s", b)
	}

	_, err = e.ctl.Remove("M-AAA")
	if errors.GetExitCode(err) != errors.ExitBoatNotFound {
		t.Errorf("second Remove error = %v, want boat not found", err)
	}

	// An unknown code never reaches the audit log.
	lines, err := e.ctl.LogLines(0)
	if err != nil {
		t.Fatalf("LogLines failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("log = %q, want admission and removal only", lines)
	}
	for _, line := range lines {
		if strings.Contains(line, "could not be found") {
			t.Errorf("unexpected not-found line %q", line)
		}
	}
}

func TestTickDays(t *testing.T) {
	e := newEnv(t, []int{8})
	for _, b := range []string{"AAA", "BBB"} {
		if _, err := e.ctl.Add(testutil.Rowing(t, b)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.ctl.Add(testutil.Motor(t, "CCC")); err != nil {
		t.Fatal(err)
	}

	left := e.ctl.TickDays(3)
	if len(left) != 3 {
		t.Errorf("left = %v, want 3 boats", left)
	}
	e.ctl.View(func(h port.Harbor) {
		if got := h.Date(); !got.Equal(startDate.AddDate(0, 0, 3)) {
			t.Errorf("Date = %v", got)
		}
		if h.BoatCount() != 0 {
			t.Errorf("BoatCount = %d, want 0", h.BoatCount())
		}
	})
}

func TestCheckTickDays(t *testing.T) {
	tests := []struct {
		days    int
		wantErr bool
	}{
		{0, true},
		{-1, true},
		{1, false},
		{MaxTickDays, false},
		{MaxTickDays + 1, true},
		{1000000000, true},
	}
	for _, tt := range tests {
		err := CheckTickDays(tt.days)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckTickDays(%d) error = %v, wantErr %v", tt.days, err, tt.wantErr)
		}
		if err != nil && !errors.IsValidation(err) {
			t.Errorf("CheckTickDays(%d) error = %v, want validation error", tt.days, err)
		}
	}
}

func TestAuditLog(t *testing.T) {
	e := newEnv(t, []int{4})
	if _, err := e.ctl.Add(testutil.Rowing(t, "AAA")); err != nil {
		t.Fatal(err)
	}
	e.ctl.Tick()

	lines, err := e.ctl.LogLines(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"[2024-05-01] RowingBoat with ID:(R-AAA) found space at the harbor.",
		"Time incremented: [2024-05-01] => [2024-05-02]",
		"[2024-05-02] RowingBoat with ID:(R-AAA) left the port.",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("log =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
	last, _ := e.ctl.LastLogLine()
	if last != want[2] {
		t.Errorf("LastLogLine = %q", last)
	}
}

func TestAuditFailureKeepsMutation(t *testing.T) {
	e := newEnv(t, []int{4})
	e.fs.AppendFileErr = stderrors.New("disk full")

	if ok, err := e.ctl.Add(testutil.Motor(t, "AAA")); !ok || err != nil {
		t.Fatalf("Add = %v, %v", ok, err)
	}
	if e.ctl.Stats().Boats != 1 {
		t.Error("boat should be berthed despite the log failure")
	}
}

func TestSaveLoad(t *testing.T) {
	e := newEnv(t, []int{3, 5})
	if _, err := e.ctl.Add(testutil.Rowing(t, "AAA")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ctl.Add(testutil.Cargo(t, "BBB")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ctl.Add(testutil.Catamaran(t, "CCC")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ctl.Add(testutil.Catamaran(t, "DDD")); err != nil {
		t.Fatal(err)
	}
	e.ctl.Tick()

	ctx := context.Background()
	if err := e.ctl.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before := e.ctl.Stats()

	if err := e.ctl.Reset(nil); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if e.ctl.Stats().Boats != 0 {
		t.Fatal("Reset should empty the harbor")
	}

	if err := e.ctl.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	after := e.ctl.Stats()
	if before != after {
		t.Errorf("stats after load = %+v, want %+v", after, before)
	}
	if len(e.ctl.TurnedAway()) != before.TurnedAway {
		t.Errorf("TurnedAway = %d, want %d", len(e.ctl.TurnedAway()), before.TurnedAway)
	}
}

func TestLoad_FailureKeepsHarbor(t *testing.T) {
	e := newEnv(t, []int{4})
	if _, err := e.ctl.Add(testutil.Motor(t, "AAA")); err != nil {
		t.Fatal(err)
	}
	e.fs.AddFile("/state/port.json", []byte("{broken"), 0644)

	err := e.ctl.Load(context.Background())
	if !errors.IsPersistence(err) {
		t.Errorf("Load error = %v, want persistence failure", err)
	}
	if e.ctl.Stats().Boats != 1 {
		t.Error("failed load should keep the current harbor")
	}
	if e.ctl.Open(context.Background()) {
		t.Error("Open should report false for a broken snapshot")
	}
}

func TestOpen(t *testing.T) {
	e := newEnv(t, []int{4})
	if e.ctl.Open(context.Background()) {
		t.Error("Open with nothing saved should report false")
	}
	if _, err := e.ctl.Add(testutil.Motor(t, "AAA")); err != nil {
		t.Fatal(err)
	}
	if err := e.ctl.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	other, err := New(nil, WithStore(e.store), WithFileSystem(e.fs))
	if err != nil {
		t.Fatal(err)
	}
	if !other.Open(context.Background()) {
		t.Fatal("Open should load the saved harbor")
	}
	if other.Stats().Boats != 1 || other.Stats().Slots != 4 {
		t.Errorf("Stats = %+v", other.Stats())
	}
}

func TestNoStore(t *testing.T) {
	ctl, err := New([]int{2})
	if err != nil {
		t.Fatal(err)
	}
	if err := ctl.Save(context.Background()); !errors.IsPersistence(err) {
		t.Errorf("Save error = %v", err)
	}
	if err := ctl.Load(context.Background()); !errors.IsPersistence(err) {
		t.Errorf("Load error = %v", err)
	}
	if ctl.Open(context.Background()) {
		t.Error("Open without a store should report false")
	}
	if lines, err := ctl.LogLines(0); lines != nil || err != nil {
		t.Errorf("LogLines without a log = %v, %v", lines, err)
	}
	if ctl.StartLogWatcher(context.Background()) {
		t.Error("log watcher needs a log")
	}
}

func TestReset(t *testing.T) {
	e := newEnv(t, []int{3, 4})
	if _, err := e.ctl.Add(testutil.Motor(t, "AAA")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		sizes []int
		want  []int
	}{
		{"new sizes", []int{6}, []int{6}},
		{"nil keeps", nil, []int{6}},
		{"non-positive keeps", []int{2, 0}, []int{6}},
		{"grow", []int{5, 5, 5}, []int{5, 5, 5}},
	}
	for _, tt := range tests {
		if err := e.ctl.Reset(tt.sizes); err != nil {
			t.Fatalf("%s: Reset failed: %v", tt.name, err)
		}
		var got []int
		e.ctl.View(func(h port.Harbor) { got = port.Base(h).Sizes() })
		if len(got) != len(tt.want) {
			t.Errorf("%s: sizes = %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: sizes = %v, want %v", tt.name, got, tt.want)
				break
			}
		}
	}
	if len(e.ctl.TurnedAway()) != 0 || e.ctl.Stats().Boats != 0 {
		t.Error("Reset should clear the harbor")
	}
}

func TestSubscribe(t *testing.T) {
	e := newEnv(t, []int{4})
	var mu sync.Mutex
	var events []Event
	e.ctl.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		// Subscribers may read back without deadlocking.
		_ = e.ctl.Stats()
	})

	if _, err := e.ctl.Add(testutil.Motor(t, "AAA")); err != nil {
		t.Fatal(err)
	}
	e.ctl.Tick()

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 || events[0] != EventHarbor {
		t.Errorf("events = %v", events)
	}
}

func TestSimulation(t *testing.T) {
	e := newEnv(t, []int{64}, WithSimulation(2*time.Millisecond, 3))
	ctx := context.Background()

	if !e.ctl.StartSimulation(ctx) {
		t.Fatal("StartSimulation should start")
	}
	if e.ctl.StartSimulation(ctx) {
		t.Error("second StartSimulation should be a no-op")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		var date time.Time
		e.ctl.View(func(h port.Harbor) { date = h.Date() })
		if date.After(startDate.AddDate(0, 0, 2)) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("simulation did not advance the date")
		}
		time.Sleep(time.Millisecond)
	}

	if !e.ctl.Stats().Simulating {
		t.Error("Stats should report the simulation")
	}
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := e.ctl.StopSimulation(stopCtx); err != nil {
		t.Fatalf("StopSimulation failed: %v", err)
	}
	if e.ctl.SimulationRunning() {
		t.Error("simulation should have stopped")
	}
}

func TestLogWatcher(t *testing.T) {
	e := newEnv(t, []int{4}, WithLogWatch(2*time.Millisecond))
	changed := make(chan struct{}, 100)
	e.ctl.Subscribe(func(ev Event) {
		if ev == EventLog {
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	})

	ctx := context.Background()
	if !e.ctl.StartLogWatcher(ctx) {
		t.Fatal("StartLogWatcher should start")
	}

	deadline := time.After(5 * time.Second)
	for {
		e.ctl.Tick()
		select {
		case <-changed:
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := e.ctl.StopLogWatcher(stopCtx); err != nil {
				t.Fatalf("StopLogWatcher failed: %v", err)
			}
			return
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("log watcher did not report a change")
		}
	}
}

func TestOverwriteLog(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddFile("/port.log", []byte("stale\n"), 0644)

	ctl, err := New(nil, WithFileSystem(fsys), WithAuditLog("/port.log", true))
	if err != nil {
		t.Fatal(err)
	}
	if lines, _ := ctl.LogLines(0); len(lines) != 0 {
		t.Errorf("log should be empty after overwrite, got %v", lines)
	}
}
