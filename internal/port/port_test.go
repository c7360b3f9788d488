package port

import (
	"testing"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/testutil"
)

var startDate = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

func newPort(t *testing.T, sizes []int, opts ...Option) *Port {
	t.Helper()
	opts = append([]Option{WithStartDate(startDate)}, opts...)
	p, err := New(sizes, opts...)
	if err != nil {
		t.Fatalf("New(%v) failed: %v", sizes, err)
	}
	return p
}

func mustAdd(t *testing.T, h Harbor, b *boat.Boat) {
	t.Helper()
	ok, err := h.TryAdd(b)
	if err != nil {
		t.Fatalf("TryAdd(%s) error: %v", b.IdentityCode(), err)
	}
	if !ok {
		t.Fatalf("TryAdd(%s) = false, want true", b.IdentityCode())
	}
}

func dockOf(p *Port, b *boat.Boat) int {
	for i, d := range p.Docks() {
		if d.Contains(b) {
			return i
		}
	}
	return -1
}

func TestNew_DefaultTopology(t *testing.T) {
	p := newPort(t, nil)
	if p.DockCount() != 1 || p.Size() != DefaultDockSize {
		t.Errorf("got %d docks of %d slots, want 1 of %d", p.DockCount(), p.Size(), DefaultDockSize)
	}
	if p.DockChoice() != DefaultDockChoice {
		t.Errorf("DockChoice() = %q, want %q", p.DockChoice(), DefaultDockChoice)
	}
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New([]int{4, 0})
	if !errors.IsValidation(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestNew_Options(t *testing.T) {
	p := newPort(t, []int{3, 4}, WithDockChoice("InOrder"), WithBerthing("Whatever"))
	if p.DockChoice() != "InOrder" {
		t.Errorf("DockChoice() = %q, want InOrder", p.DockChoice())
	}
	for i, d := range p.Docks() {
		if d.Algorithm() != dock.DefaultBerthing {
			t.Errorf("dock %d algorithm = %q", i, d.Algorithm())
		}
	}
	if got := p.Sizes(); len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("Sizes() = %v, want [3 4]", got)
	}
	if p.Size() != 7 {
		t.Errorf("Size() = %d, want 7", p.Size())
	}
}

func TestTryAdd_EmptiestWinsTies(t *testing.T) {
	p := newPort(t, []int{2, 5})
	b := testutil.Motor(t, "AAA")
	mustAdd(t, p, b)

	if got := dockOf(p, b); got != 1 {
		t.Errorf("boat landed in dock %d, want 1 (the 5-slot dock)", got)
	}
}

func TestTryAdd_EmptiestRebalances(t *testing.T) {
	p := newPort(t, []int{4, 4})
	a := testutil.Sailing(t, "AAA")
	b := testutil.Motor(t, "BBB")
	c := testutil.Motor(t, "CCC")
	mustAdd(t, p, a)
	mustAdd(t, p, b)
	mustAdd(t, p, c)

	want := map[*boat.Boat]int{a: 0, b: 1, c: 1}
	for bt, d := range want {
		if got := dockOf(p, bt); got != d {
			t.Errorf("%s in dock %d, want %d", bt.IdentityCode(), got, d)
		}
	}
}

func TestTryAdd_InOrder(t *testing.T) {
	p := newPort(t, []int{2, 5}, WithDockChoice("InOrder"))
	a := testutil.Motor(t, "AAA")
	b := testutil.Motor(t, "BBB")
	c := testutil.Motor(t, "CCC")
	mustAdd(t, p, a)
	mustAdd(t, p, b)
	mustAdd(t, p, c)

	if dockOf(p, a) != 0 || dockOf(p, b) != 0 || dockOf(p, c) != 1 {
		t.Errorf("InOrder placed boats in docks %d %d %d, want 0 0 1",
			dockOf(p, a), dockOf(p, b), dockOf(p, c))
	}
}

func TestTryAdd_FallsThroughToNextDock(t *testing.T) {
	p := newPort(t, []int{3, 4}, WithDockChoice("InOrder"))
	mustAdd(t, p, testutil.Catamaran(t, "AAA"))

	c := testutil.Cargo(t, "BBB")
	mustAdd(t, p, c)
	if dockOf(p, c) != 1 {
		t.Errorf("cargo ship in dock %d, want 1", dockOf(p, c))
	}

	ok, err := p.TryAdd(testutil.Motor(t, "CCC"))
	if err != nil || ok {
		t.Errorf("TryAdd on a full port = %v, %v; want false, nil", ok, err)
	}
	if p.BoatCount() != 2 {
		t.Errorf("BoatCount() = %d, want 2", p.BoatCount())
	}
}

func TestTryAdd_DuplicateAcrossDocks(t *testing.T) {
	p := newPort(t, []int{2, 2}, WithDockChoice("InOrder"))
	mustAdd(t, p, testutil.Sailing(t, "AAA"))

	// Dock 0 is full, so a naive dock-level check would accept this.
	ok, err := p.TryAdd(testutil.Sailing(t, "AAA"))
	if ok {
		t.Error("duplicate should not be admitted")
	}
	if !errors.IsDuplicateIdentity(err) {
		t.Errorf("error = %v, want duplicate identity", err)
	}
}

func TestTryRemove(t *testing.T) {
	p := newPort(t, []int{2, 2})
	a := testutil.Motor(t, "AAA")
	b := testutil.Motor(t, "BBB")
	mustAdd(t, p, a)
	mustAdd(t, p, b)

	if !p.TryRemove(b) {
		t.Fatal("TryRemove = false")
	}
	if p.TryRemove(b) {
		t.Error("second TryRemove should fail")
	}
	if p.BoatCount() != 1 {
		t.Errorf("BoatCount() = %d, want 1", p.BoatCount())
	}
}

func TestIncrementTime(t *testing.T) {
	p := newPort(t, []int{4, 4})
	r := testutil.Rowing(t, "AAA")
	m := testutil.Motor(t, "BBB")
	mustAdd(t, p, r)
	mustAdd(t, p, m)

	p.IncrementTime()
	if want := startDate.AddDate(0, 0, 1); !p.Date().Equal(want) {
		t.Errorf("Date() = %v, want %v", p.Date(), want)
	}
	left := p.LeftToday()
	if len(left) != 1 || left[0] != r {
		t.Errorf("LeftToday = %v, want [%s]", left, r)
	}

	p.IncrementTime()
	p.IncrementTime()
	left = p.LeftToday()
	if len(left) != 1 || left[0] != m {
		t.Errorf("LeftToday = %v, want [%s]", left, m)
	}
	if p.BoatCount() != 0 {
		t.Errorf("BoatCount() = %d, want 0", p.BoatCount())
	}
}

func TestEviction_AfterBerthTime(t *testing.T) {
	for _, k := range boat.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			p := newPort(t, []int{8})
			b := testutil.NewBoat(t, k, "ZZZ")
			mustAdd(t, p, b)

			seen := 0
			for day := 1; day <= k.Spec().BerthTime; day++ {
				p.IncrementTime()
				for _, l := range p.LeftToday() {
					if l == b {
						seen++
						if day != k.Spec().BerthTime {
							t.Errorf("left on day %d, want %d", day, k.Spec().BerthTime)
						}
					}
				}
			}
			if seen != 1 {
				t.Errorf("appeared %d times in LeftToday, want 1", seen)
			}
			if _, ok := p.Find(b.IdentityCode()); ok {
				t.Error("boat still berthed")
			}
		})
	}
}

func TestFind(t *testing.T) {
	p := newPort(t, []int{4})
	b := testutil.Motor(t, "QRS")
	mustAdd(t, p, b)

	got, ok := p.Find(" m-qrs ")
	if !ok || got != b {
		t.Errorf("Find = %v, %v; want %s", got, ok, b)
	}
	if _, ok := p.Find("R-QRS"); ok {
		t.Error("Find should respect the kind prefix")
	}
}

func TestViews_Idempotent(t *testing.T) {
	p := newPort(t, []int{3, 5})
	mustAdd(t, p, testutil.Rowing(t, "AAA"))
	mustAdd(t, p, testutil.Sailing(t, "BBB"))

	first, second := Summarize(p), Summarize(p)
	if first != second {
		t.Errorf("Summarize changed between calls: %+v vs %+v", first, second)
	}
	if len(Rows(p)) != len(Rows(p)) {
		t.Error("Rows changed between calls")
	}
	if p.BoatCount() != len(p.Boats()) {
		t.Errorf("BoatCount() = %d, len(Boats()) = %d", p.BoatCount(), len(p.Boats()))
	}
}

func TestSummarize(t *testing.T) {
	p := newPort(t, []int{4, 4})
	empty := Summarize(p)
	if empty.AverageSpeed != 0 || empty.FreeSlots != 8 || empty.FreeFraction != 1 {
		t.Errorf("empty stats = %+v", empty)
	}
	if empty.Date != "2024-05-01" {
		t.Errorf("Date = %q, want 2024-05-01", empty.Date)
	}

	a := testutil.Motor(t, "AAA")
	b := testutil.Sailing(t, "BBB")
	mustAdd(t, p, a)
	mustAdd(t, p, b)

	s := Summarize(p)
	if s.Boats != 2 {
		t.Errorf("Boats = %d, want 2", s.Boats)
	}
	if want := a.Weight() + b.Weight(); s.TotalWeight != want {
		t.Errorf("TotalWeight = %d, want %d", s.TotalWeight, want)
	}
	if want := float64(a.TopSpeed()+b.TopSpeed()) / 2; s.AverageSpeed != want {
		t.Errorf("AverageSpeed = %v, want %v", s.AverageSpeed, want)
	}
	if s.FreeSlots != 5 {
		t.Errorf("FreeSlots = %d, want 5", s.FreeSlots)
	}
}

func TestRows(t *testing.T) {
	p := newPort(t, []int{3})
	r1 := testutil.Rowing(t, "AAA")
	r2 := testutil.Rowing(t, "BBB")
	s := testutil.Sailing(t, "CCC")
	mustAdd(t, p, r1)
	mustAdd(t, p, r2)
	mustAdd(t, p, s)

	rows := Rows(p)
	want := []struct {
		slot   int
		boat   *boat.Boat
		shared bool
	}{
		{0, r1, true},
		{0, r2, true},
		{1, s, false},
		{2, s, false},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].Slot != w.slot || rows[i].Boat != w.boat || rows[i].Shared != w.shared {
			t.Errorf("row %d = %+v, want slot %d boat %s", i, rows[i], w.slot, w.boat)
		}
	}
	if rows[2].DaysLeft != 4 {
		t.Errorf("DaysLeft = %d, want 4", rows[2].DaysLeft)
	}
}

func TestRestore(t *testing.T) {
	d, err := dock.New(4)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Restore([]*dock.Dock{d}, "Bogus", startDate.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if p.DockChoice() != DefaultDockChoice {
		t.Errorf("DockChoice() = %q", p.DockChoice())
	}
	if !p.Date().Equal(startDate) {
		t.Errorf("Date() = %v, want %v", p.Date(), startDate)
	}

	if _, err := Restore(nil, DefaultDockChoice, startDate); err == nil {
		t.Error("Restore with no docks should fail")
	}
}

type wrapper struct {
	Harbor
}

func (w wrapper) Unwrap() Harbor { return w.Harbor }

func TestBase(t *testing.T) {
	p := newPort(t, nil)
	if Base(p) != p {
		t.Error("Base(port) should return the port")
	}
	if Base(wrapper{wrapper{p}}) != p {
		t.Error("Base should unwrap nested decorators")
	}
	if Base(nil) != nil {
		t.Error("Base(nil) should be nil")
	}
}

func TestDockChoices(t *testing.T) {
	names := DockChoices()
	if len(names) != 2 || names[0] != "Emptiest" || names[1] != "InOrder" {
		t.Errorf("DockChoices() = %v", names)
	}
}
