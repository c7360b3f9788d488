package dock

import (
	"testing"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/testutil"
)

func newDock(t *testing.T, size int) *Dock {
	t.Helper()
	d, err := New(size)
	if err != nil {
		t.Fatalf("New(%d) failed: %v", size, err)
	}
	return d
}

func mustAdd(t *testing.T, d *Dock, b *boat.Boat) {
	t.Helper()
	ok, err := d.TryAdd(b)
	if err != nil {
		t.Fatalf("TryAdd(%s) error: %v", b.IdentityCode(), err)
	}
	if !ok {
		t.Fatalf("TryAdd(%s) = false, want true", b.IdentityCode())
	}
}

func slotOf(t *testing.T, d *Dock, b *boat.Boat) int {
	t.Helper()
	for _, p := range d.Occupants() {
		if p.Boat.SameIdentity(b) {
			return p.Slot
		}
	}
	t.Fatalf("%s is not berthed", b.IdentityCode())
	return -1
}

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		if _, err := New(size); !errors.IsValidation(err) {
			t.Errorf("New(%d) error = %v, want validation error", size, err)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	d := newDock(t, 6)
	if d.Size() != 6 {
		t.Errorf("Size() = %d, want 6", d.Size())
	}
	if d.EmptySlots() != 6 {
		t.Errorf("EmptySlots() = %d, want 6", d.EmptySlots())
	}
	if d.Algorithm() != DefaultBerthing {
		t.Errorf("Algorithm() = %q, want %q", d.Algorithm(), DefaultBerthing)
	}
}

func TestWithBerthing_UnknownFallsBack(t *testing.T) {
	d, err := New(2, WithBerthing("Tetris"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if d.Algorithm() != DefaultBerthing {
		t.Errorf("Algorithm() = %q, want %q", d.Algorithm(), DefaultBerthing)
	}
}

func TestTryAdd_SmallBoatsShareThenSpill(t *testing.T) {
	d := newDock(t, 4)
	a := testutil.Rowing(t, "AAA")
	b := testutil.Rowing(t, "BBB")
	c := testutil.Rowing(t, "CCC")

	mustAdd(t, d, a)
	mustAdd(t, d, b)
	mustAdd(t, d, c)

	want := map[*boat.Boat]int{a: 0, b: 0, c: 1}
	for bt, slot := range want {
		if got := slotOf(t, d, bt); got != slot {
			t.Errorf("%s slot = %d, want %d", bt.IdentityCode(), got, slot)
		}
	}

	slots := d.Slots()
	if got := FreeSpace(slots[0]); got != 0 {
		t.Errorf("slot 0 free space = %v, want 0", got)
	}
	if got := FreeSpace(slots[1]); got != 0.5 {
		t.Errorf("slot 1 free space = %v, want 0.5", got)
	}
	if d.EmptySlots() != 2 {
		t.Errorf("EmptySlots() = %d, want 2", d.EmptySlots())
	}
}

func TestTryAdd_ExclusiveNoRoom(t *testing.T) {
	d := newDock(t, 3)
	first := testutil.Sailing(t, "AAA")
	second := testutil.Sailing(t, "BBB")

	mustAdd(t, d, first)
	if got := slotOf(t, d, first); got != 0 {
		t.Errorf("first slot = %d, want 0", got)
	}

	ok, err := d.TryAdd(second)
	if err != nil {
		t.Fatalf("TryAdd error: %v", err)
	}
	if ok {
		t.Error("second sailing boat should not fit")
	}
	if d.BoatCount() != 1 {
		t.Errorf("BoatCount() = %d, want 1", d.BoatCount())
	}
	if d.Slots()[2] != nil {
		t.Error("slot 2 should still be empty")
	}
}

func TestTryAdd_ExclusiveSpanSharesBerth(t *testing.T) {
	d := newDock(t, 6)
	mustAdd(t, d, testutil.Motor(t, "AAA"))
	mustAdd(t, d, testutil.Cargo(t, "BBB"))

	slots := d.Slots()
	for i := 2; i < 5; i++ {
		if slots[i] != slots[1] {
			t.Errorf("slot %d is not the same berth as slot 1", i)
		}
	}
	if slots[1].Span() != 4 {
		t.Errorf("Span() = %d, want 4", slots[1].Span())
	}
	if slots[0] == slots[1] {
		t.Error("motor boat and cargo ship should not share a berth")
	}
	if slots[5] != nil {
		t.Error("slot 5 should be empty")
	}
}

func TestTryAdd_ExclusiveSkipsPartiallyFilledRuns(t *testing.T) {
	d := newDock(t, 5)
	mustAdd(t, d, testutil.Motor(t, "AAA"))  // slot 0
	mustAdd(t, d, testutil.Rowing(t, "BBB")) // slot 1 shared
	cat := testutil.Catamaran(t, "CCC")
	mustAdd(t, d, cat)

	if got := slotOf(t, d, cat); got != 2 {
		t.Errorf("catamaran slot = %d, want 2", got)
	}
}

func TestTryAdd_SharedSumNeverExceedsOne(t *testing.T) {
	d := newDock(t, 3)
	codes := []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF", "GGG"}
	admitted := 0
	for _, code := range codes {
		ok, err := d.TryAdd(testutil.Rowing(t, code))
		if err != nil {
			t.Fatalf("TryAdd error: %v", err)
		}
		if ok {
			admitted++
		}
	}
	if admitted != 6 {
		t.Errorf("admitted = %d, want 6", admitted)
	}
	for i, slot := range d.Slots() {
		sum := 0.0
		if slot != nil {
			for _, o := range slot.Occupancy() {
				sum += o.Boat.BerthSpace()
			}
		}
		if sum > 1 {
			t.Errorf("slot %d holds %v berth space", i, sum)
		}
	}
}

func TestTryAdd_Duplicate(t *testing.T) {
	d := newDock(t, 4)
	mustAdd(t, d, testutil.Motor(t, "AAA"))

	ok, err := d.TryAdd(testutil.Motor(t, "aaa"))
	if ok {
		t.Error("duplicate should not be admitted")
	}
	if !errors.IsDuplicateIdentity(err) {
		t.Errorf("error = %v, want duplicate identity", err)
	}
	if d.BoatCount() != 1 {
		t.Errorf("BoatCount() = %d, want 1", d.BoatCount())
	}
}

func TestTryAdd_SameCodeDifferentKind(t *testing.T) {
	d := newDock(t, 4)
	mustAdd(t, d, testutil.Motor(t, "AAA"))
	mustAdd(t, d, testutil.Rowing(t, "AAA"))

	if d.BoatCount() != 2 {
		t.Errorf("BoatCount() = %d, want 2", d.BoatCount())
	}
}

func TestTryRemove(t *testing.T) {
	d := newDock(t, 5)
	r1 := testutil.Rowing(t, "AAA")
	r2 := testutil.Rowing(t, "BBB")
	s := testutil.Sailing(t, "CCC")
	mustAdd(t, d, r1)
	mustAdd(t, d, r2)
	mustAdd(t, d, s)

	if !d.TryRemove(s) {
		t.Fatal("TryRemove(sailing) = false")
	}
	if d.Slots()[1] != nil || d.Slots()[2] != nil {
		t.Error("sailing boat's slots should be empty")
	}

	if !d.TryRemove(r1) {
		t.Fatal("TryRemove(rowing) = false")
	}
	slot := d.Slots()[0]
	if slot == nil {
		t.Fatal("shared berth should remain while a boat is left")
	}
	if slot.FreeSpace() != 0.5 {
		t.Errorf("FreeSpace() = %v, want 0.5", slot.FreeSpace())
	}

	if !d.TryRemove(r2) {
		t.Fatal("TryRemove(last rowing) = false")
	}
	if d.EmptySlots() != 5 {
		t.Errorf("EmptySlots() = %d, want 5", d.EmptySlots())
	}

	if d.TryRemove(r2) {
		t.Error("removing an absent boat should return false")
	}
}

func TestIncrementTime_Departures(t *testing.T) {
	d := newDock(t, 8)
	row := testutil.Rowing(t, "AAA")
	motor := testutil.Motor(t, "BBB")
	sail := testutil.Sailing(t, "CCC")
	mustAdd(t, d, motor)
	mustAdd(t, d, row)
	mustAdd(t, d, sail)

	d.IncrementTime()
	left := d.LeftToday()
	if len(left) != 1 || left[0] != row {
		t.Fatalf("day 1 LeftToday = %v, want [%s]", left, row)
	}
	if d.Contains(row) {
		t.Error("rowing boat should have left")
	}

	d.IncrementTime()
	if len(d.LeftToday()) != 0 {
		t.Errorf("day 2 LeftToday = %v, want none", d.LeftToday())
	}

	d.IncrementTime()
	left = d.LeftToday()
	if len(left) != 1 || left[0] != motor {
		t.Fatalf("day 3 LeftToday = %v, want [%s]", left, motor)
	}

	d.IncrementTime()
	left = d.LeftToday()
	if len(left) != 1 || left[0] != sail {
		t.Fatalf("day 4 LeftToday = %v, want [%s]", left, sail)
	}
	if d.BoatCount() != 0 || d.EmptySlots() != 8 {
		t.Errorf("dock should be empty, have %d boats", d.BoatCount())
	}
}

func TestIncrementTime_SlotOrder(t *testing.T) {
	d := newDock(t, 4)
	a := testutil.Rowing(t, "AAA")
	b := testutil.Rowing(t, "BBB")
	c := testutil.Rowing(t, "CCC")
	mustAdd(t, d, a)
	mustAdd(t, d, b)
	mustAdd(t, d, c)

	d.IncrementTime()
	left := d.LeftToday()
	if len(left) != 3 {
		t.Fatalf("LeftToday has %d boats, want 3", len(left))
	}
	for i, want := range []*boat.Boat{a, b, c} {
		if left[i] != want {
			t.Errorf("LeftToday[%d] = %s, want %s", i, left[i], want)
		}
	}
}

func TestIncrementTime_ClearsPreviousDepartures(t *testing.T) {
	d := newDock(t, 2)
	mustAdd(t, d, testutil.Rowing(t, "AAA"))
	d.IncrementTime()
	d.IncrementTime()
	if len(d.LeftToday()) != 0 {
		t.Error("LeftToday should only hold the last tick's departures")
	}
}

func TestRestore(t *testing.T) {
	r1 := testutil.Rowing(t, "AAA")
	r2 := testutil.Rowing(t, "BBB")
	cargo := testutil.Cargo(t, "CCC")
	gone := testutil.Motor(t, "DDD")

	d, err := Restore(6, "Unknown", []Placement{
		{Slot: 0, Boat: r1, Days: 0},
		{Slot: 0, Boat: r2, Days: 0},
		{Slot: 2, Boat: cargo, Days: 5},
	}, []*boat.Boat{gone})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if d.Algorithm() != DefaultBerthing {
		t.Errorf("Algorithm() = %q, want %q", d.Algorithm(), DefaultBerthing)
	}
	if d.Slots()[1] != nil {
		t.Error("slot 1 should be empty")
	}
	if got := slotOf(t, d, cargo); got != 2 {
		t.Errorf("cargo slot = %d, want 2", got)
	}
	if len(d.LeftToday()) != 1 || d.LeftToday()[0] != gone {
		t.Errorf("LeftToday = %v, want [%s]", d.LeftToday(), gone)
	}

	d.IncrementTime()
	for _, b := range []*boat.Boat{r1, r2, cargo} {
		if d.Contains(b) {
			t.Errorf("%s should have left after restore and one tick", b)
		}
	}
}

func TestRestore_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		placements func(t *testing.T) []Placement
	}{
		{
			name: "out of range",
			size: 3,
			placements: func(t *testing.T) []Placement {
				return []Placement{{Slot: 1, Boat: testutil.Catamaran(t, "AAA")}}
			},
		},
		{
			name: "overlap",
			size: 4,
			placements: func(t *testing.T) []Placement {
				return []Placement{
					{Slot: 0, Boat: testutil.Sailing(t, "AAA")},
					{Slot: 1, Boat: testutil.Motor(t, "BBB")},
				}
			},
		},
		{
			name: "overfull shared",
			size: 2,
			placements: func(t *testing.T) []Placement {
				return []Placement{
					{Slot: 0, Boat: testutil.Rowing(t, "AAA")},
					{Slot: 0, Boat: testutil.Rowing(t, "BBB")},
					{Slot: 0, Boat: testutil.Rowing(t, "CCC")},
				}
			},
		},
		{
			name: "duplicate",
			size: 4,
			placements: func(t *testing.T) []Placement {
				return []Placement{
					{Slot: 0, Boat: testutil.Motor(t, "AAA")},
					{Slot: 1, Boat: testutil.Motor(t, "AAA")},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Restore(tt.size, DefaultBerthing, tt.placements(t), nil); err == nil {
				t.Error("Restore should fail")
			}
		})
	}
}

func TestBerths_Distinct(t *testing.T) {
	d := newDock(t, 6)
	mustAdd(t, d, testutil.Catamaran(t, "AAA"))
	mustAdd(t, d, testutil.Rowing(t, "BBB"))
	mustAdd(t, d, testutil.Rowing(t, "CCC"))

	berths := d.Berths()
	if len(berths) != 2 {
		t.Fatalf("Berths() = %d, want 2", len(berths))
	}
	if berths[0].Shared() || !berths[1].Shared() {
		t.Error("expected exclusive berth then shared berth")
	}
	if d.BoatCount() != 3 {
		t.Errorf("BoatCount() = %d, want 3", d.BoatCount())
	}
}

func TestFirstFit_HalfFullBerthDoesNotWinFirstPass(t *testing.T) {
	d := newDock(t, 4)
	mustAdd(t, d, testutil.Motor(t, "AAA"))  // slot 0
	mustAdd(t, d, testutil.Rowing(t, "BBB")) // slot 1
	if !d.TryRemove(testutil.Motor(t, "AAA")) {
		t.Fatal("TryRemove failed")
	}

	// The shared berth at 1 has exactly 0.5 free, so the first pass skips
	// it and the second pass stops at the empty slot 0.
	c := testutil.Rowing(t, "CCC")
	mustAdd(t, d, c)
	if got := slotOf(t, d, c); got != 0 {
		t.Errorf("slot = %d, want 0", got)
	}
}

func TestBerthingAlgorithms(t *testing.T) {
	names := BerthingAlgorithms()
	if len(names) == 0 || names[0] != DefaultBerthing {
		t.Errorf("BerthingAlgorithms() = %v", names)
	}
	if _, _, ok := LookupBerthing(DefaultBerthing); !ok {
		t.Error("default algorithm should resolve")
	}
	if _, resolved, ok := LookupBerthing("nope"); ok || resolved != DefaultBerthing {
		t.Errorf("LookupBerthing(nope) = %q, %v", resolved, ok)
	}
}
