package dock

import (
	"fmt"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

// Placement records where an occupant sits. Exclusive berths report their
// first slot.
type Placement struct {
	Slot int
	Boat *boat.Boat
	Days int
}

// Dock is a fixed-length row of slots.
type Dock struct {
	slots         []Berth
	leftToday     []*boat.Boat
	algorithm     BerthingAlgorithm
	algorithmName string
}

// Option configures a Dock.
type Option func(*Dock)

// WithBerthing selects a berthing algorithm by name. Unknown names fall
// back to DefaultBerthing.
func WithBerthing(name string) Option {
	return func(d *Dock) {
		d.algorithm, d.algorithmName, _ = LookupBerthing(name)
	}
}

// New creates an empty dock with size slots.
func New(size int, opts ...Option) (*Dock, error) {
	if size < 1 {
		return nil, errors.ValidationError(fmt.Sprintf("dock size must be positive (got %d)", size))
	}
	d := &Dock{slots: make([]Berth, size)}
	d.algorithm, d.algorithmName, _ = LookupBerthing(DefaultBerthing)
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Restore rebuilds a dock from saved placements. Placements are applied
// in order at their recorded slots and day counts.
func Restore(size int, algorithm string, placements []Placement, leftToday []*boat.Boat) (*Dock, error) {
	d, err := New(size, WithBerthing(algorithm))
	if err != nil {
		return nil, err
	}
	for _, p := range placements {
		if err := d.Place(p.Boat, p.Slot, p.Days); err != nil {
			return nil, err
		}
	}
	d.leftToday = append([]*boat.Boat(nil), leftToday...)
	return d, nil
}

// Size returns the number of slots.
func (d *Dock) Size() int { return len(d.slots) }

// Algorithm returns the name of the berthing algorithm in use.
func (d *Dock) Algorithm() string { return d.algorithmName }

// SetAlgorithm swaps the berthing algorithm.
func (d *Dock) SetAlgorithm(algorithm BerthingAlgorithm, name string) {
	d.algorithm = algorithm
	d.algorithmName = name
}

// Slots returns a copy of the slot array. Empty slots are nil.
func (d *Dock) Slots() []Berth {
	out := make([]Berth, len(d.slots))
	copy(out, d.slots)
	return out
}

// Berths returns each distinct berth once, in slot order.
func (d *Dock) Berths() []Berth {
	var berths []Berth
	var prev Berth
	for _, slot := range d.slots {
		if slot == nil || slot == prev {
			continue
		}
		berths = append(berths, slot)
		prev = slot
	}
	return berths
}

// Occupants returns every occupant with the first slot of its berth, in
// slot order then insertion order.
func (d *Dock) Occupants() []Placement {
	var out []Placement
	var prev Berth
	for i, slot := range d.slots {
		if slot == nil || slot == prev {
			continue
		}
		for _, o := range slot.Occupancy() {
			out = append(out, Placement{Slot: i, Boat: o.Boat, Days: o.Days})
		}
		prev = slot
	}
	return out
}

// Boats returns every berthed boat.
func (d *Dock) Boats() []*boat.Boat {
	var boats []*boat.Boat
	for _, berth := range d.Berths() {
		for _, o := range berth.Occupancy() {
			boats = append(boats, o.Boat)
		}
	}
	return boats
}

// BoatCount returns the number of berthed boats.
func (d *Dock) BoatCount() int {
	return len(d.Boats())
}

// EmptySlots returns the number of completely empty slots.
func (d *Dock) EmptySlots() int {
	n := 0
	for _, slot := range d.slots {
		if slot == nil {
			n++
		}
	}
	return n
}

// LeftToday returns the boats that left during the last tick.
func (d *Dock) LeftToday() []*boat.Boat {
	return append([]*boat.Boat(nil), d.leftToday...)
}

// Contains reports whether a boat with b's identity is berthed here.
func (d *Dock) Contains(b *boat.Boat) bool {
	for _, berth := range d.Berths() {
		if berth.contains(b) {
			return true
		}
	}
	return false
}

// TryAdd berths b using the dock's algorithm.
func (d *Dock) TryAdd(b *boat.Boat) (bool, error) {
	return d.TryAddWith(b, d.algorithm)
}

// TryAddWith berths b using algorithm. It returns false without changing
// the dock when there is no room, and an error when a boat with the same
// identity is already berthed here.
func (d *Dock) TryAddWith(b *boat.Boat, algorithm BerthingAlgorithm) (bool, error) {
	if d.Contains(b) {
		return false, errors.DuplicateIdentity(b.IdentityCode(), "dock")
	}

	index := algorithm(b, d.slots)
	if index < 0 {
		return false, nil
	}
	if err := d.place(b, index, 0); err != nil {
		return false, fmt.Errorf("berthing algorithm chose an invalid slot: %w", err)
	}
	return true, nil
}

// Place berths b at slot index with the given day count. It is used to
// restore saved state and fails if the slot cannot take the boat.
func (d *Dock) Place(b *boat.Boat, index, days int) error {
	if d.Contains(b) {
		return errors.DuplicateIdentity(b.IdentityCode(), "dock")
	}
	return d.place(b, index, days)
}

func (d *Dock) place(b *boat.Boat, index, days int) error {
	need := b.Slots()
	if index < 0 || index+need > len(d.slots) {
		return fmt.Errorf("slot %d out of range for %s in dock of size %d", index, b.IdentityCode(), len(d.slots))
	}

	if b.Shares() {
		if d.slots[index] == nil {
			d.slots[index] = newShared(b, days)
			return nil
		}
		return d.slots[index].add(b, days)
	}

	for i := index; i < index+need; i++ {
		if d.slots[i] != nil {
			return fmt.Errorf("slot %d is occupied", i)
		}
	}
	berth := newExclusive(b, days)
	for i := index; i < index+need; i++ {
		d.slots[i] = berth
	}
	return nil
}

// TryRemove releases b's berth. It returns false if b is not here.
func (d *Dock) TryRemove(b *boat.Boat) bool {
	for i, slot := range d.slots {
		if slot == nil || !slot.contains(b) {
			continue
		}
		span := slot.Span()
		next := slot.remove(b)
		for j := i; j < i+span; j++ {
			d.slots[j] = next
		}
		return true
	}
	return false
}

// IncrementTime ages every occupant by one day and removes those whose
// stay is over. The departures are available from LeftToday until the
// next tick.
func (d *Dock) IncrementTime() {
	d.leftToday = nil
	for _, berth := range d.Berths() {
		berth.tick()
		for _, o := range berth.Occupancy() {
			if o.Days >= o.Boat.BerthTime() {
				d.leftToday = append(d.leftToday, o.Boat)
			}
		}
	}

	for _, b := range d.leftToday {
		d.TryRemove(b)
	}
}
