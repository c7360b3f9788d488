package dock

import (
	"fmt"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
)

// Occupant is a berthed boat and the number of days it has been berthed.
type Occupant struct {
	Boat *boat.Boat
	Days int
}

// Berth is the occupancy bound to one slot or a run of slots. The set of
// implementations is closed: an exclusive berth holding one boat across
// one or more slots, or a shared berth holding several small boats in one
// slot.
type Berth interface {
	// FreeSpace is the capacity still available in the slot.
	FreeSpace() float64
	// Occupancy lists the boats in insertion order.
	Occupancy() []Occupant
	// Span is the number of slots the berth covers.
	Span() int
	// Shared reports whether this is a shared berth.
	Shared() bool

	add(b *boat.Boat, days int) error
	remove(b *boat.Boat) Berth
	contains(b *boat.Boat) bool
	tick()
}

// FreeSpace returns the free capacity of a slot. An empty slot has 1.
func FreeSpace(slot Berth) float64 {
	if slot == nil {
		return 1
	}
	return slot.FreeSpace()
}

type exclusiveBerth struct {
	occupant Occupant
}

func newExclusive(b *boat.Boat, days int) *exclusiveBerth {
	return &exclusiveBerth{occupant: Occupant{Boat: b, Days: days}}
}

func (e *exclusiveBerth) FreeSpace() float64 { return 0 }

func (e *exclusiveBerth) Occupancy() []Occupant { return []Occupant{e.occupant} }

func (e *exclusiveBerth) Span() int { return e.occupant.Boat.Slots() }

func (e *exclusiveBerth) Shared() bool { return false }

func (e *exclusiveBerth) add(b *boat.Boat, _ int) error {
	return fmt.Errorf("no free space to add %s", b.IdentityCode())
}

// remove always empties the berth across its full span.
func (e *exclusiveBerth) remove(*boat.Boat) Berth { return nil }

func (e *exclusiveBerth) contains(b *boat.Boat) bool {
	return e.occupant.Boat.SameIdentity(b)
}

func (e *exclusiveBerth) tick() { e.occupant.Days++ }

// sharedBerth keeps the sum of its members' berth space at or below 1.
type sharedBerth struct {
	occupants []Occupant
	free      float64
}

func newShared(b *boat.Boat, days int) *sharedBerth {
	return &sharedBerth{
		occupants: []Occupant{{Boat: b, Days: days}},
		free:      1 - b.BerthSpace(),
	}
}

func (s *sharedBerth) FreeSpace() float64 { return s.free }

func (s *sharedBerth) Occupancy() []Occupant {
	out := make([]Occupant, len(s.occupants))
	copy(out, s.occupants)
	return out
}

func (s *sharedBerth) Span() int { return 1 }

func (s *sharedBerth) Shared() bool { return true }

func (s *sharedBerth) add(b *boat.Boat, days int) error {
	if !b.Shares() {
		return fmt.Errorf("%s cannot share a berth", b.IdentityCode())
	}
	if s.free < b.BerthSpace() {
		return fmt.Errorf("not enough space to add %s", b.IdentityCode())
	}
	s.occupants = append(s.occupants, Occupant{Boat: b, Days: days})
	s.free -= b.BerthSpace()
	return nil
}

// remove returns the berth itself while other boats remain, else nil.
func (s *sharedBerth) remove(b *boat.Boat) Berth {
	for i, o := range s.occupants {
		if !o.Boat.SameIdentity(b) {
			continue
		}
		s.occupants = append(s.occupants[:i], s.occupants[i+1:]...)
		if len(s.occupants) == 0 {
			return nil
		}
		s.free += o.Boat.BerthSpace()
		return s
	}
	return s
}

func (s *sharedBerth) contains(b *boat.Boat) bool {
	for _, o := range s.occupants {
		if o.Boat.SameIdentity(b) {
			return true
		}
	}
	return false
}

func (s *sharedBerth) tick() {
	for i := range s.occupants {
		s.occupants[i].Days++
	}
}
