package testutil

import (
	"math/rand/v2"
	"testing"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
)

// NewBoat builds a boat of kind with the given code and mid-range values.
func NewBoat(t testing.TB, kind boat.Kind, code string) *boat.Boat {
	t.Helper()

	s := kind.Spec()
	b, err := boat.NewWithCode(kind, code,
		mid(s.Weight), mid(s.TopSpeed), mid(s.Characteristic))
	if err != nil {
		t.Fatalf("Failed to build %s %s: %v", kind, code, err)
	}
	return b
}

func mid(r boat.Range) int {
	return r.Min + (r.Max-r.Min)/2
}

// Rowing builds a rowing boat (berth space 0.5, one day).
func Rowing(t testing.TB, code string) *boat.Boat {
	t.Helper()
	return NewBoat(t, boat.Rowing, code)
}

// Motor builds a motor boat (one slot, three days).
func Motor(t testing.TB, code string) *boat.Boat {
	t.Helper()
	return NewBoat(t, boat.Motor, code)
}

// Sailing builds a sailing boat (two slots, four days).
func Sailing(t testing.TB, code string) *boat.Boat {
	t.Helper()
	return NewBoat(t, boat.Sailing, code)
}

// Catamaran builds a catamaran (three slots, three days).
func Catamaran(t testing.TB, code string) *boat.Boat {
	t.Helper()
	return NewBoat(t, boat.Catamaran, code)
}

// Cargo builds a cargo ship (four slots, six days).
func Cargo(t testing.TB, code string) *boat.Boat {
	t.Helper()
	return NewBoat(t, boat.Cargo, code)
}

// Rand returns a deterministic random source.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
