package dock

import (
	"sort"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
)

// BerthingAlgorithm picks the slot index where b should berth, or a
// negative value when there is no room. It must not modify slots, and it
// must treat free space the way FreeSpace does.
type BerthingAlgorithm func(b *boat.Boat, slots []Berth) int

// DefaultBerthing is the name of the algorithm used when none is chosen
// or a saved name is unknown.
const DefaultBerthing = "FirstFit"

var berthingAlgorithms = map[string]BerthingAlgorithm{
	DefaultBerthing: FirstFit,
}

// LookupBerthing resolves an algorithm by name. Unknown names resolve to
// the default and ok is false.
func LookupBerthing(name string) (algorithm BerthingAlgorithm, resolved string, ok bool) {
	if a, found := berthingAlgorithms[name]; found {
		return a, name, true
	}
	return berthingAlgorithms[DefaultBerthing], DefaultBerthing, false
}

// BerthingAlgorithms returns the registered algorithm names, sorted.
func BerthingAlgorithms() []string {
	names := make([]string, 0, len(berthingAlgorithms))
	for name := range berthingAlgorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FirstFit places boats at the first eligible slot.
//
// A boat that shares first looks for a shared berth with strictly more
// free space than it needs, then for the first slot that is empty or has
// at least as much free space as it needs. It never searches for a tighter
// fit further along.
//
// Any other boat takes the first run of ceil(BerthSpace) empty slots.
func FirstFit(b *boat.Boat, slots []Berth) int {
	if b.Shares() {
		space := b.BerthSpace()
		for i, slot := range slots {
			if slot != nil && slot.FreeSpace() > space {
				return i
			}
		}
		for i, slot := range slots {
			if FreeSpace(slot) >= space {
				return i
			}
		}
		return -1
	}

	need := b.Slots()
	for i := 0; i+need <= len(slots); i++ {
		free := true
		for j := i; j < i+need; j++ {
			if slots[j] != nil {
				free = false
				break
			}
		}
		if free {
			return i
		}
	}
	return -1
}
