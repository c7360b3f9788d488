package port

import (
	"sort"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
)

// DockChoice orders the docks a boat is offered to. It returns a new slice
// and must not modify the docks.
type DockChoice func(docks []*dock.Dock) []*dock.Dock

// DefaultDockChoice is used when no choice is configured or a saved name
// is unknown.
const DefaultDockChoice = "Emptiest"

var dockChoices = map[string]DockChoice{
	DefaultDockChoice: Emptiest,
	"InOrder":         InOrder,
}

// LookupDockChoice resolves a dock choice by name. Unknown names resolve
// to the default and ok is false.
func LookupDockChoice(name string) (choice DockChoice, resolved string, ok bool) {
	if c, found := dockChoices[name]; found {
		return c, name, true
	}
	return dockChoices[DefaultDockChoice], DefaultDockChoice, false
}

// DockChoices returns the registered dock choice names, sorted.
func DockChoices() []string {
	names := make([]string, 0, len(dockChoices))
	for name := range dockChoices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Emptiest offers the dock with the most completely empty slots first.
// Docks with the same count keep their declaration order.
func Emptiest(docks []*dock.Dock) []*dock.Dock {
	out := InOrder(docks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EmptySlots() > out[j].EmptySlots()
	})
	return out
}

// InOrder offers docks in declaration order.
func InOrder(docks []*dock.Dock) []*dock.Dock {
	out := make([]*dock.Dock, len(docks))
	copy(out, docks)
	return out
}
