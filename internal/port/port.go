package port

import (
	"fmt"
	"strings"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

// DefaultDockSize is the size of the single dock a Port gets when it is
// built without sizes.
const DefaultDockSize = 64

// DateLayout formats harbor dates.
const DateLayout = "2006-01-02"

// Harbor is the engine contract consumed by every front end.
type Harbor interface {
	// TryAdd offers b to the harbor. It returns false when no dock has
	// room and an error when b's identity is already berthed.
	TryAdd(b *boat.Boat) (bool, error)
	// TryRemove releases b. It returns false if b is not berthed.
	TryRemove(b *boat.Boat) bool
	// IncrementTime advances the harbor by one day.
	IncrementTime()

	Boats() []*boat.Boat
	Docks() []*dock.Dock
	LeftToday() []*boat.Boat
	BoatCount() int
	DockCount() int
	Size() int
	Date() time.Time
	DockChoice() string
}

// Unwrapper is implemented by decorators around a Harbor.
type Unwrapper interface {
	Unwrap() Harbor
}

// Base strips decorators and returns the underlying Port, or nil if h is
// not built on one.
func Base(h Harbor) *Port {
	for h != nil {
		if p, ok := h.(*Port); ok {
			return p
		}
		u, ok := h.(Unwrapper)
		if !ok {
			return nil
		}
		h = u.Unwrap()
	}
	return nil
}

// Port is a fixed set of docks with a dock choice policy and a current
// date.
type Port struct {
	docks      []*dock.Dock
	choice     DockChoice
	choiceName string
	berthing   string
	date       time.Time
}

var _ Harbor = (*Port)(nil)

// Option configures a Port.
type Option func(*Port)

// WithDockChoice selects the dock choice policy by name. Unknown names
// fall back to DefaultDockChoice.
func WithDockChoice(name string) Option {
	return func(p *Port) {
		p.choice, p.choiceName, _ = LookupDockChoice(name)
	}
}

// WithBerthing selects the berthing algorithm for every dock by name.
func WithBerthing(name string) Option {
	return func(p *Port) {
		p.berthing = name
	}
}

// WithStartDate sets the current date. Only the calendar day is kept.
func WithStartDate(t time.Time) Option {
	return func(p *Port) {
		p.date = Day(t)
	}
}

// New creates a Port with one empty dock per size. With no sizes it gets
// a single dock of DefaultDockSize slots.
func New(sizes []int, opts ...Option) (*Port, error) {
	if len(sizes) == 0 {
		sizes = []int{DefaultDockSize}
	}

	p := &Port{
		date:     Day(time.Now()),
		berthing: dock.DefaultBerthing,
	}
	p.choice, p.choiceName, _ = LookupDockChoice(DefaultDockChoice)
	for _, opt := range opts {
		opt(p)
	}

	for i, size := range sizes {
		d, err := dock.New(size, dock.WithBerthing(p.berthing))
		if err != nil {
			return nil, fmt.Errorf("dock %d: %w", i+1, err)
		}
		p.docks = append(p.docks, d)
	}
	return p, nil
}

// Restore assembles a Port from already rebuilt docks.
func Restore(docks []*dock.Dock, choice string, date time.Time) (*Port, error) {
	if len(docks) == 0 {
		return nil, errors.ValidationError("a port needs at least one dock")
	}
	p := &Port{
		docks:    append([]*dock.Dock(nil), docks...),
		date:     Day(date),
		berthing: docks[0].Algorithm(),
	}
	p.choice, p.choiceName, _ = LookupDockChoice(choice)
	return p, nil
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TryAdd offers b to each dock in dock choice order and stops at the
// first that takes it.
func (p *Port) TryAdd(b *boat.Boat) (bool, error) {
	if p.contains(b) {
		return false, errors.DuplicateIdentity(b.IdentityCode(), "port")
	}

	for _, d := range p.choice(p.docks) {
		ok, err := d.TryAdd(b)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (p *Port) contains(b *boat.Boat) bool {
	for _, d := range p.docks {
		if d.Contains(b) {
			return true
		}
	}
	return false
}

// TryRemove releases b from the dock that holds it.
func (p *Port) TryRemove(b *boat.Boat) bool {
	for _, d := range p.docks {
		if d.Contains(b) {
			return d.TryRemove(b)
		}
	}
	return false
}

// IncrementTime ticks every dock in declaration order and advances the
// date by one day.
func (p *Port) IncrementTime() {
	for _, d := range p.docks {
		d.IncrementTime()
	}
	p.date = p.date.AddDate(0, 0, 1)
}

// Find looks up a berthed boat by identity code such as "R-ABC".
// Matching is case-insensitive.
func (p *Port) Find(identity string) (*boat.Boat, bool) {
	identity = strings.TrimSpace(identity)
	for _, b := range p.Boats() {
		if strings.EqualFold(b.IdentityCode(), identity) {
			return b, true
		}
	}
	return nil, false
}

// Boats returns every berthed boat, dock by dock.
func (p *Port) Boats() []*boat.Boat {
	var boats []*boat.Boat
	for _, d := range p.docks {
		boats = append(boats, d.Boats()...)
	}
	return boats
}

// Docks returns the docks in declaration order.
func (p *Port) Docks() []*dock.Dock {
	return append([]*dock.Dock(nil), p.docks...)
}

// LeftToday returns the boats that left during the last tick.
func (p *Port) LeftToday() []*boat.Boat {
	var boats []*boat.Boat
	for _, d := range p.docks {
		boats = append(boats, d.LeftToday()...)
	}
	return boats
}

// BoatCount returns the number of berthed boats.
func (p *Port) BoatCount() int {
	n := 0
	for _, d := range p.docks {
		n += d.BoatCount()
	}
	return n
}

// DockCount returns the number of docks.
func (p *Port) DockCount() int { return len(p.docks) }

// Size returns the total number of slots.
func (p *Port) Size() int {
	n := 0
	for _, d := range p.docks {
		n += d.Size()
	}
	return n
}

// Date returns the current harbor date.
func (p *Port) Date() time.Time { return p.date }

// DockChoice returns the name of the dock choice policy.
func (p *Port) DockChoice() string { return p.choiceName }

// Berthing returns the name of the berthing algorithm new docks use.
func (p *Port) Berthing() string { return p.berthing }

// Sizes returns the size of every dock.
func (p *Port) Sizes() []int {
	sizes := make([]int, len(p.docks))
	for i, d := range p.docks {
		sizes[i] = d.Size()
	}
	return sizes
}
