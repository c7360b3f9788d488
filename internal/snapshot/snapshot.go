// Package snapshot captures a harbor as a serializable document and
// rebuilds harbors from it.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
)

// Snapshot is the saved state of a harbor. Fields added by later
// versions must be optional; unknown fields are ignored when decoding.
type Snapshot struct {
	Docks      []Dock      `json:"docks"`
	DockChoice string      `json:"dockChoiceAlgorithm"`
	Date       time.Time   `json:"date"`
	TurnedAway []boat.Data `json:"turnedAway,omitempty"`
}

// Dock is the saved state of one dock.
type Dock struct {
	Size      int         `json:"size"`
	Berthing  string      `json:"berthingAlgorithm"`
	Boats     []Entry     `json:"boats"`
	LeftToday []boat.Data `json:"leftToday"`
}

// Entry is one occupant. Exclusive berths are recorded at their first
// slot.
type Entry struct {
	Index       int       `json:"index"`
	Boat        boat.Data `json:"boat"`
	DaysBerthed int       `json:"daysBerthed"`
}

// Capture records the state of h and the turned-away boats.
func Capture(h port.Harbor, turnedAway []*boat.Boat) Snapshot {
	s := Snapshot{
		DockChoice: h.DockChoice(),
		Date:       h.Date(),
		TurnedAway: dataOf(turnedAway),
	}
	for _, d := range h.Docks() {
		dd := Dock{
			Size:      d.Size(),
			Berthing:  d.Algorithm(),
			Boats:     []Entry{},
			LeftToday: dataOf(d.LeftToday()),
		}
		if dd.LeftToday == nil {
			dd.LeftToday = []boat.Data{}
		}
		for _, p := range d.Occupants() {
			dd.Boats = append(dd.Boats, Entry{
				Index:       p.Slot,
				Boat:        p.Boat.Data(),
				DaysBerthed: p.Days,
			})
		}
		s.Docks = append(s.Docks, dd)
	}
	return s
}

func dataOf(boats []*boat.Boat) []boat.Data {
	if len(boats) == 0 {
		return nil
	}
	out := make([]boat.Data, len(boats))
	for i, b := range boats {
		out[i] = b.Data()
	}
	return out
}

// Restore rebuilds a Port and the turned-away list from s. Unknown
// algorithm names fall back to the defaults. A boat code that appears
// more than once across the docks is rejected.
func Restore(s Snapshot) (*port.Port, []*boat.Boat, error) {
	docks := make([]*dock.Dock, 0, len(s.Docks))
	seen := make(map[string]bool)
	for i, dd := range s.Docks {
		placements := make([]dock.Placement, 0, len(dd.Boats))
		for _, e := range dd.Boats {
			b, err := boat.FromData(e.Boat)
			if err != nil {
				return nil, nil, fmt.Errorf("dock %d slot %d: %w", i+1, e.Index, err)
			}
			code := strings.ToUpper(b.IdentityCode())
			if seen[code] {
				return nil, nil, fmt.Errorf("dock %d slot %d: %w", i+1, e.Index, errors.DuplicateIdentity(b.IdentityCode(), "port"))
			}
			seen[code] = true
			placements = append(placements, dock.Placement{Slot: e.Index, Boat: b, Days: e.DaysBerthed})
		}
		left, err := boatsOf(dd.LeftToday)
		if err != nil {
			return nil, nil, fmt.Errorf("dock %d departures: %w", i+1, err)
		}
		d, err := dock.Restore(dd.Size, dd.Berthing, placements, left)
		if err != nil {
			return nil, nil, fmt.Errorf("dock %d: %w", i+1, err)
		}
		docks = append(docks, d)
	}

	p, err := port.Restore(docks, s.DockChoice, s.Date)
	if err != nil {
		return nil, nil, err
	}
	turnedAway, err := boatsOf(s.TurnedAway)
	if err != nil {
		return nil, nil, fmt.Errorf("turned away: %w", err)
	}
	return p, turnedAway, nil
}

func boatsOf(data []boat.Data) ([]*boat.Boat, error) {
	var boats []*boat.Boat
	for _, d := range data {
		b, err := boat.FromData(d)
		if err != nil {
			return nil, err
		}
		boats = append(boats, b)
	}
	return boats, nil
}

// Encode renders s as indented JSON.
func Encode(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a snapshot document.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}
