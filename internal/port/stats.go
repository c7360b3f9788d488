package port

import (
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
)

// Stats summarizes a harbor.
type Stats struct {
	Date         string  `json:"date"`
	Docks        int     `json:"docks"`
	Slots        int     `json:"slots"`
	FreeSlots    int     `json:"freeSlots"`
	FreeFraction float64 `json:"freeFraction"`
	Boats        int     `json:"boats"`
	TotalWeight  int     `json:"totalWeight"`
	AverageSpeed float64 `json:"averageSpeed"`
	LeftToday    int     `json:"leftToday"`
}

// Summarize computes Stats for h. AverageSpeed is 0 for an empty harbor.
func Summarize(h Harbor) Stats {
	s := Stats{
		Date:  h.Date().Format(DateLayout),
		Docks: h.DockCount(),
		Slots: h.Size(),
	}
	for _, d := range h.Docks() {
		s.FreeSlots += d.EmptySlots()
	}
	if s.Slots > 0 {
		s.FreeFraction = float64(s.FreeSlots) / float64(s.Slots)
	}

	boats := h.Boats()
	s.Boats = len(boats)
	speed := 0
	for _, b := range boats {
		s.TotalWeight += b.Weight()
		speed += b.TopSpeed()
	}
	if len(boats) > 0 {
		s.AverageSpeed = float64(speed) / float64(len(boats))
	}
	s.LeftToday = len(h.LeftToday())
	return s
}

// Row is one line of a slot listing. Empty slots have a nil Boat; a
// shared slot yields one row per occupant.
type Row struct {
	Dock     int
	Slot     int
	Boat     *boat.Boat
	Days     int
	DaysLeft int
	Shared   bool
}

// Rows lists every slot of every dock in order.
func Rows(h Harbor) []Row {
	var rows []Row
	for di, d := range h.Docks() {
		for si, slot := range d.Slots() {
			if slot == nil {
				rows = append(rows, Row{Dock: di, Slot: si})
				continue
			}
			for _, o := range slot.Occupancy() {
				rows = append(rows, Row{
					Dock:     di,
					Slot:     si,
					Boat:     o.Boat,
					Days:     o.Days,
					DaysLeft: o.Boat.BerthTime() - o.Days,
					Shared:   slot.Shared(),
				})
			}
		}
	}
	return rows
}
