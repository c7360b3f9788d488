package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
)

// kindColors gives every boat kind its own cell color.
var kindColors = map[boat.Kind]lipgloss.Color{
	boat.Rowing:    lipgloss.Color("114"),
	boat.Motor:     lipgloss.Color("39"),
	boat.Sailing:   lipgloss.Color("220"),
	boat.Catamaran: lipgloss.Color("170"),
	boat.Cargo:     lipgloss.Color("208"),
}

var (
	emptyCellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	dockLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("241")).
			Width(9)
)

// cellRune returns the glyph for one slot. Empty slots are dots; a shared
// slot with room left is lowercase.
func cellRune(slot dock.Berth) rune {
	if slot == nil {
		return '·'
	}
	occ := slot.Occupancy()
	if len(occ) == 0 {
		return '·'
	}
	r := rune(occ[0].Boat.Kind().Spec().Prefix)
	if slot.Shared() && dock.FreeSpace(slot) > 0 {
		r = r + ('a' - 'A')
	}
	return r
}

func renderCell(slot dock.Berth) string {
	r := string(cellRune(slot))
	if slot == nil || len(slot.Occupancy()) == 0 {
		return emptyCellStyle.Render(r)
	}
	color := kindColors[slot.Occupancy()[0].Boat.Kind()]
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(r)
}

// renderDock draws one dock as a labelled row of cells, wrapped at width
// cells per line.
func renderDock(index int, d *dock.Dock, width int) string {
	if width <= 0 {
		width = 64
	}
	var lines []string
	var line strings.Builder
	for i, slot := range d.Slots() {
		if i > 0 && i%width == 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
		line.WriteString(renderCell(slot))
	}
	lines = append(lines, line.String())

	label := dockLabelStyle.Render(fmt.Sprintf("Dock %d", index))
	pad := strings.Repeat(" ", lipgloss.Width(label))
	for i := range lines {
		if i == 0 {
			lines[i] = label + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// renderGrid draws every dock.
func renderGrid(docks []*dock.Dock, width int) string {
	cells := width - lipgloss.Width(dockLabelStyle.Render("")) - 2
	parts := make([]string, 0, len(docks))
	for i, d := range docks {
		parts = append(parts, renderDock(i, d, cells))
	}
	return strings.Join(parts, "\n")
}

// legend names the glyph of each kind.
func legend() string {
	parts := make([]string, 0, len(boat.Kinds()))
	for _, k := range boat.Kinds() {
		s := k.Spec()
		glyph := lipgloss.NewStyle().Foreground(kindColors[k]).Bold(true).Render(string(s.Prefix))
		parts = append(parts, glyph+" "+s.Display)
	}
	return strings.Join(parts, "  ")
}
