package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/health"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
)

// boatJSON is the JSON form of a boat in command output.
type boatJSON struct {
	boat.Data
	Identity   string  `json:"identity"`
	BerthSpace float64 `json:"berthSpace"`
	BerthTime  int     `json:"berthTime"`
}

func boatsJSON(boats []*boat.Boat) []boatJSON {
	out := make([]boatJSON, 0, len(boats))
	for _, b := range boats {
		out = append(out, boatJSON{
			Data:       b.Data(),
			Identity:   b.IdentityCode(),
			BerthSpace: b.BerthSpace(),
			BerthTime:  b.BerthTime(),
		})
	}
	return out
}

func writeStats(w io.Writer, s control.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Date:\t%s\n", s.Date)
	fmt.Fprintf(tw, "Docks:\t%d\n", s.Docks)
	fmt.Fprintf(tw, "Slots:\t%d (%d free, %.0f%%)\n", s.Slots, s.FreeSlots, s.FreeFraction*100)
	fmt.Fprintf(tw, "Boats:\t%d\n", s.Boats)
	fmt.Fprintf(tw, "Total weight:\t%d kg\n", s.TotalWeight)
	fmt.Fprintf(tw, "Average speed:\t%.1f knots\n", s.AverageSpeed)
	fmt.Fprintf(tw, "Left today:\t%d\n", s.LeftToday)
	fmt.Fprintf(tw, "Turned away:\t%d\n", s.TurnedAway)
	return tw.Flush()
}

func writeHealth(w io.Writer, h *health.CheckResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Health:\t%s\n", formatStatus(h.Status))
	for _, p := range h.Problems {
		fmt.Fprintf(tw, "\t%s\n", p)
	}
	return tw.Flush()
}

func formatStatus(status health.Status) string {
	switch status {
	case health.StatusHealthy:
		return "✓ healthy"
	case health.StatusUnhealthy:
		return "⚠ unhealthy"
	case health.StatusFull:
		return "● full"
	default:
		return string(status)
	}
}

func writeBoats(w io.Writer, boats []*boat.Boat) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tWEIGHT\tSPEED\tCHARACTERISTIC\tSPACE\tDAYS")
	fmt.Fprintln(tw, "--\t----\t------\t-----\t--------------\t-----\t----")
	for _, b := range boats {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s=%d\t%g\t%d\n",
			b.IdentityCode(), b.Kind().Spec().Display, b.Weight(), b.TopSpeed(),
			b.Characteristic(), b.CharacteristicValue(), b.BerthSpace(), b.BerthTime())
	}
	return tw.Flush()
}

func writeSlots(w io.Writer, rows []port.Row, showEmpty bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCK\tSLOT\tBOAT\tKIND\tDAYS\tLEFT\tSHARED")
	fmt.Fprintln(tw, "----\t----\t----\t----\t----\t----\t------")
	for _, r := range rows {
		if r.Boat == nil {
			if showEmpty {
				fmt.Fprintf(tw, "%d\t%d\t-\t\t\t\t\n", r.Dock, r.Slot)
			}
			continue
		}
		shared := ""
		if r.Shared {
			shared = "yes"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%d\t%s\n",
			r.Dock, r.Slot, r.Boat.IdentityCode(), r.Boat.Kind().Spec().Display, r.Days, r.DaysLeft, shared)
	}
	return tw.Flush()
}

func writeKinds(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PREFIX\tKIND\tALIAS\tWEIGHT\tSPEED\tCHARACTERISTIC\tSPACE\tDAYS")
	fmt.Fprintln(tw, "------\t----\t-----\t------\t-----\t--------------\t-----\t----")
	for _, k := range boat.Kinds() {
		s := k.Spec()
		fmt.Fprintf(tw, "%c\t%s\t%s\t%s\t%s\t%s %s\t%g\t%d\n",
			s.Prefix, s.Display, s.Alias, s.Weight, s.TopSpeed, s.CharacteristicName, s.Characteristic, s.BerthSpace, s.BerthTime)
	}
	return tw.Flush()
}

func writeLines(w io.Writer, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
