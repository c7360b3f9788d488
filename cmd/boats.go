package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
)

var boatsCmd = &cobra.Command{
	Use:     "boats",
	Aliases: []string{"ls"},
	Short:   "List berthed boats",
	Args:    cobra.NoArgs,
	RunE:    runBoats,
}

var boatsTurnedAway bool

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List every dock slot and its occupants",
	Args:  cobra.NoArgs,
	RunE:  runSlots,
}

var slotsAll bool

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List boat kinds and their limits",
	Args:  cobra.NoArgs,
	RunE:  runKinds,
}

func init() {
	boatsCmd.Flags().BoolVar(&boatsTurnedAway, "turned-away", false, "List boats turned away instead")
	slotsCmd.Flags().BoolVarP(&slotsAll, "all", "a", false, "Include empty slots")
	rootCmd.AddCommand(boatsCmd)
	rootCmd.AddCommand(slotsCmd)
	rootCmd.AddCommand(kindsCmd)
}

func runBoats(cmd *cobra.Command, args []string) error {
	return withHarbor(cmd, false, func(ctl *control.Control) error {
		var boats []*boat.Boat
		if boatsTurnedAway {
			boats = ctl.TurnedAway()
		} else {
			ctl.View(func(h port.Harbor) { boats = h.Boats() })
		}

		if jsonOutput {
			return printJSON(cmd, boatsJSON(boats))
		}
		if len(boats) == 0 {
			logInfo("No boats found.")
			return nil
		}
		return writeBoats(cmd.OutOrStdout(), boats)
	})
}

// slotJSON is the JSON form of a slot row.
type slotJSON struct {
	Dock     int       `json:"dock"`
	Slot     int       `json:"slot"`
	Boat     *boatJSON `json:"boat,omitempty"`
	Days     int       `json:"days,omitempty"`
	DaysLeft int       `json:"daysLeft,omitempty"`
	Shared   bool      `json:"shared,omitempty"`
}

func runSlots(cmd *cobra.Command, args []string) error {
	return withHarbor(cmd, false, func(ctl *control.Control) error {
		rows := ctl.Rows()
		if !jsonOutput {
			return writeSlots(cmd.OutOrStdout(), rows, slotsAll)
		}

		out := make([]slotJSON, 0, len(rows))
		for _, r := range rows {
			if r.Boat == nil && !slotsAll {
				continue
			}
			s := slotJSON{Dock: r.Dock, Slot: r.Slot}
			if r.Boat != nil {
				bj := boatsJSON([]*boat.Boat{r.Boat})[0]
				s.Boat = &bj
				s.Days = r.Days
				s.DaysLeft = r.DaysLeft
				s.Shared = r.Shared
			}
			out = append(out, s)
		}
		return printJSON(cmd, out)
	})
}

// kindJSON is the JSON form of a boat kind.
type kindJSON struct {
	Name           string  `json:"name"`
	Display        string  `json:"display"`
	Prefix         string  `json:"prefix"`
	Weight         string  `json:"weight"`
	TopSpeed       string  `json:"topSpeed"`
	Characteristic string  `json:"characteristic"`
	Range          string  `json:"characteristicRange"`
	BerthSpace     float64 `json:"berthSpace"`
	BerthTime      int     `json:"berthTime"`
}

func runKinds(cmd *cobra.Command, args []string) error {
	if !jsonOutput {
		return writeKinds(cmd.OutOrStdout())
	}
	out := make([]kindJSON, 0, len(boat.Kinds()))
	for _, k := range boat.Kinds() {
		s := k.Spec()
		out = append(out, kindJSON{
			Name:           s.Name,
			Display:        s.Display,
			Prefix:         string(s.Prefix),
			Weight:         s.Weight.String(),
			TopSpeed:       s.TopSpeed.String(),
			Characteristic: s.CharacteristicName,
			Range:          s.Characteristic.String(),
			BerthSpace:     s.BerthSpace,
			BerthTime:      s.BerthTime,
		})
	}
	return printJSON(cmd, out)
}
