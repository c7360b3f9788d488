package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Advance the harbor by one or more days",
	Long: `Advance the harbor by one or more days.

Every berthed boat gains a day; boats that have stayed their full berth
time leave the port.`,
	Args: cobra.NoArgs,
	RunE: runTick,
}

var tickDays int

func init() {
	tickCmd.Flags().IntVarP(&tickDays, "days", "d", 1, "Number of days to advance")
	rootCmd.AddCommand(tickCmd)
}

// tickResult is the JSON form of a tick.
type tickResult struct {
	Date string     `json:"date"`
	Left []boatJSON `json:"left"`
}

func runTick(cmd *cobra.Command, args []string) error {
	if err := control.CheckTickDays(tickDays); err != nil {
		return err
	}
	return withHarbor(cmd, true, func(ctl *control.Control) error {
		left := ctl.TickDays(tickDays)
		date := ctl.Stats().Date

		if jsonOutput {
			return printJSON(cmd, tickResult{Date: date, Left: boatsJSON(left)})
		}
		logSuccess("Date is now %s", date)
		for _, b := range left {
			logInfo("%s left the port", b.IdentityCode())
		}
		return nil
	})
}
