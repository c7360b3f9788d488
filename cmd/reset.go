package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Empty the harbor, optionally with new dock sizes",
	Long: `Empty the harbor. The date carries over.

Without --docks the current dock sizes are kept.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetDocks []int

func init() {
	resetCmd.Flags().IntSliceVar(&resetDocks, "docks", nil, "New dock sizes, e.g. --docks 32,16")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	return withHarbor(cmd, true, func(ctl *control.Control) error {
		if err := ctl.Reset(resetDocks); err != nil {
			return err
		}
		s := ctl.Stats()
		if jsonOutput {
			return printJSON(cmd, s)
		}
		logSuccess("Harbor reset: %d docks, %d slots", s.Docks, s.Slots)
		return nil
	})
}
