package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/health"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show harbor statistics and health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusResult is the JSON form of the status command.
type statusResult struct {
	control.Stats
	Health *health.CheckResult `json:"health"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withHarbor(cmd, false, func(ctl *control.Control) error {
		stats := ctl.Stats()
		result := health.Check(cmd.Context(), ctl, time.Time{})

		if jsonOutput {
			return printJSON(cmd, statusResult{Stats: stats, Health: result})
		}
		if err := writeStats(cmd.OutOrStdout(), stats); err != nil {
			return err
		}
		return writeHealth(cmd.OutOrStdout(), result)
	})
}
