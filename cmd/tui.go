package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive harbor dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return withHarbor(cmd, true, func(ctl *control.Control) error {
		// Log lines would tear the alternate screen.
		logging.Setup(false, false, io.Discard)
		return tui.Run(cmd.Context(), ctl)
	})
}
