package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Remove boats from the harbor by identity code",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	return withHarbor(cmd, true, func(ctl *control.Control) error {
		var (
			removed  []*boat.Boat
			firstErr error
		)
		for _, id := range args {
			b, err := ctl.Remove(id)
			if err != nil {
				logError("%v", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			removed = append(removed, b)
			if !jsonOutput {
				logSuccess("%s was removed from the harbor", b.IdentityCode())
			}
		}
		if jsonOutput {
			if err := printJSON(cmd, boatsJSON(removed)); err != nil {
				return err
			}
		}
		return firstErr
	})
}
