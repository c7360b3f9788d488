package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/app"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/snapshot"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved snapshots (sqlite backend)",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of snapshots to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := app.Default.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	db, ok := store.(*snapshot.SQLiteStore)
	if !ok {
		return errors.ConfigError("history needs the sqlite persistence backend", nil)
	}
	records, err := db.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		if records == nil {
			records = []snapshot.Record{}
		}
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		logInfo("No snapshots saved yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSAVED\tHARBOR DATE\tBOATS")
	fmt.Fprintln(w, "--\t-----\t-----------\t-----")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.ID, r.SavedAt.Local().Format("2006-01-02 15:04:05"), r.Date.Format(port.DateLayout), r.Boats)
	}
	return w.Flush()
}
