package cmd

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/app"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/driver"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the harbor simulation",
	Long: `Run the harbor simulation.

Each simulated day, random boats arrive and then time advances by one day.
With --days the given number of days run back to back; otherwise one day
runs per interval until interrupted. The harbor is saved afterwards.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var (
	simDays        int
	simBoatsPerDay int
	simInterval    time.Duration
)

func init() {
	simulateCmd.Flags().IntVarP(&simDays, "days", "d", 0, "Number of days to simulate (0 runs until interrupted)")
	simulateCmd.Flags().IntVarP(&simBoatsPerDay, "boats", "b", 0, "Arrivals per day (default from config)")
	simulateCmd.Flags().DurationVarP(&simInterval, "interval", "i", 0, "Time between days when running continuously (default from config)")
	rootCmd.AddCommand(simulateCmd)
}

// simulateResult is the JSON form of a finished simulation.
type simulateResult struct {
	Days       int           `json:"days"`
	Arrived    int           `json:"arrived"`
	TurnedAway int           `json:"turnedAway"`
	Skipped    int           `json:"skipped"`
	Stats      control.Stats `json:"stats"`
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if simDays < 0 {
		return errors.ValidationError("--days must not be negative")
	}
	boatsPerDay := simBoatsPerDay
	if boatsPerDay <= 0 {
		boatsPerDay = cfg().Simulation.BoatsPerDay
	}
	interval := simInterval
	if interval <= 0 {
		interval = cfg().Simulation.Interval.Duration
	}

	return withHarbor(cmd, true, func(ctl *control.Control) error {
		var total simulateResult
		sim := driver.NewSimulation(ctl, interval,
			driver.WithBoatsPerDay(boatsPerDay),
			driver.WithRand(app.Default.Rand),
			driver.OnDay(func(r driver.DayReport) {
				total.Days++
				total.Arrived += r.Arrived
				total.TurnedAway += r.TurnedAway
				total.Skipped += r.Skipped
				if !jsonOutput {
					logInfo("%s: %d berthed, %d turned away", ctl.Stats().Date, r.Arrived, r.TurnedAway)
				}
			}))

		if simDays > 0 {
			for i := 0; i < simDays && cmd.Context().Err() == nil; i++ {
				sim.Day(cmd.Context())
			}
		} else {
			logInfo("Simulating one day every %s, press Ctrl-C to stop", interval)
			if err := sim.Run(cmd.Context()); err != nil && !stderrors.Is(err, context.Canceled) {
				return err
			}
		}

		total.Stats = ctl.Stats()
		if jsonOutput {
			return printJSON(cmd, total)
		}
		logSuccess("Simulated %d days: %d berthed, %d turned away", total.Days, total.Arrived, total.TurnedAway)
		return writeStats(cmd.OutOrStdout(), total.Stats)
	})
}
