package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/gateway"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/health"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/monitor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the harbor over HTTP",
	Long: `Serve the harbor over HTTP until interrupted.

The gateway exposes a JSON API for boats, slots, ticks, the simulation
driver and persistence, plus /healthz and Prometheus /metrics. The harbor
is saved on shutdown.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr          string
	serveSimulate      bool
	serveCheckInterval time.Duration
	serveAutoSave      bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveSimulate, "simulate", false, "Start the simulation driver immediately")
	serveCmd.Flags().DurationVar(&serveCheckInterval, "check-interval", 30*time.Second, "Health check interval (0 disables the monitor)")
	serveCmd.Flags().BoolVar(&serveAutoSave, "autosave", false, "Save the harbor on every health check")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg().Server.Addr
	}
	return withHarbor(cmd, true, func(ctl *control.Control) error {
		if serveSimulate {
			ctl.StartSimulation(cmd.Context())
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if serveCheckInterval > 0 {
			mon := monitor.New(serveCheckInterval, ctl,
				monitor.WithAutoSave(serveAutoSave),
				monitor.OnChange(func(prev, next *health.CheckResult) {
					if prev != nil {
						logInfo("Harbor health: %s", formatStatus(next.Status))
					}
				}))
			go func() { _ = mon.Run(ctx) }()
		}
		logInfo("Serving harbor on %s", addr)
		return gateway.NewServer(ctl).ListenAndServe(ctx, addr)
	})
}
