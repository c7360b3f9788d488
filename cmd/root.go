package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/app"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/config"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
	stateDir   string
)

var rootCmd = &cobra.Command{
	Use:   "harbor-ctl",
	Short: "Firefly Harbor berth allocation CLI",
	Long: `harbor-ctl runs a harbor: boats arrive, are berthed in dock slots,
stay for a fixed number of days and leave.

Each harbor has:
  - One or more docks of numbered slots
  - Five boat kinds, each with its own berth space and stay
  - An append-only audit log of arrivals, removals and departures
  - A snapshot saved after every change`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
		logging.SetUserOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if stateDir != "" {
			cfg.StateDir = stateDir
		}
		app.Default.Config = cfg
		return nil
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs and results in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Path to harbor.toml")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Override the state directory from the config")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
