package cmd

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/app"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/snapshot"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and an empty harbor",
	Long: `Create an empty harbor in the state directory.

The config file is written with the current settings if it does not exist.
An existing saved harbor is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initDocks []int
	initForce bool
)

func init() {
	initCmd.Flags().IntSliceVar(&initDocks, "docks", nil, "Dock sizes, e.g. --docks 32,16")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Replace an existing saved harbor")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	c := cfg()
	if len(initDocks) > 0 {
		c.Docks = initDocks
		if err := c.Validate(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := c.Encode()
		if err != nil {
			return err
		}
		if dir := filepath.Dir(configPath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.ConfigError("failed to create config directory", err)
			}
		}
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return errors.ConfigError("failed to write config", err)
		}
		logSuccess("Wrote %s", configPath)
	}

	ctl, err := app.Default.NewControl()
	if err != nil {
		return err
	}
	defer func() { _ = ctl.Close(cmd.Context()) }()

	if !initForce {
		err := ctl.Load(cmd.Context())
		switch {
		case err == nil:
			return errors.New(errors.ExitGeneralError, "a saved harbor already exists; use --force to replace it")
		case !stderrors.Is(err, snapshot.ErrNotFound):
			return errors.Wrap(errors.ExitPersistence, "the saved harbor is unreadable; use --force to replace it", err)
		}
	}
	if err := ctl.Save(cmd.Context()); err != nil {
		return err
	}

	s := ctl.Stats()
	if jsonOutput {
		return printJSON(cmd, s)
	}
	logSuccess("Harbor created: %d docks, %d slots, date %s", s.Docks, s.Slots, s.Date)
	fmt.Fprintf(cmd.OutOrStdout(), "Dock sizes: %v\n", c.Docks)
	return nil
}
