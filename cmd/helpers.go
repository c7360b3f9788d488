package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/app"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/config"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
)

// cfg returns the loaded configuration.
func cfg() *config.Config {
	return app.Default.Config
}

// openHarbor builds the harbor from the config and loads the saved state.
func openHarbor(cmd *cobra.Command) (*control.Control, error) {
	return app.Default.Control(cmd.Context())
}

// withHarbor opens the harbor, runs fn and closes it. When save is set the
// harbor is saved after fn, even if fn failed after changing it.
func withHarbor(cmd *cobra.Command, save bool, fn func(ctl *control.Control) error) error {
	ctl, err := openHarbor(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = ctl.Close(cmd.Context()) }()

	runErr := fn(ctl)
	if save {
		if err := ctl.Save(cmd.Context()); err != nil {
			if runErr == nil {
				return err
			}
			logWarning("failed to save harbor: %v", err)
		}
	}
	return runErr
}

// printJSON writes v to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
