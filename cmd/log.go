package cmd

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/app"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/audit"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/driver"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the harbor audit log",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

var (
	logTail   int
	logFollow bool
)

func init() {
	logCmd.Flags().IntVarP(&logTail, "lines", "n", 0, "Number of lines to show (0 for all)")
	logCmd.Flags().BoolVarP(&logFollow, "follow", "f", false, "Follow log output")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	path, err := cfg().LogPath()
	if err != nil {
		return err
	}
	if path == "" {
		return errors.ConfigError("audit logging is disabled (log_file is empty)", nil)
	}
	fsys := app.Default.FS

	lines, err := audit.Tail(fsys, path, logTail)
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to read audit log", err)
	}
	if jsonOutput && !logFollow {
		if lines == nil {
			lines = []string{}
		}
		return printJSON(cmd, lines)
	}
	if err := writeLines(cmd.OutOrStdout(), lines); err != nil {
		return err
	}
	if !logFollow {
		return nil
	}

	f := &follower{cmd: cmd, path: path}
	f.printed, _ = countLines(path)
	w := driver.NewLogWatcher(path, cfg().LogWatch.Interval.Duration, func(time.Time) { f.update() },
		driver.WithWatchFileSystem(fsys))
	if err := w.Run(cmd.Context()); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// follower prints lines appended since the last change.
type follower struct {
	cmd     *cobra.Command
	path    string
	printed int
}

func (f *follower) update() {
	lines, err := audit.ReadLines(app.Default.FS, f.path)
	if err != nil {
		logWarning("failed to read audit log: %v", err)
		return
	}
	// A shorter file was overwritten; start again.
	if len(lines) < f.printed {
		f.printed = 0
	}
	_ = writeLines(f.cmd.OutOrStdout(), lines[f.printed:])
	f.printed = len(lines)
}

func countLines(path string) (int, error) {
	lines, err := audit.ReadLines(app.Default.FS, path)
	return len(lines), err
}
