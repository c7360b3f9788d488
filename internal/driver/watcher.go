package driver

import (
	"context"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
)

// DefaultWatchInterval is how often the log file is polled.
const DefaultWatchInterval = 2500 * time.Millisecond

// LogWatcher polls a file's modification time and reports when it
// advances. It reads only file metadata.
type LogWatcher struct {
	path     string
	fs       system.FileSystem
	interval time.Duration
	onChange func(time.Time)

	seen    bool
	lastMod time.Time
}

// WatcherOption configures a LogWatcher.
type WatcherOption func(*LogWatcher)

// WithWatchFileSystem sets the file system to poll.
func WithWatchFileSystem(fsys system.FileSystem) WatcherOption {
	return func(w *LogWatcher) {
		w.fs = fsys
	}
}

// NewLogWatcher watches path every interval and calls onChange with the
// new modification time.
func NewLogWatcher(path string, interval time.Duration, onChange func(time.Time), opts ...WatcherOption) *LogWatcher {
	w := &LogWatcher{
		path:     path,
		fs:       system.DefaultFS(),
		interval: interval,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until ctx is done. A missing file is not an error; its
// creation counts as a change.
func (w *LogWatcher) Run(ctx context.Context) error {
	logging.Debug("starting log watcher", "path", w.path, "interval", w.interval)

	w.Poll()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll checks the file once and reports whether it changed. The first
// poll records a baseline and never reports a change.
func (w *LogWatcher) Poll() bool {
	var mod time.Time
	if info, err := w.fs.Stat(w.path); err == nil {
		mod = info.ModTime()
	}

	if !w.seen {
		w.seen = true
		w.lastMod = mod
		return false
	}
	if !mod.After(w.lastMod) {
		return false
	}
	w.lastMod = mod
	if w.onChange != nil {
		w.onChange(mod)
	}
	return true
}
