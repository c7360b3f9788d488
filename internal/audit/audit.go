// Package audit decorates a harbor with an append-only plain-text log of
// every admission, rejection, removal, and day change.
package audit

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
)

// Outcome phrases written after a boat's identity.
const (
	PhraseAdmitted   = "found space at the harbor."
	PhraseTurnedAway = "was turned away due to lack of space."
	PhraseRemoved    = "was removed from the harbor."
	PhraseNotFound   = "could not be found and removed from the harbor."
	PhraseLeft       = "left the port."
)

// Logger wraps a harbor and records its mutations. Queries pass straight
// through. A failed log write never undoes or fails the operation it
// records.
type Logger struct {
	harbor  port.Harbor
	path    string
	fs      system.FileSystem
	onError func(error)
}

var (
	_ port.Harbor    = (*Logger)(nil)
	_ port.Unwrapper = (*Logger)(nil)
)

// Option configures a Logger.
type Option func(*loggerOptions)

type loggerOptions struct {
	overwrite bool
	fs        system.FileSystem
	onError   func(error)
}

// WithOverwrite deletes any existing log file when the Logger is created.
func WithOverwrite(overwrite bool) Option {
	return func(o *loggerOptions) {
		o.overwrite = overwrite
	}
}

// WithFileSystem sets the file system used for log writes.
func WithFileSystem(fsys system.FileSystem) Option {
	return func(o *loggerOptions) {
		o.fs = fsys
	}
}

// WithErrorHandler is called with every log write failure. The default
// handler logs a warning.
func WithErrorHandler(fn func(error)) Option {
	return func(o *loggerOptions) {
		o.onError = fn
	}
}

// New wraps h with a log written to path.
func New(h port.Harbor, path string, opts ...Option) *Logger {
	o := loggerOptions{fs: system.DefaultFS()}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{
		harbor:  h,
		path:    path,
		fs:      o.fs,
		onError: o.onError,
	}
	if l.onError == nil {
		l.onError = func(err error) {
			logging.Warn("audit log write failed", "path", path, "error", err)
		}
	}

	if o.overwrite {
		if err := l.fs.Remove(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			l.onError(fmt.Errorf("failed to remove old log: %w", err))
		}
	}
	return l
}

// Path returns the log file location.
func (l *Logger) Path() string { return l.path }

// Unwrap returns the decorated harbor.
func (l *Logger) Unwrap() port.Harbor { return l.harbor }

// TryAdd forwards to the harbor and records whether b found space. A
// duplicate identity error is returned without a log line.
func (l *Logger) TryAdd(b *boat.Boat) (bool, error) {
	ok, err := l.harbor.TryAdd(b)
	if err != nil {
		return false, err
	}
	if ok {
		l.write(l.boatLine(b, PhraseAdmitted))
	} else {
		l.write(l.boatLine(b, PhraseTurnedAway))
	}
	return ok, nil
}

// TryRemove forwards to the harbor and records the outcome.
func (l *Logger) TryRemove(b *boat.Boat) bool {
	ok := l.harbor.TryRemove(b)
	if ok {
		l.write(l.boatLine(b, PhraseRemoved))
	} else {
		l.write(l.boatLine(b, PhraseNotFound))
	}
	return ok
}

// IncrementTime forwards to the harbor and records the date change
// followed by one line per departure.
func (l *Logger) IncrementTime() {
	prev := l.harbor.Date()
	l.harbor.IncrementTime()

	lines := []string{fmt.Sprintf("Time incremented: [%s] => [%s]",
		prev.Format(port.DateLayout), l.harbor.Date().Format(port.DateLayout))}
	for _, b := range l.harbor.LeftToday() {
		lines = append(lines, l.boatLine(b, PhraseLeft))
	}
	l.write(lines...)
}

func (l *Logger) Boats() []*boat.Boat     { return l.harbor.Boats() }
func (l *Logger) Docks() []*dock.Dock     { return l.harbor.Docks() }
func (l *Logger) LeftToday() []*boat.Boat { return l.harbor.LeftToday() }
func (l *Logger) BoatCount() int          { return l.harbor.BoatCount() }
func (l *Logger) DockCount() int          { return l.harbor.DockCount() }
func (l *Logger) Size() int               { return l.harbor.Size() }
func (l *Logger) Date() time.Time         { return l.harbor.Date() }
func (l *Logger) DockChoice() string      { return l.harbor.DockChoice() }

func (l *Logger) boatLine(b *boat.Boat, phrase string) string {
	return fmt.Sprintf("[%s] %s with ID:(%s) %s",
		l.harbor.Date().Format(port.DateLayout), b.TypeName(), b.IdentityCode(), phrase)
}

// write appends lines in a single open-append-close cycle.
func (l *Logger) write(lines ...string) {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := l.fs.MkdirAll(dir, 0755); err != nil {
			l.onError(fmt.Errorf("failed to create log directory: %w", err))
			return
		}
	}
	if err := l.fs.AppendFile(l.path, []byte(sb.String()), 0644); err != nil {
		l.onError(fmt.Errorf("failed to append to log: %w", err))
	}
}
