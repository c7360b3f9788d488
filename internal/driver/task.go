package driver

import (
	"context"
	"sync"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
)

// Runner is a long-lived loop that returns when its context is done.
type Runner interface {
	Run(ctx context.Context) error
}

// Task runs a Runner in the background. Starting a running task is a
// no-op; Stop asks the loop to finish its current unit of work and exit.
type Task struct {
	name   string
	runner Runner

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTask wraps r. name is used in log messages.
func NewTask(name string, r Runner) *Task {
	return &Task{name: name, runner: r}
}

// Start launches the loop under a context derived from parent. It reports
// whether this call started it.
func (t *Task) Start(parent context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done != nil {
		select {
		case <-t.done:
		default:
			return false
		}
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go func() {
		defer close(done)
		defer cancel()
		logging.Debug("background task started", "task", t.name)
		if err := t.runner.Run(ctx); err != nil && ctx.Err() == nil {
			logging.Warn("background task failed", "task", t.name, "error", err)
		}
		logging.Debug("background task stopped", "task", t.name)
	}()
	return true
}

// Stop signals the loop to exit. It does not wait; use Wait for that.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
}

// Running reports whether the loop is active.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the loop has exited or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
