package health

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/snapshot"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/system"
)

// Status represents the health status of a harbor
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusFull      Status = "full"

	// StoreCheckTimeout bounds the snapshot store probe.
	StoreCheckTimeout = 5 * time.Second
)

// CheckResult contains the results of health checks
type CheckResult struct {
	Status           Status   `json:"status"`
	AuditLogWritable bool     `json:"auditLogWritable"`
	StoreReachable   bool     `json:"storeReachable"`
	FreeSlots        int      `json:"freeSlots"`
	Simulating       bool     `json:"simulating"`
	Uptime           string   `json:"uptime,omitempty"`
	Problems         []string `json:"problems,omitempty"`
}

// CheckAuditLog reports whether the audit log at path can be appended to.
// A log that does not exist yet is fine. An empty path means logging is
// off and is always fine.
func CheckAuditLog(fsys system.FileSystem, path string) error {
	if path == "" {
		return nil
	}
	info, err := fsys.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("audit log %s is a directory", path)
	case err == nil, stderrors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("audit log %s: %w", path, err)
	}
}

// CheckStore probes the snapshot store. An empty store is reachable.
func CheckStore(ctx context.Context, s snapshot.Store) error {
	if s == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, StoreCheckTimeout)
	defer cancel()
	if _, err := s.Load(ctx); err != nil && !stderrors.Is(err, snapshot.ErrNotFound) {
		return err
	}
	return nil
}

// GetUptime returns the time since started in human-readable format.
func GetUptime(started time.Time) string {
	if started.IsZero() {
		return "unknown"
	}
	return formatDuration(time.Since(started))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// Check performs all health checks for a harbor.
// started is optional; a zero time reports no uptime.
func Check(ctx context.Context, ctl *control.Control, started time.Time) *CheckResult {
	result := &CheckResult{AuditLogWritable: true, StoreReachable: true}

	if err := CheckAuditLog(ctl.FileSystem(), ctl.LogPath()); err != nil {
		result.AuditLogWritable = false
		result.Problems = append(result.Problems, err.Error())
	}
	if err := CheckStore(ctx, ctl.Store()); err != nil {
		result.StoreReachable = false
		result.Problems = append(result.Problems, err.Error())
	}

	stats := ctl.Stats()
	result.FreeSlots = stats.FreeSlots
	result.Simulating = stats.Simulating
	if !started.IsZero() {
		result.Uptime = GetUptime(started)
	}
	result.Status = summarize(result)
	return result
}

func summarize(r *CheckResult) Status {
	if !r.AuditLogWritable || !r.StoreReachable {
		return StatusUnhealthy
	}
	if r.FreeSlots == 0 {
		return StatusFull
	}
	return StatusHealthy
}

// GetSummary returns a summary health status.
func GetSummary(ctx context.Context, ctl *control.Control) Status {
	return Check(ctx, ctl, time.Time{}).Status
}
