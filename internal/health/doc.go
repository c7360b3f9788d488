// Package health provides health check utilities for a running harbor.
//
// Health checks verify that the harbor can keep its records: the audit log
// is appendable and the snapshot store answers. A harbor with no free
// slot left is reported separately since it still works but turns every
// boat away.
//
// # Health Status
//
// Harbor health is represented by Status:
//
//	StatusHealthy   - Log and store usable, slots free
//	StatusUnhealthy - Audit log or snapshot store unusable
//	StatusFull      - Usable but every slot is taken
//
// # Check Functions
//
// Individual checks:
//
//	health.CheckAuditLog(fsys, path) // log path is appendable
//	health.CheckStore(ctx, store)    // store answers a load
//	health.GetUptime(started)        // Process uptime
//
// Combined checks:
//
//	result := health.Check(ctx, ctl, started)
//	// result.Status, .AuditLogWritable, .StoreReachable, .FreeSlots
package health
