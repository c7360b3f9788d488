// Package logging provides logging utilities for harbor-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("boat admitted", "id", b.IdentityCode(), "dock", 1)
//	logging.Warn("audit log write failed", "path", path, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Loaded harbor from %s", path)
//	logging.UserSuccess("%s found space at the harbor", id)
//	logging.UserWarning("%s was turned away", id)
//	logging.UserError("Failed to save harbor: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
//
// The audit log of harbor events is not written through this package;
// see the audit package.
package logging
