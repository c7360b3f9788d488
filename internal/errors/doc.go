// Package errors provides typed errors with exit codes for harbor-ctl.
//
// # Error Types
//
// HarborError is the base error type that wraps an error with an exit code:
//
//	type HarborError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess           = 0  // Success
//	ExitGeneralError      = 1  // General/unknown errors
//	ExitValidation        = 2  // Boat arguments outside the kind's limits
//	ExitDuplicateIdentity = 3  // Identity code already berthed
//	ExitBoatNotFound      = 4  // Boat is not in the harbor
//	ExitPersistence       = 5  // Snapshot unreadable or malformed
//	ExitConfigError       = 6  // Configuration error
//	ExitTurnedAway        = 7  // No space for the boat
//	ExitServerError       = 8  // HTTP server failure
//
// Running out of space is not an error inside the engine: TryAdd reports it
// as a false result. TurnedAway exists only so the CLI can exit non-zero.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
