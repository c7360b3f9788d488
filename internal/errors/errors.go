package errors

import (
	"errors"
	"fmt"
)

// Exit codes for harbor-ctl
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitValidation        = 2
	ExitDuplicateIdentity = 3
	ExitBoatNotFound      = 4
	ExitPersistence       = 5
	ExitConfigError       = 6
	ExitTurnedAway        = 7
	ExitServerError       = 8
)

// HarborError is the base error type for harbor-ctl
type HarborError struct {
	Code    int
	Message string
	Cause   error
}

func (e *HarborError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *HarborError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *HarborError) ExitCode() int {
	return e.Code
}

// New creates a new HarborError
func New(code int, message string) *HarborError {
	return &HarborError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a HarborError
func Wrap(code int, message string, cause error) *HarborError {
	return &HarborError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ValidationError returns an error for constructor arguments outside a boat kind's limits
func ValidationError(message string) *HarborError {
	return New(ExitValidation, message)
}

// DuplicateIdentity returns an error for a boat whose identity code is already berthed
func DuplicateIdentity(code, scope string) *HarborError {
	return New(ExitDuplicateIdentity, fmt.Sprintf("a boat with id %s is already berthed in the %s", code, scope))
}

// BoatNotFound returns an error for a missing boat
func BoatNotFound(code string) *HarborError {
	return New(ExitBoatNotFound, fmt.Sprintf("boat not found: %s", code))
}

// PersistenceFailed returns an error for unreadable or malformed snapshot data
func PersistenceFailed(op string, cause error) *HarborError {
	return Wrap(ExitPersistence, fmt.Sprintf("snapshot %s failed", op), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *HarborError {
	return Wrap(ExitConfigError, message, cause)
}

// TurnedAway returns an error for a boat that found no space
func TurnedAway(code string) *HarborError {
	return New(ExitTurnedAway, fmt.Sprintf("boat %s was turned away due to lack of space", code))
}

// ServerError returns an error for HTTP server failures
func ServerError(message string, cause error) *HarborError {
	return Wrap(ExitServerError, message, cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var harborErr *HarborError
	if errors.As(err, &harborErr) {
		return harborErr.ExitCode()
	}
	return ExitGeneralError
}

func hasCode(err error, code int) bool {
	var harborErr *HarborError
	return errors.As(err, &harborErr) && harborErr.Code == code
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	return hasCode(err, ExitValidation)
}

// IsDuplicateIdentity reports whether err is a duplicate identity precondition violation
func IsDuplicateIdentity(err error) bool {
	return hasCode(err, ExitDuplicateIdentity)
}

// IsPersistence reports whether err is a persistence failure
func IsPersistence(err error) bool {
	return hasCode(err, ExitPersistence)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
