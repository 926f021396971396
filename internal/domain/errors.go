package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Ledger errors surfaced to callers
	ErrMsgInsufficientStock = "insufficient available producers"
	ErrMsgCapacityExceeded  = "assignment capacity exceeded"

	// Self-healing housekeeping errors
	ErrMsgStaleAssignment             = "assignment has no backing ownership"
	ErrMsgMultiplierSourceUnavailable = "multiplier source unavailable"
	ErrMsgAssignmentNotFound          = "assignment not found"

	// Storage errors
	ErrMsgTransactionFailure = "transaction failure"
	ErrMsgTxClosed           = "tx is closed"

	// Input errors
	ErrMsgInvalidInput   = "invalid input"
	ErrMsgInvalidVariant = "invalid producer variant"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrInsufficientStock means a transfer asked for more than the source ledger holds
	ErrInsufficientStock = errors.New(ErrMsgInsufficientStock)

	// ErrCapacityExceeded means a transfer would exceed the owner's slot limit
	ErrCapacityExceeded = errors.New(ErrMsgCapacityExceeded)

	// ErrStaleAssignment marks an assigned row whose ownership is gone; reconciliation
	// removes it and never reports it to the owner
	ErrStaleAssignment = errors.New(ErrMsgStaleAssignment)

	ErrMultiplierSourceUnavailable = errors.New(ErrMsgMultiplierSourceUnavailable)
	ErrAssignmentNotFound          = errors.New(ErrMsgAssignmentNotFound)

	// ErrTransactionFailure wraps any atomic unit that could not commit
	ErrTransactionFailure = errors.New(ErrMsgTransactionFailure)

	ErrInvalidInput   = errors.New(ErrMsgInvalidInput)
	ErrInvalidVariant = errors.New(ErrMsgInvalidVariant)
)

// IsCallerError reports whether err is reported to the owner rather than
// treated as an internal failure
func IsCallerError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidVariant)
}
