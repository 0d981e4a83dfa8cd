package connection

import "errors"

var (
	// ErrInvalidArgument is returned when a required construction or option
	// input is missing, empty or otherwise unusable.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvariantViolation is returned when a read finds state that New and the
	// options never produce, e.g. a zero-value Settings without a default index.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrFrozen is returned by Apply once the settings have been handed to
	// request-building code.
	ErrFrozen = errors.New("settings are frozen")
)
