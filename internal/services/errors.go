package services

import (
	"errors"
	"fmt"
)

// Reasons a mutation is rejected. Match them with errors.Is.
var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrNegativeNights     = errors.New("nights must not be negative")
	ErrLastDestination    = errors.New("cannot delete the last remaining destination")
	ErrDayOutOfRange      = errors.New("day index out of range")
	ErrInvariantViolated  = errors.New("reconciliation invariant violated")
	ErrEmptyItinerary     = errors.New("itinerary must have at least one destination")
	ErrNoItinerary        = errors.New("no itinerary loaded")
	ErrStaleTicket        = errors.New("stale ticket")
)

// ValidationError is returned before any state is touched.
type ValidationError struct {
	Op     string
	Reason error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Reason, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

func invalid(op string, reason error, format string, args ...any) error {
	return &ValidationError{Op: op, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
