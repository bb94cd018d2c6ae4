package services

import (
	"errors"
	"fmt"
	"time"

	"hotel-reservations/models"
)

// ValidationError aborts the whole operation before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// TransitionError means the requested edge is not in the state machine; the
// booking is left untouched.
type TransitionError struct {
	From models.BookingStatus
	To   models.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

type NotCancellableError struct {
	Status  models.BookingStatus
	CheckIn time.Time
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("booking is not cancellable (status %s, check-in %s)",
		e.Status, e.CheckIn.Format("2006-01-02"))
}

// ConcurrencyError means two writers raced on the same booking; the caller
// should re-fetch and retry if still desired.
type ConcurrencyError struct {
	BookingID uint
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("booking %d was modified concurrently", e.BookingID)
}

type NotFoundError struct {
	BookingID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %d not found", e.BookingID)
}

// ErrCounterMissing indicates the booking-number counter row was never
// seeded; config.SeedDatabase creates it.
var ErrCounterMissing = errors.New("booking number counter row is missing")
