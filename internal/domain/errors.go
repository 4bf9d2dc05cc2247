package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotTaken means the requested date/time lost the race to another
	// active booking. The caller should re-query availability.
	ErrSlotTaken = errors.New("slot is no longer available")

	// ErrStorageUnavailable means the database could not be reached or timed
	// out. No partial booking exists when it is returned.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrNotFound = errors.New("booking not found")

	// ErrStatusConflict means the booking's status changed between the
	// transition check and the write. The caller should re-read and retry.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)

// ValidationError rejects a malformed or out-of-policy request before any
// side effect happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
