package store

import (
	"errors"
	"fmt"

	"github.com/onfuse/planner/internal/model"
)

// ErrNotFound is returned when a record, booking, or schema does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConcurrentModification is returned when an optimistic version check
// fails. The error is retryable: re-read the record and reapply the change.
var ErrConcurrentModification = errors.New("record modified concurrently")

// OverlapError is returned by the booking write guard when the requested
// time slot overlaps an existing booking for the same assignee and date.
type OverlapError struct {
	Conflict model.Booking
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("booking overlaps %s (%s %s-%s)",
		e.Conflict.TaskLabel, model.FormatDate(e.Conflict.Date),
		e.Conflict.StartTime, e.Conflict.EndTime)
}

// PersistenceError wraps a backing-store failure with the operation that
// attempted it. The wrapped write is rolled back in full.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
