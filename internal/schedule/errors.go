package schedule

import (
	"fmt"

	"github.com/onfuse/planner/internal/model"
)

// ConflictError is returned when a booking write would double-book an
// assignee. It carries the first conflicting booking so callers can name
// it.
type ConflictError struct {
	Conflict model.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflict with existing booking %s (%s-%s)",
		e.Conflict.TaskLabel, e.Conflict.StartTime, e.Conflict.EndTime)
}
