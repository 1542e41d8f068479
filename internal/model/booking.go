package model

import (
	"fmt"
	"strings"
	"time"
)

// Booking status constants.
const (
	BookingStatusAssigned  = "assigned"
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
)

// Priorities that count toward the high-priority workload statistics.
const (
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// Booking is a discrete, time-of-day-scoped allocation of one assignee to
// one task on one date. DurationHours is always recomputed from the
// start/end pair and never trusted from caller input.
//
// TaskLabel, AssigneeLabel, AssigneeDepartment and TaskPriority are
// denormalized from the referenced records and refreshed on every write.
type Booking struct {
	ID          string    `json:"id" db:"id"`
	TaskRef     string    `json:"task_ref" db:"task_ref"`
	AssigneeRef string    `json:"assignee_ref" db:"assignee_ref"`
	Date        time.Time `json:"date" db:"date"`
	StartTime   string    `json:"start_time" db:"start_time"`
	EndTime     string    `json:"end_time" db:"end_time"`

	DurationHours float64 `json:"duration_hours" db:"duration_hours"`
	Status        string  `json:"status" db:"status"`
	Notes         string  `json:"notes,omitempty" db:"notes"`

	TaskLabel          string `json:"task_label" db:"task_label"`
	AssigneeLabel      string `json:"assignee_label" db:"assignee_label"`
	AssigneeDepartment string `json:"assignee_department,omitempty" db:"assignee_department"`
	TaskPriority       string `json:"task_priority,omitempty" db:"task_priority"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HighPriority reports whether the booking's task counts as high priority.
func (b *Booking) HighPriority() bool {
	return b.TaskPriority == PriorityHigh || b.TaskPriority == PriorityUrgent
}

// Span returns the booking's start and end as minutes since midnight.
func (b *Booking) Span() (startMin, endMin int, err error) {
	startMin, err = ClockMinutes(b.StartTime)
	if err != nil {
		return 0, 0, err
	}
	endMin, err = ClockMinutes(b.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return startMin, endMin, nil
}

// ComputeDuration recomputes DurationHours from the start/end pair and
// validates that the end strictly follows the start on the same date.
func (b *Booking) ComputeDuration() error {
	startMin, endMin, err := b.Span()
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return fmt.Errorf("booking end time %s must be after start time %s", b.EndTime, b.StartTime)
	}
	b.DurationHours = float64(endMin-startMin) / 60.0
	return nil
}

// Normalize fills derived and defaulted fields ahead of a write.
func (b *Booking) Normalize() error {
	if strings.TrimSpace(b.TaskRef) == "" {
		return fmt.Errorf("booking task reference must not be empty")
	}
	if strings.TrimSpace(b.AssigneeRef) == "" {
		return fmt.Errorf("booking assignee reference must not be empty")
	}
	if b.Date.IsZero() {
		return fmt.Errorf("booking date must be set")
	}
	b.Date = Midnight(b.Date)
	if b.Status == "" {
		b.Status = BookingStatusAssigned
	}
	return b.ComputeDuration()
}
