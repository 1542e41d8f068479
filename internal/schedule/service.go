// Package schedule books assignees onto tasks at specific times of day,
// detects double-bookings, and aggregates workload statistics.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
)

// Default record types backing booking references.
const (
	DefaultTaskType     = "task"
	DefaultAssigneeType = "employee"
)

// Service is the conflict/workload engine plus booking lifecycle.
type Service struct {
	bookings store.BookingStore
	records  store.RecordStore
	log      *logrus.Logger

	// TaskType and AssigneeType name the record types that booking
	// references point at, used to refresh denormalized display fields.
	TaskType     string
	AssigneeType string
}

// NewService returns a scheduling service over the given stores.
func NewService(bookings store.BookingStore, records store.RecordStore, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		bookings:     bookings,
		records:      records,
		log:          log,
		TaskType:     DefaultTaskType,
		AssigneeType: DefaultAssigneeType,
	}
}

// CheckConflicts returns every existing booking for (assignee, date) that
// overlaps the candidate slot, excluding excludeID when non-empty. The test
// is half-open: touching bookings (candidate start == existing end) do not
// conflict.
func (s *Service) CheckConflicts(
	ctx context.Context,
	assigneeRef string,
	date time.Time,
	startTime, endTime string,
	excludeID string,
) ([]model.Booking, error) {
	candStart, err := model.ClockMinutes(startTime)
	if err != nil {
		return nil, err
	}
	candEnd, err := model.ClockMinutes(endTime)
	if err != nil {
		return nil, err
	}
	if candEnd <= candStart {
		return nil, fmt.Errorf("end time %s must be after start time %s", endTime, startTime)
	}

	existing, err := s.bookings.GetBookingsForDay(ctx, assigneeRef, date)
	if err != nil {
		return nil, fmt.Errorf("fetching bookings for conflict check: %w", err)
	}

	var conflicts []model.Booking
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		bStart, bEnd, err := b.Span()
		if err != nil {
			return nil, fmt.Errorf("booking %s has invalid times: %w", b.ID, err)
		}
		if candStart < bEnd && candEnd > bStart {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

// guardConflicts runs the advisory pre-check and converts any hit into a
// ConflictError. Every booking write path calls this before touching the
// store; the store's transactional overlap guard then closes the remaining
// check-then-write race.
func (s *Service) guardConflicts(
	ctx context.Context,
	b *model.Booking,
	excludeID string,
) error {
	conflicts, err := s.CheckConflicts(ctx, b.AssigneeRef, b.Date, b.StartTime, b.EndTime, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflict: conflicts[0]}
	}
	return nil
}

// refreshDenormalized rewrites the booking's display fields from the
// records it references. Runs on every write so the denormalized copies
// stay consistent with their sources.
func (s *Service) refreshDenormalized(ctx context.Context, b *model.Booking) error {
	task, err := s.records.LoadRecord(ctx, s.TaskType, b.TaskRef)
	if err != nil {
		return fmt.Errorf("resolving booked task: %w", err)
	}
	assignee, err := s.records.LoadRecord(ctx, s.AssigneeType, b.AssigneeRef)
	if err != nil {
		return fmt.Errorf("resolving booking assignee: %w", err)
	}

	b.TaskLabel = task.Str("subject")
	if b.TaskLabel == "" {
		b.TaskLabel = task.ID
	}
	b.TaskPriority = task.Str("priority")

	b.AssigneeLabel = assignee.Str("employee_name")
	if b.AssigneeLabel == "" {
		b.AssigneeLabel = assignee.ID
	}
	b.AssigneeDepartment = assignee.Str("department")

	return nil
}

// CreateBooking validates, conflict-checks, and persists a new booking.
func (s *Service) CreateBooking(ctx context.Context, b model.Booking) (*model.Booking, error) {
	if err := b.Normalize(); err != nil {
		return nil, err
	}
	if err := s.refreshDenormalized(ctx, &b); err != nil {
		return nil, err
	}
	if err := s.guardConflicts(ctx, &b, ""); err != nil {
		return nil, err
	}

	created, err := s.bookings.CreateBooking(ctx, b)
	if err != nil {
		return nil, mapOverlap(err)
	}

	s.log.WithFields(logrus.Fields{
		"booking":  created.ID,
		"assignee": created.AssigneeRef,
		"date":     model.FormatDate(created.Date),
	}).Info("booking created")
	return created, nil
}

// UpdateBooking rewrites an existing booking after the same checks.
func (s *Service) UpdateBooking(ctx context.Context, b model.Booking) (*model.Booking, error) {
	if b.ID == "" {
		return nil, fmt.Errorf("booking id must be set")
	}
	if _, err := s.bookings.GetBookingByID(ctx, b.ID); err != nil {
		return nil, err
	}
	if err := b.Normalize(); err != nil {
		return nil, err
	}
	if err := s.refreshDenormalized(ctx, &b); err != nil {
		return nil, err
	}
	if err := s.guardConflicts(ctx, &b, b.ID); err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateBooking(ctx, b)
	if err != nil {
		return nil, mapOverlap(err)
	}
	return updated, nil
}

// MoveBooking shifts a booking to a new date and/or assignee, keeping its
// time-of-day slot.
func (s *Service) MoveBooking(
	ctx context.Context,
	id string,
	newDate *time.Time,
	newAssigneeRef string,
) (*model.Booking, error) {
	existing, err := s.bookings.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b := *existing
	if newDate != nil {
		b.Date = model.Midnight(*newDate)
	}
	if newAssigneeRef != "" {
		b.AssigneeRef = newAssigneeRef
	}

	if err := b.Normalize(); err != nil {
		return nil, err
	}
	if err := s.refreshDenormalized(ctx, &b); err != nil {
		return nil, err
	}
	if err := s.guardConflicts(ctx, &b, b.ID); err != nil {
		return nil, err
	}

	moved, err := s.bookings.UpdateBooking(ctx, b)
	if err != nil {
		return nil, mapOverlap(err)
	}

	s.log.WithFields(logrus.Fields{
		"booking":  moved.ID,
		"assignee": moved.AssigneeRef,
		"date":     model.FormatDate(moved.Date),
	}).Info("booking moved")
	return moved, nil
}

// DeleteBooking removes a booking by id.
func (s *Service) DeleteBooking(ctx context.Context, id string) error {
	return s.bookings.DeleteBooking(ctx, id)
}

// mapOverlap converts the store's transactional overlap failure into the
// engine's ConflictError so callers see one conflict type.
func mapOverlap(err error) error {
	var overlap *store.OverlapError
	if errors.As(err, &overlap) {
		return &ConflictError{Conflict: overlap.Conflict}
	}
	return err
}
