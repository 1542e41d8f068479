package api

import (
	"context"
	"errors"
	"time"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/schedule"
)

// ConflictsResponse reports the advisory conflict check for a candidate
// slot.
type ConflictsResponse struct {
	envelope

	HasConflict bool            `json:"has_conflict"`
	Conflicts   []model.Booking `json:"conflicts"`
}

// CheckConflicts returns every booking overlapping the candidate slot for
// an assignee on a date. Touching bookings do not conflict.
func (s *Service) CheckConflicts(
	ctx context.Context,
	assigneeRef string,
	date time.Time,
	startTime, endTime string,
	excludeID string,
) *ConflictsResponse {
	resp := &ConflictsResponse{Conflicts: []model.Booking{}}
	defer s.recoverTo("check conflicts", &resp.envelope)

	conflicts, err := s.schedule.CheckConflicts(ctx, assigneeRef, date, startTime, endTime, excludeID)
	if err != nil {
		resp.fail(err)
		return resp
	}

	resp.ok()
	resp.HasConflict = len(conflicts) > 0
	if conflicts != nil {
		resp.Conflicts = conflicts
	}
	return resp
}

// WorkloadResponse carries one assignee's aggregate workload over a range.
type WorkloadResponse struct {
	envelope

	Workload *model.Workload `json:"workload,omitempty"`
}

// ComputeWorkload aggregates an assignee's bookings over [from, to].
func (s *Service) ComputeWorkload(
	ctx context.Context,
	assigneeRef string,
	from, to time.Time,
) *WorkloadResponse {
	resp := &WorkloadResponse{}
	defer s.recoverTo("compute workload", &resp.envelope)

	w, err := s.schedule.ComputeWorkload(ctx, assigneeRef, from, to)
	if err != nil {
		resp.fail(err)
		return resp
	}

	resp.ok()
	resp.Workload = w
	return resp
}

// BookingResponse carries one booking after a write. Conflict carries the
// blocking booking when the write was refused for overlap.
type BookingResponse struct {
	envelope

	Booking  *model.Booking `json:"booking,omitempty"`
	Conflict *model.Booking `json:"conflict,omitempty"`
}

// CreateBooking creates a booking, refusing any slot that overlaps an
// existing one for the same assignee and date.
func (s *Service) CreateBooking(ctx context.Context, b model.Booking) *BookingResponse {
	resp := &BookingResponse{}
	defer s.recoverTo("create booking", &resp.envelope)

	created, err := s.schedule.CreateBooking(ctx, b)
	if err != nil {
		resp.failBooking(err)
		return resp
	}

	resp.ok()
	resp.Booking = created
	return resp
}

// MoveBooking shifts a booking to a new date and/or assignee, keeping its
// time-of-day slot.
func (s *Service) MoveBooking(
	ctx context.Context,
	id string,
	newDate *time.Time,
	newAssigneeRef string,
) *BookingResponse {
	resp := &BookingResponse{}
	defer s.recoverTo("move booking", &resp.envelope)

	moved, err := s.schedule.MoveBooking(ctx, id, newDate, newAssigneeRef)
	if err != nil {
		resp.failBooking(err)
		return resp
	}

	resp.ok()
	resp.Booking = moved
	return resp
}

// DeleteBookingResponse acknowledges a removal.
type DeleteBookingResponse struct {
	envelope
}

// DeleteBooking removes a booking by id.
func (s *Service) DeleteBooking(ctx context.Context, id string) *DeleteBookingResponse {
	resp := &DeleteBookingResponse{}
	defer s.recoverTo("delete booking", &resp.envelope)

	if err := s.schedule.DeleteBooking(ctx, id); err != nil {
		resp.fail(err)
		return resp
	}
	resp.ok()
	return resp
}

// BulkAssignResponse reports per-item outcomes of a bulk assignment.
type BulkAssignResponse struct {
	envelope

	CreatedCount int                  `json:"created_count"`
	CreatedIDs   []string             `json:"created_ids"`
	Failures     []schedule.BulkError `json:"failures,omitempty"`
}

// BulkAssign creates each booking independently. Success means the batch
// ran; individual failures land in Failures next to the successes.
func (s *Service) BulkAssign(ctx context.Context, items []model.Booking) *BulkAssignResponse {
	resp := &BulkAssignResponse{CreatedIDs: []string{}}
	defer s.recoverTo("bulk assign", &resp.envelope)

	result, err := s.schedule.BulkAssign(ctx, items)
	if err != nil {
		resp.fail(err)
		return resp
	}

	resp.ok()
	resp.CreatedCount = result.CreatedCount
	if result.CreatedIDs != nil {
		resp.CreatedIDs = result.CreatedIDs
	}
	resp.Failures = result.Errors
	return resp
}

// RosterResponse lists assignees with their current-week workload.
type RosterResponse struct {
	envelope

	Roster []model.RosterEntry `json:"roster"`
}

// Roster returns assignees matching the given equality filters, each with
// current-week utilization.
func (s *Service) Roster(ctx context.Context, filters map[string]any) *RosterResponse {
	resp := &RosterResponse{Roster: []model.RosterEntry{}}
	defer s.recoverTo("roster", &resp.envelope)

	entries, err := s.schedule.Roster(ctx, time.Now(), eqFilter(filters))
	if err != nil {
		resp.fail(err)
		return resp
	}

	resp.ok()
	if entries != nil {
		resp.Roster = entries
	}
	return resp
}

// failBooking records a write failure, surfacing the blocking booking when
// the cause was a scheduling conflict.
func (r *BookingResponse) failBooking(err error) {
	r.fail(err)
	var conflict *schedule.ConflictError
	if errors.As(err, &conflict) {
		r.Conflict = &conflict.Conflict
	}
}
