package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/schedule"
	"github.com/onfuse/planner/internal/store"
	"github.com/onfuse/planner/tests/testutil"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func saveRecord(t *testing.T, s store.RecordStore, recordType, id string, fields map[string]any) {
	t.Helper()
	rec := model.NewRecord(recordType, id)
	for k, v := range fields {
		rec.Set(k, v)
	}
	_, err := s.SaveRecord(context.Background(), rec, store.SaveOptions{})
	require.NoError(t, err)
}

// newScheduler builds a scheduling service over a seeded store with two
// employees and two tasks installed.
func newScheduler(t *testing.T) (*schedule.Service, *store.SQLiteStore) {
	t.Helper()
	s := testutil.NewSeededStore(t)

	saveRecord(t, s, "employee", "E-1", map[string]any{
		"employee_name": "Dana Smith", "department": "Assembly",
	})
	saveRecord(t, s, "employee", "E-2", map[string]any{
		"employee_name": "Lee Wong", "department": "Paint",
	})
	saveRecord(t, s, "task", "T-1", map[string]any{
		"subject": "Weld frame", "priority": "High",
	})
	saveRecord(t, s, "task", "T-2", map[string]any{
		"subject": "Sand panels", "priority": "Low",
	})

	return schedule.NewService(s, s, nil), s
}

func slot(task, assignee, start, end string) model.Booking {
	return model.Booking{
		TaskRef:     task,
		AssigneeRef: assignee,
		Date:        time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   start,
		EndTime:     end,
	}
}

func TestCreateBookingDenormalizes(t *testing.T) {
	svc, _ := newScheduler(t)

	created, err := svc.CreateBooking(context.Background(), slot("T-1", "E-1", "09:00", "12:00"))
	require.NoError(t, err)

	assert.Equal(t, "Weld frame", created.TaskLabel)
	assert.Equal(t, "High", created.TaskPriority)
	assert.Equal(t, "Dana Smith", created.AssigneeLabel)
	assert.Equal(t, "Assembly", created.AssigneeDepartment)
	assert.Equal(t, 3.0, created.DurationHours)
}

func TestCreateBookingUnknownReferences(t *testing.T) {
	svc, _ := newScheduler(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, slot("ghost", "E-1", "09:00", "10:00"))
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.CreateBooking(ctx, slot("T-1", "ghost", "09:00", "10:00"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheckConflicts(t *testing.T) {
	svc, _ := newScheduler(t)
	ctx := context.Background()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateBooking(ctx, slot("T-1", "E-1", "09:00", "10:00"))
	require.NoError(t, err)

	// Touching slots share only a boundary instant.
	conflicts, err := svc.CheckConflicts(ctx, "E-1", day, "10:00", "11:00", "")
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	conflicts, err = svc.CheckConflicts(ctx, "E-1", day, "09:30", "10:30", "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Weld frame", conflicts[0].TaskLabel)

	conflicts, err = svc.CheckConflicts(ctx, "E-2", day, "09:30", "10:30", "")
	require.NoError(t, err)
	assert.Empty(t, conflicts, "other assignees unaffected")

	_, err = svc.CheckConflicts(ctx, "E-1", day, "11:00", "10:00", "")
	assert.Error(t, err, "inverted candidate slot rejected")
}

func TestCreateBookingConflictError(t *testing.T) {
	svc, _ := newScheduler(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, slot("T-1", "E-1", "09:00", "11:00"))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, slot("T-2", "E-1", "10:00", "12:00"))
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Weld frame", conflict.Conflict.TaskLabel)
}

func TestMoveBookingKeepsSlot(t *testing.T) {
	svc, _ := newScheduler(t)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, slot("T-1", "E-1", "09:00", "11:00"))
	require.NoError(t, err)

	newDate := mustDate(t, "2025-06-03")
	moved, err := svc.MoveBooking(ctx, created.ID, &newDate, "E-2")
	require.NoError(t, err)

	assert.Equal(t, "2025-06-03", model.FormatDate(moved.Date))
	assert.Equal(t, "E-2", moved.AssigneeRef)
	assert.Equal(t, "09:00", moved.StartTime)
	assert.Equal(t, "11:00", moved.EndTime)
	assert.Equal(t, "Lee Wong", moved.AssigneeLabel, "denormalized fields follow the new assignee")
	assert.Equal(t, "Paint", moved.AssigneeDepartment)
}

func TestMoveBookingIntoConflictRefused(t *testing.T) {
	svc, _ := newScheduler(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, slot("T-1", "E-2", "09:00", "11:00"))
	require.NoError(t, err)
	created, err := svc.CreateBooking(ctx, slot("T-2", "E-1", "09:00", "11:00"))
	require.NoError(t, err)

	_, err = svc.MoveBooking(ctx, created.ID, nil, "E-2")
	var conflict *schedule.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestUpdateBookingRequiresExisting(t *testing.T) {
	svc, _ := newScheduler(t)

	b := slot("T-1", "E-1", "09:00", "10:00")
	b.ID = "missing"
	_, err := svc.UpdateBooking(context.Background(), b)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteBooking(t *testing.T) {
	svc, s := newScheduler(t)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, slot("T-1", "E-1", "09:00", "10:00"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBooking(ctx, created.ID))
	_, err = s.GetBookingByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
