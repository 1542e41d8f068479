package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
	"github.com/onfuse/planner/tests/testutil"
)

func testBooking(start, end string) model.Booking {
	return model.Booking{
		TaskRef:     "T-1",
		AssigneeRef: "E-1",
		Date:        time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   start,
		EndTime:     end,
	}
}

func TestCreateBooking(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBooking(ctx, testBooking("09:00", "12:00"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 3.0, created.DurationHours)
	assert.Equal(t, model.BookingStatusAssigned, created.Status)

	loaded, err := s.GetBookingByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, "09:00", loaded.StartTime)
	assert.Equal(t, "2025-06-02", model.FormatDate(loaded.Date))
}

func TestCreateBookingOverlapRefused(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.CreateBooking(ctx, testBooking("09:00", "11:00"))
	require.NoError(t, err)

	_, err = s.CreateBooking(ctx, testBooking("10:00", "12:00"))
	var overlap *store.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, "09:00", overlap.Conflict.StartTime)
}

func TestCreateBookingTouchingSlotsAllowed(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.CreateBooking(ctx, testBooking("09:00", "10:00"))
	require.NoError(t, err)

	// Back-to-back bookings share a boundary instant but no time.
	_, err = s.CreateBooking(ctx, testBooking("10:00", "11:00"))
	require.NoError(t, err)
}

func TestCreateBookingOtherAssigneeOrDayIgnored(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.CreateBooking(ctx, testBooking("09:00", "11:00"))
	require.NoError(t, err)

	other := testBooking("09:00", "11:00")
	other.AssigneeRef = "E-2"
	_, err = s.CreateBooking(ctx, other)
	require.NoError(t, err)

	nextDay := testBooking("09:00", "11:00")
	nextDay.Date = nextDay.Date.AddDate(0, 0, 1)
	_, err = s.CreateBooking(ctx, nextDay)
	require.NoError(t, err)
}

func TestUpdateBookingExcludesItself(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBooking(ctx, testBooking("09:00", "11:00"))
	require.NoError(t, err)

	// Shrinking within its own slot must not conflict with itself.
	created.EndTime = "10:30"
	updated, err := s.UpdateBooking(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, 1.5, updated.DurationHours)
}

func TestUpdateBookingNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	b := testBooking("09:00", "10:00")
	b.ID = "missing"
	_, err := s.UpdateBooking(context.Background(), b)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteBooking(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBooking(ctx, testBooking("09:00", "10:00"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteBooking(ctx, created.ID))

	_, err = s.GetBookingByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteBooking(ctx, created.ID), store.ErrNotFound)
}

func TestGetBookingsForDayOrdered(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	afternoon, err := s.CreateBooking(ctx, testBooking("13:00", "15:00"))
	require.NoError(t, err)
	morning, err := s.CreateBooking(ctx, testBooking("08:00", "09:30"))
	require.NoError(t, err)

	day, err := s.GetBookingsForDay(ctx, "E-1", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, morning.ID, day[0].ID)
	assert.Equal(t, afternoon.ID, day[1].ID)
}

func TestGetBookingsInRange(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for day := 2; day <= 6; day++ {
		b := testBooking("09:00", "10:00")
		b.Date = time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC)
		_, err := s.CreateBooking(ctx, b)
		require.NoError(t, err)
	}

	from := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	got, err := s.GetBookingsInRange(ctx, "E-1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 3, "range bounds are inclusive")
	assert.Equal(t, "2025-06-03", model.FormatDate(got[0].Date))
	assert.Equal(t, "2025-06-05", model.FormatDate(got[2].Date))
}
