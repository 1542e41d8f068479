package schedule_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onfuse/planner/internal/model"
)

func TestBulkAssignPartialSuccess(t *testing.T) {
	svc, s := newScheduler(t)
	ctx := context.Background()

	items := []model.Booking{
		slot("T-1", "E-1", "09:00", "10:00"),
		slot("T-2", "E-1", "09:30", "10:30"), // overlaps the first
		slot("T-2", "E-1", "11:00", "12:00"),
		slot("T-1", "E-2", "09:00", "10:00"),
	}

	result, err := svc.BulkAssign(ctx, items)
	require.NoError(t, err)

	assert.Equal(t, 3, result.CreatedCount)
	assert.Len(t, result.CreatedIDs, 3)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.NotEmpty(t, result.Errors[0].Error)

	for _, id := range result.CreatedIDs {
		_, err := s.GetBookingByID(ctx, id)
		assert.NoError(t, err, "reported id %s must exist", id)
	}
}

func TestBulkAssignAllInvalid(t *testing.T) {
	svc, _ := newScheduler(t)

	items := []model.Booking{
		slot("ghost", "E-1", "09:00", "10:00"),
		slot("T-1", "E-1", "10:00", "09:00"),
	}

	result, err := svc.BulkAssign(context.Background(), items)
	require.NoError(t, err, "a fully failed batch is still a completed batch")
	assert.Equal(t, 0, result.CreatedCount)
	assert.Len(t, result.Errors, 2)
}

func TestBulkAssignEmpty(t *testing.T) {
	svc, _ := newScheduler(t)

	result, err := svc.BulkAssign(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Empty(t, result.Errors)
}
