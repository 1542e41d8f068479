package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingComputeDuration(t *testing.T) {
	b := Booking{StartTime: "09:00", EndTime: "17:30"}
	require.NoError(t, b.ComputeDuration())
	assert.Equal(t, 8.5, b.DurationHours)

	b = Booking{StartTime: "10:00", EndTime: "10:00"}
	assert.Error(t, b.ComputeDuration(), "zero-length slot rejected")

	b = Booking{StartTime: "14:00", EndTime: "13:00"}
	assert.Error(t, b.ComputeDuration(), "inverted slot rejected")

	b = Booking{StartTime: "9am", EndTime: "17:00"}
	assert.Error(t, b.ComputeDuration())
}

func TestBookingNormalize(t *testing.T) {
	b := Booking{
		TaskRef:       "T-1",
		AssigneeRef:   "E-1",
		Date:          time.Date(2025, 5, 20, 15, 42, 0, 0, time.UTC),
		StartTime:     "09:00",
		EndTime:       "12:00",
		DurationHours: 99, // stale caller value, must be recomputed
	}
	require.NoError(t, b.Normalize())

	assert.Equal(t, BookingStatusAssigned, b.Status)
	assert.Equal(t, 3.0, b.DurationHours)
	assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), b.Date)
}

func TestBookingNormalizeRequiredFields(t *testing.T) {
	base := Booking{
		TaskRef:     "T-1",
		AssigneeRef: "E-1",
		Date:        time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "10:00",
	}

	missingTask := base
	missingTask.TaskRef = "  "
	assert.Error(t, missingTask.Normalize())

	missingAssignee := base
	missingAssignee.AssigneeRef = ""
	assert.Error(t, missingAssignee.Normalize())

	missingDate := base
	missingDate.Date = time.Time{}
	assert.Error(t, missingDate.Normalize())
}

func TestBookingHighPriority(t *testing.T) {
	assert.True(t, (&Booking{TaskPriority: PriorityHigh}).HighPriority())
	assert.True(t, (&Booking{TaskPriority: PriorityUrgent}).HighPriority())
	assert.False(t, (&Booking{TaskPriority: "Medium"}).HighPriority())
	assert.False(t, (&Booking{}).HighPriority())
}
