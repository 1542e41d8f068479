package timeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
	"github.com/onfuse/planner/internal/timeline"
	"github.com/onfuse/planner/tests/testutil"
)

func TestReassignPreservesDuration(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	// WO-1 spans 2025-03-03..2025-03-05 (two days). Moving it keeps that span.
	target := mustDate(t, "2025-04-10")
	result, err := svc.Reassign(context.Background(), cfg, "WO-1", "", &target)
	require.NoError(t, err)

	rec, err := s.LoadRecord(context.Background(), "work_order", "WO-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-10", rec.Str("planned_start_date"))
	assert.Equal(t, "2025-04-12", rec.Str("planned_end_date"))

	assert.Equal(t, "2025-03-03", result.OldValues["planned_start_date"])
	assert.Equal(t, "2025-04-10", result.NewValues["planned_start_date"])
	assert.Equal(t, "2025-04-12", result.NewValues["planned_end_date"])

	require.NotNil(t, result.Block.StartDate)
	assert.Equal(t, "2025-04-10", model.FormatDate(*result.Block.StartDate))
}

func TestReassignRowOnly(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	result, err := svc.Reassign(context.Background(), cfg, "WO-1", "WS-B", nil)
	require.NoError(t, err)

	assert.Equal(t, "WS-A", result.OldValues["workstation"])
	assert.Equal(t, "WS-B", result.NewValues["workstation"])
	assert.NotContains(t, result.NewValues, "planned_start_date",
		"date untouched on a row-only move")

	rec, err := s.LoadRecord(context.Background(), "work_order", "WO-1")
	require.NoError(t, err)
	assert.Equal(t, "WS-B", rec.Str("workstation"))
	assert.Equal(t, "2025-03-03", rec.Str("planned_start_date"))
}

func TestReassignPointMode(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	point := *cfg
	point.DateRangeStartField = ""
	point.DateRangeEndField = ""

	target := mustDate(t, "2025-04-01")
	_, err := svc.Reassign(context.Background(), &point, "WO-2", "", &target)
	require.NoError(t, err)

	rec, err := s.LoadRecord(context.Background(), "work_order", "WO-2")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", rec.Str("planned_start_date"))
	assert.Equal(t, "2025-03-02", rec.Str("planned_end_date"),
		"point mode never touches the range end")
}

func TestReassignMissingRangeCollapsesToSameDay(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	saveRecord(t, s, "work_order", "WO-X", map[string]any{
		"production_item": "Loose",
		"workstation":     "WS-A",
	})

	target := mustDate(t, "2025-04-01")
	_, err := svc.Reassign(context.Background(), cfg, "WO-X", "", &target)
	require.NoError(t, err)

	rec, err := s.LoadRecord(context.Background(), "work_order", "WO-X")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", rec.Str("planned_start_date"))
	assert.Equal(t, "2025-04-01", rec.Str("planned_end_date"))
}

func TestReassignValidation(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)
	ctx := context.Background()

	_, err := svc.Reassign(ctx, cfg, "WO-1", "", nil)
	assert.Error(t, err, "no-op move rejected")

	_, err = svc.Reassign(ctx, cfg, "missing", "WS-B", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	inactive := *cfg
	inactive.IsActive = false
	_, err = svc.Reassign(ctx, &inactive, "WO-1", "WS-B", nil)
	assert.ErrorIs(t, err, timeline.ErrConfigInactive)
}

func TestReassignConcurrentModification(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)
	ctx := context.Background()

	// Bump WO-1 behind the reassignment's back by racing two moves off the
	// same loaded version.
	rec, err := s.LoadRecord(ctx, "work_order", "WO-1")
	require.NoError(t, err)

	_, err = svc.Reassign(ctx, cfg, "WO-1", "WS-B", nil)
	require.NoError(t, err)

	rec.Set("workstation", "WS-A")
	_, err = s.SaveRecord(ctx, rec, store.SaveOptions{})
	assert.ErrorIs(t, err, store.ErrConcurrentModification)
}
