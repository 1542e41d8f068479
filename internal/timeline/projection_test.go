package timeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
	"github.com/onfuse/planner/internal/timeline"
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

// seedPlanningData installs two workstations and three work orders around
// the sample configuration's window.
func seedPlanningData(t *testing.T, s *store.SQLiteStore) *model.TimelineConfig {
	t.Helper()

	saveRecord(t, s, "workstation", "WS-A", map[string]any{
		"workstation_name": "Assembly", "status": "Active",
	})
	saveRecord(t, s, "workstation", "WS-B", map[string]any{
		"workstation_name": "Paint",
	})

	saveRecord(t, s, "work_order", "WO-1", map[string]any{
		"production_item":    "Frame",
		"workstation":        "WS-A",
		"planned_start_date": "2025-03-03",
		"planned_end_date":   "2025-03-05",
		"expected_time":      16.0,
		"status":             "Working",
		"priority":           "High",
	})
	saveRecord(t, s, "work_order", "WO-2", map[string]any{
		"production_item":    "Door",
		"workstation":        "WS-B",
		"planned_start_date": "2025-03-01",
		"planned_end_date":   "2025-03-02",
		"status":             "Open",
	})
	// Outside the test window entirely.
	saveRecord(t, s, "work_order", "WO-3", map[string]any{
		"production_item":    "Roof",
		"workstation":        "WS-A",
		"planned_start_date": "2025-05-01",
		"planned_end_date":   "2025-05-03",
	})

	cfg, err := s.GetTimelineConfig(context.Background(), store.SampleConfigID)
	require.NoError(t, err)
	return cfg
}

func marchWindow(t *testing.T) timeline.Window {
	return timeline.Window{
		Start: mustDate(t, "2025-03-01"),
		End:   mustDate(t, "2025-03-31"),
	}
}

func TestProjectRowsAndBlocks(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	view, err := svc.Project(context.Background(), cfg, marchWindow(t), timeline.Filters{})
	require.NoError(t, err)
	require.Nil(t, view.RowsErr)
	require.Nil(t, view.BlocksErr)

	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Assembly", view.Rows[0].Label, "rows ordered by label")
	assert.Equal(t, "Paint", view.Rows[1].Label)
	assert.Equal(t, "Active", view.Rows[0].Extra["status"])
	assert.NotContains(t, view.Rows[1].Extra, "status", "absent extras stay absent")

	require.Len(t, view.Blocks, 2, "out-of-window block excluded")
	assert.Equal(t, "WO-2", view.Blocks[0].ID, "blocks ordered by range start")
	assert.Equal(t, "WO-1", view.Blocks[1].ID)

	frame := view.Blocks[1]
	assert.Equal(t, "Frame", frame.Label)
	assert.Equal(t, "WS-A", frame.RowID)
	require.NotNil(t, frame.StartDate)
	require.NotNil(t, frame.EndDate)
	assert.Equal(t, "2025-03-03", model.FormatDate(*frame.StartDate))
	assert.Equal(t, "2025-03-05", model.FormatDate(*frame.EndDate))
	require.NotNil(t, frame.Duration)
	assert.Equal(t, 16.0, *frame.Duration)
	assert.Equal(t, "Working", frame.Status)
}

func TestProjectWindowIntersection(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	// WO-1 spans 03-03..03-05; a window covering only its tail still shows it.
	window := timeline.Window{
		Start: mustDate(t, "2025-03-05"),
		End:   mustDate(t, "2025-03-10"),
	}
	view, err := svc.Project(context.Background(), cfg, window, timeline.Filters{})
	require.NoError(t, err)
	require.Len(t, view.Blocks, 1)
	assert.Equal(t, "WO-1", view.Blocks[0].ID)

	// A window strictly between blocks shows nothing.
	window = timeline.Window{
		Start: mustDate(t, "2025-03-06"),
		End:   mustDate(t, "2025-03-31"),
	}
	view, err = svc.Project(context.Background(), cfg, window, timeline.Filters{})
	require.NoError(t, err)
	assert.Empty(t, view.Blocks)
}

func TestProjectOneSidedWindow(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	// Only a start: the window keeps it and spans 30 days from there.
	window := timeline.Window{Start: mustDate(t, "2025-03-01")}
	view, err := svc.Project(context.Background(), cfg, window, timeline.Filters{})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2025-03-01"), view.Window.Start)
	assert.Equal(t, mustDate(t, "2025-03-31"), view.Window.End)
	require.Len(t, view.Blocks, 2, "March blocks fall inside the derived window")
	assert.Equal(t, "WO-2", view.Blocks[0].ID)
	assert.Equal(t, "WO-1", view.Blocks[1].ID)

	// Only an end: the start defaults to today, the supplied end survives.
	window = timeline.Window{End: mustDate(t, "2030-01-01")}
	view, err = svc.Project(context.Background(), cfg, window, timeline.Filters{})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2030-01-01"), view.Window.End)
	assert.False(t, view.Window.Start.IsZero())
}

func TestProjectPointMode(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	point := *cfg
	point.DateRangeStartField = ""
	point.DateRangeEndField = ""

	view, err := svc.Project(context.Background(), &point, timeline.Window{
		Start: mustDate(t, "2025-03-02"),
		End:   mustDate(t, "2025-03-31"),
	}, timeline.Filters{})
	require.NoError(t, err)

	// Point mode is inclusive containment on the anchor date: WO-2's anchor
	// 03-01 is outside, WO-1's 03-03 inside.
	require.Len(t, view.Blocks, 1)
	block := view.Blocks[0]
	assert.Equal(t, "WO-1", block.ID)
	assert.Nil(t, block.StartDate)
	assert.Nil(t, block.EndDate)
	assert.Equal(t, "2025-03-03", model.FormatDate(block.AnchorDate))
}

func TestProjectLabelFallsBackToID(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	saveRecord(t, s, "workstation", "WS-C", map[string]any{"status": "Active"})

	view, err := svc.Project(context.Background(), cfg, marchWindow(t), timeline.Filters{})
	require.NoError(t, err)
	require.Len(t, view.Rows, 3)

	var labels []string
	for _, row := range view.Rows {
		labels = append(labels, row.Label)
	}
	assert.Contains(t, labels, "WS-C")
}

func TestProjectBlockFilters(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	view, err := svc.Project(context.Background(), cfg, marchWindow(t), timeline.Filters{
		Blocks: store.Filter{store.Eq("status", "Working")},
	})
	require.NoError(t, err)
	require.Len(t, view.Blocks, 1)
	assert.Equal(t, "WO-1", view.Blocks[0].ID)
}

func TestProjectColorFallback(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	view, err := svc.Project(context.Background(), cfg, marchWindow(t), timeline.Filters{})
	require.NoError(t, err)
	require.Len(t, view.Blocks, 2)

	byID := map[string]model.Block{}
	for _, b := range view.Blocks {
		byID[b.ID] = b
	}
	assert.Equal(t, "#3B82F6", byID["WO-1"].Color, "Working status color")
	assert.Equal(t, "#6B7280", byID["WO-2"].Color, "Open status color")
}

func TestProjectInactiveConfigRefused(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)
	svc := timeline.NewService(s, nil)

	inactive := *cfg
	inactive.IsActive = false
	_, err := svc.Project(context.Background(), &inactive, marchWindow(t), timeline.Filters{})
	assert.ErrorIs(t, err, timeline.ErrConfigInactive)
}

// failingRecordStore fails queries for one record type and delegates the
// rest, standing in for a half-broken backing source.
type failingRecordStore struct {
	store.RecordStore
	failType string
}

var errQueryBroken = errors.New("backing query exploded")

func (f *failingRecordStore) QueryRecords(
	ctx context.Context,
	recordType string,
	filter store.Filter,
	fields []string,
	orderBy store.OrderBy,
) ([]model.Record, error) {
	if recordType == f.failType {
		return nil, errQueryBroken
	}
	return f.RecordStore.QueryRecords(ctx, recordType, filter, fields, orderBy)
}

func TestProjectDegradesPerHalf(t *testing.T) {
	s := testutil.NewSeededStore(t)
	cfg := seedPlanningData(t, s)

	svc := timeline.NewService(&failingRecordStore{RecordStore: s, failType: "work_order"}, nil)
	view, err := svc.Project(context.Background(), cfg, marchWindow(t), timeline.Filters{})
	require.NoError(t, err, "a failing half never fails the projection")

	assert.Len(t, view.Rows, 2, "healthy half still projects")
	assert.Empty(t, view.Blocks)
	assert.ErrorIs(t, view.BlocksErr, errQueryBroken)
	assert.Nil(t, view.RowsErr)
}
