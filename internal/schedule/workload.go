package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
)

// Standard capacity assumptions for utilization.
const (
	hoursPerWorkday = 8.0
	hoursPerWeek    = 40.0
)

// ComputeWorkload aggregates an assignee's bookings over [from, to]
// inclusive. WorkingDays counts Monday-Friday calendar days in the range;
// the utilization percentage is the average booked-day load against an
// 8-hour day, clamped at 100 so over-booking cannot blow up a dashboard.
func (s *Service) ComputeWorkload(
	ctx context.Context,
	assigneeRef string,
	from, to time.Time,
) (*model.Workload, error) {
	from = model.Midnight(from)
	to = model.Midnight(to)
	if to.Before(from) {
		return nil, fmt.Errorf("workload range end %s precedes start %s",
			model.FormatDate(to), model.FormatDate(from))
	}

	bookings, err := s.bookings.GetBookingsInRange(ctx, assigneeRef, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching bookings for workload: %w", err)
	}

	w := &model.Workload{
		AssigneeRef: assigneeRef,
		Daily:       map[string]model.DayLoad{},
	}

	for _, b := range bookings {
		day := model.FormatDate(b.Date)
		load := w.Daily[day]
		load.TotalHours += b.DurationHours
		load.BookingCount++
		if b.HighPriority() {
			load.HighPriorityCount++
			w.HighPriorityCount++
		}
		w.Daily[day] = load
		w.TotalHours += b.DurationHours
	}
	w.TotalBookings = len(bookings)

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if model.IsWeekday(d) {
			w.WorkingDays++
		}
	}

	if bookedDays := len(w.Daily); bookedDays > 0 {
		w.AvgDailyHours = w.TotalHours / float64(bookedDays)
	}
	w.UtilizationPercent = clampPercent(w.AvgDailyHours / hoursPerWorkday * 100)

	return w, nil
}

// Roster returns assignees matching the given equality filters, ordered by
// label, each with workload statistics for the week containing now.
func (s *Service) Roster(
	ctx context.Context,
	now time.Time,
	filter store.Filter,
) ([]model.RosterEntry, error) {
	records, err := s.records.QueryRecords(ctx, s.AssigneeType, filter, nil,
		store.OrderBy{Field: "employee_name"})
	if err != nil {
		return nil, fmt.Errorf("querying %s roster: %w", s.AssigneeType, err)
	}

	weekStart, weekEnd := currentWeek(now)

	entries := make([]model.RosterEntry, 0, len(records))
	for i := range records {
		rec := &records[i]
		entry := model.RosterEntry{
			ID:         rec.ID,
			Label:      rec.Str("employee_name"),
			Department: rec.Str("department"),
		}
		if entry.Label == "" {
			entry.Label = rec.ID
		}

		bookings, err := s.bookings.GetBookingsInRange(ctx, rec.ID, weekStart, weekEnd)
		if err != nil {
			return nil, fmt.Errorf("fetching weekly bookings for %s: %w", rec.ID, err)
		}
		for _, b := range bookings {
			entry.WeeklyHours += b.DurationHours
			if b.Status == model.BookingStatusActive {
				entry.ActiveBookings++
			}
		}
		entry.Utilization = clampPercent(entry.WeeklyHours / hoursPerWeek * 100)

		entries = append(entries, entry)
	}
	return entries, nil
}

// currentWeek returns the Monday-Sunday span containing now.
func currentWeek(now time.Time) (start, end time.Time) {
	day := model.Midnight(now)
	// time.Weekday puts Sunday at 0; shift so Monday opens the week.
	offset := (int(day.Weekday()) + 6) % 7
	start = day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

func clampPercent(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
