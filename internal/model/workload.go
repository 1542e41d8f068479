package model

// DayLoad aggregates one calendar day's bookings for one assignee.
type DayLoad struct {
	TotalHours        float64 `json:"total_hours"`
	BookingCount      int     `json:"booking_count"`
	HighPriorityCount int     `json:"high_priority_count"`
}

// Workload is the aggregate utilization summary for an assignee over a
// date range. Daily holds only days that have bookings, keyed by ISO date.
//
// WorkingDays counts Monday-Friday calendar days in the range.
// AvgDailyHours averages over booked days, and utilization is that average
// against an 8-hour day, clamped at 100 so dashboards stay stable under
// over-booking.
type Workload struct {
	AssigneeRef        string             `json:"assignee_ref"`
	Daily              map[string]DayLoad `json:"daily_breakdown"`
	TotalHours         float64            `json:"total_hours"`
	TotalBookings      int                `json:"total_bookings"`
	HighPriorityCount  int                `json:"high_priority_count"`
	WorkingDays        int                `json:"working_days"`
	AvgDailyHours      float64            `json:"avg_daily_hours"`
	UtilizationPercent float64            `json:"utilization_percent"`
}

// RosterEntry is one assignee in the roster view, with current-week
// workload statistics attached.
type RosterEntry struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	Department     string  `json:"department,omitempty"`
	WeeklyHours    float64 `json:"weekly_hours"`
	ActiveBookings int     `json:"active_bookings"`
	// Utilization is weekly hours against a 40-hour week, capped at 100.
	Utilization float64 `json:"utilization"`
}
