package model

import "time"

// Row is the view-model for a single timeline track (e.g. a workstation or
// a person). Rows are derived from backing records at query time and never
// persisted independently; identity is the backing record's id.
type Row struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	RecordType string         `json:"record_type"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Block is the view-model for a time-bound entity displayed against a row.
// StartDate/EndDate are set only in interval mode.
type Block struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	RecordType string     `json:"record_type"`
	RowID      string     `json:"row_id"`
	AnchorDate time.Time  `json:"anchor_date"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Duration   *float64   `json:"duration,omitempty"`
	Status     string     `json:"status,omitempty"`
	Priority   string     `json:"priority,omitempty"`
	Color      string     `json:"color,omitempty"`

	// Extra carries presence-gated pass-through fields such as progress
	// or description when the block type has them.
	Extra map[string]any `json:"extra,omitempty"`
}
