package model

import (
	"fmt"
	"strings"
	"time"
)

// TimelineConfig is the declarative field-mapping descriptor binding a row
// record type and a block record type to the fields the timeline needs.
// It contains no behavior beyond structural validation; field existence
// against the schema catalog is checked by the schema package.
type TimelineConfig struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	IsActive    bool   `json:"is_active" db:"is_active"`

	RowType   string `json:"row_type" db:"row_type"`
	BlockType string `json:"block_type" db:"block_type"`

	RowLabelField    string `json:"row_label_field" db:"row_label_field"`
	RowToBlockField  string `json:"row_to_block_field" db:"row_to_block_field"`
	BlockToDateField string `json:"block_to_date_field" db:"block_to_date_field"`
	BlockLabelField  string `json:"block_label_field" db:"block_label_field"`

	// Range fields are set together or not at all: a block type is either
	// interval-valued (both set) or point-valued on BlockToDateField.
	DateRangeStartField string `json:"date_range_start_field,omitempty" db:"date_range_start_field"`
	DateRangeEndField   string `json:"date_range_end_field,omitempty" db:"date_range_end_field"`

	BlockDurationField string `json:"block_duration_field,omitempty" db:"block_duration_field"`
	BlockStatusField   string `json:"block_status_field,omitempty" db:"block_status_field"`
	BlockPriorityField string `json:"block_priority_field,omitempty" db:"block_priority_field"`
	BlockColorField    string `json:"block_color_field,omitempty" db:"block_color_field"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IntervalMode reports whether blocks carry an explicit start/end date pair.
func (c *TimelineConfig) IntervalMode() bool {
	return c.DateRangeStartField != "" && c.DateRangeEndField != ""
}

// Validate checks the structural rules that do not require a schema catalog:
// required bindings present and the range-field pair set together or not at
// all. A one-sided range is a configuration error, never a runtime fallback.
func (c *TimelineConfig) Validate() error {
	required := map[string]string{
		"row_type":            c.RowType,
		"block_type":          c.BlockType,
		"row_label_field":     c.RowLabelField,
		"row_to_block_field":  c.RowToBlockField,
		"block_to_date_field": c.BlockToDateField,
		"block_label_field":   c.BlockLabelField,
	}
	var missing []string
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("timeline configuration %s missing required fields: %s",
			c.ID, strings.Join(missing, ", "))
	}

	if (c.DateRangeStartField == "") != (c.DateRangeEndField == "") {
		return fmt.Errorf(
			"timeline configuration %s sets only one of date_range_start_field/date_range_end_field; set both or neither",
			c.ID)
	}

	return nil
}
