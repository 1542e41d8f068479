package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/onfuse/planner/internal/model"
)

// SampleConfigID is the id of the seeded workstation/work-order timeline
// configuration.
const SampleConfigID = "job-card-planning"

// Seed installs the sample schemas and the workstation/work-order timeline
// configuration. Safe to call more than once.
func Seed(ctx context.Context, s Store) error {
	schemas := map[string]model.FieldList{
		"workstation": {
			{Name: "workstation_name", Type: model.FieldTypeText, Label: "Workstation Name"},
			{Name: "status", Type: model.FieldTypeText, Label: "Status"},
			{Name: "company", Type: model.FieldTypeText, Label: "Company"},
			{Name: "disabled", Type: model.FieldTypeBool, Label: "Disabled"},
		},
		"work_order": {
			{Name: "production_item", Type: model.FieldTypeText, Label: "Production Item"},
			{Name: "workstation", Type: model.FieldTypeLink, Label: "Workstation"},
			{Name: "planned_start_date", Type: model.FieldTypeDate, Label: "Planned Start Date"},
			{Name: "planned_end_date", Type: model.FieldTypeDate, Label: "Planned End Date"},
			{Name: "expected_time", Type: model.FieldTypeNumber, Label: "Expected Time"},
			{Name: "status", Type: model.FieldTypeText, Label: "Status"},
			{Name: "priority", Type: model.FieldTypeText, Label: "Priority"},
			{Name: "progress", Type: model.FieldTypeNumber, Label: "Progress"},
			{Name: "description", Type: model.FieldTypeText, Label: "Description"},
		},
		"employee": {
			{Name: "employee_name", Type: model.FieldTypeText, Label: "Employee Name"},
			{Name: "department", Type: model.FieldTypeText, Label: "Department"},
			{Name: "company", Type: model.FieldTypeText, Label: "Company"},
			{Name: "status", Type: model.FieldTypeText, Label: "Status"},
		},
		"task": {
			{Name: "subject", Type: model.FieldTypeText, Label: "Subject"},
			{Name: "status", Type: model.FieldTypeText, Label: "Status"},
			{Name: "priority", Type: model.FieldTypeText, Label: "Priority"},
			{Name: "project", Type: model.FieldTypeText, Label: "Project"},
			{Name: "expected_time", Type: model.FieldTypeNumber, Label: "Expected Time"},
			{Name: "description", Type: model.FieldTypeText, Label: "Description"},
		},
	}

	for recordType, fields := range schemas {
		if err := s.PutSchema(ctx, recordType, fields); err != nil {
			return fmt.Errorf("seeding schema %s: %w", recordType, err)
		}
	}

	// Keep an operator's edits: only install the sample configuration when
	// it is missing.
	_, err := s.GetTimelineConfig(ctx, SampleConfigID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = s.SaveTimelineConfig(ctx, model.TimelineConfig{
		ID:          SampleConfigID,
		Name:        "Job Card Planning",
		Description: "Plan work orders across workstations for job card scheduling",
		IsActive:    true,
		RowType:     "workstation",
		BlockType:   "work_order",

		RowLabelField:    "workstation_name",
		RowToBlockField:  "workstation",
		BlockToDateField: "planned_start_date",
		BlockLabelField:  "production_item",

		DateRangeStartField: "planned_start_date",
		DateRangeEndField:   "planned_end_date",

		BlockDurationField: "expected_time",
		BlockStatusField:   "status",
		BlockPriorityField: "priority",
	})
	if err != nil {
		return fmt.Errorf("seeding sample timeline config: %w", err)
	}

	return nil
}
