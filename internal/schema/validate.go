package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/onfuse/planner/internal/model"
)

// FieldProblem names one field binding that failed validation.
type FieldProblem struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationResult lists every problem found in a configuration. Collecting
// all failures instead of stopping at the first is part of the contract: a
// configuration editor surfaces them at once.
type ValidationResult struct {
	Valid    bool           `json:"valid"`
	Problems []FieldProblem `json:"problems,omitempty"`
}

func (r *ValidationResult) add(field, reason string) {
	r.Problems = append(r.Problems, FieldProblem{Field: field, Reason: reason})
}

// Validate checks a timeline configuration against the schema catalog:
// both record types must exist, every required binding must resolve to a
// field of the right type's schema, and every supplied optional binding
// must resolve too. Catalog lookup failures other than a missing schema are
// returned as errors; binding problems land in the result.
func Validate(
	ctx context.Context,
	resolver Resolver,
	cfg model.TimelineConfig,
) (ValidationResult, error) {
	result := ValidationResult{}

	if err := cfg.Validate(); err != nil {
		result.add("configuration", err.Error())
	}

	rowFields, err := resolveType(ctx, resolver, cfg.RowType, "row_type", &result)
	if err != nil {
		return ValidationResult{}, err
	}
	blockFields, err := resolveType(ctx, resolver, cfg.BlockType, "block_type", &result)
	if err != nil {
		return ValidationResult{}, err
	}

	if rowFields != nil {
		checkField(rowFields, cfg.RowType, cfg.RowLabelField, "row_label_field", true, &result)
	}

	if blockFields != nil {
		required := []struct{ binding, field string }{
			{"row_to_block_field", cfg.RowToBlockField},
			{"block_to_date_field", cfg.BlockToDateField},
			{"block_label_field", cfg.BlockLabelField},
		}
		for _, f := range required {
			checkField(blockFields, cfg.BlockType, f.field, f.binding, true, &result)
		}

		optional := []struct{ binding, field string }{
			{"date_range_start_field", cfg.DateRangeStartField},
			{"date_range_end_field", cfg.DateRangeEndField},
			{"block_duration_field", cfg.BlockDurationField},
			{"block_status_field", cfg.BlockStatusField},
			{"block_priority_field", cfg.BlockPriorityField},
			{"block_color_field", cfg.BlockColorField},
		}
		for _, f := range optional {
			checkField(blockFields, cfg.BlockType, f.field, f.binding, false, &result)
		}
	}

	result.Valid = len(result.Problems) == 0
	return result, nil
}

func resolveType(
	ctx context.Context,
	resolver Resolver,
	recordType, binding string,
	result *ValidationResult,
) (model.FieldList, error) {
	if recordType == "" {
		// Already reported by the structural check.
		return nil, nil
	}
	fields, err := resolver.Resolve(ctx, recordType)
	if errors.Is(err, ErrSchemaNotFound) {
		result.add(binding, fmt.Sprintf("record type %q does not exist", recordType))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func checkField(
	fields model.FieldList,
	recordType, fieldName, binding string,
	required bool,
	result *ValidationResult,
) {
	if fieldName == "" {
		if required {
			result.add(binding, "required field binding is empty")
		}
		return
	}
	if !fields.Has(fieldName) {
		result.add(binding, fmt.Sprintf("field %q does not exist on record type %q", fieldName, recordType))
	}
}
