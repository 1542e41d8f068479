package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
)

// MoveResult reports a completed reassignment: the updated block view model
// plus the old and new values of every mutated field, keyed by field name,
// for audit logging at the boundary.
type MoveResult struct {
	Block     model.Block    `json:"block"`
	OldValues map[string]any `json:"old_values"`
	NewValues map[string]any `json:"new_values"`
}

// Reassign moves a block to a new row and/or date and persists the change
// as one atomic record write. In interval mode the block's duration in days
// is computed from the record's current range before any mutation, so a
// move never stretches or shrinks a multi-day block. The write carries the
// loaded version; losing a concurrent-update race surfaces as the store's
// retryable ErrConcurrentModification.
func (s *Service) Reassign(
	ctx context.Context,
	cfg *model.TimelineConfig,
	blockID string,
	newRowID string,
	newDate *time.Time,
) (*MoveResult, error) {
	if !cfg.IsActive {
		return nil, fmt.Errorf("moving block via %s: %w", cfg.ID, ErrConfigInactive)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if newRowID == "" && newDate == nil {
		return nil, fmt.Errorf("moving block %s: nothing to change", blockID)
	}

	rec, err := s.records.LoadRecord(ctx, cfg.BlockType, blockID)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{
		OldValues: map[string]any{},
		NewValues: map[string]any{},
	}
	mutate := func(field string, value any) {
		result.OldValues[field] = rec.Get(field)
		rec.Set(field, value)
		result.NewValues[field] = value
	}

	if newRowID != "" {
		mutate(cfg.RowToBlockField, newRowID)
	}

	if newDate != nil {
		date := model.Midnight(*newDate)
		if cfg.IntervalMode() {
			s.moveRange(cfg, rec, date, mutate)
		} else {
			mutate(cfg.BlockToDateField, model.FormatDate(date))
		}
	}

	saved, err := s.records.SaveRecord(ctx, rec, store.SaveOptions{})
	if err != nil {
		return nil, err
	}

	block := BlockFromRecord(cfg, saved, s.presentFields(ctx, cfg.BlockType, blockExtraFields))
	result.Block = block

	s.log.WithFields(logrus.Fields{
		"config": cfg.ID,
		"block":  blockID,
		"fields": len(result.NewValues),
	}).Info("block reassigned")

	return result, nil
}

// moveRange shifts an interval-mode block to start at date, preserving its
// current duration. Duration is derived from the stored values before any
// field is touched. A record with a missing or inverted range collapses to
// a zero-day block at the new date rather than guessing a span.
func (s *Service) moveRange(
	cfg *model.TimelineConfig,
	rec *model.Record,
	date time.Time,
	mutate func(field string, value any),
) {
	durationDays := 0
	start, startOK := rec.Date(cfg.DateRangeStartField)
	end, endOK := rec.Date(cfg.DateRangeEndField)
	if startOK && endOK {
		if d := model.DaysBetween(start, end); d > 0 {
			durationDays = d
		}
	}

	mutate(cfg.DateRangeStartField, model.FormatDate(date))
	mutate(cfg.DateRangeEndField, model.FormatDate(date.AddDate(0, 0, durationDays)))

	// Keep the anchor field in step when it is distinct from the range
	// start, so point-style consumers of the same block type stay correct.
	if cfg.BlockToDateField != cfg.DateRangeStartField {
		mutate(cfg.BlockToDateField, model.FormatDate(date))
	}
}
