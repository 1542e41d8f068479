// Package timeline projects schema-described records onto a row/block
// calendar view and moves blocks between rows and dates.
package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
)

// DefaultWindowDays is the span of the date window applied when a caller
// does not supply one. Fixed, not configurable per call.
const DefaultWindowDays = 30

// rowExtraFields are projected onto rows when the row type's schema has
// them. Presence-gated, never required.
var rowExtraFields = []string{"status", "department", "company", "disabled"}

// blockExtraFields are the pass-through fields added to blocks when the
// block type's schema has them.
var blockExtraFields = []string{"progress", "description"}

// Window is an inclusive date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Filters carries the caller's extra predicates for the two queries.
type Filters struct {
	Rows   store.Filter
	Blocks store.Filter
}

// View is the projected timeline. A failing half degrades to an empty
// slice with its error recorded, so a malfunctioning block source does not
// hide the row grid and callers can still tell "no data" from "query
// failed".
type View struct {
	Rows   []model.Row
	Blocks []model.Block
	Window Window

	RowsErr   error
	BlocksErr error
}

// Service is the projection and reassignment engine over a record store.
type Service struct {
	records store.RecordStore
	log     *logrus.Logger
}

// NewService returns a timeline service over the given record store.
func NewService(records store.RecordStore, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{records: records, log: log}
}

// Project builds the row/block view for one configuration and window.
// Fails only when the configuration is unusable; query failures degrade
// per half.
func (s *Service) Project(
	ctx context.Context,
	cfg *model.TimelineConfig,
	window Window,
	filters Filters,
) (*View, error) {
	if !cfg.IsActive {
		return nil, fmt.Errorf("projecting %s: %w", cfg.ID, ErrConfigInactive)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Each bound defaults independently: a caller supplying only a start
	// still gets a 30-day window anchored there.
	if window.Start.IsZero() {
		window.Start = time.Now()
	}
	window.Start = model.Midnight(window.Start)
	if window.End.IsZero() {
		window.End = window.Start.AddDate(0, 0, DefaultWindowDays)
	}
	window.End = model.Midnight(window.End)

	view := &View{Window: window}

	rows, err := s.projectRows(ctx, cfg, filters.Rows)
	if err != nil {
		s.log.WithError(err).WithField("config", cfg.ID).Warn("row projection failed")
		view.RowsErr = err
	} else {
		view.Rows = rows
	}

	blocks, err := s.projectBlocks(ctx, cfg, window, filters.Blocks)
	if err != nil {
		s.log.WithError(err).WithField("config", cfg.ID).Warn("block projection failed")
		view.BlocksErr = err
	} else {
		view.Blocks = blocks
	}

	return view, nil
}

func (s *Service) projectRows(
	ctx context.Context,
	cfg *model.TimelineConfig,
	filter store.Filter,
) ([]model.Row, error) {
	extras := s.presentFields(ctx, cfg.RowType, rowExtraFields)

	fields := append([]string{cfg.RowLabelField}, extras...)
	records, err := s.records.QueryRecords(ctx, cfg.RowType, filter, fields,
		store.OrderBy{Field: cfg.RowLabelField})
	if err != nil {
		return nil, fmt.Errorf("querying %s rows: %w", cfg.RowType, err)
	}

	rows := make([]model.Row, 0, len(records))
	for i := range records {
		rec := &records[i]
		row := model.Row{
			ID:         rec.ID,
			Label:      rec.Str(cfg.RowLabelField),
			RecordType: cfg.RowType,
		}
		if row.Label == "" {
			row.Label = rec.ID
		}
		for _, f := range extras {
			if rec.Has(f) {
				if row.Extra == nil {
					row.Extra = map[string]any{}
				}
				row.Extra[f] = rec.Get(f)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) projectBlocks(
	ctx context.Context,
	cfg *model.TimelineConfig,
	window Window,
	filter store.Filter,
) ([]model.Block, error) {
	startStr := model.FormatDate(window.Start)
	endStr := model.FormatDate(window.End)

	// The window predicate is an interval intersection test, not
	// containment: a block overhanging either edge still shows.
	predicate := make(store.Filter, 0, len(filter)+2)
	predicate = append(predicate, filter...)
	orderField := cfg.BlockToDateField
	if cfg.IntervalMode() {
		predicate = append(predicate,
			store.Condition{Field: cfg.DateRangeStartField, Op: store.OpLte, Value: endStr},
			store.Condition{Field: cfg.DateRangeEndField, Op: store.OpGte, Value: startStr},
		)
		orderField = cfg.DateRangeStartField
	} else {
		predicate = append(predicate, store.Between(cfg.BlockToDateField, startStr, endStr))
	}

	extras := s.presentFields(ctx, cfg.BlockType, blockExtraFields)
	fields := blockFieldSet(cfg, extras)

	records, err := s.records.QueryRecords(ctx, cfg.BlockType, predicate, fields,
		store.OrderBy{Field: orderField})
	if err != nil {
		return nil, fmt.Errorf("querying %s blocks: %w", cfg.BlockType, err)
	}

	blocks := make([]model.Block, 0, len(records))
	for i := range records {
		blocks = append(blocks, BlockFromRecord(cfg, &records[i], extras))
	}
	return blocks, nil
}

// presentFields filters wanted down to the fields the record type's schema
// actually has. Schema lookup failures degrade to no extras; the base
// projection never depends on them.
func (s *Service) presentFields(ctx context.Context, recordType string, wanted []string) []string {
	schema, err := s.records.GetSchema(ctx, recordType)
	if err != nil {
		s.log.WithError(err).WithField("record_type", recordType).Debug("schema lookup for extra fields failed")
		return nil
	}
	var present []string
	for _, f := range wanted {
		if schema.Has(f) {
			present = append(present, f)
		}
	}
	return present
}

// blockFieldSet collects the deduplicated field projection for block
// queries: required bindings, supplied optional bindings, gated extras.
func blockFieldSet(cfg *model.TimelineConfig, extras []string) []string {
	seen := map[string]bool{}
	var fields []string
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}

	add(cfg.RowToBlockField)
	add(cfg.BlockToDateField)
	add(cfg.BlockLabelField)
	add(cfg.DateRangeStartField)
	add(cfg.DateRangeEndField)
	add(cfg.BlockDurationField)
	add(cfg.BlockStatusField)
	add(cfg.BlockPriorityField)
	add(cfg.BlockColorField)
	for _, f := range extras {
		add(f)
	}
	return fields
}

// BlockFromRecord maps one backing record onto the block view model using
// the configuration's field bindings.
func BlockFromRecord(cfg *model.TimelineConfig, rec *model.Record, extras []string) model.Block {
	block := model.Block{
		ID:         rec.ID,
		Label:      rec.Str(cfg.BlockLabelField),
		RecordType: cfg.BlockType,
		RowID:      rec.Str(cfg.RowToBlockField),
	}
	if block.Label == "" {
		block.Label = rec.ID
	}

	if d, ok := rec.Date(cfg.BlockToDateField); ok {
		block.AnchorDate = d
	}

	if cfg.IntervalMode() {
		if d, ok := rec.Date(cfg.DateRangeStartField); ok {
			block.StartDate = &d
			if block.AnchorDate.IsZero() {
				block.AnchorDate = d
			}
		}
		if d, ok := rec.Date(cfg.DateRangeEndField); ok {
			block.EndDate = &d
		}
	}

	if cfg.BlockDurationField != "" && rec.Has(cfg.BlockDurationField) {
		d := rec.Float(cfg.BlockDurationField)
		block.Duration = &d
	}
	if cfg.BlockStatusField != "" {
		block.Status = rec.Str(cfg.BlockStatusField)
	}
	if cfg.BlockPriorityField != "" {
		block.Priority = rec.Str(cfg.BlockPriorityField)
	}
	if cfg.BlockColorField != "" {
		block.Color = rec.Str(cfg.BlockColorField)
	}
	if block.Color == "" {
		block.Color = fallbackColor(block.Status, block.Priority)
	}

	for _, f := range extras {
		if rec.Has(f) {
			if block.Extra == nil {
				block.Extra = map[string]any{}
			}
			block.Extra[f] = rec.Get(f)
		}
	}

	return block
}
