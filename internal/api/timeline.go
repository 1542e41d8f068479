package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/schema"
	"github.com/onfuse/planner/internal/store"
	"github.com/onfuse/planner/internal/timeline"
)

// ConfigSummary is the caller-facing digest of a timeline configuration.
type ConfigSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	RowType     string `json:"row_type"`
	BlockType   string `json:"block_type"`
}

// DateRange is the materialized window of a view response.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimelineViewRequest selects a configuration, an optional window and
// optional equality filters for each half of the view. A nil Start/End
// falls back to the default 30-day window.
type TimelineViewRequest struct {
	ConfigID string
	Start    *time.Time
	End      *time.Time

	RowFilters   map[string]any
	BlockFilters map[string]any
}

// TimelineViewResponse carries the projected view. On failure Rows and
// Blocks are empty slices, never nil, so consumers can render an empty
// grid without nil checks. RowsError/BlocksError report a degraded half of
// an otherwise successful projection.
type TimelineViewResponse struct {
	envelope

	Config        *ConfigSummary    `json:"config,omitempty"`
	FieldMappings map[string]string `json:"field_mappings,omitempty"`
	Rows          []model.Row       `json:"rows"`
	Blocks        []model.Block     `json:"blocks"`
	DateRange     *DateRange        `json:"date_range,omitempty"`

	RowsError   string `json:"rows_error,omitempty"`
	BlocksError string `json:"blocks_error,omitempty"`
}

// GetTimelineView projects rows and blocks for one configuration. A
// failing half degrades to an empty slice with its error reported; only an
// unusable configuration fails the whole call.
func (s *Service) GetTimelineView(ctx context.Context, req TimelineViewRequest) *TimelineViewResponse {
	resp := &TimelineViewResponse{
		Rows:   []model.Row{},
		Blocks: []model.Block{},
	}
	defer s.recoverTo("timeline view", &resp.envelope)

	cfg, err := s.loadConfig(ctx, req.ConfigID)
	if err != nil {
		resp.fail(err)
		return resp
	}

	var window timeline.Window
	if req.Start != nil {
		window.Start = *req.Start
	}
	if req.End != nil {
		window.End = *req.End
	}

	view, err := s.timeline.Project(ctx, cfg, window, timeline.Filters{
		Rows:   eqFilter(req.RowFilters),
		Blocks: eqFilter(req.BlockFilters),
	})
	if err != nil {
		resp.fail(err)
		return resp
	}

	resp.ok()
	resp.Config = summarize(cfg)
	resp.FieldMappings = fieldMappings(cfg)
	if view.Rows != nil {
		resp.Rows = view.Rows
	}
	if view.Blocks != nil {
		resp.Blocks = view.Blocks
	}
	resp.DateRange = &DateRange{
		Start: model.FormatDate(view.Window.Start),
		End:   model.FormatDate(view.Window.End),
	}
	if view.RowsErr != nil {
		resp.RowsError = view.RowsErr.Error()
	}
	if view.BlocksErr != nil {
		resp.BlocksError = view.BlocksErr.Error()
	}
	return resp
}

// MoveBlockRequest reassigns one block. BlockType is an optional guard:
// when set it must match the configuration's block type.
type MoveBlockRequest struct {
	ConfigID  string
	BlockType string
	BlockID   string
	NewRowID  string
	NewDate   *time.Time
}

// MoveBlockResponse reports a completed move with the before/after values
// of every mutated field.
type MoveBlockResponse struct {
	envelope

	Block     *model.Block   `json:"block,omitempty"`
	OldValues map[string]any `json:"old_values,omitempty"`
	NewValues map[string]any `json:"new_values,omitempty"`
}

// MoveBlock moves a block to a new row and/or date through the active
// configuration, preserving interval duration.
func (s *Service) MoveBlock(ctx context.Context, req MoveBlockRequest) *MoveBlockResponse {
	resp := &MoveBlockResponse{}
	defer s.recoverTo("move block", &resp.envelope)

	cfg, err := s.loadConfig(ctx, req.ConfigID)
	if err != nil {
		resp.fail(err)
		return resp
	}
	if req.BlockType != "" && req.BlockType != cfg.BlockType {
		resp.fail(fmt.Errorf("configuration %s projects %s blocks, not %s",
			cfg.ID, cfg.BlockType, req.BlockType))
		return resp
	}

	moved, err := s.timeline.Reassign(ctx, cfg, req.BlockID, req.NewRowID, req.NewDate)
	if err != nil {
		resp.fail(err)
		return resp
	}

	resp.ok()
	resp.Block = &moved.Block
	resp.OldValues = moved.OldValues
	resp.NewValues = moved.NewValues
	return resp
}

// ConfigurationsResponse lists the active timeline configurations.
type ConfigurationsResponse struct {
	envelope

	Configurations []ConfigSummary `json:"configurations"`
}

// ListConfigurations returns every active configuration's summary.
func (s *Service) ListConfigurations(ctx context.Context) *ConfigurationsResponse {
	resp := &ConfigurationsResponse{Configurations: []ConfigSummary{}}
	defer s.recoverTo("list configurations", &resp.envelope)

	configs, err := s.store.ListTimelineConfigs(ctx, true)
	if err != nil {
		resp.fail(err)
		return resp
	}

	resp.ok()
	for i := range configs {
		resp.Configurations = append(resp.Configurations, *summarize(&configs[i]))
	}
	return resp
}

// ValidationResponse reports configuration validation. Valid is false when
// any binding problem was found; Success is false only when the check
// itself could not run.
type ValidationResponse struct {
	envelope

	Valid    bool                  `json:"valid"`
	Problems []schema.FieldProblem `json:"problems,omitempty"`
}

// ValidateFieldMapping checks a candidate field mapping against the schema
// catalog before it is saved. All problems are collected, not just the
// first.
func (s *Service) ValidateFieldMapping(
	ctx context.Context,
	rowType, blockType string,
	mapping model.TimelineConfig,
) *ValidationResponse {
	resp := &ValidationResponse{}
	defer s.recoverTo("validate field mapping", &resp.envelope)

	mapping.RowType = rowType
	mapping.BlockType = blockType

	result, err := schema.Validate(ctx, s.resolver, mapping)
	if err != nil {
		resp.fail(err)
		return resp
	}

	resp.ok()
	resp.Valid = result.Valid
	resp.Problems = result.Problems
	return resp
}

// loadConfig fetches a configuration by id, mapping a missing row to the
// timeline engine's sentinel so callers match one error regardless of
// which layer noticed.
func (s *Service) loadConfig(ctx context.Context, id string) (*model.TimelineConfig, error) {
	if id == "" {
		return nil, fmt.Errorf("configuration id is required")
	}
	cfg, err := s.store.GetTimelineConfig(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("configuration %s: %w", id, timeline.ErrConfigNotFound)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func summarize(cfg *model.TimelineConfig) *ConfigSummary {
	return &ConfigSummary{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Description: cfg.Description,
		RowType:     cfg.RowType,
		BlockType:   cfg.BlockType,
	}
}

// fieldMappings reports the configuration's bindings by name, omitting the
// optional ones that are unset.
func fieldMappings(cfg *model.TimelineConfig) map[string]string {
	m := map[string]string{
		"row_label_field":     cfg.RowLabelField,
		"row_to_block_field":  cfg.RowToBlockField,
		"block_to_date_field": cfg.BlockToDateField,
		"block_label_field":   cfg.BlockLabelField,
	}
	optional := map[string]string{
		"date_range_start_field": cfg.DateRangeStartField,
		"date_range_end_field":   cfg.DateRangeEndField,
		"block_duration_field":   cfg.BlockDurationField,
		"block_status_field":     cfg.BlockStatusField,
		"block_priority_field":   cfg.BlockPriorityField,
		"block_color_field":      cfg.BlockColorField,
	}
	for name, field := range optional {
		if field != "" {
			m[name] = field
		}
	}
	return m
}
