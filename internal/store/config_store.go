package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onfuse/planner/internal/model"
)

// SaveTimelineConfig inserts or replaces a timeline configuration after
// structural validation. Generates a UUID if the ID is empty.
func (s *SQLiteStore) SaveTimelineConfig(
	ctx context.Context,
	cfg model.TimelineConfig,
) (*model.TimelineConfig, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO timeline_configs (
			id, name, description, is_active, row_type, block_type,
			row_label_field, row_to_block_field, block_to_date_field, block_label_field,
			date_range_start_field, date_range_end_field,
			block_duration_field, block_status_field, block_priority_field, block_color_field,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.ID, cfg.Name, cfg.Description, boolToInt(cfg.IsActive), cfg.RowType, cfg.BlockType,
		cfg.RowLabelField, cfg.RowToBlockField, cfg.BlockToDateField, cfg.BlockLabelField,
		cfg.DateRangeStartField, cfg.DateRangeEndField,
		cfg.BlockDurationField, cfg.BlockStatusField, cfg.BlockPriorityField, cfg.BlockColorField,
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("saving timeline config %s", cfg.ID), Err: err}
	}

	return &cfg, nil
}

// GetTimelineConfig retrieves a timeline configuration by id.
func (s *SQLiteStore) GetTimelineConfig(
	ctx context.Context,
	id string,
) (*model.TimelineConfig, error) {
	row := s.db.QueryRowxContext(ctx, timelineConfigSelect+" WHERE id = ?", id)

	cfg, err := scanTimelineConfigFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting timeline config %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting timeline config %s: %w", id, err)
	}
	return &cfg, nil
}

// ListTimelineConfigs returns configurations ordered by name, optionally
// restricted to active ones.
func (s *SQLiteStore) ListTimelineConfigs(
	ctx context.Context,
	activeOnly bool,
) ([]model.TimelineConfig, error) {
	query := timelineConfigSelect
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY name ASC"

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, &PersistenceError{Op: "listing timeline configs", Err: err}
	}
	defer rows.Close()

	var configs []model.TimelineConfig
	for rows.Next() {
		cfg, err := scanTimelineConfigFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning timeline config row: %w", err)
		}
		configs = append(configs, cfg)
	}

	return configs, rows.Err()
}

// PutSchema registers or replaces the field list for a record type.
func (s *SQLiteStore) PutSchema(
	ctx context.Context,
	recordType string,
	fields model.FieldList,
) error {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshaling schema for %s: %w", recordType, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO schemas (record_type, fields, updated_at)
		VALUES (?, ?, ?)`,
		recordType, string(fieldsJSON), time.Now().UTC(),
	)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("saving schema for %s", recordType), Err: err}
	}
	return nil
}

// GetSchema returns the field list for a record type.
func (s *SQLiteStore) GetSchema(
	ctx context.Context,
	recordType string,
) (model.FieldList, error) {
	var fieldsJSON string
	err := s.db.GetContext(ctx, &fieldsJSON,
		"SELECT fields FROM schemas WHERE record_type = ?", recordType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting schema for %s: %w", recordType, ErrNotFound)
	}
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("getting schema for %s", recordType), Err: err}
	}

	var fields model.FieldList
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("unmarshaling schema for %s: %w", recordType, err)
	}
	return fields, nil
}

const timelineConfigSelect = `SELECT
	id, name, description, is_active, row_type, block_type,
	row_label_field, row_to_block_field, block_to_date_field, block_label_field,
	date_range_start_field, date_range_end_field,
	block_duration_field, block_status_field, block_priority_field, block_color_field,
	created_at, updated_at
FROM timeline_configs`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTimelineConfigFrom(sc rowScanner) (model.TimelineConfig, error) {
	var (
		cfg       model.TimelineConfig
		activeInt int
	)

	err := sc.Scan(
		&cfg.ID, &cfg.Name, &cfg.Description, &activeInt, &cfg.RowType, &cfg.BlockType,
		&cfg.RowLabelField, &cfg.RowToBlockField, &cfg.BlockToDateField, &cfg.BlockLabelField,
		&cfg.DateRangeStartField, &cfg.DateRangeEndField,
		&cfg.BlockDurationField, &cfg.BlockStatusField, &cfg.BlockPriorityField, &cfg.BlockColorField,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return model.TimelineConfig{}, err
	}

	cfg.IsActive = activeInt != 0
	return cfg, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
