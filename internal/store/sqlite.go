package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/onfuse/planner/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
// Generic records live in a single table with their fields as a JSON
// document; filters and ordering compile to json_extract expressions.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// fieldNamePattern restricts field names used in compiled SQL. Configuration
// validation already rejects unknown fields, but filters arrive from callers
// unvalidated.
var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Transactions take the writer lock up front (_txlock=immediate) so the
	// booking overlap guard serializes with concurrent writers instead of
	// racing between its read and its write.
	dsn := dbPath
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_txlock=immediate"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Wait for the writer lock instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// compileFilter turns a Filter into SQL conditions over the JSON fields
// document. Returns the condition fragments and their bind arguments.
func compileFilter(filter Filter) ([]string, []interface{}, error) {
	var conditions []string
	var args []interface{}

	for _, c := range filter {
		if !fieldNamePattern.MatchString(c.Field) {
			return nil, nil, fmt.Errorf("invalid filter field name %q", c.Field)
		}
		expr := fmt.Sprintf("json_extract(fields, '$.%s')", c.Field)

		switch c.Op {
		case OpEq:
			conditions = append(conditions, expr+" = ?")
			args = append(args, c.Value)
		case OpNe:
			conditions = append(conditions, expr+" != ?")
			args = append(args, c.Value)
		case OpLt:
			conditions = append(conditions, expr+" < ?")
			args = append(args, c.Value)
		case OpLte:
			conditions = append(conditions, expr+" <= ?")
			args = append(args, c.Value)
		case OpGt:
			conditions = append(conditions, expr+" > ?")
			args = append(args, c.Value)
		case OpGte:
			conditions = append(conditions, expr+" >= ?")
			args = append(args, c.Value)
		case OpBetween:
			conditions = append(conditions, expr+" BETWEEN ? AND ?")
			args = append(args, c.Value, c.Value2)
		case OpLike:
			conditions = append(conditions, expr+" LIKE ?")
			args = append(args, c.Value)
		case OpIn:
			values, ok := c.Value.([]any)
			if !ok || len(values) == 0 {
				return nil, nil, fmt.Errorf("operator in requires a non-empty slice for field %q", c.Field)
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
			conditions = append(conditions, fmt.Sprintf("%s IN (%s)", expr, placeholders))
			args = append(args, values...)
		default:
			return nil, nil, fmt.Errorf("unsupported filter operator %q", c.Op)
		}
	}

	return conditions, args, nil
}

// QueryRecords retrieves records of recordType matching the filter.
func (s *SQLiteStore) QueryRecords(
	ctx context.Context,
	recordType string,
	filter Filter,
	fields []string,
	orderBy OrderBy,
) ([]model.Record, error) {
	conditions := []string{"record_type = ?"}
	args := []interface{}{recordType}

	filterConds, filterArgs, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}
	conditions = append(conditions, filterConds...)
	args = append(args, filterArgs...)

	query := "SELECT record_type, id, version, fields FROM records WHERE " +
		strings.Join(conditions, " AND ")

	if orderBy.Field != "" {
		if !fieldNamePattern.MatchString(orderBy.Field) {
			return nil, fmt.Errorf("invalid order field name %q", orderBy.Field)
		}
		direction := "ASC"
		if orderBy.Desc {
			direction = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY json_extract(fields, '$.%s') %s, id ASC", orderBy.Field, direction)
	} else {
		query += " ORDER BY id ASC"
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("querying %s records", recordType), Err: err}
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		projectFields(&rec, fields)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LoadRecord retrieves a single record by type and id.
func (s *SQLiteStore) LoadRecord(
	ctx context.Context,
	recordType, id string,
) (*model.Record, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT record_type, id, version, fields FROM records WHERE record_type = ? AND id = ?",
		recordType, id,
	)

	var rec model.Record
	var fieldsJSON string
	err := row.Scan(&rec.Type, &rec.ID, &rec.Version, &fieldsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading %s %s: %w", recordType, id, ErrNotFound)
	}
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("loading %s %s", recordType, id), Err: err}
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, fmt.Errorf("unmarshaling fields of %s %s: %w", recordType, id, err)
	}

	return &rec, nil
}

// SaveRecord inserts the record when its version is zero, otherwise updates
// it with an optimistic version check. The whole write is a single
// statement, so it either applies fully or not at all.
func (s *SQLiteStore) SaveRecord(
	ctx context.Context,
	rec *model.Record,
	opts SaveOptions,
) (*model.Record, error) {
	if rec.Type == "" || rec.ID == "" {
		return nil, fmt.Errorf("record type and id must be set")
	}

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling fields of %s %s: %w", rec.Type, rec.ID, err)
	}
	now := time.Now().UTC()

	if rec.Version == 0 {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO records (record_type, id, version, fields, created_at, updated_at)
			VALUES (?, ?, 1, ?, ?, ?)`,
			rec.Type, rec.ID, string(fieldsJSON), now, now,
		)
		if err != nil {
			return nil, &PersistenceError{Op: fmt.Sprintf("inserting %s %s", rec.Type, rec.ID), Err: err}
		}
		saved := *rec
		saved.Version = 1
		return &saved, nil
	}

	query := `UPDATE records SET fields = ?, version = version + 1, updated_at = ?
		WHERE record_type = ? AND id = ?`
	args := []interface{}{string(fieldsJSON), now, rec.Type, rec.ID}
	if !opts.SkipConcurrencyCheck {
		query += " AND version = ?"
		args = append(args, rec.Version)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("updating %s %s", rec.Type, rec.ID), Err: err}
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		exists, err := s.RecordExists(ctx, rec.Type, rec.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("saving %s %s at version %d: %w",
				rec.Type, rec.ID, rec.Version, ErrConcurrentModification)
		}
		return nil, fmt.Errorf("saving %s %s: %w", rec.Type, rec.ID, ErrNotFound)
	}

	saved := *rec
	saved.Version = rec.Version + 1
	return &saved, nil
}

// RecordExists reports whether a record of recordType with id exists.
func (s *SQLiteStore) RecordExists(
	ctx context.Context,
	recordType, id string,
) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM records WHERE record_type = ? AND id = ?",
		recordType, id,
	)
	if err != nil {
		return false, &PersistenceError{Op: fmt.Sprintf("checking %s %s", recordType, id), Err: err}
	}
	return count > 0, nil
}

// scanRecord scans one record row from a sqlx.Rows result set.
func scanRecord(rows *sqlx.Rows) (model.Record, error) {
	var rec model.Record
	var fieldsJSON string

	if err := rows.Scan(&rec.Type, &rec.ID, &rec.Version, &fieldsJSON); err != nil {
		return model.Record{}, fmt.Errorf("scanning record row: %w", err)
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return model.Record{}, fmt.Errorf("unmarshaling record fields: %w", err)
	}

	return rec, nil
}

// projectFields trims a record down to the requested fields, in place.
// An empty projection keeps the full document.
func projectFields(rec *model.Record, fields []string) {
	if len(fields) == 0 {
		return
	}
	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}
	for name := range rec.Fields {
		if !keep[name] {
			delete(rec.Fields, name)
		}
	}
}
