package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/onfuse/planner/internal/model"
)

// CreateBooking inserts a new booking. The overlap guard and the insert run
// in one transaction, which holds the writer lock for its whole duration:
// two callers racing for the same slot serialize here, and the loser gets
// an OverlapError.
func (s *SQLiteStore) CreateBooking(
	ctx context.Context,
	b model.Booking,
) (*model.Booking, error) {
	if err := b.Normalize(); err != nil {
		return nil, err
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	startMin, endMin, err := b.Span()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &PersistenceError{Op: "beginning booking transaction", Err: err}
	}
	defer tx.Rollback()

	if err := checkOverlapTx(ctx, tx, b.AssigneeRef, b.Date, startMin, endMin, ""); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (
			id, task_ref, assignee_ref, date, start_time, end_time,
			start_min, end_min, duration_hours, status, notes,
			task_label, assignee_label, assignee_department, task_priority,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TaskRef, b.AssigneeRef, model.FormatDate(b.Date), b.StartTime, b.EndTime,
		startMin, endMin, b.DurationHours, b.Status, b.Notes,
		b.TaskLabel, b.AssigneeLabel, b.AssigneeDepartment, b.TaskPriority,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("creating booking %s", b.ID), Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("committing booking %s", b.ID), Err: err}
	}
	return &b, nil
}

// UpdateBooking rewrites an existing booking under the same overlap guard,
// excluding the booking itself from the conflict scan.
func (s *SQLiteStore) UpdateBooking(
	ctx context.Context,
	b model.Booking,
) (*model.Booking, error) {
	if b.ID == "" {
		return nil, fmt.Errorf("booking id must be set")
	}
	if err := b.Normalize(); err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now().UTC()

	startMin, endMin, err := b.Span()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &PersistenceError{Op: "beginning booking transaction", Err: err}
	}
	defer tx.Rollback()

	if err := checkOverlapTx(ctx, tx, b.AssigneeRef, b.Date, startMin, endMin, b.ID); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE bookings SET
			task_ref = ?, assignee_ref = ?, date = ?, start_time = ?, end_time = ?,
			start_min = ?, end_min = ?, duration_hours = ?, status = ?, notes = ?,
			task_label = ?, assignee_label = ?, assignee_department = ?, task_priority = ?,
			updated_at = ?
		WHERE id = ?`,
		b.TaskRef, b.AssigneeRef, model.FormatDate(b.Date), b.StartTime, b.EndTime,
		startMin, endMin, b.DurationHours, b.Status, b.Notes,
		b.TaskLabel, b.AssigneeLabel, b.AssigneeDepartment, b.TaskPriority,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("updating booking %s", b.ID), Err: err}
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("updating booking %s: %w", b.ID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("committing booking %s", b.ID), Err: err}
	}
	return &b, nil
}

// DeleteBooking removes a booking by id.
func (s *SQLiteStore) DeleteBooking(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("deleting booking %s", id), Err: err}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting booking %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetBookingByID retrieves a single booking by id.
func (s *SQLiteStore) GetBookingByID(
	ctx context.Context,
	id string,
) (*model.Booking, error) {
	row := s.db.QueryRowxContext(ctx, bookingSelect+" WHERE id = ?", id)

	b, err := scanBookingRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting booking %s: %w", id, err)
	}
	return &b, nil
}

// GetBookingsForDay returns an assignee's bookings on one date ordered by
// start time.
func (s *SQLiteStore) GetBookingsForDay(
	ctx context.Context,
	assigneeRef string,
	date time.Time,
) ([]model.Booking, error) {
	return s.queryBookings(ctx,
		bookingSelect+" WHERE assignee_ref = ? AND date = ? ORDER BY start_min ASC, id ASC",
		assigneeRef, model.FormatDate(date),
	)
}

// GetBookingsInRange returns an assignee's bookings with dates in [from, to]
// inclusive, ordered by date, then start time.
func (s *SQLiteStore) GetBookingsInRange(
	ctx context.Context,
	assigneeRef string,
	from, to time.Time,
) ([]model.Booking, error) {
	return s.queryBookings(ctx,
		bookingSelect+" WHERE assignee_ref = ? AND date BETWEEN ? AND ? ORDER BY date ASC, start_min ASC, id ASC",
		assigneeRef, model.FormatDate(from), model.FormatDate(to),
	)
}

func (s *SQLiteStore) queryBookings(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]model.Booking, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, &PersistenceError{Op: "querying bookings", Err: err}
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// checkOverlapTx scans for a half-open interval overlap inside the write
// transaction. Touching intervals do not overlap.
func checkOverlapTx(
	ctx context.Context,
	tx *sqlx.Tx,
	assigneeRef string,
	date time.Time,
	startMin, endMin int,
	excludeID string,
) error {
	query := bookingSelect + ` WHERE assignee_ref = ? AND date = ?
		AND start_min < ? AND end_min > ?`
	args := []interface{}{assigneeRef, model.FormatDate(date), endMin, startMin}
	if excludeID != "" {
		query += " AND id != ?"
		args = append(args, excludeID)
	}
	query += " ORDER BY start_min ASC LIMIT 1"

	row := tx.QueryRowxContext(ctx, query, args...)
	conflict, err := scanBookingRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking booking overlap: %w", err)
	}
	return &OverlapError{Conflict: conflict}
}

const bookingSelect = `SELECT
	id, task_ref, assignee_ref, date, start_time, end_time,
	duration_hours, status, notes,
	task_label, assignee_label, assignee_department, task_priority,
	created_at, updated_at
FROM bookings`

func scanBookingFrom(sc rowScanner) (model.Booking, error) {
	var (
		b       model.Booking
		dateStr string
	)

	err := sc.Scan(
		&b.ID, &b.TaskRef, &b.AssigneeRef, &dateStr, &b.StartTime, &b.EndTime,
		&b.DurationHours, &b.Status, &b.Notes,
		&b.TaskLabel, &b.AssigneeLabel, &b.AssigneeDepartment, &b.TaskPriority,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return model.Booking{}, err
	}

	b.Date, err = model.ParseDate(dateStr)
	if err != nil {
		return model.Booking{}, fmt.Errorf("scanning booking %s: %w", b.ID, err)
	}

	return b, nil
}

// scanBooking scans a booking row from a sqlx.Rows result set.
func scanBooking(rows *sqlx.Rows) (model.Booking, error) {
	b, err := scanBookingFrom(rows)
	if err != nil {
		return model.Booking{}, fmt.Errorf("scanning booking row: %w", err)
	}
	return b, nil
}

// scanBookingRow scans a single booking from a sqlx.Row, passing
// sql.ErrNoRows through for the caller to classify.
func scanBookingRow(row *sqlx.Row) (model.Booking, error) {
	return scanBookingFrom(row)
}
