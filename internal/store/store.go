package store

import (
	"context"
	"time"

	"github.com/onfuse/planner/internal/model"
)

// Op is a filter comparison operator.
type Op string

// Supported filter operators. Date fields are stored as ISO strings, so the
// ordering operators apply to them as plain string comparisons.
const (
	OpEq      Op = "eq"
	OpNe      Op = "ne"
	OpLt      Op = "lt"
	OpLte     Op = "lte"
	OpGt      Op = "gt"
	OpGte     Op = "gte"
	OpBetween Op = "between"
	OpIn      Op = "in"
	OpLike    Op = "like"
)

// Condition is a single field predicate. Value2 is used only by OpBetween;
// OpIn expects Value to be a slice.
type Condition struct {
	Field  string
	Op     Op
	Value  any
	Value2 any
}

// Filter is a conjunction of conditions.
type Filter []Condition

// Eq is a shorthand for an equality condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// Between is a shorthand for an inclusive range condition.
func Between(field string, lo, hi any) Condition {
	return Condition{Field: field, Op: OpBetween, Value: lo, Value2: hi}
}

// OrderBy controls result ordering for record queries.
type OrderBy struct {
	Field string
	Desc  bool
}

// SaveOptions controls record persistence behavior.
type SaveOptions struct {
	// SkipConcurrencyCheck bypasses the optimistic version check. Used by
	// seeding and administrative repair, never by the reassignment path.
	SkipConcurrencyCheck bool
}

// RecordStore is the generic read/write capability the projection and
// reassignment engines need. Implementations persist arbitrary record types
// described by the schema catalog.
type RecordStore interface {
	// QueryRecords returns records of recordType matching filter, ordered by
	// orderBy. When fields is non-empty the result records carry only those
	// fields.
	QueryRecords(ctx context.Context, recordType string, filter Filter, fields []string, orderBy OrderBy) ([]model.Record, error)

	// LoadRecord fetches one record, failing with ErrNotFound.
	LoadRecord(ctx context.Context, recordType, id string) (*model.Record, error)

	// SaveRecord inserts or updates a record atomically. Updates bump the
	// version and fail with ErrConcurrentModification when the caller's
	// version is stale, unless opts.SkipConcurrencyCheck is set.
	SaveRecord(ctx context.Context, rec *model.Record, opts SaveOptions) (*model.Record, error)

	// RecordExists reports whether a record of recordType with id exists.
	RecordExists(ctx context.Context, recordType, id string) (bool, error)

	// GetSchema returns the field list for recordType from the schema
	// catalog, failing with ErrNotFound for unknown types.
	GetSchema(ctx context.Context, recordType string) (model.FieldList, error)
}

// BookingStore persists bookings with their denormalized display fields.
// Create and Update run the overlap guard inside an immediate transaction:
// the advisory conflict pre-check in the scheduling engine is not atomic
// with the write, so the store is the serialization point that closes that
// race.
type BookingStore interface {
	CreateBooking(ctx context.Context, b model.Booking) (*model.Booking, error)
	UpdateBooking(ctx context.Context, b model.Booking) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	GetBookingByID(ctx context.Context, id string) (*model.Booking, error)

	// GetBookingsForDay returns an assignee's bookings on one date ordered
	// by start time.
	GetBookingsForDay(ctx context.Context, assigneeRef string, date time.Time) ([]model.Booking, error)

	// GetBookingsInRange returns an assignee's bookings with dates in
	// [from, to] inclusive, ordered by date then start time.
	GetBookingsInRange(ctx context.Context, assigneeRef string, from, to time.Time) ([]model.Booking, error)
}

// ConfigStore persists timeline configurations and the schema catalog.
type ConfigStore interface {
	SaveTimelineConfig(ctx context.Context, cfg model.TimelineConfig) (*model.TimelineConfig, error)
	GetTimelineConfig(ctx context.Context, id string) (*model.TimelineConfig, error)
	ListTimelineConfigs(ctx context.Context, activeOnly bool) ([]model.TimelineConfig, error)

	PutSchema(ctx context.Context, recordType string, fields model.FieldList) error
}

// Store is the full persistence interface backing the planner.
type Store interface {
	RecordStore
	BookingStore
	ConfigStore
}
