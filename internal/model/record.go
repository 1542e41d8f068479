package model

import "time"

// Record is a generic, schema-described entity loaded from the record store.
// Field values are accessed by name through typed getters so the projection
// layer can work over arbitrary record types without reflection.
type Record struct {
	Type    string         `json:"type"`
	ID      string         `json:"id"`
	Version int64          `json:"version"`
	Fields  map[string]any `json:"fields"`
}

// NewRecord returns an empty record of the given type.
func NewRecord(recordType, id string) *Record {
	return &Record{
		Type:   recordType,
		ID:     id,
		Fields: map[string]any{},
	}
}

// Has reports whether the field is present and non-nil.
func (r *Record) Has(field string) bool {
	v, ok := r.Fields[field]
	return ok && v != nil
}

// Get returns the raw field value, or nil when absent.
func (r *Record) Get(field string) any {
	return r.Fields[field]
}

// Set assigns a field value, allocating the map if needed.
func (r *Record) Set(field string, value any) {
	if r.Fields == nil {
		r.Fields = map[string]any{}
	}
	r.Fields[field] = value
}

// Str returns the field as a string, or "" when absent or not a string.
func (r *Record) Str(field string) string {
	if s, ok := r.Fields[field].(string); ok {
		return s
	}
	return ""
}

// Float returns the field as a float64. JSON decoding stores all numbers
// as float64, so integer-valued fields pass through here too.
func (r *Record) Float(field string) float64 {
	switch v := r.Fields[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Int returns the field as an int.
func (r *Record) Int(field string) int {
	return int(r.Float(field))
}

// Bool returns the field as a bool. Numeric 0/1 values are accepted
// because SQLite has no native boolean type.
func (r *Record) Bool(field string) bool {
	switch v := r.Fields[field].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// Date returns the field parsed as a calendar date. Date fields are stored
// as ISO strings (YYYY-MM-DD) so they also compare correctly as strings.
func (r *Record) Date(field string) (time.Time, bool) {
	switch v := r.Fields[field].(type) {
	case string:
		d, err := ParseDate(v)
		if err != nil {
			return time.Time{}, false
		}
		return d, true
	case time.Time:
		return Midnight(v), true
	}
	return time.Time{}, false
}
