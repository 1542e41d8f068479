// Package schema resolves record-type metadata and validates timeline
// configurations against it.
package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/store"
)

// ErrSchemaNotFound is returned when a record type has no catalog entry.
var ErrSchemaNotFound = errors.New("schema not found")

// Source is the catalog capability the resolver needs.
type Source interface {
	GetSchema(ctx context.Context, recordType string) (model.FieldList, error)
}

// Resolver returns the field list for a record type.
type Resolver interface {
	Resolve(ctx context.Context, recordType string) (model.FieldList, error)
}

// CatalogResolver resolves record types against the persisted schema catalog.
type CatalogResolver struct {
	source Source
}

// NewCatalogResolver returns a resolver backed by the given catalog source.
func NewCatalogResolver(source Source) *CatalogResolver {
	return &CatalogResolver{source: source}
}

// Resolve returns the field list for recordType, failing with
// ErrSchemaNotFound when the type is unknown.
func (r *CatalogResolver) Resolve(
	ctx context.Context,
	recordType string,
) (model.FieldList, error) {
	fields, err := r.source.GetSchema(ctx, recordType)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("record type %q: %w", recordType, ErrSchemaNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving schema for %s: %w", recordType, err)
	}
	return fields, nil
}
