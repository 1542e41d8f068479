package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onfuse/planner/internal/store"
)

// NewTestStore creates a SQLiteStore on a per-test temporary file with all
// migrations applied. The store is closed when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err, "creating test store")

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewSeededStore creates a test store with the sample schemas and timeline
// configuration installed.
func NewSeededStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s := NewTestStore(t)
	require.NoError(t, store.Seed(context.Background(), s), "seeding test store")
	return s
}
