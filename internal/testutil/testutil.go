// Package testutil provides shared helpers for package tests: an
// in-memory store, data fixtures, and request plumbing.
package testutil

import (
	"context"
	"testing"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/store/sqlitestore"
)

// SetupTestStore opens an in-memory SQLite store with the schema applied.
// Each call returns an isolated database that is closed when the test ends.
func SetupTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlitestore.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	if err := st.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}
