// Package dbtest opens throwaway sqlite databases with the production
// schema for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/aerial-tour-booking/internal/database"
)

// New returns a migrated database file under t.TempDir(), closed on
// cleanup.
func New(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// NewPool is New with room for conns open connections.  Writers then
// contend for the file lock and wait on busy_timeout instead of queuing on
// the pool, which is what concurrency tests need to observe.
func NewPool(t testing.TB, conns int) *sql.DB {
	t.Helper()
	db := New(t)
	db.SetMaxOpenConns(conns)
	db.SetMaxIdleConns(conns)
	return db
}
