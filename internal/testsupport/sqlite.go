// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-signup/internal/database"
)

// NewSQLiteDB creates a migrated SQLite database file in a temporary
// directory. The connection is closed when the test ends.
func NewSQLiteDB(tb testing.TB) *sqlx.DB {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "camp_test.db")
	db, dialect, err := database.Open(context.Background(), "sqlite:///"+path)
	require.NoError(tb, err, "open sqlite database")
	require.NoError(tb, database.MigrateUp(db, dialect), "migrate sqlite database")
	tb.Cleanup(func() { _ = db.Close() })
	return db
}

// CountRows returns the number of rows in table.
func CountRows(tb testing.TB, db *sqlx.DB, table string) int {
	tb.Helper()
	var n int
	require.NoError(tb, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
