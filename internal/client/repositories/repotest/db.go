// Package repotest opens migrated in-memory databases for repository tests.
package repotest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/memodo/internal/client/migrations"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// OpenDB returns a fresh in-memory database with foreign keys enabled and
// all migrations applied. A single connection keeps the memory database
// alive for the whole test.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(ctx, db))

	return db
}
