// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/migration"
)

// SQLite opens an in-memory database with every table created.
func SQLite(t *testing.T) *database.Connections {
	t.Helper()

	db, err := database.OpenSQLite("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, migration.DropSchema(ctx, db))
	require.NoError(t, migration.CreateSchema(ctx, db))
	return database.Single(db)
}

// Insert stores rows directly, bypassing repositories.
func Insert(t *testing.T, db *bun.DB, models ...any) {
	t.Helper()
	for _, m := range models {
		_, err := db.NewInsert().Model(m).Exec(context.Background())
		require.NoError(t, err)
	}
}
