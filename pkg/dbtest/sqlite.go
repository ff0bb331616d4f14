package dbtest

import (
	"io/fs"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // registers "sqlite"
)

// OpenSQLite returns a private in-memory database with the migrations from
// fsys applied. It is closed when the test ends.
func OpenSQLite(t *testing.T, fsys fs.FS, pattern string) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)

	// every connection to :memory: is a new database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, MigrateFromFS(db, fsys, pattern))

	return db
}
