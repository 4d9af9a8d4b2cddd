package irtest

import (
	"database/sql"
	"testing"

	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dao-generator/dbrt"
)

// OpenSQLite opens a private in-memory database and runs ddl on it. On
// cleanup it checks that every acquired statement was released.
func OpenSQLite(t testing.TB, ddl string) *dbrt.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// One connection keeps a single in-memory database.
	sqlDB.SetMaxOpenConns(1)

	_, err = sqlDB.Exec(ddl)
	require.NoError(t, err)

	db := dbrt.New(sqlDB)
	t.Cleanup(func() {
		assert.Zero(t, db.InUse(), "statements left acquired")
		assert.NoError(t, sqlDB.Close())
	})

	return db
}

// Receiver returns a receiver object whose db field is db.
func Receiver(db *dbrt.DB) *Object {
	return &Object{
		Fields:  map[string]any{"db": db},
		Methods: make(map[string]any),
	}
}
