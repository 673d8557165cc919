package store

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// NewTestDB creates a DB backed by an in-memory database.
// Only intended for use in tests.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		t.Fatalf("enabling foreign keys: %v", err)
	}

	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("running migrations: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &DB{sqlDB}
}
