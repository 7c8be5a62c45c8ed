package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rafaelv/memoflash/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
