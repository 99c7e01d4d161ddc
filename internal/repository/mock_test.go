package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nowStamp() time.Time { return time.Now() }

// newMockDB hands out a mocked *sql.DB plus a cleanup that verifies
// every declared expectation was consumed.
func newMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return mock, db, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}
