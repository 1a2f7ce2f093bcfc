package repository

import (
	"testing"

	"alumnet/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB returns a postgres-dialect gorm handle backed by sqlmock, for
// asserting the exact SQL a repository emits.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupTestDB returns a migrated in-memory database for behavioral tests.
func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.NewTestDB(t)
}
