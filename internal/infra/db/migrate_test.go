package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS polls_question").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS polls_choice").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_polls_question_pub_date").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_polls_choice_question_id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = MigrateUp(context.Background(), db, DriverPostgres)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS polls_question").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS polls_choice").
		WillReturnError(sql.ErrConnDone)

	err = MigrateUp(context.Background(), db, DriverPostgres)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_UnsupportedDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = MigrateUp(context.Background(), db, "mysql")
	assert.EqualError(t, err, `migrate: unsupported driver "mysql"`)
}

func TestMigrateUp_SQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, ":memory:", DefaultConnectionConfig())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, MigrateUp(ctx, db, DriverSQLite))
	require.NoError(t, MigrateUp(ctx, db, DriverSQLite))

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name LIKE 'polls_%'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMigrateDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for range dropStatements {
		mock.ExpectExec("DROP").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	assert.NoError(t, MigrateDown(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
