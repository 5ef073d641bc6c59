package session

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepository_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM session WHERE key = \?`).
		WithArgs("k").
		WillReturnError(sql.ErrNoRows)

	v, err := NewSQLiteRepository(db).Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Empty(t, v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_Errors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT value FROM session`).WillReturnError(sql.ErrConnDone)
	_, err = r.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get session[k]")

	mock.ExpectExec(`INSERT INTO session`).WillReturnError(sql.ErrConnDone)
	assert.ErrorContains(t, r.Set(ctx, "k", "v"), "failed to set session[k]")

	mock.ExpectExec(`DELETE FROM session`).WillReturnError(sql.ErrConnDone)
	assert.ErrorContains(t, r.Clear(ctx), "failed to clear session")

	require.NoError(t, mock.ExpectationsWereMet())
}
