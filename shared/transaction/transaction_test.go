package transaction_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"taskapp/infras/otel/mocks"
	"taskapp/infras/postgres"
	"taskapp/shared/failure"
	"taskapp/shared/transaction"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (transaction.Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")

	return transaction.New(&postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mocks.NewOtel()), mock
}

func TestWithTx_Commit(t *testing.T) {
	manager, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err := manager.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		called = tx != nil

		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	manager, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	errWork := errors.New("work failed")
	err := manager.WithTx(context.Background(), func(_ *sqlx.Tx) error {
		return errWork
	})

	assert.ErrorIs(t, err, errWork)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	manager, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = manager.WithTx(context.Background(), func(_ *sqlx.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginError(t *testing.T) {
	manager, mock := newManager(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := manager.WithTx(context.Background(), func(_ *sqlx.Tx) error {
		t.Fatal("work must not run without a transaction")

		return nil
	})

	assert.ErrorContains(t, err, "failed to begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_CommitError(t *testing.T) {
	manager, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := manager.WithTx(context.Background(), func(_ *sqlx.Tx) error {
		return nil
	})

	assert.ErrorContains(t, err, "failed to commit transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginUnreachable(t *testing.T) {
	manager, mock := newManager(t)

	mock.ExpectBegin().WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")})

	called := false
	err := manager.WithTx(context.Background(), func(_ *sqlx.Tx) error {
		called = true

		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
