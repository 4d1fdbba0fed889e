package transaction

//go:generate go run go.uber.org/mock/mockgen -source=./transaction.go -destination=./mocks/transaction_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"taskapp/infras/otel"
	"taskapp/infras/postgres"
	"taskapp/shared/logger"

	"github.com/jmoiron/sqlx"
)

const otelScopeName = "transaction"

// Manager runs a unit of work inside a single write transaction.
type Manager interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type managerImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Manager {
	return &managerImpl{
		db:   db,
		otel: otel,
	}
}

// WithTx commits when fn returns nil and rolls back otherwise. A panic in fn
// rolls back and is re-raised.
func (m *managerImpl) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, scope := m.otel.NewScope(ctx, otelScopeName, otelScopeName+".WithTx")
	defer scope.End()

	tx, err := m.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin transaction: %w", postgres.MarkUnavailable(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		scope.TraceError(err)

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, context.Canceled) {
			logger.ErrorWithStack(rbErr)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit transaction: %w", postgres.MarkUnavailable(err))
	}

	return nil
}
