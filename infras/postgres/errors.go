package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"taskapp/shared/constant"
	"taskapp/shared/failure"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE class 08, connection exception.
const connectionExceptionClass = "08"

// IsUnavailable reports whether err means the database could not be reached, as
// opposed to a statement the database rejected.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, connectionExceptionClass)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code.Class()) == connectionExceptionClass
	}

	return false
}

// MarkUnavailable attaches a 503 failure to connection errors and returns any other error unchanged.
func MarkUnavailable(err error) error {
	if !IsUnavailable(err) {
		return err
	}

	return fmt.Errorf("%w: %w", failure.ServiceUnavailable(constant.ResponseErrorStorageUnavailable), err)
}
