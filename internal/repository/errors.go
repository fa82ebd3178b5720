package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors repository implementations bubble up.
var (
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means no session could be opened. Callers see it as a generic 500.
	ErrUnavailable = errors.New("database unavailable")
	// ErrQueryCanceled covers statement timeouts and cancellations raised by the server.
	ErrQueryCanceled = errors.New("query canceled")
)

// MapPgError translates the Postgres error codes this read-only service can meet.
// Everything else passes through unchanged for logging.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.QueryCanceled:
			return fmt.Errorf("%w: %s", ErrQueryCanceled, pgErr.Message)
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgErr.Code == pgerrcode.CannotConnectNow,
			pgErr.Code == pgerrcode.TooManyConnections,
			pgErr.Code == pgerrcode.AdminShutdown:
			return fmt.Errorf("%w: %s", ErrUnavailable, pgErr.Message)
		}
	}
	return err
}
