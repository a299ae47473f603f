package errors

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps credential-store errors to AppError instances.
// The store is read-only for this application, so the interesting cases are:
// - pgx.ErrNoRows → NotFound
// - connection-class failures → StoreUnavailable (retryable by the caller)
// - schema drift (undefined table/column) → MalformedRecord (data integrity)
// - context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Credential lookup timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Credential lookup was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Credential record not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	// Dial/broken-pipe errors reach us without a PgError; a credential store
	// we cannot reach is an infrastructure failure, not "no user".
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return StoreUnavailable(err)
	}

	return err
}

// mapPgError maps PostgreSQL-specific errors to AppError instances.
func mapPgError(pgErr *pgconn.PgError) error {
	switch {
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgErr.Code == pgerrcode.CannotConnectNow,
		pgErr.Code == pgerrcode.TooManyConnections:
		return StoreUnavailable(pgErr)

	case pgErr.Code == pgerrcode.UndefinedTable,
		pgErr.Code == pgerrcode.UndefinedColumn:
		// The credential table is owned externally; schema drift makes every
		// record unreadable and is a data-integrity concern, not a retry case.
		return &AppError{
			Code:    ErrCodeMalformedRecord,
			Message: "Credential store schema does not match expectations.",
			Cause:   pgErr,
		}

	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}
