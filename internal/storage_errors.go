package internal

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error classes we care about. A query hitting a table that
// the migrations have not created yet must surface differently from a
// revoked grant, so the operator knows whether to run migrations or
// fix the role's ACL.
const (
	pgUndefinedTable    = "42P01"
	pgUndefinedColumn   = "42703"
	pgUndefinedObject   = "42704"
	pgInsufficientPriv  = "42501"
	pgSerializationFail = "40001"
	pgDeadlockDetected  = "40P01"
)

// ClassifyStorageError maps a raw database error to the AppError
// taxonomy. ledger names the collection being read or written
// ("members", "regular contributions", ...) so the message is
// actionable on its own.
func ClassifyStorageError(ledger string, err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := IsAppError(err); ok {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError(fmt.Sprintf("%s: record not found", ledger), ErrCodeContributionNotFound).WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable, pgUndefinedColumn, pgUndefinedObject:
			return NewInfrastructureError(
				fmt.Sprintf("%s ledger is not ready: %s (run migrations)", ledger, pgErr.Message),
				ErrCodeStorageNotReady, err)
		case pgInsufficientPriv:
			return NewInfrastructureError(
				fmt.Sprintf("%s ledger rejected the query: %s (check database grants)", ledger, pgErr.Message),
				ErrCodeStoragePermission, err)
		case pgSerializationFail, pgDeadlockDetected:
			return NewConflictError(
				fmt.Sprintf("%s ledger: concurrent update conflict", ledger),
				ErrCodeConflictRetry).WithCause(err)
		}
	}

	return NewInternalError(fmt.Sprintf("%s ledger query failed", ledger), err)
}

// IsRetriableStorageError reports whether the error is a transient
// serialization or deadlock failure worth re-running the transaction for.
func IsRetriableStorageError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFail || pgErr.Code == pgDeadlockDetected
	}
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == ErrCodeConflictRetry
	}
	return false
}
