package pgsql

import (
	"errors"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories react to.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgRestrictViolation    = "23001"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// mapError converts driver errors into application errors. msg describes the failed operation.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(msg + ": not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return apperrors.NewAppError(apperrors.KindConcurrencyConflict, msg+": concurrent update, retry", err)
		case pgUniqueViolation:
			return apperrors.NewAppError(apperrors.KindDuplicate, msg+": "+pgErr.Detail, err)
		case pgForeignKeyViolation:
			e := apperrors.NewAppError(apperrors.KindValidation, msg+": referenced record does not exist or is still in use", err)
			if pgErr.ConstraintName != "" {
				e.Fields = map[string]string{"constraint": pgErr.ConstraintName}
			}
			return e
		case pgCheckViolation:
			return apperrors.NewAppError(apperrors.KindValidation, msg+": "+pgErr.ConstraintName, err)
		case pgRestrictViolation:
			return apperrors.NewStateError(msg + ": " + pgErr.Message)
		}
	}

	return apperrors.NewStorageError(msg, err)
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
