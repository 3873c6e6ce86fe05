package gorm

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	apperrors "github.com/savorly/savorly/pkg/errors"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a duplicate key error, using the
// driver's structured error rather than its message
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// translateWriteError converts a duplicate key error into a
// UNIQUE_CONSTRAINT_VIOLATION AppError and passes anything else through
func translateWriteError(err error, constraint string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return apperrors.NewUniqueViolationError(constraint, err)
	}
	return err
}
