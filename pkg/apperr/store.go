package apperr

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// UniqueField maps a column name to the conflict message reported when a
// unique constraint over that column is violated.
type UniqueField struct {
	Column  string
	Message string
}

// FromStore classifies an error returned by gorm or the database driver.
// Unique violations are matched against fields in order; the first column found
// in the constraint name or error text decides the message.
func FromStore(err error, notFoundMsg string, fields ...UniqueField) error {
	if err == nil {
		return nil
	}
	if As(err) != nil {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, err, notFoundMsg)
	case IsTransient(err):
		return Wrap(CodeTransient, err, "store unavailable")
	}

	if detail, ok := uniqueViolation(err); ok {
		for _, f := range fields {
			if strings.Contains(detail, f.Column) {
				return Wrap(CodeConflict, err, f.Message)
			}
		}
		return Wrap(CodeConflict, err, "resource already exists")
	}

	return Wrap(CodeInternal, err, err.Error())
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to a column.
func IsUniqueViolation(err error, column string) bool {
	detail, ok := uniqueViolation(err)
	if !ok {
		return false
	}
	return column == "" || strings.Contains(detail, column)
}

// IsTransient reports failures where the store could not be reached or the
// unit of work ran out of time. Retrying later may succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception, 40001/40P01: serialization failure, deadlock
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		// the detail echoes the offending value, so prefer the constraint name
		if pgErr.ConstraintName != "" {
			return pgErr.ConstraintName, true
		}
		return pgErr.Detail, true
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value"):
		return msg, true
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return msg, true
	}
	return "", false
}
