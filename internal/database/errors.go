package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Kind tags a database failure so callers can branch on it.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnectionFailure
	KindConstraintViolation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConnectionFailure:
		return "connection failure"
	case KindConstraintViolation:
		return "constraint violation"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// SQLSTATE codes the catalog cares about.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeNotNullViolation    = "23502"
	CodeCheckViolation      = "23514"
	CodeNumericOutOfRange   = "22003"
)

// ErrNotFound matches any *Error of KindNotFound via errors.Is.
var ErrNotFound = errors.New("database: not found")

// Error is returned for every failed executor call.
type Error struct {
	Op   string
	Kind Kind
	// Code is the SQLSTATE reported by the server, empty when the failure
	// did not come from the server.
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("database: %s: %s (%s): %v", e.Op, e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("database: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Kind
	}
	return KindUnknown
}

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	return codeOf(err) == CodeUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key failure.
func IsForeignKeyViolation(err error) bool {
	return codeOf(err) == CodeForeignKeyViolation
}

// IsDataException reports whether the server rejected a value itself,
// such as a number too large for its column (SQLSTATE class 22).
func IsDataException(err error) bool {
	return strings.HasPrefix(codeOf(err), "22")
}

func codeOf(err error) string {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	_, code := classify(err)
	return code
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return err
	}
	kind, code := classify(err)
	return &Error{Op: op, Kind: kind, Code: code, Err: err}
}

func classify(err error) (Kind, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return kindForSQLState(pgErr.Code), pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return kindForSQLState(code), code
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return KindNotFound, ""
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindConnectionFailure, ""
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return KindConnectionFailure, ""
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectionFailure, ""
	}
	return KindUnknown, ""
}

func kindForSQLState(code string) Kind {
	switch {
	case strings.HasPrefix(code, "23"):
		return KindConstraintViolation
	case strings.HasPrefix(code, "08"),
		code == "53300", // too_many_connections
		code == "57P01", // admin_shutdown
		code == "57P03": // cannot_connect_now
		return KindConnectionFailure
	default:
		return KindUnknown
	}
}
