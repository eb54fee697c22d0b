package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantKind Kind
		wantCode string
	}{
		{"pgx unique", &pgconn.PgError{Code: "23505"}, KindConstraintViolation, "23505"},
		{"pgx foreign key", &pgconn.PgError{Code: "23503"}, KindConstraintViolation, "23503"},
		{"pq unique", &pq.Error{Code: "23505"}, KindConstraintViolation, "23505"},
		{"pq too many connections", &pq.Error{Code: "53300"}, KindConnectionFailure, "53300"},
		{"pq admin shutdown", &pq.Error{Code: "57P01"}, KindConnectionFailure, "57P01"},
		{"wrapped pgx error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23502"}), KindConstraintViolation, "23502"},
		{"no rows", sql.ErrNoRows, KindNotFound, ""},
		{"bad conn", driver.ErrBadConn, KindConnectionFailure, ""},
		{"conn done", sql.ErrConnDone, KindConnectionFailure, ""},
		{"deadline", context.DeadlineExceeded, KindConnectionFailure, ""},
		{"network", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, KindConnectionFailure, ""},
		{"other", errors.New("something odd"), KindUnknown, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kind, code := classify(tc.err)
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantCode, code)
		})
	}
}

func TestErrorMatchesNotFound(t *testing.T) {
	err := wrap("query", sql.ErrNoRows)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NotErrorIs(t, wrap("query", errors.New("x")), ErrNotFound)
}

func TestWrapKeepsExistingError(t *testing.T) {
	inner := &Error{Op: "exec", Kind: KindConstraintViolation, Code: "23505", Err: errors.New("dup")}
	outer := wrap("tx", fmt.Errorf("step: %w", inner))

	var dbErr *Error
	assert.ErrorAs(t, outer, &dbErr)
	assert.Equal(t, "exec", dbErr.Op)
	assert.Nil(t, wrap("noop", nil))
}

func TestConstraintHelpers(t *testing.T) {
	unique := wrap("query", &pgconn.PgError{Code: CodeUniqueViolation})
	fk := wrap("query", &pq.Error{Code: CodeForeignKeyViolation})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: CodeForeignKeyViolation}))
	assert.False(t, IsForeignKeyViolation(errors.New("x")))

	outOfRange := wrap("query", &pgconn.PgError{Code: CodeNumericOutOfRange})
	assert.True(t, IsDataException(outOfRange))
	assert.True(t, IsDataException(&pq.Error{Code: "22P02"}))
	assert.False(t, IsDataException(unique))
	assert.False(t, IsDataException(errors.New("x")))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Op: "query", Kind: KindConstraintViolation, Code: "23505", Err: errors.New("duplicate key")}
	assert.Equal(t, "database: query: constraint violation (23505): duplicate key", err.Error())

	err = &Error{Op: "open", Kind: KindConnectionFailure, Err: errors.New("refused")}
	assert.Equal(t, "database: open: connection failure: refused", err.Error())
}
