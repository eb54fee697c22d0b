package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mytheresa/storefront/internal/logger"
)

// Querier runs single statements. Both *Pool and the transaction handle
// passed to WithTx implement it, so repository code can run either way.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*Result, error)
	Exec(ctx context.Context, query string, args ...any) (*Result, error)
}

// statementRunner is satisfied by *sql.Conn and *sql.Tx.
type statementRunner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withConn leases one connection for fn and always hands it back.
func (p *Pool) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return wrap(op, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			p.log.ErrorWithErr("failed to release connection", cerr, "op", op)
		}
	}()
	return fn(conn)
}

// Query runs a statement that returns rows on a leased connection.
func (p *Pool) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	var res *Result
	err := p.withConn(ctx, "query", func(conn *sql.Conn) error {
		var err error
		res, err = runQuery(ctx, conn, p.log, query, args)
		return err
	})
	return res, err
}

// Exec runs a statement without a result set on a leased connection.
func (p *Pool) Exec(ctx context.Context, query string, args ...any) (*Result, error) {
	var res *Result
	err := p.withConn(ctx, "exec", func(conn *sql.Conn) error {
		var err error
		res, err = runExec(ctx, conn, p.log, query, args)
		return err
	})
	return res, err
}

// WithTx runs fn inside a transaction on a single leased connection.
// It commits when fn returns nil and rolls back when fn returns an error
// or panics. The error from fn is returned unchanged.
func (p *Pool) WithTx(ctx context.Context, fn func(q Querier) error) error {
	return p.withConn(ctx, "begin", func(conn *sql.Conn) error {
		sqlTx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return wrap("begin", err)
		}

		tx := &Tx{tx: sqlTx, log: p.log}
		committed := false
		defer func() {
			if committed {
				return
			}
			if rerr := sqlTx.Rollback(); rerr != nil && rerr != sql.ErrTxDone {
				p.log.ErrorWithErr("transaction rollback failed", rerr)
			}
			if r := recover(); r != nil {
				panic(r)
			}
		}()

		if err := fn(tx); err != nil {
			p.log.Debug("transaction rolled back", "error", err)
			return err
		}

		if err := sqlTx.Commit(); err != nil {
			return wrap("commit", err)
		}
		committed = true
		return nil
	})
}

// Tx is the Querier handed to WithTx callbacks.
type Tx struct {
	tx  *sql.Tx
	log *logger.Logger
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	return runQuery(ctx, t.tx, t.log, query, args)
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (*Result, error) {
	return runExec(ctx, t.tx, t.log, query, args)
}

func runQuery(ctx context.Context, r statementRunner, log *logger.Logger, query string, args []any) (*Result, error) {
	start := time.Now()

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, logFailure(log, "query", query, args, err)
	}
	defer rows.Close()

	res, err := collectRows(rows)
	if err != nil {
		return nil, logFailure(log, "query", query, args, err)
	}

	log.Debug("executed query", "sql", query, "duration", time.Since(start), "rows", res.RowCount)
	return res, nil
}

func runExec(ctx context.Context, r statementRunner, log *logger.Logger, query string, args []any) (*Result, error) {
	start := time.Now()

	out, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, logFailure(log, "exec", query, args, err)
	}
	affected, err := out.RowsAffected()
	if err != nil {
		return nil, logFailure(log, "exec", query, args, err)
	}

	log.Debug("executed statement", "sql", query, "duration", time.Since(start), "rows", affected)
	return &Result{RowCount: affected}, nil
}

func collectRows(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: columns, Rows: []Row{}}
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res.RowCount = int64(len(res.Rows))
	return res, nil
}

func logFailure(log *logger.Logger, op, query string, args []any, err error) error {
	wrapped := wrap(op, err)
	log.ErrorWithErr("database statement failed", wrapped, "sql", query, "params", len(args))
	return wrapped
}
