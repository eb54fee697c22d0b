package database

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Result carries the rows of a statement and its row count. For statements
// that return rows RowCount is len(Rows); otherwise it is the number of
// affected rows.
type Result struct {
	Columns  []string
	Rows     []Row
	RowCount int64
}

// First returns the first row, or nil when the result is empty.
func (r *Result) First() Row {
	if r == nil || len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0]
}

// IsNull reports whether col is absent or NULL.
func (r Row) IsNull(col string) bool {
	v, ok := r[col]
	return !ok || v == nil
}

func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// NullString returns nil for NULL columns.
func (r Row) NullString(col string) *string {
	if r.IsNull(col) {
		return nil
	}
	s := r.String(col)
	return &s
}

func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	default:
		return 0
	}
}

// NullInt64 returns nil for NULL columns.
func (r Row) NullInt64(col string) *int64 {
	if r.IsNull(col) {
		return nil
	}
	n := r.Int64(col)
	return &n
}

func (r Row) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	default:
		return time.Time{}
	}
}

// Decimal parses numeric columns; drivers hand numerics back as text.
func (r Row) Decimal(col string) decimal.Decimal {
	switch v := r[col].(type) {
	case string:
		d, _ := decimal.NewFromString(v)
		return d
	case []byte:
		d, _ := decimal.NewFromString(string(v))
		return d
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		return decimal.Zero
	}
}

// NullDecimal returns nil for NULL columns.
func (r Row) NullDecimal(col string) *decimal.Decimal {
	if r.IsNull(col) {
		return nil
	}
	d := r.Decimal(col)
	return &d
}
