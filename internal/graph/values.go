package graph

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

func (r Record) id(table, col string) (int64, error) {
	id, ok := asInt64(r[col])
	if !ok {
		return 0, fmt.Errorf("%s: non-integer key %s=%v", table, col, r[col])
	}
	return id, nil
}

func (r Record) str(col string) string {
	return asNullString(r[col]).String
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		if x == float64(int64(x)) {
			return int64(x), true
		}
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(string(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func asNullString(v any) sql.NullString {
	switch x := v.(type) {
	case nil:
		return sql.NullString{}
	case string:
		return sql.NullString{String: x, Valid: true}
	case []byte:
		return sql.NullString{String: string(x), Valid: true}
	default:
		return sql.NullString{String: fmt.Sprint(x), Valid: true}
	}
}

// asDecimal converts a NUMERIC cell. SQLite stores prices as REAL, so the
// shortest float representation is taken (0.99, not 0.98999...).
func asDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	case []byte:
		return decimal.NewFromString(string(x))
	}
	return decimal.Zero, fmt.Errorf("unsupported numeric value %T", v)
}
