package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotExist is returned by Open when the store file is missing.
// The sqlite driver would otherwise create an empty database.
var ErrNotExist = errors.New("store does not exist")

// Store is a read-only handle on the music-store SQLite file.
// It is opened once at process start and held for the process lifetime.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the SQLite file at path read-only.
func Open(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open store %s: %w", path, ErrNotExist)
		}
		return nil, fmt.Errorf("stat store %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open store %s: is a directory", path)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=query_only(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Single-threaded access; one connection keeps pragmas consistent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the file the store was opened from.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying handle for catalog discovery and raw queries.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CountRows runs SELECT COUNT(*) against table.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	var n int
	q := "SELECT COUNT(*) FROM " + QuoteIdent(table)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows in %s: %w", table, err)
	}
	return n, nil
}

// Rows is one table's contents as generic values, in primary key order.
type Rows struct {
	Columns []string
	Values  [][]any
}

// ScanTable reads every row of table. Values are the driver's native types:
// int64, float64, string, []byte or nil.
func (s *Store) ScanTable(ctx context.Context, table string, orderBy []string) (*Rows, error) {
	q := "SELECT * FROM " + QuoteIdent(table)
	if len(orderBy) > 0 {
		quoted := make([]string, len(orderBy))
		for i, c := range orderBy {
			quoted[i] = QuoteIdent(c)
		}
		q += " ORDER BY " + strings.Join(quoted, ", ")
	}

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}

	out := &Rows{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		out.Values = append(out.Values, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

// QuoteIdent quotes a SQLite identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
