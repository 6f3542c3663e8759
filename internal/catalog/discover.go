// Package catalog reads the store's schema once at startup and binds the
// logical music-store entities to the physical tables and columns found.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentic-research/musicstore/api"
	"github.com/agentic-research/musicstore/internal/store"
)

// Discover reads every user table from sqlite_master together with its
// columns and single-column foreign keys.
func Discover(ctx context.Context, s *store.Store) (*api.Catalog, error) {
	db := s.DB()

	names, err := tableNames(ctx, db)
	if err != nil {
		return nil, err
	}

	cat := &api.Catalog{Path: s.Path()}
	for _, name := range names {
		cols, err := tableColumns(ctx, db, name)
		if err != nil {
			return nil, err
		}
		fks, err := foreignKeys(ctx, db, name)
		if err != nil {
			return nil, err
		}
		cat.Tables = append(cat.Tables, api.Table{
			Name:        name,
			Columns:     cols,
			ForeignKeys: fks,
		})
	}
	return cat, nil
}

func tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]api.Column, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+store.QuoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var cols []api.Column
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		cols = append(cols, api.Column{
			Name:       name,
			Type:       typ,
			NotNull:    notNull != 0,
			PrimaryKey: pk,
		})
	}
	return cols, rows.Err()
}

func foreignKeys(ctx context.Context, db *sql.DB, table string) ([]api.ForeignKey, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA foreign_key_list("+store.QuoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("foreign_key_list %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	// Composite keys share an id; only single-column references are kept.
	type fkRow struct {
		id  int
		key api.ForeignKey
	}
	var all []fkRow
	perID := make(map[int]int)
	for rows.Next() {
		var (
			id, seq                   int
			refTable, from            string
			to                        sql.NullString
			onUpdate, onDelete, match string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("scan foreign_key_list %s: %w", table, err)
		}
		perID[id]++
		all = append(all, fkRow{id: id, key: api.ForeignKey{
			Column:    from,
			RefTable:  refTable,
			RefColumn: to.String,
		}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign_key_list %s: %w", table, err)
	}

	var fks []api.ForeignKey
	for _, r := range all {
		if perID[r.id] == 1 {
			fks = append(fks, r.key)
		}
	}
	return fks, nil
}
