package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/bekirdag/gridview/grid"
	_ "modernc.org/sqlite"
)

// loadSQLite runs query, or selects every row of table. With neither set the
// first user table in name order is used.
func loadSQLite(ctx context.Context, path, table, query string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query = strings.TrimSpace(query)
	if query == "" {
		table = strings.TrimSpace(table)
		if table == "" {
			if table, err = firstTable(ctx, db); err != nil {
				return nil, err
			}
		}
		query = fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(table))
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var order keyOrder
	for _, name := range columns {
		order.add(name)
	}

	out := &Table{Properties: order.names}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(grid.Record, len(columns))
		for i, name := range columns {
			row[name] = grid.Of(values[i])
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Tables lists the user tables of a SQLite database.
func Tables(ctx context.Context, path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return listTables(ctx, db)
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%' ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func firstTable(ctx context.Context, db *sql.DB) (string, error) {
	names, err := listTables(ctx, db)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("database has no tables")
	}
	return names[0], nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
