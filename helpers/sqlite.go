package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spektr-org/charts/schema"
	"github.com/spektr-org/charts/table"
)

// ============================================================================
// SQLITE HELPER — Runs a query and collects the result as a table.Table
// ============================================================================
// Integer and real values become measures, everything else dimensions.
// SQL NULLs are left out of their record. Column names go through
// schema.ColumnKey so "Model Year" selects as "model_year", same as CSV.
// ============================================================================

// LoadSQLite runs query against the SQLite database file at path.
func LoadSQLite(ctx context.Context, path, query string, args ...any) (*table.SliceTable, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	defer db.Close()

	return QueryTable(ctx, db, query, args...)
}

// QueryTable runs query on an open database.
func QueryTable(ctx context.Context, db *sql.DB, query string, args ...any) (*table.SliceTable, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = schema.ColumnKey(c)
	}

	var records []table.Record
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records), err)
		}
		rec := table.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}
		for i, v := range vals {
			setValue(rec, keys[i], v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return table.NewSliceTable(records), nil
}

func setValue(rec table.Record, key string, v any) {
	switch x := v.(type) {
	case nil:
	case int64:
		rec.Measures[key] = float64(x)
	case float64:
		rec.Measures[key] = x
	case bool:
		rec.Dimensions[key] = strconv.FormatBool(x)
	case []byte:
		rec.Dimensions[key] = string(x)
	case string:
		rec.Dimensions[key] = x
	case time.Time:
		rec.Dimensions[key] = x.Format(time.RFC3339)
	default:
		rec.Dimensions[key] = fmt.Sprint(x)
	}
}
