package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// Database drivers for the supported DSN schemes.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/tabscan/tabscan/internal/table"
)

// drivers maps the user-facing driver name to the registered sql driver.
var drivers = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// Drivers returns the supported driver names.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}

// SQLTable is a Source that profiles a database table directly, so datasets
// do not need a CSV export round-trip. Column kinds are declared from
// driver type metadata rather than inferred.
type SQLTable struct {
	// Driver is one of Drivers().
	Driver string
	DSN    string
	Table  string
	// MaxRows caps the scan; 0 means the whole table.
	MaxRows int
}

// Name identifies the source as driver/table.
func (s *SQLTable) Name() string { return s.Driver + "/" + s.Table }

// Load connects, scans the table, and builds the in-memory form.
func (s *SQLTable) Load(ctx context.Context) (*table.Table, error) {
	driverName, ok := drivers[s.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver: %s (available: %v)", s.Driver, Drivers())
	}
	db, err := sqlx.ConnectContext(ctx, driverName, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s connect: %w", s.Driver, err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT * FROM %s", s.quoteIdentifier(s.Table))
	if s.MaxRows > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, s.MaxRows)
	}

	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	values := make([][]any, len(names))
	for rows.Next() {
		record, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for i, v := range record {
			values[i] = append(values[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	cols := make([]table.Column, len(names))
	for i, name := range names {
		kind := kindForDBType(types[i].DatabaseTypeName())
		col, err := table.FromValues(name, kind, values[i])
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return table.New(cols...)
}

// quoteIdentifier escapes the table name per driver dialect.
func (s *SQLTable) quoteIdentifier(name string) string {
	if s.Driver == "mysql" {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// kindForDBType maps a database type name to the coarse storage kind.
// Numeric DB types are numeric, textual ones categorical, and the rest
// (booleans, timestamps, blobs) fall to other.
func kindForDBType(dbType string) table.Kind {
	switch strings.ToUpper(dbType) {
	case "INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT",
		"INT2", "INT4", "INT8", "SERIAL", "BIGSERIAL",
		"FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "REAL",
		"DECIMAL", "NUMERIC", "NUMBER":
		return table.Numeric
	case "CHAR", "VARCHAR", "TEXT", "NVARCHAR", "NCHAR", "BPCHAR",
		"TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "CLOB", "NAME", "UUID":
		return table.Categorical
	default:
		return table.Other
	}
}
