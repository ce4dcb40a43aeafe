// Package mysql is the concrete bulk loader: it opens a MySQL
// connection with database/sql and github.com/go-sql-driver/mysql and
// streams the five encoded tables straight into internal/column.Store's
// slices, column by column, in source order. This is the only package
// in the module that performs network I/O.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"ssb/internal/column"
	"ssb/internal/load"
)

// Loader is a load.Loader backed by a MySQL connection.
type Loader struct {
	db *sql.DB
}

// Open connects to dsn and pings it: a bad DSN or unreachable server
// is reported immediately, not on the first table load.
func Open(ctx context.Context, dsn string) (*Loader, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("mysql: ping: %w; additionally failed to close: %w", err, closeErr)
		}
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Loader{db: db}, nil
}

// Close releases the underlying connection pool.
func (l *Loader) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// tableColumns names, in source order, the columns LoadTable selects
// for each of the five encoded tables.
var tableColumns = map[string][]string{
	"part_encoded":     {"p_partkey", "p_mfgr", "p_category", "p_brand1"},
	"supplier_encoded": {"s_suppkey", "s_city", "s_nation", "s_region"},
	"customer_encoded": {"c_custkey", "c_city", "c_nation", "c_region"},
	"date_encoded":     {"d_datekey", "d_year", "d_yearmonthnum", "d_yearmonth", "d_weeknuminyear"},
	"lineorder":        {"lo_custkey", "lo_partkey", "lo_suppkey", "lo_orderdate", "lo_quantity", "lo_extendedprice", "lo_discount", "lo_revenue", "lo_supplycost"},
}

// LoadTable streams table's rows, in source order, appending each
// column value into the matching cols[i] sink. cols must have exactly
// as many entries as tableColumns[table].
func (l *Loader) LoadTable(ctx context.Context, table string, cols []load.ColumnSink) error {
	columns, ok := tableColumns[table]
	if !ok {
		return fmt.Errorf("mysql: unknown table %q", table)
	}
	if len(cols) != len(columns) {
		return fmt.Errorf("mysql: table %q expects %d column sinks, got %d", table, len(columns), len(cols))
	}

	query := buildSelect(table, columns)
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	scanDest := make([]any, len(columns))
	vals := make([]int64, len(columns))
	for i := range vals {
		scanDest[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return fmt.Errorf("load %s: scan: %w", table, err)
		}
		for i, v := range vals {
			if err := cols[i].AppendInt64(v); err != nil {
				return fmt.Errorf("load %s: column %s: %w", table, columns[i], err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	return nil
}

func buildSelect(table string, columns []string) string {
	q := "SELECT "
	for i, c := range columns {
		if i > 0 {
			q += ", "
		}
		q += c
	}
	q += " FROM " + table
	return q
}

// LoadStore loads every table of store in turn and then builds the
// partitioned mirrors. It aborts on the first table that fails to
// load; a partial load is never left visible to a query.
func LoadStore(ctx context.Context, l *Loader, store *column.Store) error {
	if err := l.LoadTable(ctx, "part_encoded", []load.ColumnSink{
		load.Uint32Sink{Dst: &store.Part.PartKey},
		load.Uint8Sink{Dst: &store.Part.Mfgr},
		load.Uint8Sink{Dst: &store.Part.Category},
		load.Uint16Sink{Dst: &store.Part.Brand1},
	}); err != nil {
		return err
	}

	if err := l.LoadTable(ctx, "supplier_encoded", []load.ColumnSink{
		load.Uint32Sink{Dst: &store.Supplier.SuppKey},
		load.Uint8Sink{Dst: &store.Supplier.City},
		load.Uint8Sink{Dst: &store.Supplier.Nation},
		load.Uint8Sink{Dst: &store.Supplier.Region},
	}); err != nil {
		return err
	}

	if err := l.LoadTable(ctx, "customer_encoded", []load.ColumnSink{
		load.Uint32Sink{Dst: &store.Customer.CustKey},
		load.Uint8Sink{Dst: &store.Customer.City},
		load.Uint8Sink{Dst: &store.Customer.Nation},
		load.Uint8Sink{Dst: &store.Customer.Region},
	}); err != nil {
		return err
	}

	if err := l.LoadTable(ctx, "date_encoded", []load.ColumnSink{
		load.Uint32Sink{Dst: &store.Date.DateKey},
		load.Uint16Sink{Dst: &store.Date.Year},
		load.Uint32Sink{Dst: &store.Date.YearMonthNum},
		load.Uint32Sink{Dst: &store.Date.YearMonth},
		load.Uint8Sink{Dst: &store.Date.WeekNumInYear},
	}); err != nil {
		return err
	}

	if err := l.LoadTable(ctx, "lineorder", []load.ColumnSink{
		load.Uint32Sink{Dst: &store.Lineorder.CustKey},
		load.Uint32Sink{Dst: &store.Lineorder.PartKey},
		load.Uint32Sink{Dst: &store.Lineorder.SuppKey},
		load.Uint32Sink{Dst: &store.Lineorder.OrderDate},
		load.Uint8Sink{Dst: &store.Lineorder.Quantity},
		load.Uint32Sink{Dst: &store.Lineorder.ExtendedPrice},
		load.Uint8Sink{Dst: &store.Lineorder.Discount},
		load.Uint32Sink{Dst: &store.Lineorder.Revenue},
		load.Uint32Sink{Dst: &store.Lineorder.SupplyCost},
	}); err != nil {
		return err
	}

	store.Build()
	return nil
}
