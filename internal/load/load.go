// Package load defines the bulk-loader boundary (C2): given a table
// name and a set of column sinks, append every row of that table's
// source data, in source order, into the destination columns. Concrete
// loaders (internal/load/mysql) implement Loader against a specific
// backing store; internal/column.Store.Build is called once all tables
// have loaded.
package load

import "context"

// ColumnSink receives one source column's values, one row at a time, in
// source order. A dimension/fact table loader allocates one ColumnSink
// per destination column slice and wires it to the matching source
// column position.
type ColumnSink interface {
	// AppendInt64 appends one row's value. The sink is responsible for
	// narrowing to its destination type; a value outside that type's
	// range is the loader's bug, not the sink's to silently truncate.
	AppendInt64(v int64) error
}

// Loader is the abstract bulk-load contract. LoadTable streams table's
// rows through cols in source column order; a loader must not interleave
// rows from two different calls into the same sinks.
type Loader interface {
	LoadTable(ctx context.Context, table string, cols []ColumnSink) error
}
