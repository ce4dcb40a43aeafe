// Package query holds the thirteen SSB query drivers (C7): thin,
// mostly-literal parameterizations of the generic build/probe/finalize
// kernel in internal/index, internal/probe, and internal/accum, plus the
// per-query packed-key layouts (C4/C6) that tie a slot index back to its
// group-key tuple.
package query

import (
	"strconv"
	"strings"
)

// Row is one finalized result row: the sort-key fields in print order,
// followed by the aggregate. Field semantics are query-specific; the
// driver that produced a Row also supplied the Less function used to
// sort it into place.
type Row struct {
	Fields []int64 `json:"fields,omitempty"`
	Sum    int64   `json:"sum"`
}

// String renders a Row as pipe-separated decimal fields: the sort-key
// fields in order, then the aggregate.
func (r Row) String() string {
	parts := make([]string, 0, len(r.Fields)+1)
	for _, f := range r.Fields {
		parts = append(parts, strconv.FormatInt(f, 10))
	}
	parts = append(parts, strconv.FormatInt(r.Sum, 10))
	return strings.Join(parts, "|")
}
