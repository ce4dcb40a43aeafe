package query

import (
	"sort"

	"ssb/internal/accum"
)

// Result is the outcome of a driver's build+probe phases: the merged
// accumulator plus the decode and ordering closures needed to turn it
// into printable rows. Keeping finalization separate lets the engine
// time it as its own phase.
type Result struct {
	acc    *accum.Accumulator
	decode func(idx int, sum int64) Row
	less   func(a, b Row) bool
}

func newResult(acc *accum.Accumulator, decode func(idx int, sum int64) Row, less func(a, b Row) bool) *Result {
	return &Result{acc: acc, decode: decode, less: less}
}

// Finalize enumerates every present slot of the accumulator, decodes it
// into a Row via the exact inverse of the pack function the probe used
// to compute slot indices, and sorts the rows into the query's output
// order. Runs sequentially; the accumulator is consumed read-only.
func (r *Result) Finalize() []Row {
	rows := make([]Row, 0, r.acc.Size())
	for i := 0; i < r.acc.Size(); i++ {
		if r.acc.Present(i) {
			rows = append(rows, r.decode(i, r.acc.Sum(i)))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return r.less(rows[i], rows[j]) })
	return rows
}
