// Package accum implements the packed accumulator: a fixed-size dense
// array of (present, sum) slots indexed by a bit-packed group key, and
// its associative, commutative merge monoid. See internal/query for the
// per-query bit-field layouts that produce the packed index.
package accum

import "fmt"

// Accumulator is a dense array of size slots. All slots start
// (present=false, sum=0); present only ever transitions false->true,
// and sum is only ever incremented.
type Accumulator struct {
	presence []bool
	sums     []int64
	size     int
}

// New allocates a zero-initialized accumulator with the given number of
// slots. size must be a power of two matching a query's packed-key
// layout; it is not validated here because the query driver that calls
// New already derived it from the layout's field widths.
func New(size int) *Accumulator {
	return &Accumulator{
		presence: make([]bool, size),
		sums:     make([]int64, size),
		size:     size,
	}
}

// Size returns the number of slots.
func (a *Accumulator) Size() int { return a.size }

// Update marks slot idx present and adds delta to its running sum. An
// out-of-range idx indicates a key-layout bug upstream and is a fatal
// assertion, not a recoverable error.
func (a *Accumulator) Update(idx int, delta int64) {
	if idx < 0 || idx >= a.size {
		panic(fmt.Sprintf("accum: slot index %d out of range [0,%d)", idx, a.size))
	}
	a.presence[idx] = true
	a.sums[idx] += delta
}

// Present reports whether slot idx has ever been updated.
func (a *Accumulator) Present(idx int) bool { return a.presence[idx] }

// Sum returns slot idx's running sum. Only meaningful when Present(idx).
func (a *Accumulator) Sum(idx int) int64 { return a.sums[idx] }

// Merge combines a and b into a new accumulator: present is OR'd,
// sum is added, element-wise. Merge is commutative and associative,
// which is what lets the probe kernel's worker-local accumulators be
// reduced in any order with an identical result.
func Merge(a, b *Accumulator) *Accumulator {
	if a.size != b.size {
		panic(fmt.Sprintf("accum: merge size mismatch %d != %d", a.size, b.size))
	}
	out := New(a.size)
	for i := 0; i < a.size; i++ {
		if a.presence[i] || b.presence[i] {
			out.presence[i] = true
			out.sums[i] = a.sums[i] + b.sums[i]
		}
	}
	return out
}

// MergeAll reduces a slice of same-size accumulators via repeated
// pairwise Merge; the probe kernel uses it to fold worker-local
// results. Returns a fresh zero accumulator of size 0 for an empty
// slice, which is never a meaningful case in practice since callers
// always pass at least one worker's result.
func MergeAll(accs []*Accumulator) *Accumulator {
	if len(accs) == 0 {
		return New(0)
	}
	result := accs[0]
	for _, a := range accs[1:] {
		result = Merge(result, a)
	}
	return result
}
