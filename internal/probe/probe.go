// Package probe implements the parallel fact-table scan: a data-parallel
// reduction over disjoint row ranges of the lineorder table, each
// producing a worker-local accumulator that is folded into the query's
// final accumulator under the monoid in internal/accum.
package probe

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ssb/internal/accum"
)

// Worker processes the row range [lo, hi) of the fact table and returns
// its local accumulator. Implementations must not write to any state
// shared with other workers; the only communication path back to the
// caller is the returned accumulator, so no locks are needed.
type Worker func(lo, hi int) *accum.Accumulator

// Ranges splits [0, n) into at most workers contiguous, roughly equal
// sub-ranges. The scheduler is free to choose how work is actually
// distributed across goroutines; this just fixes the partition points.
func Ranges(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if n == 0 {
		return nil
	}

	out := make([][2]int, 0, workers)
	chunk := n / workers
	rem := n % workers
	lo := 0
	for i := 0; i < workers; i++ {
		size := chunk
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		hi := lo + size
		out = append(out, [2]int{lo, hi})
		lo = hi
	}
	return out
}

// Scan runs worker over n rows split into Ranges(n, workers) sub-ranges,
// one goroutine per sub-range under an errgroup, and reduces the
// per-range accumulators with accum.MergeAll. A workers value <= 0
// defaults to runtime.GOMAXPROCS(0).
//
// The result is independent of how the range is partitioned: the
// accumulator monoid is associative and commutative, so any split of
// the same total row set reduces to the same sums.
func Scan(ctx context.Context, n, workers int, worker Worker) (*accum.Accumulator, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ranges := Ranges(n, workers)
	if len(ranges) == 0 {
		// No fact rows to scan, but the accumulator still needs the
		// query's slot layout; let the worker build an empty one.
		return worker(0, 0), nil
	}

	results := make([]*accum.Accumulator, len(ranges))
	g, _ := errgroup.WithContext(ctx)
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			results[i] = worker(r[0], r[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return accum.MergeAll(results), nil
}
