package index

import "golang.org/x/sync/errgroup"

// BuildPartitioned constructs one shard per partition in parallel. Each
// call to build(p) is independent and writes only to the shard it
// returns, so no cross-partition synchronization is needed. n is
// normally column.P.
func BuildPartitioned[T any](n int, build func(partition int) T) []T {
	out := make([]T, n)
	var g errgroup.Group
	for p := 0; p < n; p++ {
		p := p
		g.Go(func() error {
			out[p] = build(p)
			return nil
		})
	}
	// build never returns an error; the zero-error Wait only serializes
	// on completion of every shard before the probe phase may begin.
	_ = g.Wait()
	return out
}
