// Package engine drives each query through its phases in order: build
// the dimension indices, run the parallel probe, then finalize the
// merged accumulator into sorted rows, emitting a telemetry span per
// phase. Index build and probe are both owned by Query.Run (a driver
// compiles its predicates into the probe loop, so there is no
// externally observable boundary between the two); finalization is the
// engine's own timed step.
package engine

import (
	"context"
	"time"

	"ssb/internal/column"
	"ssb/internal/query"
	"ssb/internal/telemetry"
)

const (
	PhaseBuildAndProbe = "build_and_probe"
	PhaseFinalize      = "finalize"
)

// Engine runs registered queries against a shared, read-only column
// store and reports phase timing through an Emitter.
type Engine struct {
	Store   *column.Store
	Workers int
	Emit    telemetry.Emitter
}

// New constructs an Engine over store, using workers goroutines per
// probe (0 defers to internal/probe's GOMAXPROCS default) and emit for
// phase/result reporting.
func New(store *column.Store, workers int, emit telemetry.Emitter) *Engine {
	return &Engine{Store: store, Workers: workers, Emit: emit}
}

// Run executes the named query to completion and returns its sorted
// result rows.
func (e *Engine) Run(ctx context.Context, name string) ([]query.Row, error) {
	q, err := query.Get(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := q.Run(ctx, e.Store, e.Workers)
	if err != nil {
		return nil, err
	}
	if spanErr := e.Emit.EmitSpan(telemetry.Span{
		Query:  name,
		Phase:  PhaseBuildAndProbe,
		Millis: time.Since(start).Milliseconds(),
	}); spanErr != nil {
		return nil, spanErr
	}

	finalizeStart := time.Now()
	rows := res.Finalize()
	if spanErr := e.Emit.EmitSpan(telemetry.Span{
		Query:  name,
		Phase:  PhaseFinalize,
		Millis: time.Since(finalizeStart).Milliseconds(),
	}); spanErr != nil {
		return nil, spanErr
	}

	if err := e.Emit.EmitResult(name, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// RunAll executes every name in names in order, returning the first
// error encountered. A load or configuration error has already aborted
// the process before RunAll is reached; errors here come from unknown
// query names or the emitter's I/O.
func (e *Engine) RunAll(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := e.Run(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
