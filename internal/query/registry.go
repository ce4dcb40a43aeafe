package query

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ssb/internal/column"
)

// Query is one of the thirteen SSB drivers. Run builds the query's
// dimension indices and executes the parallel probe, returning a Result
// that the caller finalizes into sorted rows.
type Query interface {
	Name() string
	Run(ctx context.Context, store *column.Store, workers int) (*Result, error)
}

// registry maps a query name ("q1.1", "q2.3", ...) to its driver.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Query)
)

// Register adds a driver under name. Called from each query driver
// file's init().
func Register(name string, newFn func() Query) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = newFn
}

// Get looks up a registered driver by name.
func Get(name string) (Query, error) {
	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown query %q; known queries: %v", name, Names())
	}
	return fn(), nil
}

// Names returns every registered query name, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
