package index

// Map is an open-addressing uint32 -> V map, used for projecting equi-
// joins: the fact row survives iff its foreign key hits, and the
// associated value is pulled forward into the packed group key or the
// sum expression. Same probing scheme and capacity policy as Set.
type Map[V any] struct {
	keys []uint32
	vals []V
	used []bool
	mask uint32
}

// NewMap reserves capacity for roughly capacityHint entries.
func NewMap[V any](capacityHint int) *Map[V] {
	cap := nextPow2(capacityHint * 2)
	return &Map[V]{
		keys: make([]uint32, cap),
		vals: make([]V, cap),
		used: make([]bool, cap),
		mask: cap - 1,
	}
}

// Insert associates key with val. Dimension keys are unique by contract;
// re-inserting a key overwrites its value.
func (m *Map[V]) Insert(key uint32, val V) {
	i := fibMix(key) & m.mask
	for m.used[i] {
		if m.keys[i] == key {
			m.vals[i] = val
			return
		}
		i = (i + 1) & m.mask
	}
	m.used[i] = true
	m.keys[i] = key
	m.vals[i] = val
}

// Get looks up key, returning its value and whether it was present.
func (m *Map[V]) Get(key uint32) (V, bool) {
	i := fibMix(key) & m.mask
	for m.used[i] {
		if m.keys[i] == key {
			return m.vals[i], true
		}
		i = (i + 1) & m.mask
	}
	var zero V
	return zero, false
}
