package query

import (
	"ssb/internal/column"
	"ssb/internal/index"
)

// buildDateSet scans the (small, flat) date dimension once and inserts
// every datekey whose row satisfies pred.
func buildDateSet(date *column.DateTable, pred func(i int) bool) *index.RoaringSet {
	s := index.NewRoaringSet()
	for i := 0; i < date.Len(); i++ {
		if pred(i) {
			s.Insert(date.DateKey[i])
		}
	}
	return s
}

// buildDateYearMap is buildDateSet's projecting counterpart: it carries
// the row's year forward for grouping.
func buildDateYearMap(date *column.DateTable, pred func(i int) bool) *index.Map[uint16] {
	m := index.NewMap[uint16](date.Len())
	for i := 0; i < date.Len(); i++ {
		if pred(i) {
			m.Insert(date.DateKey[i], date.Year[i])
		}
	}
	return m
}

// buildSupplierSet is the flat semi-join set over supplier, used when a
// query only filters on supplier without projecting any column forward.
func buildSupplierSet(sup *column.SupplierTable, pred func(i int) bool) *index.RoaringSet {
	s := index.NewRoaringSet()
	for i := 0; i < sup.Len(); i++ {
		if pred(i) {
			s.Insert(sup.SuppKey[i])
		}
	}
	return s
}

// buildSupplierMap8 is the flat projecting variant over supplier,
// carrying forward an 8-bit column (nation or city).
func buildSupplierMap8(sup *column.SupplierTable, pred func(i int) bool, project func(i int) uint8) *index.Map[uint8] {
	m := index.NewMap[uint8](sup.Len())
	for i := 0; i < sup.Len(); i++ {
		if pred(i) {
			m.Insert(sup.SuppKey[i], project(i))
		}
	}
	return m
}

// buildPartMirrorSet is the partitioned semi-join set over part: one
// shard per column.P partition, built concurrently.
func buildPartMirrorSet(mirror *column.PartMirrorTable, pred func(p, i int) bool) []*index.Set {
	return index.BuildPartitioned(column.P, func(p int) *index.Set {
		part := &mirror.Partitions[p]
		s := index.NewSet(part.Len())
		for i := 0; i < part.Len(); i++ {
			if pred(p, i) {
				s.Insert(part.PartKey[i])
			}
		}
		return s
	})
}

// buildPartMirrorMap8 is the partitioned projecting variant over part,
// carrying forward an 8-bit column (category).
func buildPartMirrorMap8(mirror *column.PartMirrorTable, pred func(p, i int) bool, project func(p, i int) uint8) []*index.Map[uint8] {
	return index.BuildPartitioned(column.P, func(p int) *index.Map[uint8] {
		part := &mirror.Partitions[p]
		m := index.NewMap[uint8](part.Len())
		for i := 0; i < part.Len(); i++ {
			if pred(p, i) {
				m.Insert(part.PartKey[i], project(p, i))
			}
		}
		return m
	})
}

// buildPartMirrorMap16 is buildPartMirrorMap8's 16-bit counterpart,
// carrying forward brand1.
func buildPartMirrorMap16(mirror *column.PartMirrorTable, pred func(p, i int) bool, project func(p, i int) uint16) []*index.Map[uint16] {
	return index.BuildPartitioned(column.P, func(p int) *index.Map[uint16] {
		part := &mirror.Partitions[p]
		m := index.NewMap[uint16](part.Len())
		for i := 0; i < part.Len(); i++ {
			if pred(p, i) {
				m.Insert(part.PartKey[i], project(p, i))
			}
		}
		return m
	})
}

// buildCustMirrorSet is the partitioned semi-join set over customer.
func buildCustMirrorSet(mirror *column.CustMirrorTable, pred func(p, i int) bool) []*index.Set {
	return index.BuildPartitioned(column.P, func(p int) *index.Set {
		part := &mirror.Partitions[p]
		s := index.NewSet(part.Len())
		for i := 0; i < part.Len(); i++ {
			if pred(p, i) {
				s.Insert(part.CustKey[i])
			}
		}
		return s
	})
}

// buildCustMirrorMap8 is the partitioned projecting variant over
// customer, carrying forward an 8-bit column (nation or city).
func buildCustMirrorMap8(mirror *column.CustMirrorTable, pred func(p, i int) bool, project func(p, i int) uint8) []*index.Map[uint8] {
	return index.BuildPartitioned(column.P, func(p int) *index.Map[uint8] {
		part := &mirror.Partitions[p]
		m := index.NewMap[uint8](part.Len())
		for i := 0; i < part.Len(); i++ {
			if pred(p, i) {
				m.Insert(part.CustKey[i], project(p, i))
			}
		}
		return m
	})
}
