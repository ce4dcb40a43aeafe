package query

import (
	"context"

	"ssb/internal/accum"
	"ssb/internal/column"
	"ssb/internal/probe"
)

// Q2 form: two filtering joins (supplier semi-join, date equi-join for
// year) plus one projecting join (part, partitioned, brand1 carried
// forward), grouped by (year, brand1), summing revenue.

type q2Driver struct {
	name           string
	supplierRegion uint8
	partFilter     func(category uint8, brand1 uint16) bool
}

func (q *q2Driver) Name() string { return q.name }

func (q *q2Driver) Run(ctx context.Context, store *column.Store, workers int) (*Result, error) {
	supplierSet := buildSupplierSet(&store.Supplier, func(i int) bool {
		return store.Supplier.Region[i] == q.supplierRegion
	})
	partMaps := buildPartMirrorMap16(&store.PartMirror, func(p, i int) bool {
		part := &store.PartMirror.Partitions[p]
		return q.partFilter(part.Category[i], part.Brand1[i])
	}, func(p, i int) uint16 {
		return store.PartMirror.Partitions[p].Brand1[i]
	})
	dateMap := buildDateYearMap(&store.Date, func(int) bool { return true })

	lo := &store.Lineorder
	acc, err := probe.Scan(ctx, lo.Len(), workers, func(lo_, hi int) *accum.Accumulator {
		local := accum.New(q2Size)
		for i := lo_; i < hi; i++ {
			// The flat supplier set is the cheapest probe; run it first.
			if !supplierSet.Contains(lo.SuppKey[i]) {
				continue
			}
			partition := partMaps[lo.PartKey[i]%column.P]
			brand1, ok := partition.Get(lo.PartKey[i])
			if !ok {
				continue
			}
			year, ok := dateMap.Get(lo.OrderDate[i])
			if !ok {
				continue
			}
			idx := packQ2(year, brand1)
			local.Update(idx, int64(lo.Revenue[i]))
		}
		return local
	})
	if err != nil {
		return nil, err
	}

	return newResult(acc, func(idx int, sum int64) Row {
		year, brand1 := unpackQ2(idx)
		return Row{Fields: []int64{int64(year), int64(brand1)}, Sum: sum}
	}, func(a, b Row) bool {
		if a.Fields[0] != b.Fields[0] {
			return a.Fields[0] < b.Fields[0]
		}
		return a.Fields[1] < b.Fields[1]
	}), nil
}

// inBrandWindow bounds a candidate brand1 to the 64-value window the
// (brand1-40):6 layout can hold. In real SSB data a category's brands
// occupy exactly such a window; callers compose it with their own
// category/brand predicate.
func inBrandWindow(brand1 uint16) bool {
	return brand1 >= q2BrandBase && brand1 < q2BrandBase+(1<<q2BrandBits)
}

func init() {
	Register("q2.1", func() Query {
		return &q2Driver{
			name:           "q2.1",
			supplierRegion: 1, // AMERICA
			partFilter: func(category uint8, brand1 uint16) bool {
				return category == 12 && inBrandWindow(brand1)
			},
		}
	})

	Register("q2.2", func() Query {
		return &q2Driver{
			name:           "q2.2",
			supplierRegion: 2, // ASIA
			partFilter: func(_ uint8, brand1 uint16) bool {
				return brand1 >= 60 && brand1 <= 67
			},
		}
	})

	Register("q2.3", func() Query {
		return &q2Driver{
			name:           "q2.3",
			supplierRegion: 3, // EUROPE
			partFilter: func(_ uint8, brand1 uint16) bool {
				return brand1 == 75
			},
		}
	})
}
