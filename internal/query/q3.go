package query

import (
	"context"

	"ssb/internal/accum"
	"ssb/internal/column"
	"ssb/internal/probe"
)

// Q3 form: three equi-joins (customer and supplier, both partitioned
// resp. flat, each projecting nation or city; date projecting year),
// grouped by (nation_c, nation_s, year) for Q3.1 or (city_c, city_s,
// year) for Q3.2-3.4, summing revenue.

type q3Group int

const (
	q3GroupNation q3Group = iota
	q3GroupCity
)

type q3Driver struct {
	name       string
	group      q3Group
	custFilter func(region, nation, city uint8) bool
	suppFilter func(region, nation, city uint8) bool
	dateFilter func(year uint16, yearMonth uint32) bool
}

func (q *q3Driver) Name() string { return q.name }

func (q *q3Driver) Run(ctx context.Context, store *column.Store, workers int) (*Result, error) {
	project := func(nation, city uint8) uint8 {
		if q.group == q3GroupNation {
			return nation
		}
		return city
	}

	custMaps := buildCustMirrorMap8(&store.CustMirror, func(p, i int) bool {
		c := &store.CustMirror.Partitions[p]
		return q.custFilter(c.Region[i], c.Nation[i], c.City[i])
	}, func(p, i int) uint8 {
		c := &store.CustMirror.Partitions[p]
		return project(c.Nation[i], c.City[i])
	})

	suppMap := buildSupplierMap8(&store.Supplier, func(i int) bool {
		return q.suppFilter(store.Supplier.Region[i], store.Supplier.Nation[i], store.Supplier.City[i])
	}, func(i int) uint8 {
		return project(store.Supplier.Nation[i], store.Supplier.City[i])
	})

	dateMap := buildDateYearMap(&store.Date, func(i int) bool {
		return q.dateFilter(store.Date.Year[i], store.Date.YearMonth[i])
	})

	size := q31Size
	if q.group == q3GroupCity {
		size = q34Size
	}

	lo := &store.Lineorder
	acc, err := probe.Scan(ctx, lo.Len(), workers, func(lo_, hi int) *accum.Accumulator {
		local := accum.New(size)
		for i := lo_; i < hi; i++ {
			sKey, ok := suppMap.Get(lo.SuppKey[i])
			if !ok {
				continue
			}
			custPartition := custMaps[lo.CustKey[i]%column.P]
			cKey, ok := custPartition.Get(lo.CustKey[i])
			if !ok {
				continue
			}
			year, ok := dateMap.Get(lo.OrderDate[i])
			if !ok {
				continue
			}

			var idx int
			if q.group == q3GroupNation {
				idx = packQ31(cKey, sKey, year)
			} else {
				idx = packQ34(cKey, sKey, year)
			}
			local.Update(idx, int64(lo.Revenue[i]))
		}
		return local
	})
	if err != nil {
		return nil, err
	}

	decode := func(idx int, sum int64) Row {
		if q.group == q3GroupNation {
			nc, ns, year := unpackQ31(idx)
			return Row{Fields: []int64{int64(year), int64(nc), int64(ns)}, Sum: sum}
		}
		cc, cs, year := unpackQ34(idx)
		return Row{Fields: []int64{int64(year), int64(cc), int64(cs)}, Sum: sum}
	}
	// Every Q3 variant sorts (year ASC, revenue DESC).
	less := func(a, b Row) bool {
		if a.Fields[0] != b.Fields[0] {
			return a.Fields[0] < b.Fields[0]
		}
		return a.Sum > b.Sum
	}

	return newResult(acc, decode, less), nil
}

// inQ34CityWindow bounds a candidate city to the 32-value window the
// (city-221):5 fields can hold; a projected city outside it would wrap
// during the bias subtraction and corrupt the slot index.
func inQ34CityWindow(city uint8) bool {
	return city >= q34CityBase && city < q34CityBase+(1<<q34CityBits)
}

func init() {
	Register("q3.1", func() Query {
		return &q3Driver{
			name:  "q3.1",
			group: q3GroupNation,
			custFilter: func(region, _, _ uint8) bool { return region == 2 }, // ASIA
			suppFilter: func(region, _, _ uint8) bool { return region == 2 }, // ASIA
			dateFilter: func(year uint16, _ uint32) bool { return year >= 1992 && year <= 1997 },
		}
	})

	Register("q3.2", func() Query {
		return &q3Driver{
			name:  "q3.2",
			group: q3GroupCity,
			custFilter: func(_, nation, city uint8) bool { return nation == 24 && inQ34CityWindow(city) }, // UNITED STATES
			suppFilter: func(_, nation, city uint8) bool { return nation == 24 && inQ34CityWindow(city) },
			dateFilter: func(year uint16, _ uint32) bool { return year >= 1992 && year <= 1997 },
		}
	})

	Register("q3.3", func() Query {
		return &q3Driver{
			name:  "q3.3",
			group: q3GroupCity,
			custFilter: func(_, _, city uint8) bool { return city == 231 || city == 235 },
			suppFilter: func(_, _, city uint8) bool { return city == 231 || city == 235 },
			dateFilter: func(year uint16, _ uint32) bool { return year >= 1992 && year <= 1997 },
		}
	})

	Register("q3.4", func() Query {
		return &q3Driver{
			name:  "q3.4",
			group: q3GroupCity,
			custFilter: func(_, _, city uint8) bool { return city == 231 || city == 235 },
			suppFilter: func(_, _, city uint8) bool { return city == 231 || city == 235 },
			dateFilter: func(_ uint16, yearMonth uint32) bool { return yearMonth == 199712 },
		}
	})
}
