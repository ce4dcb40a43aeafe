package query

import (
	"context"
	"fmt"

	"ssb/internal/accum"
	"ssb/internal/column"
	"ssb/internal/probe"
)

// Q4 form: four joins (customer, supplier, part, date), grouped by
// year plus a nation/city/category/brand dimension, summing
// revenue-supplycost. Q4.1's date map keeps every 1992-1998 date, the
// whole range its 3-bit year field holds, and its lookup is an
// infallible assertion: every order date is expected to resolve, and a
// miss there panics as a programmer error. Q4.2 and Q4.3
// filter the date dimension to 1997-1998, which makes their date probe
// a filtering join like any other: a fact row dated outside the window
// is simply skipped.

type q4Variant int

const (
	q4Variant1 q4Variant = iota
	q4Variant2
	q4Variant3
)

type q4Driver struct {
	name       string
	variant    q4Variant
	custFilter func(region, nation, city uint8) bool
	suppFilter func(region, nation, city uint8) bool
	partFilter func(mfgr, category uint8, brand1 uint16) bool
	dateFilter func(year uint16) bool
}

func (q *q4Driver) Name() string { return q.name }

func (q *q4Driver) Run(ctx context.Context, store *column.Store, workers int) (*Result, error) {
	dateMap := buildDateYearMap(&store.Date, func(i int) bool { return q.dateFilter(store.Date.Year[i]) })

	var size int
	lo := &store.Lineorder

	switch q.variant {
	case q4Variant1:
		size = q41Size
		custMaps := buildCustMirrorMap8(&store.CustMirror, func(p, i int) bool {
			c := &store.CustMirror.Partitions[p]
			return q.custFilter(c.Region[i], c.Nation[i], c.City[i])
		}, func(p, i int) uint8 { return store.CustMirror.Partitions[p].Nation[i] })
		suppSetFlat := buildSupplierSet(&store.Supplier, func(i int) bool {
			return q.suppFilter(store.Supplier.Region[i], store.Supplier.Nation[i], store.Supplier.City[i])
		})
		partSetPart := buildPartMirrorSet(&store.PartMirror, func(p, i int) bool {
			part := &store.PartMirror.Partitions[p]
			return q.partFilter(part.Mfgr[i], part.Category[i], part.Brand1[i])
		})

		acc, err := probe.Scan(ctx, lo.Len(), workers, func(lo_, hi int) *accum.Accumulator {
			local := accum.New(size)
			for i := lo_; i < hi; i++ {
				if !suppSetFlat.Contains(lo.SuppKey[i]) {
					continue
				}
				if !partSetPart[lo.PartKey[i]%column.P].Contains(lo.PartKey[i]) {
					continue
				}
				nationC, ok := custMaps[lo.CustKey[i]%column.P].Get(lo.CustKey[i])
				if !ok {
					continue
				}
				year := mustDateYear(dateMap, lo.OrderDate[i])
				idx := packQ41(year, nationC)
				local.Update(idx, int64(lo.Revenue[i])-int64(lo.SupplyCost[i]))
			}
			return local
		})
		if err != nil {
			return nil, err
		}
		return newResult(acc, func(idx int, sum int64) Row {
			year, nationC := unpackQ41(idx)
			return Row{Fields: []int64{int64(year), int64(nationC)}, Sum: sum}
		}, lessByFieldsThenFields), nil

	case q4Variant2:
		size = q42Size
		custSetPart := buildCustMirrorSet(&store.CustMirror, func(p, i int) bool {
			c := &store.CustMirror.Partitions[p]
			return q.custFilter(c.Region[i], c.Nation[i], c.City[i])
		})
		suppMapFlat := buildSupplierMap8(&store.Supplier, func(i int) bool {
			return q.suppFilter(store.Supplier.Region[i], store.Supplier.Nation[i], store.Supplier.City[i])
		}, func(i int) uint8 { return store.Supplier.Nation[i] })
		partMaps := buildPartMirrorMap8(&store.PartMirror, func(p, i int) bool {
			part := &store.PartMirror.Partitions[p]
			return q.partFilter(part.Mfgr[i], part.Category[i], part.Brand1[i])
		}, func(p, i int) uint8 { return store.PartMirror.Partitions[p].Category[i] })

		acc, err := probe.Scan(ctx, lo.Len(), workers, func(lo_, hi int) *accum.Accumulator {
			local := accum.New(size)
			for i := lo_; i < hi; i++ {
				nationS, ok := suppMapFlat.Get(lo.SuppKey[i])
				if !ok {
					continue
				}
				if !custSetPart[lo.CustKey[i]%column.P].Contains(lo.CustKey[i]) {
					continue
				}
				category, ok := partMaps[lo.PartKey[i]%column.P].Get(lo.PartKey[i])
				if !ok {
					continue
				}
				year, ok := dateMap.Get(lo.OrderDate[i])
				if !ok {
					continue
				}
				idx := packQ42(year, nationS, category)
				local.Update(idx, int64(lo.Revenue[i])-int64(lo.SupplyCost[i]))
			}
			return local
		})
		if err != nil {
			return nil, err
		}
		return newResult(acc, func(idx int, sum int64) Row {
			year, nationS, category := unpackQ42(idx)
			return Row{Fields: []int64{int64(year), int64(nationS), int64(category)}, Sum: sum}
		}, lessByFieldsThenFields), nil

	default: // q4Variant3
		size = q43Size
		custSetPart := buildCustMirrorSet(&store.CustMirror, func(p, i int) bool {
			c := &store.CustMirror.Partitions[p]
			return q.custFilter(c.Region[i], c.Nation[i], c.City[i])
		})
		suppMapFlat := buildSupplierMap8(&store.Supplier, func(i int) bool {
			return q.suppFilter(store.Supplier.Region[i], store.Supplier.Nation[i], store.Supplier.City[i])
		}, func(i int) uint8 { return store.Supplier.City[i] })
		partMaps := buildPartMirrorMap16(&store.PartMirror, func(p, i int) bool {
			part := &store.PartMirror.Partitions[p]
			return q.partFilter(part.Mfgr[i], part.Category[i], part.Brand1[i])
		}, func(p, i int) uint16 { return store.PartMirror.Partitions[p].Brand1[i] })

		acc, err := probe.Scan(ctx, lo.Len(), workers, func(lo_, hi int) *accum.Accumulator {
			local := accum.New(size)
			for i := lo_; i < hi; i++ {
				citySupp, ok := suppMapFlat.Get(lo.SuppKey[i])
				if !ok {
					continue
				}
				if !custSetPart[lo.CustKey[i]%column.P].Contains(lo.CustKey[i]) {
					continue
				}
				brand1, ok := partMaps[lo.PartKey[i]%column.P].Get(lo.PartKey[i])
				if !ok {
					continue
				}
				year, ok := dateMap.Get(lo.OrderDate[i])
				if !ok {
					continue
				}
				idx := packQ43(year, citySupp, brand1)
				local.Update(idx, int64(lo.Revenue[i])-int64(lo.SupplyCost[i]))
			}
			return local
		})
		if err != nil {
			return nil, err
		}
		return newResult(acc, func(idx int, sum int64) Row {
			year, citySupp, brand1 := unpackQ43(idx)
			return Row{Fields: []int64{int64(year), int64(citySupp), int64(brand1)}, Sum: sum}
		}, lessByFieldsThenFields), nil
	}
}

// mustDateYear treats a date miss as a programmer-error assertion. Used
// only by Q4.1, whose date map keeps the full 1992-1998 range, where
// every order date is expected to resolve after a referentially-intact
// load.
func mustDateYear(m interface{ Get(uint32) (uint16, bool) }, key uint32) uint16 {
	year, ok := m.Get(key)
	if !ok {
		panic(fmt.Sprintf("ssb: order date %d did not resolve in the date dimension", key))
	}
	return year
}

// lessByFieldsThenFields sorts ascending by every field in order, left
// to right. (year, nation_c), (year, nation_s, category), and
// (year, city_s, brand1) all share this comparator shape.
func lessByFieldsThenFields(a, b Row) bool {
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] {
			return a.Fields[i] < b.Fields[i]
		}
	}
	return false
}

func init() {
	Register("q4.1", func() Query {
		return &q4Driver{
			name:    "q4.1",
			variant: q4Variant1,
			custFilter: func(region, _, _ uint8) bool { return region == 1 }, // AMERICA
			suppFilter: func(region, _, _ uint8) bool { return region == 1 },
			partFilter: func(mfgr, _ uint8, _ uint16) bool { return mfgr == 1 || mfgr == 2 },
			dateFilter: func(year uint16) bool { return year >= 1992 && year <= 1998 },
		}
	})

	Register("q4.2", func() Query {
		return &q4Driver{
			name:    "q4.2",
			variant: q4Variant2,
			custFilter: func(region, _, _ uint8) bool { return region == 1 }, // AMERICA
			suppFilter: func(region, _, _ uint8) bool { return region == 1 },
			partFilter: func(mfgr, category uint8, _ uint16) bool {
				return (mfgr == 1 || mfgr == 2) && inCategoryWindow(category)
			},
			dateFilter: func(year uint16) bool { return year == 1997 || year == 1998 },
		}
	})

	Register("q4.3", func() Query {
		return &q4Driver{
			name:    "q4.3",
			variant: q4Variant3,
			custFilter: func(region, _, _ uint8) bool { return region == 1 }, // AMERICA
			suppFilter: func(_, nation, city uint8) bool { return nation == 24 && inQ43CityWindow(city) },
			partFilter: func(_, category uint8, brand1 uint16) bool {
				return category == 14 && inQ43BrandWindow(brand1)
			},
			dateFilter: func(year uint16) bool { return year == 1997 || year == 1998 },
		}
	})
}

// inCategoryWindow bounds a candidate category to the 16-value window the
// (year-1997):1, nation_s:5, category:4 layout can hold.
func inCategoryWindow(category uint8) bool {
	return category < (1 << q42CategoryBits)
}

// inQ43BrandWindow bounds a candidate brand1 to the 64-value window the
// (year-1997):1, (city_s-231):4, (brand1-121):6 layout can hold.
func inQ43BrandWindow(brand1 uint16) bool {
	return brand1 >= q43BrandBase && brand1 < q43BrandBase+(1<<q43BrandBits)
}

// inQ43CityWindow bounds a candidate supplier city to the 16-value window
// the (city_s-231):4 field can hold.
func inQ43CityWindow(city uint8) bool {
	return city >= q43CityBase && city < q43CityBase+(1<<q43CityBits)
}
