package query

import (
	"context"

	"ssb/internal/accum"
	"ssb/internal/column"
	"ssb/internal/probe"
)

// Q1 form: one semi-join (date), two fact-side range predicates
// (discount, quantity), an ungrouped scalar accumulator, and a sum of
// extendedprice*discount. The simplest of the four query shapes; no
// sort key at all.

type q1Driver struct {
	name     string
	datePred func(date *column.DateTable, i int) bool
	factPred func(lo *column.LineorderTable, i int) bool
}

func (q *q1Driver) Name() string { return q.name }

func (q *q1Driver) Run(ctx context.Context, store *column.Store, workers int) (*Result, error) {
	dateSet := buildDateSet(&store.Date, func(i int) bool { return q.datePred(&store.Date, i) })
	lo := &store.Lineorder

	acc, err := probe.Scan(ctx, lo.Len(), workers, func(lo_, hi int) *accum.Accumulator {
		local := accum.New(1)
		for i := lo_; i < hi; i++ {
			// Range predicate first; it is cheaper than the hash probe.
			if !q.factPred(lo, i) {
				continue
			}
			if !dateSet.Contains(lo.OrderDate[i]) {
				continue
			}
			local.Update(0, int64(lo.ExtendedPrice[i])*int64(lo.Discount[i]))
		}
		return local
	})
	if err != nil {
		return nil, err
	}

	return newResult(acc, func(_ int, sum int64) Row {
		return Row{Sum: sum}
	}, func(a, b Row) bool { return false }), nil
}

func init() {
	Register("q1.1", func() Query {
		return &q1Driver{
			name: "q1.1",
			datePred: func(d *column.DateTable, i int) bool {
				return d.Year[i] == 1993
			},
			factPred: func(lo *column.LineorderTable, i int) bool {
				return lo.Discount[i] >= 1 && lo.Discount[i] <= 3 && lo.Quantity[i] < 25
			},
		}
	})

	Register("q1.2", func() Query {
		return &q1Driver{
			name: "q1.2",
			datePred: func(d *column.DateTable, i int) bool {
				return d.YearMonthNum[i] == 199401
			},
			factPred: func(lo *column.LineorderTable, i int) bool {
				return lo.Discount[i] >= 4 && lo.Discount[i] <= 6 && lo.Quantity[i] >= 26 && lo.Quantity[i] <= 35
			},
		}
	})

	Register("q1.3", func() Query {
		return &q1Driver{
			name: "q1.3",
			datePred: func(d *column.DateTable, i int) bool {
				return d.Year[i] == 1994 && d.WeekNumInYear[i] == 6
			},
			factPred: func(lo *column.LineorderTable, i int) bool {
				return lo.Discount[i] >= 5 && lo.Discount[i] <= 7 && lo.Quantity[i] >= 26 && lo.Quantity[i] <= 35
			},
		}
	})
}
