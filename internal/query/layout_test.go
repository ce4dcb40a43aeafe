package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLayoutRoundTrips: for every layout, every legal biased tuple
// round-trips through pack/unpack, distinct tuples pack to distinct
// indices, and every produced index is within bounds.
func TestLayoutRoundTrips(t *testing.T) {
	t.Run("q2", func(t *testing.T) {
		seen := make(map[int]bool)
		for year := uint16(0); year < 1<<q2YearBits; year++ {
			for brand := uint16(0); brand < 1<<q2BrandBits; brand++ {
				y, b := q2YearBase+year, q2BrandBase+brand
				idx := packQ2(y, b)
				require.GreaterOrEqual(t, idx, 0)
				require.Less(t, idx, q2Size)
				require.False(t, seen[idx], "collision at idx %d", idx)
				seen[idx] = true

				gy, gb := unpackQ2(idx)
				require.Equal(t, y, gy)
				require.Equal(t, b, gb)
			}
		}
		require.Len(t, seen, q2Size)
	})

	t.Run("q31", func(t *testing.T) {
		seen := make(map[int]bool)
		for nc := 0; nc < 1<<q31NationBits; nc++ {
			for ns := 0; ns < 1<<q31NationBits; ns++ {
				for year := uint16(0); year < 1<<q31YearBits; year++ {
					y := q31YearBase + year
					idx := packQ31(uint8(nc), uint8(ns), y)
					require.GreaterOrEqual(t, idx, 0)
					require.Less(t, idx, q31Size)
					require.False(t, seen[idx])
					seen[idx] = true

					gnc, gns, gy := unpackQ31(idx)
					require.Equal(t, uint8(nc), gnc)
					require.Equal(t, uint8(ns), gns)
					require.Equal(t, y, gy)
				}
			}
		}
		require.Len(t, seen, q31Size)
	})

	t.Run("q34", func(t *testing.T) {
		seen := make(map[int]bool)
		for cc := 0; cc < 1<<q34CityBits; cc++ {
			for cs := 0; cs < 1<<q34CityBits; cs++ {
				for year := uint16(0); year < 1<<q34YearBits; year++ {
					c1 := q34CityBase + uint8(cc)
					c2 := q34CityBase + uint8(cs)
					y := q34YearBase + year
					idx := packQ34(c1, c2, y)
					require.GreaterOrEqual(t, idx, 0)
					require.Less(t, idx, q34Size)
					require.False(t, seen[idx])
					seen[idx] = true

					gc1, gc2, gy := unpackQ34(idx)
					require.Equal(t, c1, gc1)
					require.Equal(t, c2, gc2)
					require.Equal(t, y, gy)
				}
			}
		}
		require.Len(t, seen, q34Size)
	})

	t.Run("q41", func(t *testing.T) {
		seen := make(map[int]bool)
		for year := uint16(0); year < 1<<q41YearBits; year++ {
			for nc := 0; nc < 1<<q41NationBits; nc++ {
				y := q41YearBase + year
				idx := packQ41(y, uint8(nc))
				require.GreaterOrEqual(t, idx, 0)
				require.Less(t, idx, q41Size)
				require.False(t, seen[idx])
				seen[idx] = true

				gy, gnc := unpackQ41(idx)
				require.Equal(t, y, gy)
				require.Equal(t, uint8(nc), gnc)
			}
		}
		require.Len(t, seen, q41Size)
	})

	t.Run("q42", func(t *testing.T) {
		seen := make(map[int]bool)
		for year := uint16(0); year < 1<<q42YearBits; year++ {
			for ns := 0; ns < 1<<q42NationBits; ns++ {
				for cat := 0; cat < 1<<q42CategoryBits; cat++ {
					y := q42YearBase + year
					idx := packQ42(y, uint8(ns), uint8(cat))
					require.GreaterOrEqual(t, idx, 0)
					require.Less(t, idx, q42Size)
					require.False(t, seen[idx])
					seen[idx] = true

					gy, gns, gcat := unpackQ42(idx)
					require.Equal(t, y, gy)
					require.Equal(t, uint8(ns), gns)
					require.Equal(t, uint8(cat), gcat)
				}
			}
		}
		require.Len(t, seen, q42Size)
	})

	t.Run("q43", func(t *testing.T) {
		seen := make(map[int]bool)
		for year := uint16(0); year < 1<<q43YearBits; year++ {
			for cs := 0; cs < 1<<q43CityBits; cs++ {
				for brand := 0; brand < 1<<q43BrandBits; brand++ {
					y := q43YearBase + year
					c := q43CityBase + uint8(cs)
					b := q43BrandBase + uint16(brand)
					idx := packQ43(y, c, b)
					require.GreaterOrEqual(t, idx, 0)
					require.Less(t, idx, q43Size)
					require.False(t, seen[idx])
					seen[idx] = true

					gy, gc, gb := unpackQ43(idx)
					require.Equal(t, y, gy)
					require.Equal(t, c, gc)
					require.Equal(t, b, gb)
				}
			}
		}
		require.Len(t, seen, q43Size)
	})
}
