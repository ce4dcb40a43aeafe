package index

import "github.com/RoaringBitmap/roaring/v2"

// RoaringSet is a compressed presence set over uint32 keys, backed by
// github.com/RoaringBitmap/roaring/v2. It is the flat-variant semi-join
// set for the small dimensions (supplier, date): their key domains are
// sparse over a wide uint32 range (date keys are YYYYMMDD-shaped, for
// instance), which is exactly the case a roaring bitmap compresses well,
// and no payload needs to ride alongside presence for a semi-join.
type RoaringSet struct {
	bm *roaring.Bitmap
}

// NewRoaringSet returns an empty set.
func NewRoaringSet() *RoaringSet {
	return &RoaringSet{bm: roaring.New()}
}

// Insert adds key to the set.
func (s *RoaringSet) Insert(key uint32) {
	s.bm.Add(key)
}

// Contains reports whether key was inserted.
func (s *RoaringSet) Contains(key uint32) bool {
	return s.bm.Contains(key)
}
