// Package pairset stores sets of operand coordinate pairs as Roaring bitmaps.
//
// A pair (i, j) of enumeration positions is encoded as i*stride + j, so the
// ascending bitmap order is the row-major order of the pairs.
package pairset

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Set is a set of (i, j) pairs with 0 <= j < stride.
type Set struct {
	rb     *roaring64.Bitmap
	stride uint64
}

// New creates an empty set for pairs whose second component is below stride.
// A stride below 1 is treated as 1 (single-position sets).
func New(stride int) *Set {
	if stride < 1 {
		stride = 1
	}
	return &Set{
		rb:     roaring64.New(),
		stride: uint64(stride),
	}
}

// Add inserts the pair (i, j).
func (s *Set) Add(i, j int) {
	s.rb.Add(uint64(i)*s.stride + uint64(j))
}

// Contains reports whether (i, j) is a member.
func (s *Set) Contains(i, j int) bool {
	return s.rb.Contains(uint64(i)*s.stride + uint64(j))
}

// Len returns the number of pairs.
func (s *Set) Len() int {
	return int(s.rb.GetCardinality())
}

// Each calls fn for every pair in ascending order until fn returns false.
func (s *Set) Each(fn func(i, j int) bool) {
	it := s.rb.Iterator()
	for it.HasNext() {
		id := it.Next()
		if !fn(int(id/s.stride), int(id%s.stride)) {
			return
		}
	}
}
