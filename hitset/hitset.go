package hitset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a set of point indices struck by one selection gesture.
// It wraps a 32-bit Roaring Bitmap.
//
// Indices are non-negative; constructors panic on negative input since a
// negative index can only come from a hit-testing bug upstream.
type Set struct {
	rb *roaring.Bitmap
}

// New creates a new empty hit set.
func New() *Set {
	return &Set{
		rb: roaring.New(),
	}
}

// Of creates a hit set containing the given indices.
func Of(indices ...int) *Set {
	s := New()
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

// Range creates a hit set containing all indices in [start, end).
// An empty or inverted range yields an empty set.
func Range(start, end int) *Set {
	if start < 0 {
		panic("hitset: negative index")
	}
	s := New()
	if start < end {
		s.rb.AddRange(uint64(start), uint64(end))
	}
	return s
}

// Add adds an index to the set.
func (s *Set) Add(i int) {
	if i < 0 {
		panic("hitset: negative index")
	}
	s.rb.Add(uint32(i))
}

// Remove removes an index from the set.
func (s *Set) Remove(i int) {
	if i < 0 {
		return
	}
	s.rb.Remove(uint32(i))
}

// Contains checks if an index is in the set.
func (s *Set) Contains(i int) bool {
	return i >= 0 && s.rb.Contains(uint32(i))
}

// IsEmpty returns true if the set is empty.
func (s *Set) IsEmpty() bool {
	return s == nil || s.rb.IsEmpty()
}

// Cardinality returns the number of indices in the set.
func (s *Set) Cardinality() int {
	if s == nil {
		return 0
	}
	return int(s.rb.GetCardinality())
}

// Max returns the largest index in the set.
// It must not be called on an empty set.
func (s *Set) Max() int {
	return int(s.rb.Maximum())
}

// Min returns the smallest index in the set.
// It must not be called on an empty set.
func (s *Set) Min() int {
	return int(s.rb.Minimum())
}

// Iterator returns an iterator over the set in ascending index order.
func (s *Set) Iterator() iter.Seq[int] {
	return func(yield func(int) bool) {
		if s == nil {
			return
		}
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// ToSlice returns the indices as a sorted slice.
func (s *Set) ToSlice() []int {
	if s == nil {
		return nil
	}
	out := make([]int, 0, s.rb.GetCardinality())
	it := s.rb.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		rb: s.rb.Clone(),
	}
}

// And computes the intersection of two sets in place.
func (s *Set) And(other *Set) {
	s.rb.And(other.rb)
}

// Or computes the union of two sets in place.
func (s *Set) Or(other *Set) {
	s.rb.Or(other.rb)
}

// AndNot computes the difference of two sets in place.
func (s *Set) AndNot(other *Set) {
	s.rb.AndNot(other.rb)
}

// Clear removes all indices from the set.
func (s *Set) Clear() {
	s.rb.Clear()
}
