package libftr

import (
	"cmp"

	"github.com/fine-structures/ftrgraph/goftr"
)

// Scalars is a scalar field over vertices with a strict total order:
// equal values are ordered by vertex ID, and NaN comes before any other value.
//
// Once Sort has been called, comparisons use the precomputed rank of each vertex.
type Scalars[T cmp.Ordered] struct {
	values []T
	order  []goftr.VertexID // vertices by ascending value, valid once sorted
	mirror []int64          // rank of each vertex in order, valid once sorted
}

func NewScalars[T cmp.Ordered](values []T) *Scalars[T] {
	return &Scalars[T]{
		values: values,
	}
}

func (s *Scalars[T]) Len() int {
	return len(s.values)
}

func (s *Scalars[T]) Value(v goftr.VertexID) T {
	return s.values[v]
}

// SetValue changes the value of v and drops any previous sort.
func (s *Scalars[T]) SetValue(v goftr.VertexID, val T) {
	s.values[v] = val
	s.order = s.order[:0]
	s.mirror = s.mirror[:0]
}

func (s *Scalars[T]) IsSorted() bool {
	return len(s.mirror) == len(s.values) && len(s.values) > 0
}

func (s *Scalars[T]) IsLower(a, b goftr.VertexID) bool {
	if s.IsSorted() {
		return s.mirror[a] < s.mirror[b]
	}
	// cmp.Compare puts NaN below every other value and equal to itself
	c := cmp.Compare(s.values[a], s.values[b])
	return c < 0 || (c == 0 && a < b)
}

func (s *Scalars[T]) IsHigher(a, b goftr.VertexID) bool {
	return s.IsLower(b, a)
}

// Sort ranks all vertices so that later comparisons are a single lookup.
func (s *Scalars[T]) Sort(parallel bool, numWorkers int) {
	N := len(s.values)
	s.mirror = s.mirror[:0]

	if cap(s.order) < N {
		s.order = make([]goftr.VertexID, N)
	}
	s.order = s.order[:N]
	for i := range s.order {
		s.order[i] = goftr.VertexID(i)
	}

	if parallel {
		ParallelSortStable(s.order, s.IsLower, numWorkers)
	} else {
		SortStable(s.order, s.IsLower)
	}

	mirror := s.mirror
	if cap(mirror) < N {
		mirror = make([]int64, N)
	}
	mirror = mirror[:N]
	for rank, v := range s.order {
		mirror[v] = int64(rank)
	}
	s.mirror = mirror
}

// SortedVertex returns the vertex of the given rank.  Sort must have been called.
func (s *Scalars[T]) SortedVertex(rank int) goftr.VertexID {
	return s.order[rank]
}

// Rank returns the position of v in ascending order.  Sort must have been called.
func (s *Scalars[T]) Rank(v goftr.VertexID) int64 {
	return s.mirror[v]
}
