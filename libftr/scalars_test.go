package libftr_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/fine-structures/ftrgraph/libftr"
	"github.com/stretchr/testify/require"
)

func TestScalarsOrder(t *testing.T) {
	s := libftr.NewScalars([]float64{2.0, 1.0, 2.0, 0.5})

	require.True(t, s.IsLower(1, 0))
	require.True(t, s.IsLower(0, 2)) // tie broken by vertex ID
	require.False(t, s.IsLower(2, 0))
	require.True(t, s.IsHigher(2, 0))
	require.False(t, s.IsLower(3, 3))

	s.Sort(false, 0)
	require.True(t, s.IsSorted())
	require.Equal(t, goftr.VertexID(3), s.SortedVertex(0))
	require.Equal(t, goftr.VertexID(2), s.SortedVertex(3))
	require.Equal(t, int64(2), s.Rank(0))
	require.True(t, s.IsLower(0, 2))

	s.SetValue(3, 10)
	require.False(t, s.IsSorted())
	require.True(t, s.IsHigher(3, 2))
}

func TestScalarsNaN(t *testing.T) {
	nan := math.NaN()
	s := libftr.NewScalars([]float64{1, nan, -3, nan})

	require.True(t, s.IsLower(1, 2)) // NaN sorts first
	require.False(t, s.IsLower(2, 1))
	require.True(t, s.IsLower(1, 3)) // two NaNs are ordered by vertex ID
	require.False(t, s.IsLower(3, 1))
	require.False(t, s.IsLower(1, 1))

	s.Sort(true, 2)
	order := []goftr.VertexID{1, 3, 2, 0}
	for rank, v := range order {
		require.Equal(t, v, s.SortedVertex(rank))
	}

	// a field of NaNs is still totally ordered
	m := libftr.NewScalars([]float64{nan, nan, nan})
	for a := goftr.VertexID(0); a < 3; a++ {
		for b := goftr.VertexID(0); b < 3; b++ {
			require.Equal(t, a != b, m.IsLower(a, b) != m.IsLower(b, a), "%d %d", a, b)
		}
	}
}

func TestScalarsParallelSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := make([]int32, 30000)
	for i := range values {
		values[i] = rng.Int31n(500)
	}

	seq := libftr.NewScalars(values)
	par := libftr.NewScalars(append([]int32(nil), values...))
	seq.Sort(false, 0)
	par.Sort(true, 3)

	for r := 0; r < len(values); r++ {
		require.Equal(t, seq.SortedVertex(r), par.SortedVertex(r))
	}
}

func TestParallelSortStable(t *testing.T) {
	type item struct{ key, pos int }

	rng := rand.New(rand.NewSource(7))
	items := make([]item, 12345)
	for i := range items {
		items[i] = item{key: rng.Intn(20), pos: i}
	}
	less := func(a, b item) bool { return a.key < b.key }

	seq := append([]item(nil), items...)
	libftr.SortStable(seq, less)

	for _, workers := range []int{0, 1, 2, 5, 8} {
		par := append([]item(nil), items...)
		libftr.ParallelSortStable(par, less, workers)
		require.Equal(t, seq, par, "workers=%d", workers)
	}

	for i := 1; i < len(seq); i++ {
		if seq[i-1].key == seq[i].key {
			require.Less(t, seq[i-1].pos, seq[i].pos)
		}
	}
}
