package propagation

import (
	"testing"

	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/fine-structures/ftrgraph/libftr"
	"github.com/stretchr/testify/require"
)

func TestFrontierOrder(t *testing.T) {
	s := libftr.NewScalars([]float64{5, 3, 9, 1, 7})

	up := New(1, 3, s, goftr.JoinTree)
	for _, v := range []goftr.VertexID{0, 2, 1, 4} {
		up.Push(v)
	}
	var got []goftr.VertexID
	for !up.Empty() {
		v, ok := up.Pop()
		require.True(t, ok)
		got = append(got, v)
	}
	require.Equal(t, []goftr.VertexID{3, 1, 0, 4, 2}, got)

	_, ok := up.Peek()
	require.False(t, ok)

	down := New(2, 2, s, goftr.SplitTree)
	down.Push(3)
	down.Push(4)
	v, ok := down.Peek()
	require.True(t, ok)
	require.Equal(t, goftr.VertexID(2), v)
	require.Equal(t, 3, down.FrontierSize())
}

func TestMergeForwards(t *testing.T) {
	s := libftr.NewScalars([]float64{0, 1, 2, 3, 4, 5, 6})

	p1 := New(1, 0, s, goftr.JoinTree)
	p2 := New(2, 1, s, goftr.JoinTree)
	p3 := New(3, 2, s, goftr.JoinTree)
	p1.AttachArc(10)
	p2.AttachArc(20)

	p1.Sweep(0)
	p1.Pop()
	p1.Push(5)
	p2.Sweep(1)
	p2.Sweep(4)
	p2.Pop()
	p2.Push(3)

	p1.Merge(p2)
	require.True(t, p2.IsAbsorbed())
	require.False(t, p1.IsAbsorbed())
	require.Equal(t, p1.ID(), p2.ID())
	require.Equal(t, goftr.PropID(1), p2.ID())
	require.Equal(t, goftr.ArcID(10), p2.Arc())
	require.Equal(t, goftr.VertexID(4), p1.Extremum())
	require.Equal(t, int64(3), p1.NbSwept())

	// frontiers are united and p2 forwards to p1
	v, _ := p2.Peek()
	require.Equal(t, goftr.VertexID(3), v)
	require.Equal(t, 2, p1.FrontierSize())

	// merging through an absorbed handle reaches the roots
	p2.Merge(p3)
	require.Equal(t, goftr.PropID(1), p3.ID())
	require.Equal(t, 3, p1.FrontierSize())

	// merging a front with itself is a no-op
	p3.Merge(p1)
	require.Equal(t, 3, p1.FrontierSize())

	p2.AttachArc(30)
	require.Equal(t, goftr.ArcID(30), p1.Arc())
}

func TestReclaim(t *testing.T) {
	s := libftr.NewScalars([]float64{0, 1})
	p := New(7, 1, s, goftr.JoinTree)
	p.Reclaim()

	q := New(8, 0, s, goftr.JoinTree)
	require.Equal(t, goftr.PropID(8), q.ID())
	require.Equal(t, goftr.NullArc, q.Arc())
	require.Equal(t, 1, q.FrontierSize())
	require.False(t, q.IsAbsorbed())
}
