package mesh

import (
	"slices"

	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/fine-structures/ftrgraph/libftr"
	"github.com/pkg/errors"
)

// Mesh is the connectivity of a field's vertices along with the scalar value of each vertex.
type Mesh struct {
	adj     [][]goftr.VertexID
	scalars *libftr.Scalars[float64]
}

func NewMesh(nbVerts int) *Mesh {
	return &Mesh{
		adj:     make([][]goftr.VertexID, nbVerts),
		scalars: libftr.NewScalars(make([]float64, nbVerts)),
	}
}

func (m *Mesh) NumVertices() int {
	return len(m.adj)
}

// AddEdge connects a and b.  Self loops and repeated edges are ignored.
func (m *Mesh) AddEdge(a, b goftr.VertexID) error {
	N := goftr.VertexID(len(m.adj))
	if a < 0 || a >= N || b < 0 || b >= N {
		return errors.Wrapf(goftr.ErrBadVertex, "edge %d-%d on %d vertices", a, b, N)
	}
	if a == b || slices.Contains(m.adj[a], b) {
		return nil
	}
	m.adj[a] = append(m.adj[a], b)
	m.adj[b] = append(m.adj[b], a)
	return nil
}

// Neighbors returns the vertices sharing an edge with v.  The returned slice must not be modified.
func (m *Mesh) Neighbors(v goftr.VertexID) []goftr.VertexID {
	return m.adj[v]
}

func (m *Mesh) NumEdges() int {
	n := 0
	for _, nbrs := range m.adj {
		n += len(nbrs)
	}
	return n / 2
}

func (m *Mesh) Value(v goftr.VertexID) float64 {
	return m.scalars.Value(v)
}

func (m *Mesh) SetValue(v goftr.VertexID, val float64) {
	m.scalars.SetValue(v, val)
}

// Scalars returns the field's total order.
func (m *Mesh) Scalars() *libftr.Scalars[float64] {
	return m.scalars
}

// NewGrid returns a w x h 4-connected grid where vertex x + w*y has value f(x, y).
func NewGrid(w, h int, f func(x, y int) float64) *Mesh {
	m := NewMesh(w * h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := goftr.VertexID(x + w*y)
			m.scalars.SetValue(v, f(x, y))
			if x+1 < w {
				m.AddEdge(v, v+1)
			}
			if y+1 < h {
				m.AddEdge(v, v+goftr.VertexID(w))
			}
		}
	}
	return m
}
