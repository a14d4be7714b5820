package libftr

import (
	"slices"

	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/pkg/errors"
)

// Segmentation & valences
// -----------------------
//
// Each vertex keeps the arcs that swept it.  Entries are only ever added, and the most recent
// visit is the "first" one.

// Visit records that arc id has swept vertex v.
// Concurrent visits to the same vertex are not allowed.
func (g *Graph) Visit(v goftr.VertexID, id goftr.ArcID) {
	if g.params.Debug {
		g.checkVertex(v)
		g.checkArc(id)
		if g.HasVisited(v, id) {
			panic(errors.Wrapf(goftr.ErrDuplicateVisit, "arc %d on vertex %d", id, v))
		}
	}
	g.segmentation[v] = append(g.segmentation[v], id)
}

func (g *Graph) IsVisited(v goftr.VertexID) bool {
	return len(g.segmentation[v]) > 0
}

func (g *Graph) HasVisited(v goftr.VertexID, id goftr.ArcID) bool {
	return slices.Contains(g.segmentation[v], id)
}

// FirstVisit returns the most recently recorded arc on v, or goftr.NullArc if v was never visited.
func (g *Graph) FirstVisit(v goftr.VertexID) goftr.ArcID {
	visits := g.segmentation[v]
	if len(visits) == 0 {
		return goftr.NullArc
	}
	return visits[len(visits)-1]
}

func (g *Graph) NbVisit(v goftr.VertexID) int {
	return len(g.segmentation[v])
}

// Visits appends the arcs recorded on v to dst, most recent first.
func (g *Graph) Visits(v goftr.VertexID, dst []goftr.ArcID) []goftr.ArcID {
	visits := g.segmentation[v]
	for i := len(visits) - 1; i >= 0; i-- {
		dst = append(dst, visits[i])
	}
	return dst
}

// Val gives direct access to the valence of v, for use inside parallel loops.
// The caller owns all synchronization.
func (g *Graph) Val(v goftr.VertexID) *goftr.Valence {
	return &g.valences[v]
}
