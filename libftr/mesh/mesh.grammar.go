package mesh

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/pkg/errors"
)

// A mesh expression lists runs of edges with vertex values, e.g.
//
//	0:1.5-1:0-2:3, 1-3:-2 ; 0:4-1:5
//
// Vertex IDs are zero-based and local to their part: parts separated by ';' are disjoint
// components whose IDs follow the previous part's.  Each vertex needs a value once.
type MeshExpr struct {
	Parts []*Part `(@@ (";" @@)*)?`
}

type Part struct {
	EdgeRuns []*EdgeRun `(@@ ("," @@)*)?`
}

type EdgeRun struct {
	StartVtx *Vtx      `@@`
	Edges    []*EdgeTo `@@*`
}

type EdgeTo struct {
	EndVtx *Vtx `"-" @@`
}

type Vtx struct {
	ID    int64  `@Int`
	Value *Value `( ":" @@ )?`
}

type Value struct {
	Neg    bool    `@"-"?`
	Number float64 `@(Float | Int)`
}

var parseMeshExpr = participle.MustBuild[MeshExpr]()

type meshBuilder struct {
	vtx0     int64 // first vertex ID of the current part
	maxVtxID int64
	values   map[int64]float64
	edges    [][2]int64
}

func (mb *meshBuilder) tallyVtx(vtx *Vtx) (int64, error) {
	if vtx.ID < 0 {
		return 0, errors.Wrapf(goftr.ErrBadVertex, "vertex %d", vtx.ID)
	}
	id := mb.vtx0 + vtx.ID
	if mb.maxVtxID < id {
		mb.maxVtxID = id
	}

	if vtx.Value != nil {
		val := vtx.Value.Number
		if vtx.Value.Neg {
			val = -val
		}
		if prev, exists := mb.values[id]; exists && prev != val {
			return 0, errors.Wrapf(goftr.ErrBadMesh, "vertex %d given values %v and %v", vtx.ID, prev, val)
		}
		mb.values[id] = val
	}
	return id, nil
}

func (mb *meshBuilder) applyPart(part *Part) error {
	mb.vtx0 = mb.maxVtxID + 1

	for _, run := range part.EdgeRuns {
		cur, err := mb.tallyVtx(run.StartVtx)
		if err != nil {
			return err
		}
		for _, edge := range run.Edges {
			next, err := mb.tallyVtx(edge.EndVtx)
			if err != nil {
				return err
			}
			mb.edges = append(mb.edges, [2]int64{cur, next})
			cur = next
		}
	}
	return nil
}

// ParseMesh builds a Mesh from a mesh expression.
func ParseMesh(expr string) (*Mesh, error) {
	ast, err := parseMeshExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(goftr.ErrBadMesh, err.Error())
	}

	mb := meshBuilder{
		maxVtxID: -1,
		values:   make(map[int64]float64),
	}
	for xi, part := range ast.Parts {
		if err = mb.applyPart(part); err != nil {
			return nil, errors.Wrapf(err, "error reading part #%d", xi+1)
		}
	}

	N := mb.maxVtxID + 1
	if N == 0 {
		return nil, errors.Wrap(goftr.ErrBadMesh, "no vertex")
	}

	m := NewMesh(int(N))
	for v := int64(0); v < N; v++ {
		val, ok := mb.values[v]
		if !ok {
			return nil, errors.Wrap(goftr.ErrBadMesh, fmt.Sprintf("vertex %d has no value", v))
		}
		m.scalars.SetValue(goftr.VertexID(v), val)
	}
	for _, e := range mb.edges {
		if err = m.AddEdge(goftr.VertexID(e[0]), goftr.VertexID(e[1])); err != nil {
			return nil, err
		}
	}
	return m, nil
}
