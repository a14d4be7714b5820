package sweep

import (
	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/fine-structures/ftrgraph/libftr"
	"github.com/fine-structures/ftrgraph/libftr/mesh"
)

// BuildTree is the primary entry point: it sweeps the mesh's field and returns the resulting
// join or split tree (see goftr.Params.TreeType).
func BuildTree(m *mesh.Mesh, params goftr.Params) (*Result, error) {
	return buildTree(m, params)
}

// Result is a finished tree and what it took to build it.
type Result struct {
	Graph *libftr.Graph
	Stats Stats
}

type Stats struct {
	Leaves  int
	Saddles int
	Roots   int
	Merges  int   // number of fronts absorbed at saddles
	Swept   int64 // number of vertices swept
	Stalls  int   // times the worklist ran dry and the lowest front was restarted
}
