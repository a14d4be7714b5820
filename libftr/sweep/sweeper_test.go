package sweep

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/fine-structures/ftrgraph/libftr"
	"github.com/fine-structures/ftrgraph/libftr/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type arcEnds [2]goftr.VertexID

// treeArcs returns the (down, up) vertices of every arc, sorted.
func treeArcs(g *libftr.Graph) []arcEnds {
	arcs := make([]arcEnds, 0, g.NumberOfArcs())
	for i := 0; i < g.NumberOfArcs(); i++ {
		arc := g.Arc(goftr.ArcID(i))
		arcs = append(arcs, arcEnds{
			g.Node(arc.DownNode()).Vertex(),
			g.Node(arc.UpNode()).Vertex(),
		})
	}
	slices.SortFunc(arcs, compareArcs)
	return arcs
}

func compareArcs(a, b arcEnds) int {
	if a[0] != b[0] {
		return int(a[0] - b[0])
	}
	return int(a[1] - b[1])
}

// unionFindTree builds the same tree the classic way: vertices are processed in sweep order and
// components among earlier neighbours are united.
func unionFindTree(m *mesh.Mesh, tt goftr.TreeType) []arcEnds {
	N := m.NumVertices()
	before := m.Scalars().IsLower
	if tt == goftr.SplitTree {
		before = m.Scalars().IsHigher
	}
	order := make([]goftr.VertexID, N)
	for i := range order {
		order[i] = goftr.VertexID(i)
	}
	slices.SortFunc(order, func(a, b goftr.VertexID) int {
		switch {
		case before(a, b):
			return -1
		case before(b, a):
			return 1
		}
		return 0
	})

	parent := make([]goftr.VertexID, N)
	lowNode := make([]goftr.VertexID, N)
	last := make([]goftr.VertexID, N)
	isLeaf := make([]bool, N)
	find := func(v goftr.VertexID) goftr.VertexID {
		for parent[v] != v {
			parent[v] = parent[parent[v]]
			v = parent[v]
		}
		return v
	}

	var arcs []arcEnds
	for _, v := range order {
		parent[v] = v
		var roots []goftr.VertexID
		for _, u := range m.Neighbors(v) {
			if before(u, v) {
				if r := find(u); !slices.Contains(roots, r) {
					roots = append(roots, r)
				}
			}
		}
		switch len(roots) {
		case 0:
			lowNode[v], isLeaf[v] = v, true
		case 1:
			parent[v] = roots[0]
		default:
			for _, r := range roots {
				arcs = append(arcs, arcEnds{lowNode[r], v})
				parent[r] = v
			}
			lowNode[v] = v
		}
		last[find(v)] = v
	}

	for v := goftr.VertexID(0); v < goftr.VertexID(N); v++ {
		if find(v) != v {
			continue
		}
		if lowNode[v] != last[v] || isLeaf[v] {
			arcs = append(arcs, arcEnds{lowNode[v], last[v]})
		}
	}
	slices.SortFunc(arcs, compareArcs)
	return arcs
}

func debugParams(tt goftr.TreeType) goftr.Params {
	params := goftr.DefaultParams
	params.TreeType = tt
	params.Debug = true
	return params
}

func TestJoinTreeOnPath(t *testing.T) {
	m, err := mesh.ParseMesh("0:0-1:2-2:1-3:3")
	require.NoError(t, err)

	res, err := BuildTree(m, debugParams(goftr.JoinTree))
	require.NoError(t, err)

	g := res.Graph
	require.Equal(t, []arcEnds{{0, 1}, {1, 3}, {2, 1}}, treeArcs(g))
	require.Equal(t, 4, g.NumberOfNodes())
	require.Equal(t, []goftr.VertexID{0, 2}, g.Leaves(nil))
	require.NoError(t, g.Validate())

	assert.Equal(t, Stats{Leaves: 2, Saddles: 1, Roots: 1, Merges: 1, Swept: 4}, res.Stats)

	// the saddle records both incoming arcs, every other vertex a single one
	require.Equal(t, 2, g.NbVisit(1))
	for _, v := range []goftr.VertexID{0, 2, 3} {
		require.Equal(t, 1, g.NbVisit(v), "vertex %d", v)
	}
	require.Equal(t, g.Arc(g.FirstVisit(3)).DownNode(), g.Arc(g.FirstVisit(1)).UpNode())

	// fronts are released once the tree is built
	for i := 0; i < g.NumberOfArcs(); i++ {
		require.Nil(t, g.Arc(goftr.ArcID(i)).Propagation())
	}
}

func TestSplitTreeOnPath(t *testing.T) {
	m, err := mesh.ParseMesh("0:0-1:2-2:1-3:3")
	require.NoError(t, err)

	res, err := BuildTree(m, debugParams(goftr.SplitTree))
	require.NoError(t, err)
	require.Equal(t, []arcEnds{{1, 2}, {2, 0}, {3, 2}}, treeArcs(res.Graph))
	require.Equal(t, []goftr.VertexID{3, 1}, res.Graph.Leaves(nil))
}

func TestDisjointParts(t *testing.T) {
	m, err := mesh.ParseMesh("0:1-1:0-2:1; 0:5-1:3-2:4; 0:7")
	require.NoError(t, err)

	res, err := BuildTree(m, debugParams(goftr.JoinTree))
	require.NoError(t, err)
	require.Equal(t, 3, res.Stats.Roots)
	require.Equal(t, 0, res.Stats.Saddles)
	require.Equal(t, []arcEnds{{1, 2}, {4, 3}, {6, 6}}, treeArcs(res.Graph))
}

func TestSaddleAtTop(t *testing.T) {
	// two minima meeting at the highest vertex: the saddle is also the root
	m, err := mesh.ParseMesh("0:0-1:5-2:1")
	require.NoError(t, err)

	res, err := BuildTree(m, debugParams(goftr.JoinTree))
	require.NoError(t, err)
	require.Equal(t, []arcEnds{{0, 1}, {2, 1}}, treeArcs(res.Graph))
	require.Equal(t, 3, res.Graph.NumberOfNodes())
	require.Equal(t, 1, res.Stats.Roots)
}

func TestTiedValues(t *testing.T) {
	// equal values are ordered by vertex ID
	m, err := mesh.ParseMesh("0:1-1:1-2:1")
	require.NoError(t, err)

	res, err := BuildTree(m, debugParams(goftr.JoinTree))
	require.NoError(t, err)
	require.Equal(t, []arcEnds{{0, 2}}, treeArcs(res.Graph))
}

func TestMatchesUnionFind(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 20; trial++ {
		w, h := 2+rng.Intn(14), 1+rng.Intn(14)
		m := mesh.NewGrid(w, h, func(x, y int) float64 {
			return float64(rng.Intn(8))
		})
		for _, tt := range []goftr.TreeType{goftr.JoinTree, goftr.SplitTree} {
			for _, parallel := range []bool{false, true} {
				params := debugParams(tt)
				params.ParallelSort = parallel
				params.NumWorkers = 3

				res, err := BuildTree(m, params)
				require.NoError(t, err)

				g := res.Graph
				require.Equal(t, unionFindTree(m, tt), treeArcs(g), "trial %d %dx%d %v", trial, w, h, tt)
				require.Equal(t, int64(w*h), res.Stats.Swept)
				require.Equal(t, res.Stats.Leaves+res.Stats.Saddles+res.Stats.Roots, g.NumberOfNodes()+countSaddleRoots(g))
				for v := 0; v < w*h; v++ {
					require.True(t, g.IsVisited(goftr.VertexID(v)))
				}
			}
		}
	}
}

// countSaddleRoots counts saddles that are also the root of their component.
func countSaddleRoots(g *libftr.Graph) int {
	hasDown := make([]bool, g.NumberOfNodes())
	hasUp := make([]bool, g.NumberOfNodes())
	for i := 0; i < g.NumberOfArcs(); i++ {
		arc := g.Arc(goftr.ArcID(i))
		if arc.DownNode() != arc.UpNode() {
			hasDown[arc.DownNode()] = true
			hasUp[arc.UpNode()] = true
		}
	}
	n := 0
	for i := range hasDown {
		if hasUp[i] && !hasDown[i] && g.NbVisit(g.Node(goftr.NodeID(i)).Vertex()) > 1 {
			n++
		}
	}
	return n
}

func TestEmptyMesh(t *testing.T) {
	_, err := BuildTree(mesh.NewMesh(0), goftr.DefaultParams)
	require.ErrorIs(t, err, goftr.ErrBadMesh)
}
