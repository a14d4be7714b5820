package libftr

import (
	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/pkg/errors"
)

// Node is a critical point of the tree (leaf, saddle or root)
type Node struct {
	vertex goftr.VertexID
}

func (n *Node) Vertex() goftr.VertexID {
	return n.vertex
}

func (n *Node) SetVertex(v goftr.VertexID) {
	n.vertex = v
}

// SuperArc connects the node where it was opened ("down") to the node where it was closed ("up").
// While open, its up node is goftr.NullNode.
type SuperArc struct {
	downNode goftr.NodeID
	upNode   goftr.NodeID
	prop     goftr.Propagation // not owned
}

func (a *SuperArc) DownNode() goftr.NodeID {
	return a.downNode
}

func (a *SuperArc) UpNode() goftr.NodeID {
	return a.upNode
}

func (a *SuperArc) IsOpen() bool {
	return a.upNode == goftr.NullNode
}

func (a *SuperArc) Propagation() goftr.Propagation {
	return a.prop
}

// SetPropagation hands this arc to another front (e.g. after the owner was absorbed).
func (a *SuperArc) SetPropagation(p goftr.Propagation) {
	a.prop = p
}

// Graph is the skeleton a merge tree is built into.
//
// Nodes, arcs and leaves may be appended from any goroutine.  The per-vertex segmentation and
// valences are not synchronized: at any instant a vertex has at most one writer, and
// MergeAtSaddle is serialized by the sweep driver.
//
// A Graph must not be copied.
type Graph struct {
	noCopy noCopy

	params  goftr.Params
	nbVerts int

	leaves AtomicVector[goftr.VertexID]
	nodes  AtomicVector[Node]
	arcs   AtomicVector[SuperArc]

	segmentation [][]goftr.ArcID // per vertex, oldest visit first
	valences     []goftr.Valence
}

// NewGraph returns an allocated graph for a field of nbVerts vertices.
func NewGraph(nbVerts int, params goftr.Params) *Graph {
	g := &Graph{
		params:  params,
		nbVerts: nbVerts,
	}
	g.Alloc()
	return g
}

// Alloc sizes the per-vertex storage to the field's vertex count.
// It must not run concurrently with sweep operations.
func (g *Graph) Alloc() {
	if cap(g.segmentation) < g.nbVerts {
		g.segmentation = make([][]goftr.ArcID, g.nbVerts)
	}
	g.segmentation = g.segmentation[:g.nbVerts]

	if cap(g.valences) < g.nbVerts {
		g.valences = make([]goftr.Valence, g.nbVerts)
	}
	g.valences = g.valences[:g.nbVerts]
}

// Init resets all stores: no leaf, node, arc or visit remains and every valence is 0.
// It must not run concurrently with sweep operations.
func (g *Graph) Init() {
	g.leaves.Reset()
	g.nodes.Reset()
	g.arcs.Reset()
	for v := range g.segmentation {
		g.segmentation[v] = g.segmentation[v][:0]
	}
	for v := range g.valences {
		g.valences[v] = 0
	}
}

// Resize changes the vertex count and re-allocates and resets the graph.
func (g *Graph) Resize(nbVerts int) {
	g.nbVerts = nbVerts
	g.Alloc()
	g.Init()
}

func (g *Graph) Params() goftr.Params {
	return g.params
}

// Accessors on structure
// ----------------------

func (g *Graph) NumberOfVertices() int {
	return g.nbVerts
}

func (g *Graph) NumberOfNodes() int {
	return g.nodes.Len()
}

func (g *Graph) NumberOfArcs() int {
	return g.arcs.Len()
}

func (g *Graph) NumberOfLeaves() int {
	return g.leaves.Len()
}

func (g *Graph) Leaf(i int) goftr.VertexID {
	if g.params.Debug && !g.leaves.InRange(i) {
		panic(errors.Wrapf(goftr.ErrBadLeaf, "leaf %d of %d", i, g.leaves.Len()))
	}
	return g.leaves.Get(i)
}

// Leaves appends all leaves, in their current order, to dst.
func (g *Graph) Leaves(dst []goftr.VertexID) []goftr.VertexID {
	return g.leaves.Values(dst)
}

func (g *Graph) Node(id goftr.NodeID) *Node {
	if g.params.Debug {
		g.checkNode(id)
	}
	return g.nodes.At(int(id))
}

func (g *Graph) Arc(id goftr.ArcID) *SuperArc {
	if g.params.Debug {
		g.checkArc(id)
	}
	return g.arcs.At(int(id))
}

// Build structure
// ---------------

// AddLeaf appends v to the leaves.  Leaves are not checked for uniqueness.
func (g *Graph) AddLeaf(v goftr.VertexID) {
	if g.params.Debug {
		g.checkVertex(v)
	}
	g.leaves.PushBack(v)
}

// MakeNode creates a node for vertex v and returns its ID.
func (g *Graph) MakeNode(v goftr.VertexID) goftr.NodeID {
	if g.params.Debug {
		g.checkVertex(v)
	}
	newNode := g.nodes.Next()
	g.nodes.At(newNode).vertex = v
	return goftr.NodeID(newNode)
}

// OpenArc creates an arc going up from downID, optionally owned by p, and returns its ID.
func (g *Graph) OpenArc(downID goftr.NodeID, p goftr.Propagation) goftr.ArcID {
	if g.params.Debug {
		g.checkNode(downID)
	}
	newArc := g.arcs.Next()
	arc := g.arcs.At(newArc)
	arc.downNode = downID
	arc.upNode = goftr.NullNode
	if p != nil {
		arc.prop = p
	}
	return goftr.ArcID(newArc)
}

// CloseArc sets the up node of an open arc.
// Closing an arc twice silently overwrites it unless debug checks are on.
func (g *Graph) CloseArc(arc goftr.ArcID, upID goftr.NodeID) {
	if g.params.Debug {
		g.checkArc(arc)
		g.checkNode(upID)
		if !g.arcs.At(int(arc)).IsOpen() {
			panic(errors.Wrapf(goftr.ErrArcClosed, "closing %s", g.PrintArc(arc)))
		}
	}
	g.arcs.At(int(arc)).upNode = upID
}

// MakeArc appends an arc whose both ends are already known.
func (g *Graph) MakeArc(downID, upID goftr.NodeID) goftr.ArcID {
	if g.params.Debug {
		g.checkNode(downID)
		g.checkNode(upID)
	}
	return goftr.ArcID(g.arcs.PushBack(SuperArc{
		downNode: downID,
		upNode:   upID,
	}))
}

func (g *Graph) checkVertex(v goftr.VertexID) {
	if v < 0 || int(v) >= g.nbVerts {
		panic(errors.Wrapf(goftr.ErrBadVertex, "vertex %d of %d", v, g.nbVerts))
	}
	if len(g.segmentation) < g.nbVerts {
		panic(goftr.ErrNotAllocated)
	}
}

func (g *Graph) checkNode(id goftr.NodeID) {
	if !g.nodes.InRange(int(id)) {
		panic(errors.Wrapf(goftr.ErrBadNode, "node %d of %d", id, g.nodes.Len()))
	}
}

func (g *Graph) checkArc(id goftr.ArcID) {
	if !g.arcs.InRange(int(id)) {
		panic(errors.Wrapf(goftr.ErrBadArc, "arc %d of %d", id, g.arcs.Len()))
	}
}

// noCopy may be embedded into structs which must not be copied after first use; see `go vet -copylocks`.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
