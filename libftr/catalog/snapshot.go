package catalog

import (
	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/fine-structures/ftrgraph/libftr"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

/***

Snapshot encoding (all varints; node, arc and vertex IDs that may be null are zigzag):

	version
	treeType, nbVerts
	nbNodes,  [nbNodes]vertex
	nbArcs,   [nbArcs](down, up)
	nbLeaves, [nbLeaves]vertex
	nbVerts  x  first visit (zigzag, NullArc if never visited)

***/

const snapshotVersion = 1

// ArcEnds are the nodes an arc was opened and closed on.
type ArcEnds struct {
	Down goftr.NodeID
	Up   goftr.NodeID
}

// Snapshot is a detached, storable copy of a finished tree.
type Snapshot struct {
	TreeType   goftr.TreeType
	NbVerts    int
	Nodes      []goftr.VertexID // vertex of each node
	Arcs       []ArcEnds
	Leaves     []goftr.VertexID
	FirstVisit []goftr.ArcID // per vertex
}

// SnapshotOf copies the structure of g.  g must no longer be under construction.
func SnapshotOf(g *libftr.Graph) *Snapshot {
	snap := &Snapshot{
		TreeType:   g.Params().TreeType,
		NbVerts:    g.NumberOfVertices(),
		Nodes:      make([]goftr.VertexID, g.NumberOfNodes()),
		Arcs:       make([]ArcEnds, g.NumberOfArcs()),
		Leaves:     g.Leaves(nil),
		FirstVisit: make([]goftr.ArcID, g.NumberOfVertices()),
	}
	for i := range snap.Nodes {
		snap.Nodes[i] = g.Node(goftr.NodeID(i)).Vertex()
	}
	for i := range snap.Arcs {
		arc := g.Arc(goftr.ArcID(i))
		snap.Arcs[i] = ArcEnds{arc.DownNode(), arc.UpNode()}
	}
	for v := range snap.FirstVisit {
		snap.FirstVisit[v] = g.FirstVisit(goftr.VertexID(v))
	}
	return snap
}

func (snap *Snapshot) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(make([]byte, 0, 16+4*(len(snap.Nodes)+2*len(snap.Arcs)+len(snap.Leaves)+len(snap.FirstVisit))))

	buf.EncodeVarint(snapshotVersion)
	buf.EncodeVarint(uint64(snap.TreeType))
	buf.EncodeVarint(uint64(snap.NbVerts))

	buf.EncodeVarint(uint64(len(snap.Nodes)))
	for _, v := range snap.Nodes {
		buf.EncodeVarint(uint64(v))
	}

	buf.EncodeVarint(uint64(len(snap.Arcs)))
	for _, arc := range snap.Arcs {
		buf.EncodeZigzag64(uint64(arc.Down))
		buf.EncodeZigzag64(uint64(arc.Up))
	}

	buf.EncodeVarint(uint64(len(snap.Leaves)))
	for _, v := range snap.Leaves {
		buf.EncodeVarint(uint64(v))
	}

	if len(snap.FirstVisit) != snap.NbVerts {
		return nil, errors.Wrapf(goftr.ErrBadSnapshot, "%d first visits for %d vertices", len(snap.FirstVisit), snap.NbVerts)
	}
	for _, arc := range snap.FirstVisit {
		buf.EncodeZigzag64(uint64(arc))
	}

	return buf.Bytes(), nil
}

func (snap *Snapshot) Unmarshal(data []byte) error {
	rd := snapshotReader{buf: proto.NewBuffer(data)}

	if vers := rd.uvarint(); rd.err == nil && vers != snapshotVersion {
		return errors.Wrapf(goftr.ErrBadSnapshot, "unsupported version %d", vers)
	}
	snap.TreeType = goftr.TreeType(rd.uvarint())
	snap.NbVerts = int(rd.uvarint())

	snap.Nodes = make([]goftr.VertexID, rd.count(len(data)))
	for i := range snap.Nodes {
		snap.Nodes[i] = goftr.VertexID(rd.uvarint())
	}

	snap.Arcs = make([]ArcEnds, rd.count(len(data)))
	for i := range snap.Arcs {
		snap.Arcs[i].Down = goftr.NodeID(rd.zigzag())
		snap.Arcs[i].Up = goftr.NodeID(rd.zigzag())
	}

	snap.Leaves = make([]goftr.VertexID, rd.count(len(data)))
	for i := range snap.Leaves {
		snap.Leaves[i] = goftr.VertexID(rd.uvarint())
	}

	if snap.NbVerts > len(data) {
		rd.fail(errors.Errorf("%d vertices", snap.NbVerts))
	} else {
		snap.FirstVisit = make([]goftr.ArcID, snap.NbVerts)
		for v := range snap.FirstVisit {
			snap.FirstVisit[v] = goftr.ArcID(rd.zigzag())
		}
	}
	if rd.err != nil {
		return errors.Wrap(goftr.ErrBadSnapshot, rd.err.Error())
	}

	nbNodes := goftr.NodeID(len(snap.Nodes))
	for i, arc := range snap.Arcs {
		if arc.Down < 0 || arc.Down >= nbNodes || arc.Up < goftr.NullNode || arc.Up >= nbNodes {
			return errors.Wrapf(goftr.ErrBadSnapshot, "arc %d: nodes %d -> %d", i, arc.Down, arc.Up)
		}
	}
	return nil
}

// snapshotReader keeps the first decoding error so that reads can be chained.
type snapshotReader struct {
	buf *proto.Buffer
	err error
}

func (rd *snapshotReader) fail(err error) {
	if rd.err == nil {
		rd.err = err
	}
}

func (rd *snapshotReader) uvarint() uint64 {
	if rd.err != nil {
		return 0
	}
	x, err := rd.buf.DecodeVarint()
	rd.fail(err)
	return x
}

func (rd *snapshotReader) zigzag() int64 {
	if rd.err != nil {
		return 0
	}
	x, err := rd.buf.DecodeZigzag64()
	rd.fail(err)
	return int64(x)
}

// count reads a list length, which can't exceed the encoding size.
func (rd *snapshotReader) count(limit int) int {
	n := rd.uvarint()
	if n > uint64(limit) {
		rd.fail(errors.Errorf("list of %d entries", n))
		return 0
	}
	return int(n)
}
