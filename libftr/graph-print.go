package libftr

import (
	"fmt"
	"io"

	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/pkg/errors"
)

// Tools
// -----

var idOpts = goftr.PrintIntOpts{
	MinWidth: 4,
	NullDash: true,
}

// AppendArc appends a one-line description of an arc to the given buffer:
//
//	a   3: n   1 (v  12)  -> n   4 (v  40)
func (g *Graph) AppendArc(io []byte, arcID goftr.ArcID) []byte {
	arc := g.arcs.At(int(arcID))
	io = append(io, 'a')
	io = goftr.AppendID(io, int64(arcID), idOpts)
	io = append(io, ": "...)
	io = g.appendNodeRef(io, arc.downNode)
	io = append(io, "  -> "...)
	io = g.appendNodeRef(io, arc.upNode)
	return io
}

func (g *Graph) appendNodeRef(io []byte, id goftr.NodeID) []byte {
	io = append(io, 'n')
	io = goftr.AppendID(io, int64(id), idOpts)
	if id.IsNull() {
		return append(io, " (open)    "...)
	}
	io = append(io, " (v"...)
	io = goftr.AppendID(io, int64(g.nodes.At(int(id)).vertex), idOpts)
	return append(io, ')')
}

// AppendNode appends a one-line description of a node to the given buffer.
func (g *Graph) AppendNode(io []byte, nodeID goftr.NodeID) []byte {
	io = append(io, 'n')
	io = goftr.AppendID(io, int64(nodeID), idOpts)
	io = append(io, ": v"...)
	return goftr.AppendID(io, int64(g.nodes.At(int(nodeID)).vertex), idOpts)
}

func (g *Graph) PrintArc(arcID goftr.ArcID) string {
	var buf [64]byte
	return string(g.AppendArc(buf[:0], arcID))
}

func (g *Graph) PrintNode(nodeID goftr.NodeID) string {
	var buf [32]byte
	return string(g.AppendNode(buf[:0], nodeID))
}

// Print writes a human-readable dump of the graph.
//
// verbosity 1 writes the counts, 2 adds nodes and arcs, 3 adds the segmentation.
func (g *Graph) Print(w io.Writer, verbosity int) error {
	if verbosity <= 0 {
		return nil
	}

	nbNodes := g.nodes.Len()
	nbArcs := g.arcs.Len()

	_, err := fmt.Fprintf(w, "Graph: %d vertices, %d leaves, %d nodes, %d arcs\n",
		g.nbVerts, g.leaves.Len(), nbNodes, nbArcs)
	if err != nil || verbosity < 2 {
		return errors.Wrap(err, "print graph")
	}

	buf := make([]byte, 0, 128)
	for i := 0; i < nbNodes; i++ {
		buf = g.AppendNode(buf[:0], goftr.NodeID(i))
		buf = append(buf, '\n')
		if _, err = w.Write(buf); err != nil {
			return errors.Wrap(err, "print graph")
		}
	}
	for i := 0; i < nbArcs; i++ {
		buf = g.AppendArc(buf[:0], goftr.ArcID(i))
		buf = append(buf, '\n')
		if _, err = w.Write(buf); err != nil {
			return errors.Wrap(err, "print graph")
		}
	}
	if verbosity < 3 {
		return nil
	}

	for v := range g.segmentation {
		buf = append(buf[:0], 'v')
		buf = goftr.AppendID(buf, int64(v), idOpts)
		buf = append(buf, ':')
		for _, a := range g.Visits(goftr.VertexID(v), nil) {
			buf = append(buf, ' ', 'a')
			buf = goftr.AppendID(buf, int64(a), goftr.PrintIntOpts{})
		}
		buf = append(buf, '\n')
		if _, err = w.Write(buf); err != nil {
			return errors.Wrap(err, "print graph")
		}
	}
	return nil
}
