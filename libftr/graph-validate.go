package libftr

import (
	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/pkg/errors"
)

// Validate checks the structure once construction is complete:
// every arc starts at an existing node and is closed on an existing node,
// and every node is an end of at least one arc.
func (g *Graph) Validate() error {
	nbNodes := g.nodes.Len()
	reached := make([]bool, nbNodes)

	for i := 0; i < g.arcs.Len(); i++ {
		arc := g.arcs.At(i)
		if arc.downNode < 0 || int(arc.downNode) >= nbNodes {
			return errors.Wrapf(goftr.ErrBadNode, "arc %d: down node %d", i, arc.downNode)
		}
		reached[arc.downNode] = true

		if arc.IsOpen() {
			return errors.Wrapf(goftr.ErrArcOpen, "arc %d", i)
		}
		if arc.upNode < 0 || int(arc.upNode) >= nbNodes {
			return errors.Wrapf(goftr.ErrBadNode, "arc %d: up node %d", i, arc.upNode)
		}
		reached[arc.upNode] = true
	}

	for i, ok := range reached {
		if !ok {
			return errors.Wrapf(goftr.ErrOrphanNode, "%s", g.PrintNode(goftr.NodeID(i)))
		}
	}
	return nil
}
