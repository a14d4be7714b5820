package libftr

import (
	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Process
// -------

// SortLeaves orders the leaves by ascending scalar value.
// The sequential and parallel modes produce the same order.
func (g *Graph) SortLeaves(s goftr.ScalarOrder, parallel bool) {
	g.sortLeaves(s.IsLower, parallel)
}

// SortLeavesDescending orders the leaves by descending scalar value.
func (g *Graph) SortLeavesDescending(s goftr.ScalarOrder, parallel bool) {
	g.sortLeaves(s.IsHigher, parallel)
}

func (g *Graph) sortLeaves(less func(a, b goftr.VertexID) bool, parallel bool) {
	leaves := g.leaves.Values(make([]goftr.VertexID, 0, g.leaves.Len()))
	if parallel {
		ParallelSortStable(leaves, less, g.params.NumWorkers)
	} else {
		SortStable(leaves, less)
	}
	g.leaves.Assign(leaves)
}

// MergeAtSaddle merges the fronts that reached the saddle's vertex and closes their arcs there.
//
// The front of the most recently recorded arc survives.  Every other recorded arc holding a
// different Propagation handle is closed at the saddle, and each front not yet part of the
// survivor is merged into it once.  Arcs holding the survivor's own handle stay open.
//
// It must be called once per saddle, after every expected front has arrived.
func (g *Graph) MergeAtSaddle(saddleID goftr.NodeID) {
	saddleVert := g.Node(saddleID).Vertex()
	visits := g.segmentation[saddleVert]

	if len(visits) < 2 {
		if g.params.Debug && len(visits) == 0 {
			panic(errors.Wrapf(goftr.ErrNotSaddle, "node %d on vertex %d", saddleID, saddleVert))
		}
		klog.Warningf("merge on saddle having less than 2 visits: vertex %d (%d visits)", saddleVert, len(visits))
		if len(visits) == 0 {
			return
		}
	}

	firstArc := visits[len(visits)-1]
	firstProp := g.Arc(firstArc).Propagation()
	if firstProp == nil {
		klog.Warningf("merge on saddle: vertex %d: arc %d has no propagation", saddleVert, firstArc)
		return
	}
	firstID := firstProp.ID()

	// Identities are read before any merge: merging rewrites them.
	type arrival struct {
		arc  goftr.ArcID
		prop goftr.Propagation
		id   goftr.PropID
	}
	arrivals := make([]arrival, 0, len(visits))
	for i := len(visits) - 1; i >= 0; i-- {
		a := visits[i]
		p := g.Arc(a).Propagation()
		if p == nil {
			continue
		}
		arrivals = append(arrivals, arrival{a, p, p.ID()})
	}

	merged := map[goftr.PropID]struct{}{
		firstID: {},
	}
	for _, in := range arrivals {
		if in.prop == firstProp {
			continue
		}
		if _, done := merged[in.id]; !done {
			merged[in.id] = struct{}{}
			firstProp.Merge(in.prop)
		}
		g.CloseArc(in.arc, saddleID)
		klog.V(3).Infof("close %s", g.PrintArc(in.arc))
	}
}
