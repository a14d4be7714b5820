package sweep

import (
	"runtime"

	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/fine-structures/ftrgraph/libftr"
	"github.com/fine-structures/ftrgraph/libftr/mesh"
	"github.com/fine-structures/ftrgraph/libftr/propagation"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

// sweeper grows one front per leaf until every vertex is swept.
//
// A front may sweep its next vertex v only once every neighbour of v before it in sweep order
// has been swept (Val(v) == 0) and every other front arriving at v has v as its own next vertex.
// A front that cannot proceed waits at v and is re-queued when Val(v) drops to zero.
type sweeper struct {
	params goftr.Params
	mesh   *mesh.Mesh
	order  goftr.ScalarOrder
	before func(a, b goftr.VertexID) bool
	graph  *libftr.Graph

	props    []*propagation.Propagation // indexed by PropID-1
	finished []bool                     // indexed by PropID-1
	swept    []bool
	waiting  map[goftr.VertexID][]*propagation.Propagation
	ready    []*propagation.Propagation
	arriving []*propagation.Propagation
	stats    Stats
}

func buildTree(m *mesh.Mesh, params goftr.Params) (*Result, error) {
	N := m.NumVertices()
	if N == 0 {
		return nil, errors.Wrap(goftr.ErrBadMesh, "no vertex")
	}
	if params.NumWorkers <= 0 {
		params.NumWorkers = runtime.GOMAXPROCS(0)
	}

	scalars := m.Scalars()
	scalars.Sort(params.ParallelSort, params.NumWorkers)

	s := &sweeper{
		params:  params,
		mesh:    m,
		order:   scalars,
		before:  scalars.IsLower,
		graph:   libftr.NewGraph(N, params),
		swept:   make([]bool, N),
		waiting: make(map[goftr.VertexID][]*propagation.Propagation),
	}
	if params.TreeType == goftr.SplitTree {
		s.before = scalars.IsHigher
	}

	if err := s.initValences(); err != nil {
		return nil, err
	}
	s.openLeaves()
	if err := s.run(); err != nil {
		return nil, err
	}
	s.release()

	if params.Debug {
		if err := s.graph.Validate(); err != nil {
			return nil, err
		}
	}

	s.stats.export(params.TreeType.String())
	klog.V(2).Infof("%v: %d vertices swept, %d leaves, %d saddles, %d roots, %d merges",
		params.TreeType, s.stats.Swept, s.stats.Leaves, s.stats.Saddles, s.stats.Roots, s.stats.Merges)

	return &Result{
		Graph: s.graph,
		Stats: s.stats,
	}, nil
}

// initValences sets each Val(v) to the number of neighbours swept before v and collects the
// vertices having none as leaves.
func (s *sweeper) initValences() error {
	N := s.mesh.NumVertices()
	chunk := (N + s.params.NumWorkers - 1) / s.params.NumWorkers

	var eg errgroup.Group
	eg.SetLimit(s.params.NumWorkers)
	for lo := 0; lo < N; lo += chunk {
		hi := min(lo+chunk, N)
		eg.Go(func() error {
			for v := goftr.VertexID(lo); v < goftr.VertexID(hi); v++ {
				val := goftr.Valence(0)
				for _, u := range s.mesh.Neighbors(v) {
					if s.before(u, v) {
						val++
					}
				}
				*s.graph.Val(v) = val
				if val == 0 {
					s.graph.AddLeaf(v)
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

func (s *sweeper) openLeaves() {
	g := s.graph
	if s.params.TreeType == goftr.SplitTree {
		g.SortLeavesDescending(s.order, s.params.ParallelSort)
	} else {
		g.SortLeaves(s.order, s.params.ParallelSort)
	}

	nbLeaves := g.NumberOfLeaves()
	s.props = make([]*propagation.Propagation, nbLeaves)
	s.finished = make([]bool, nbLeaves)
	s.ready = make([]*propagation.Propagation, 0, nbLeaves)

	for i := 0; i < nbLeaves; i++ {
		leaf := g.Leaf(i)
		p := propagation.New(goftr.PropID(i+1), leaf, s.order, s.params.TreeType)
		p.AttachArc(g.OpenArc(g.MakeNode(leaf), p))
		s.props[i] = p
		s.ready = append(s.ready, p)
	}
	s.stats.Leaves = nbLeaves
	klog.V(2).Infof("%v: %d leaves over %d vertices", s.params.TreeType, nbLeaves, s.mesh.NumVertices())
}

func (s *sweeper) run() error {
	N := int64(s.mesh.NumVertices())

	for s.stats.Swept < N {
		for len(s.ready) > 0 {
			p := s.ready[0].Find()
			s.ready = s.ready[1:]
			if !s.isFinished(p) {
				s.grow(p)
			}
		}
		if s.stats.Swept == N {
			break
		}

		// Every live front is waiting: restart the one with the lowest next vertex, which can always proceed.
		p := s.lowestFront()
		if p == nil {
			return errors.Errorf("sweep ended with %d of %d vertices swept", s.stats.Swept, N)
		}
		s.stats.Stalls++
		klog.V(2).Infof("restarting front %d", p.ID())

		prev := s.stats.Swept
		s.grow(p)
		if s.stats.Swept == prev && !s.isFinished(p.Find()) {
			return errors.Errorf("sweep stalled at %d of %d vertices", prev, N)
		}
	}
	return nil
}

// grow advances front p until it waits or finishes.
func (s *sweeper) grow(p *propagation.Propagation) {
	for {
		v, ok := s.next(p)
		if !ok {
			s.finish(p)
			return
		}
		if *s.graph.Val(v) > 0 || !s.canSweep(v, p) {
			s.waiting[v] = append(s.waiting[v], p)
			return
		}
		p = s.sweep(v, p)
	}
}

// next drops already swept vertices from p's frontier and returns the one after.
func (s *sweeper) next(p *propagation.Propagation) (goftr.VertexID, bool) {
	for {
		v, ok := p.Peek()
		if !ok || !s.swept[v] {
			return v, ok
		}
		p.Pop()
	}
}

// canSweep collects the fronts arriving at v and reports if none of them lags behind v.
func (s *sweeper) canSweep(v goftr.VertexID, p *propagation.Propagation) bool {
	s.arriving = s.arriving[:0]
	for _, u := range s.mesh.Neighbors(v) {
		if !s.before(u, v) {
			continue
		}
		q := s.frontOf(u)
		if !containsFront(s.arriving, q) {
			s.arriving = append(s.arriving, q)
		}
	}

	for _, q := range s.arriving {
		if q == p {
			continue
		}
		if next, ok := s.next(q); ok && s.before(next, v) {
			return false
		}
	}
	return true
}

// frontOf returns the live front that swept v.
func (s *sweeper) frontOf(v goftr.VertexID) *propagation.Propagation {
	arc := s.graph.FirstVisit(v)
	if s.params.Debug && arc == goftr.NullArc {
		panic(errors.Wrapf(goftr.ErrBadVertex, "vertex %d not swept", v))
	}
	return s.graph.Arc(arc).Propagation().(*propagation.Propagation).Find()
}

// sweep sweeps v with p, which must have v as its next vertex, and returns the front that continues.
func (s *sweeper) sweep(v goftr.VertexID, p *propagation.Propagation) *propagation.Propagation {
	g := s.graph
	p.Pop()

	if s.params.Debug && len(s.arriving) > 0 && !containsFront(s.arriving, p) {
		panic(errors.Errorf("front %d sweeping vertex %d it did not reach", p.ID(), v))
	}

	var saddle goftr.NodeID = goftr.NullNode
	if len(s.arriving) >= 2 {
		saddle = g.MakeNode(v)
		for _, q := range s.arriving {
			if q != p {
				g.Visit(v, q.Arc())
			}
		}
		g.Visit(v, p.Arc()) // recorded last so that p survives
		g.MergeAtSaddle(saddle)
		g.CloseArc(p.Arc(), saddle)

		s.stats.Saddles++
		s.stats.Merges += len(s.arriving) - 1
	} else {
		g.Visit(v, p.Arc())
	}

	s.swept[v] = true
	s.stats.Swept++
	p.Sweep(v)

	for _, w := range s.mesh.Neighbors(v) {
		if !s.before(v, w) {
			continue
		}
		val := g.Val(w)
		*val--
		p.Push(w)
		if *val == 0 {
			if waiters, ok := s.waiting[w]; ok {
				s.ready = append(s.ready, waiters...)
				delete(s.waiting, w)
			}
		}
	}

	if saddle != goftr.NullNode {
		if _, more := s.next(p); more {
			p.AttachArc(g.OpenArc(saddle, p))
		} else {
			// the saddle is the last vertex of its component
			p.AttachArc(goftr.NullArc)
			s.markFinished(p)
		}
	}
	return p
}

// finish closes p's arc at a root node on the last vertex p swept.
func (s *sweeper) finish(p *propagation.Propagation) {
	if s.isFinished(p) {
		return
	}
	s.markFinished(p)

	g := s.graph
	arc := p.Arc()
	if arc == goftr.NullArc {
		return
	}

	down := g.Arc(arc).DownNode()
	root := down
	if last := p.Extremum(); g.Node(down).Vertex() != last {
		root = g.MakeNode(last)
	}
	g.CloseArc(arc, root)
	klog.V(3).Infof("root %s", g.PrintArc(arc))
}

func (s *sweeper) isFinished(p *propagation.Propagation) bool {
	return s.finished[p.ID()-1]
}

func (s *sweeper) markFinished(p *propagation.Propagation) {
	s.finished[p.ID()-1] = true
	s.stats.Roots++
}

// lowestFront returns the unfinished front with the earliest next vertex in sweep order.
func (s *sweeper) lowestFront() *propagation.Propagation {
	var (
		best     *propagation.Propagation
		bestNext goftr.VertexID
	)
	for _, p := range s.props {
		if p.IsAbsorbed() || s.isFinished(p) {
			continue
		}
		next, ok := s.next(p)
		if !ok {
			continue
		}
		if best == nil || s.before(next, bestNext) {
			best, bestNext = p, next
		}
	}
	return best
}

// release detaches the fronts from the arcs and returns them to their pool.
func (s *sweeper) release() {
	g := s.graph
	for i := 0; i < g.NumberOfArcs(); i++ {
		g.Arc(goftr.ArcID(i)).SetPropagation(nil)
	}
	for _, p := range s.props {
		p.Reclaim()
	}
	s.props = nil
}

func containsFront(fronts []*propagation.Propagation, p *propagation.Propagation) bool {
	for _, q := range fronts {
		if q == p {
			return true
		}
	}
	return false
}
