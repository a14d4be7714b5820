package propagation

import (
	"sync"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/fine-structures/ftrgraph/goftr"
)

// Propagation is a front advancing over the field in sweep order.
//
// Fronts are merged union-find style: an absorbed front forwards every call to the front that
// absorbed it, so any handle held by an arc keeps answering for the unified front.
// A Propagation is not safe for concurrent use.
type Propagation struct {
	id       goftr.PropID
	parent   *Propagation
	frontier *binaryheap.Heap
	before   func(a, b goftr.VertexID) bool
	arc      goftr.ArcID
	extremum goftr.VertexID
	nbSwept  int64
}

var propPool = sync.Pool{
	New: func() any {
		return &Propagation{}
	},
}

// New returns a front starting at vertex start.
// A join tree front sweeps by ascending order, a split tree front by descending order.
func New(id goftr.PropID, start goftr.VertexID, order goftr.ScalarOrder, tt goftr.TreeType) *Propagation {
	p := propPool.Get().(*Propagation)

	before := order.IsLower
	if tt == goftr.SplitTree {
		before = order.IsHigher
	}

	*p = Propagation{
		id:       id,
		before:   before,
		arc:      goftr.NullArc,
		extremum: start,
		frontier: binaryheap.NewWith(func(a, b any) int {
			va, vb := a.(goftr.VertexID), b.(goftr.VertexID)
			switch {
			case before(va, vb):
				return -1
			case before(vb, va):
				return 1
			}
			return 0
		}),
	}
	p.frontier.Push(start)
	return p
}

// Reclaim returns p to the pool.  p must no longer be referenced.
func (p *Propagation) Reclaim() {
	if p != nil {
		*p = Propagation{}
		propPool.Put(p)
	}
}

// Find returns the front that currently stands for p.
func (p *Propagation) Find() *Propagation {
	for p.parent != nil {
		if p.parent.parent != nil {
			p.parent = p.parent.parent
		}
		p = p.parent
	}
	return p
}

func (p *Propagation) ID() goftr.PropID {
	return p.Find().id
}

func (p *Propagation) IsAbsorbed() bool {
	return p.parent != nil
}

// Merge absorbs other's front into p's front: frontiers are united and other now forwards to p.
func (p *Propagation) Merge(other goftr.Propagation) {
	r := p.Find()
	o := other.(*Propagation).Find()
	if r == o {
		return
	}

	for _, v := range o.frontier.Values() {
		r.frontier.Push(v)
	}
	o.frontier.Clear()

	if r.before(r.extremum, o.extremum) {
		r.extremum = o.extremum
	}
	r.nbSwept += o.nbSwept
	o.parent = r
}

func (p *Propagation) Arc() goftr.ArcID {
	return p.Find().arc
}

func (p *Propagation) AttachArc(arc goftr.ArcID) {
	p.Find().arc = arc
}

// Push adds v to the frontier.  A vertex may be pushed more than once.
func (p *Propagation) Push(v goftr.VertexID) {
	p.Find().frontier.Push(v)
}

// Peek returns the next vertex in sweep order without removing it.
func (p *Propagation) Peek() (goftr.VertexID, bool) {
	v, ok := p.Find().frontier.Peek()
	if !ok {
		return goftr.NullVertex, false
	}
	return v.(goftr.VertexID), true
}

func (p *Propagation) Pop() (goftr.VertexID, bool) {
	v, ok := p.Find().frontier.Pop()
	if !ok {
		return goftr.NullVertex, false
	}
	return v.(goftr.VertexID), true
}

func (p *Propagation) Empty() bool {
	return p.Find().frontier.Empty()
}

func (p *Propagation) FrontierSize() int {
	return p.Find().frontier.Size()
}

// Sweep accounts for v being swept by this front.
func (p *Propagation) Sweep(v goftr.VertexID) {
	r := p.Find()
	if r.before(r.extremum, v) {
		r.extremum = v
	}
	r.nbSwept++
}

// Extremum returns the last vertex in sweep order reached by this front.
func (p *Propagation) Extremum() goftr.VertexID {
	return p.Find().extremum
}

func (p *Propagation) NbSwept() int64 {
	return p.Find().nbSwept
}
