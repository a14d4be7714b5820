package goftr

import "strconv"

// VertexID identifies a vertex of the scalar field (zero-based)
type VertexID int64

// NodeID is the dense index of a Node in a graph's node store
type NodeID int32

// ArcID is the dense index of a SuperArc in a graph's arc store
type ArcID int32

// Valence is a per-vertex count of expected visits still pending
type Valence int32

// PropID identifies a Propagation.  Once a propagation is absorbed by another, it reports the absorber's ID.
type PropID uint64

const (
	NullVertex VertexID = -1
	NullNode   NodeID   = -1
	NullArc    ArcID    = -1
)

// ScalarOrder is a strict total order over vertex identifiers derived from field values.
type ScalarOrder interface {
	IsLower(a, b VertexID) bool
	IsHigher(a, b VertexID) bool
}

// Propagation is an advancing front sweeping the field.
//
// The graph never owns a Propagation: it only keeps a reference on each arc and
// compares identities when fronts collide at a saddle.
type Propagation interface {

	// ID returns the current identity of this front.
	// Two handles that have been merged together report the same ID.
	ID() PropID

	// Merge absorbs other into this front.
	Merge(other Propagation)

	// Arc returns the arc this front currently grows.
	Arc() ArcID

	// AttachArc makes arc the arc this front currently grows.
	AttachArc(arc ArcID)
}

// TreeType selects the sweep direction
type TreeType int32

const (
	// JoinTree sweeps upward from the minima
	JoinTree TreeType = iota

	// SplitTree sweeps downward from the maxima
	SplitTree
)

func (tt TreeType) String() string {
	switch tt {
	case JoinTree:
		return "join"
	case SplitTree:
		return "split"
	}
	return "TreeType(" + strconv.Itoa(int(tt)) + ")"
}

// Params configures graph construction.
type Params struct {
	TreeType     TreeType
	ParallelSort bool // sort leaves (and scalars) with the parallel sort
	NumWorkers   int  // goroutines used by parallel phases; <= 0 means GOMAXPROCS
	Debug        bool // enables precondition checks that panic on caller error
}

// DefaultParams builds a join tree sequentially with checks off.
var DefaultParams = Params{
	TreeType: JoinTree,
}
