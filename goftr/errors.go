package goftr

import "errors"

// Errors
var (
	ErrNotAllocated    = errors.New("graph storage not allocated")
	ErrBadVertex       = errors.New("bad vertex ID")
	ErrBadNode         = errors.New("bad node ID")
	ErrBadLeaf         = errors.New("bad leaf index")
	ErrBadArc          = errors.New("bad arc ID")
	ErrArcClosed       = errors.New("arc is already closed")
	ErrArcOpen         = errors.New("arc is still open")
	ErrOrphanNode      = errors.New("node is not an end of any arc")
	ErrDuplicateVisit  = errors.New("arc already visited vertex")
	ErrNotSaddle       = errors.New("merge on a vertex with no visit")
	ErrBadMesh         = errors.New("bad mesh")
	ErrBadSnapshot     = errors.New("bad tree snapshot")
	ErrTreeNotFound    = errors.New("tree not found")
	ErrBadCatalogParam = errors.New("bad catalog param")
)
