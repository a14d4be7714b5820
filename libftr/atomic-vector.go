package libftr

import (
	"math/bits"
	"sync/atomic"
)

const (
	chunkBits0 = 6 // first chunk holds 64 slots, each following chunk twice the previous
	maxChunks  = 40
)

// AtomicVector is an append-only slot store.
//
// Next reserves a slot with a single atomic add, so any number of goroutines may append
// concurrently.  Slots live in lazily allocated chunks that are never relocated: an index
// (or a pointer from At) stays valid while the vector grows.
//
// Reading a slot is only meaningful once its owner has finished writing it; ordering between
// the owner and readers is the caller's business.
type AtomicVector[T any] struct {
	size   atomic.Int64
	chunks [maxChunks]atomic.Pointer[[]T]
}

// locate maps a slot index to its chunk and offset within that chunk.
func locate(i int) (chunk, offset int) {
	j := uint64(i>>chunkBits0) + 1
	chunk = bits.Len64(j) - 1
	offset = i - ((1<<chunk)-1)<<chunkBits0
	return
}

func (v *AtomicVector[T]) chunk(k int) []T {
	buf := v.chunks[k].Load()
	if buf == nil {
		fresh := make([]T, 1<<(chunkBits0+k))
		if v.chunks[k].CompareAndSwap(nil, &fresh) {
			return fresh
		}
		buf = v.chunks[k].Load()
	}
	return *buf
}

// Next reserves the next free slot and returns its index.
func (v *AtomicVector[T]) Next() int {
	i := int(v.size.Add(1) - 1)
	k, _ := locate(i)
	v.chunk(k)
	return i
}

// PushBack reserves a slot, writes val into it, and returns its index.
func (v *AtomicVector[T]) PushBack(val T) int {
	i := v.Next()
	*v.At(i) = val
	return i
}

// At returns the slot at index i.  i must have been reserved.
func (v *AtomicVector[T]) At(i int) *T {
	k, off := locate(i)
	return &(*v.chunks[k].Load())[off]
}

func (v *AtomicVector[T]) Get(i int) T {
	return *v.At(i)
}

// Len returns the number of reserved slots.
func (v *AtomicVector[T]) Len() int {
	return int(v.size.Load())
}

// InRange reports if i is a reserved slot index.
func (v *AtomicVector[T]) InRange(i int) bool {
	return i >= 0 && i < v.Len()
}

// Values appends a copy of all reserved slots to dst.
func (v *AtomicVector[T]) Values(dst []T) []T {
	N := v.Len()
	for k, base := 0, 0; base < N; k++ {
		buf := v.chunk(k)
		n := min(len(buf), N-base)
		dst = append(dst, buf[:n]...)
		base += len(buf)
	}
	return dst
}

// Assign overwrites the first len(src) slots with src.  len(src) must not exceed Len().
func (v *AtomicVector[T]) Assign(src []T) {
	for k, base := 0, 0; base < len(src); k++ {
		buf := v.chunk(k)
		base += copy(buf, src[base:])
	}
}

// Reset empties the vector and zeroes its slots, keeping allocated chunks.
// It must not run concurrently with any other call.
func (v *AtomicVector[T]) Reset() {
	var zero T
	for k := range v.chunks {
		if buf := v.chunks[k].Load(); buf != nil {
			for i := range *buf {
				(*buf)[i] = zero
			}
		}
	}
	v.size.Store(0)
}
