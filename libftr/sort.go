package libftr

import (
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Below this many items per worker, ParallelSortStable falls back to SortStable.
const minParallelChunk = 1024

// SortStable sorts s by less, keeping equal items in their original order.
func SortStable[T any](s []T, less func(a, b T) bool) {
	slices.SortStableFunc(s, func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		}
		return 0
	})
}

// ParallelSortStable sorts s by less using up to numWorkers goroutines (<= 0 means GOMAXPROCS).
//
// Chunks are sorted concurrently then merged pairwise, taking the left item on ties, so the
// result is always identical to SortStable.
func ParallelSortStable[T any](s []T, less func(a, b T) bool, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	N := len(s)
	if numWorkers < 2 || N < 2*minParallelChunk {
		SortStable(s, less)
		return
	}

	width := max((N+numWorkers-1)/numWorkers, minParallelChunk)

	eg := new(errgroup.Group)
	eg.SetLimit(numWorkers)
	for lo := 0; lo < N; lo += width {
		chunk := s[lo:min(lo+width, N)]
		eg.Go(func() error {
			SortStable(chunk, less)
			return nil
		})
	}
	_ = eg.Wait()

	src, dst := s, make([]T, N)
	for ; width < N; width *= 2 {
		for lo := 0; lo < N; lo += 2 * width {
			mid := min(lo+width, N)
			hi := min(lo+2*width, N)
			left, right, out := src[lo:mid], src[mid:hi], dst[lo:hi]
			eg.Go(func() error {
				mergeStable(out, left, right, less)
				return nil
			})
		}
		_ = eg.Wait()
		src, dst = dst, src
	}

	if &src[0] != &s[0] {
		copy(s, src)
	}
}

func mergeStable[T any](out, left, right []T, less func(a, b T) bool) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if less(right[j], left[i]) {
			out[k] = right[j]
			j++
		} else {
			out[k] = left[i]
			i++
		}
		k++
	}
	k += copy(out[k:], left[i:])
	copy(out[k:], right[j:])
}
