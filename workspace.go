package accel

import (
	"sync"
)

// WorkspacePool hands out float64 scratch buffers for kernel use and keeps a
// free list of released ones for reuse. Estimator kernels borrow a buffer
// per worker for per-row intermediates (distance rows, partial sums) instead
// of allocating inside the hot loop.
type WorkspacePool struct {
	mu         sync.Mutex
	freeList   [][]float64
	totalAlloc int64
	peakAlloc  int64
}

// NewWorkspacePool creates an empty workspace pool.
func NewWorkspacePool() *WorkspacePool {
	return &WorkspacePool{}
}

// Get returns a zeroed buffer of length n. The buffer may have extra
// capacity from a previous use.
func (wp *WorkspacePool) Get(n int) []float64 {
	if n < 0 {
		return nil
	}
	want := n
	if want < MinWorkspaceLen {
		want = MinWorkspaceLen
	}

	wp.mu.Lock()
	for i, buf := range wp.freeList {
		if cap(buf) >= want {
			wp.freeList = append(wp.freeList[:i], wp.freeList[i+1:]...)
			wp.totalAlloc += int64(cap(buf))
			if wp.totalAlloc > wp.peakAlloc {
				wp.peakAlloc = wp.totalAlloc
			}
			wp.mu.Unlock()

			buf = buf[:n]
			for j := range buf {
				buf[j] = 0
			}
			return buf
		}
	}
	wp.totalAlloc += int64(want)
	if wp.totalAlloc > wp.peakAlloc {
		wp.peakAlloc = wp.totalAlloc
	}
	wp.mu.Unlock()

	return make([]float64, n, want)
}

// Put returns a buffer to the pool. Buffers beyond the free-list threshold
// are dropped for the GC to reclaim.
func (wp *WorkspacePool) Put(buf []float64) {
	if cap(buf) == 0 {
		return
	}
	wp.mu.Lock()
	defer wp.mu.Unlock()

	wp.totalAlloc -= int64(cap(buf))
	if wp.totalAlloc < 0 {
		wp.totalAlloc = 0
	}
	if len(wp.freeList) >= FreeListThreshold {
		return
	}
	wp.freeList = append(wp.freeList, buf[:0])
}

// Stats returns the current and peak outstanding buffer lengths.
func (wp *WorkspacePool) Stats() (allocated, peak int64) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.totalAlloc, wp.peakAlloc
}

// Workspace returns the default context's workspace pool.
func Workspace() *WorkspacePool {
	return defaultContext.workspace
}
