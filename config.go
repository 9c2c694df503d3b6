// Package accel configuration constants
package accel

// Kernel launch dimensions
const (
	// Default block size for one-dimensional kernel grids
	DefaultBlockSize = 256

	// Maximum threads per block
	MaxThreadsPerBlock = 1024

	// Pending launches a stream buffers before Submit blocks
	streamQueueDepth = 1024
)

// Workspace pool parameters
const (
	// Minimum buffer length handed out by the pool, to limit fragmentation
	MinWorkspaceLen = 64

	// Free-list length beyond which released buffers are dropped
	FreeListThreshold = 100
)

// Numerical constants
const (
	// Machine epsilon for float64
	Float64Epsilon = 2.220446049250313e-16

	// Smallest distance treated as nonzero by distance kernels
	MinPositiveDistance = 1e-12
)
