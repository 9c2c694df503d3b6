package accel

import (
	"math"
)

// Reduction primitives used by the estimator kernels. On the accelerator
// device the input is split into chunks reduced concurrently and the
// per-chunk partials are combined on the calling goroutine; on the
// general-purpose device the reduction is a single pass.

// reduceChunks splits [0, n) into worker-sized chunks, applies fn to each
// chunk on the current device, and returns the per-chunk results in order.
func reduceChunks(n int, fn func(start, end int) float64) []float64 {
	if n <= 0 {
		return nil
	}
	chunks := defaultContext.workers
	if GetDeviceType() == DeviceCPU || chunks > n {
		chunks = 1
	}
	if chunks == 1 {
		return []float64{fn(0, n)}
	}

	partials := make([]float64, chunks)
	per := (n + chunks - 1) / chunks
	// Errors are impossible here: fn never panics in the callers below.
	_ = For(chunks, func(c int) {
		start := c * per
		end := start + per
		if end > n {
			end = n
		}
		if start < end {
			partials[c] = fn(start, end)
		}
	})
	return partials
}

// Sum computes the sum of all elements in x on the current device.
func Sum(x []float64) float64 {
	total := 0.0
	for _, p := range reduceChunks(len(x), func(start, end int) float64 {
		s := 0.0
		for _, v := range x[start:end] {
			s += v
		}
		return s
	}) {
		total += p
	}
	return total
}

// SumSquares computes the sum of squares of all elements.
// Useful for L2 norm computation.
func SumSquares(x []float64) float64 {
	total := 0.0
	for _, p := range reduceChunks(len(x), func(start, end int) float64 {
		s := 0.0
		for _, v := range x[start:end] {
			s += v * v
		}
		return s
	}) {
		total += p
	}
	return total
}

// Mean computes the arithmetic mean of all elements.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return Sum(x) / float64(len(x))
}

// Max returns the maximum value in x, or -Inf when x is empty.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return math.Inf(-1)
	}
	m := math.Inf(-1)
	for _, p := range reduceChunks(len(x), func(start, end int) float64 {
		best := math.Inf(-1)
		for _, v := range x[start:end] {
			if v > best {
				best = v
			}
		}
		return best
	}) {
		if p > m {
			m = p
		}
	}
	return m
}

// Min returns the minimum value in x, or +Inf when x is empty.
func Min(x []float64) float64 {
	if len(x) == 0 {
		return math.Inf(1)
	}
	m := math.Inf(1)
	for _, p := range reduceChunks(len(x), func(start, end int) float64 {
		best := math.Inf(1)
		for _, v := range x[start:end] {
			if v < best {
				best = v
			}
		}
		return best
	}) {
		if p < m {
			m = p
		}
	}
	return m
}

// ArgMin returns the index of the minimum value in x, or -1 when x is empty.
// Sequential on both devices: the index bookkeeping does not benefit from
// chunking at the sizes the estimators use.
func ArgMin(x []float64) int {
	if len(x) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(x); i++ {
		if x[i] < x[best] {
			best = i
		}
	}
	return best
}
