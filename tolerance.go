// Package accel tolerance-based verification for floating-point comparisons
package accel

import (
	"fmt"
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison.
// CPU and accelerator executions of the same kernel may sum in different
// orders, so exact equality is the wrong test.
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// CheckNaN determines if NaN values should be considered equal
	CheckNaN bool

	// CheckInf determines if Inf values should be considered equal
	CheckInf bool
}

// DefaultTolerance returns the default tolerance configuration.
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-12,
		RelTol:   1e-9,
		CheckNaN: true,
		CheckInf: true,
	}
}

// RelaxedTolerance returns a tolerance for accumulated or iterative
// operations, where reduction order changes the low bits.
func RelaxedTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-8,
		RelTol:   1e-5,
		CheckNaN: true,
		CheckInf: true,
	}
}

// NearEqual checks if two float64 values are equal within the tolerance.
func (tc ToleranceConfig) NearEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return tc.CheckNaN && math.IsNaN(a) && math.IsNaN(b)
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return tc.CheckInf && a == b
	}
	diff := math.Abs(a - b)
	if diff <= tc.AbsTol {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	return diff <= tc.RelTol*larger
}

// CompareSlices checks two slices element-wise within the tolerance and
// reports the first mismatch.
func (tc ToleranceConfig) CompareSlices(a, b []float64) error {
	if len(a) != len(b) {
		return NewNumericalError("CompareSlices",
			fmt.Sprintf("length mismatch: %d vs %d", len(a), len(b)))
	}
	for i := range a {
		if !tc.NearEqual(a[i], b[i]) {
			return NewNumericalError("CompareSlices",
				fmt.Sprintf("element %d differs: %g vs %g", i, a[i], b[i]))
		}
	}
	return nil
}
