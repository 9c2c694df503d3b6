package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// EstimatorState tracks whether an estimator has been fitted.
type EstimatorState int

const (
	// NotFitted is the state before Fit has completed.
	NotFitted EstimatorState = iota
	// Fitted is the state after a successful Fit.
	Fitted
)

// BaseEstimator carries the fitted-state guard shared by all estimators.
// State is exported so gob can round-trip it.
type BaseEstimator struct {
	State EstimatorState
}

// IsFitted reports whether Fit has completed successfully.
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}

// requireFitted returns a NotFitted error naming the operation when the
// estimator has not been fitted.
func (e *BaseEstimator) requireFitted(op string) error {
	if !e.IsFitted() {
		return accel.NewNotFittedError(op)
	}
	return nil
}

// denseCopy materializes any mat.Matrix as a dense row-major copy.
// Estimators never mutate caller data; kernels index the copy.
func denseCopy(X mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(X)
}

// checkFeatures verifies that X has the expected column count.
func checkFeatures(op string, X mat.Matrix, want int) error {
	_, c := X.Dims()
	if c != want {
		return accel.NewInvalidArgError(op,
			fmt.Sprintf("input has %d features, estimator was fitted with %d", c, want))
	}
	return nil
}

// checkNonEmpty verifies that X has at least one row and one column.
func checkNonEmpty(op string, X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return accel.NewInvalidArgError(op, "input matrix is empty")
	}
	return nil
}
