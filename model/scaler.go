package model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// StandardScaler standardizes each feature column to zero mean and unit
// variance. Columns with zero variance are passed through unscaled.
type StandardScaler struct {
	BaseEstimator

	// Fitted state, exported for serialization.
	Mean  []float64
	Scale []float64
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit learns the per-column mean and standard deviation of X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	if err := checkNonEmpty("StandardScaler.Fit", X); err != nil {
		return err
	}
	data := denseCopy(X)
	rows, cols := data.Dims()

	s.Mean = make([]float64, cols)
	s.Scale = make([]float64, cols)

	// One kernel thread per column.
	if err := accel.For(cols, func(j int) {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += data.At(i, j)
		}
		mean := sum / float64(rows)

		var sq float64
		for i := 0; i < rows; i++ {
			d := data.At(i, j) - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(rows))
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}); err != nil {
		return err
	}

	s.SetFitted()
	return nil
}

// Transform standardizes X with the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.requireFitted("StandardScaler.Transform"); err != nil {
		return nil, err
	}
	if err := checkFeatures("StandardScaler.Transform", X, len(s.Mean)); err != nil {
		return nil, err
	}

	data := denseCopy(X)
	rows, cols := data.Dims()
	out := mat.NewDense(rows, cols, nil)

	if err := accel.For(rows, func(i int) {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (data.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// FitTransform fits the scaler and returns the standardized input.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
