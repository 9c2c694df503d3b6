package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// LinearRegression fits ordinary least squares with an intercept term. The
// solve itself goes through a QR factorization; Predict runs one kernel
// thread per row.
type LinearRegression struct {
	BaseEstimator

	// Fitted state, exported for serialization.
	Coef      []float64
	Intercept float64
}

// NewLinearRegression creates an unfitted linear regression estimator.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit solves min ||X*coef + intercept - y||^2.
func (lr *LinearRegression) Fit(X mat.Matrix, y []float64) error {
	if err := checkNonEmpty("LinearRegression.Fit", X); err != nil {
		return err
	}
	rows, cols := X.Dims()
	if len(y) != rows {
		return accel.NewInvalidArgError("LinearRegression.Fit",
			fmt.Sprintf("X has %d rows but y has %d entries", rows, len(y)))
	}
	if rows < cols+1 {
		return accel.NewInvalidArgError("LinearRegression.Fit",
			fmt.Sprintf("need at least %d rows to fit %d coefficients", cols+1, cols))
	}

	// Augment with a column of ones for the intercept.
	aug := mat.NewDense(rows, cols+1, nil)
	data := denseCopy(X)
	for i := 0; i < rows; i++ {
		aug.Set(i, 0, 1)
		for j := 0; j < cols; j++ {
			aug.Set(i, j+1, data.At(i, j))
		}
	}

	var qr mat.QR
	qr.Factorize(aug)

	b := mat.NewDense(rows, 1, append([]float64(nil), y...))
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return accel.NewNumericalError("LinearRegression.Fit",
			fmt.Sprintf("least squares solve failed: %v", err))
	}

	lr.Intercept = beta.At(0, 0)
	lr.Coef = make([]float64, cols)
	for j := 0; j < cols; j++ {
		lr.Coef[j] = beta.At(j+1, 0)
	}
	lr.SetFitted()
	return nil
}

// Predict returns X*coef + intercept for every row.
func (lr *LinearRegression) Predict(X mat.Matrix) ([]float64, error) {
	if err := lr.requireFitted("LinearRegression.Predict"); err != nil {
		return nil, err
	}
	if err := checkFeatures("LinearRegression.Predict", X, len(lr.Coef)); err != nil {
		return nil, err
	}

	data := denseCopy(X)
	rows, cols := data.Dims()
	out := make([]float64, rows)

	if err := accel.For(rows, func(i int) {
		v := lr.Intercept
		row := data.RawRowView(i)
		for j := 0; j < cols; j++ {
			v += row[j] * lr.Coef[j]
		}
		out[i] = v
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Score returns the coefficient of determination R^2 on (X, y).
func (lr *LinearRegression) Score(X mat.Matrix, y []float64) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(y) != len(pred) {
		return 0, accel.NewInvalidArgError("LinearRegression.Score",
			fmt.Sprintf("X has %d rows but y has %d entries", len(pred), len(y)))
	}

	mean := accel.Mean(y)
	var ssRes, ssTot float64
	for i := range y {
		r := y[i] - pred[i]
		ssRes += r * r
		d := y[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0, accel.NewNumericalError("LinearRegression.Score", "targets have zero variance")
	}
	return 1 - ssRes/ssTot, nil
}

// GetParams returns the hyperparameters. Plain least squares has none; the
// map is provided for interface symmetry.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{"fit_intercept": true}
}
