// Package model provides estimators that run their numeric kernels through
// the accel device runtime. Every estimator follows the same contract:
// configuration is fixed at construction, Fit learns state, and
// Transform/Predict refuse to run before Fit. The device executing a kernel
// is whatever the process-wide device type is at the moment the operation
// runs, so a single fitted estimator can serve both devices.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Transformer is the interface for data transformations.
type Transformer interface {
	// Fit learns parameters necessary for transformation.
	Fit(X mat.Matrix) error

	// Transform transforms data.
	Transform(X mat.Matrix) (*mat.Dense, error)

	// FitTransform executes Fit and Transform in one call.
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}

// Regressor is the interface for supervised models with scalar targets.
type Regressor interface {
	// Fit trains the model on rows of X and targets y.
	Fit(X mat.Matrix, y []float64) error

	// Predict returns one prediction per row of X.
	Predict(X mat.Matrix) ([]float64, error)

	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X mat.Matrix, y []float64) (float64, error)
}

// ParameterGetter is the interface for estimators that expose their
// hyperparameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for estimators whose hyperparameters can
// be replaced before fitting.
type ParameterSetter interface {
	SetParams(params map[string]interface{}) error
}

// Persistable is the interface for estimators that can be saved to and
// loaded from an opaque artifact on disk.
type Persistable interface {
	Save(path string) error
	Load(path string) error
}
