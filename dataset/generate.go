// Package dataset produces the in-memory tabular datasets consumed by the
// model package: deterministic synthetic generators in the sample-data
// style, a CSV loader, and train/test splitting. Returned matrices are
// freshly allocated on every call and never mutated by the estimators.
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// MakeBlobs generates isotropic Gaussian clusters. It returns an
// nSamples x nFeatures matrix and the integer cluster label of each row.
// The same seed always produces the same dataset.
func MakeBlobs(nSamples, nFeatures, nCenters int, clusterStd float64, seed int64) (*mat.Dense, []int, error) {
	if nSamples <= 0 || nFeatures <= 0 || nCenters <= 0 {
		return nil, nil, accel.NewInvalidArgError("MakeBlobs",
			fmt.Sprintf("sizes must be positive: samples=%d features=%d centers=%d", nSamples, nFeatures, nCenters))
	}
	if clusterStd < 0 {
		return nil, nil, accel.NewInvalidArgError("MakeBlobs", "cluster standard deviation must be non-negative")
	}

	rng := rand.New(rand.NewSource(seed))

	centers := make([][]float64, nCenters)
	for c := range centers {
		centers[c] = make([]float64, nFeatures)
		for j := range centers[c] {
			centers[c][j] = rng.Float64()*20 - 10
		}
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	labels := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		c := i % nCenters
		labels[i] = c
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, centers[c][j]+rng.NormFloat64()*clusterStd)
		}
	}
	return X, labels, nil
}

// MakeMoons generates two interleaving half-circles in two dimensions,
// a standard shape for manifold learners.
func MakeMoons(nSamples int, noise float64, seed int64) (*mat.Dense, []int, error) {
	if nSamples <= 0 {
		return nil, nil, accel.NewInvalidArgError("MakeMoons", "nSamples must be positive")
	}

	rng := rand.New(rand.NewSource(seed))
	nOuter := nSamples / 2
	nInner := nSamples - nOuter

	X := mat.NewDense(nSamples, 2, nil)
	labels := make([]int, nSamples)

	for i := 0; i < nOuter; i++ {
		theta := math.Pi * float64(i) / float64(nOuter)
		X.Set(i, 0, math.Cos(theta)+rng.NormFloat64()*noise)
		X.Set(i, 1, math.Sin(theta)+rng.NormFloat64()*noise)
		labels[i] = 0
	}
	for i := 0; i < nInner; i++ {
		theta := math.Pi * float64(i) / float64(nInner)
		row := nOuter + i
		X.Set(row, 0, 1-math.Cos(theta)+rng.NormFloat64()*noise)
		X.Set(row, 1, 0.5-math.Sin(theta)+rng.NormFloat64()*noise)
		labels[row] = 1
	}
	return X, labels, nil
}

// MakeSwissRoll generates the three-dimensional swiss roll manifold and the
// position of each sample along the roll, which serves as a color value when
// plotting embeddings.
func MakeSwissRoll(nSamples int, noise float64, seed int64) (*mat.Dense, []float64, error) {
	if nSamples <= 0 {
		return nil, nil, accel.NewInvalidArgError("MakeSwissRoll", "nSamples must be positive")
	}

	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(nSamples, 3, nil)
	position := make([]float64, nSamples)

	for i := 0; i < nSamples; i++ {
		t := 1.5 * math.Pi * (1 + 2*rng.Float64())
		height := 21 * rng.Float64()
		X.Set(i, 0, t*math.Cos(t)+rng.NormFloat64()*noise)
		X.Set(i, 1, height+rng.NormFloat64()*noise)
		X.Set(i, 2, t*math.Sin(t)+rng.NormFloat64()*noise)
		position[i] = t
	}
	return X, position, nil
}

// MakeRegression generates a linear regression problem y = X*coef + noise
// and returns the ground-truth coefficients alongside the data.
func MakeRegression(nSamples, nFeatures int, noise float64, seed int64) (*mat.Dense, []float64, []float64, error) {
	if nSamples <= 0 || nFeatures <= 0 {
		return nil, nil, nil, accel.NewInvalidArgError("MakeRegression",
			fmt.Sprintf("sizes must be positive: samples=%d features=%d", nSamples, nFeatures))
	}

	rng := rand.New(rand.NewSource(seed))

	coef := make([]float64, nFeatures)
	for j := range coef {
		coef[j] = rng.Float64()*200 - 100
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		var dot float64
		for j := 0; j < nFeatures; j++ {
			v := rng.NormFloat64()
			X.Set(i, j, v)
			dot += v * coef[j]
		}
		y[i] = dot + rng.NormFloat64()*noise
	}
	return X, y, coef, nil
}
