package model

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF/dataset"
)

// makeTestBlobs generates a deterministic clustered dataset for estimator
// tests.
func makeTestBlobs(t *testing.T, nSamples, nFeatures int) (*mat.Dense, []int, error) {
	t.Helper()
	return dataset.MakeBlobs(nSamples, nFeatures, 3, 0.5, 42)
}
