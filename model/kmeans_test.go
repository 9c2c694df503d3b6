package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// threeWellSeparatedClusters builds a dataset with unmistakable structure so
// clustering assertions do not depend on luck.
func threeWellSeparatedClusters(n int) (*mat.Dense, []int) {
	centers := [][]float64{{0, 0}, {20, 20}, {-20, 20}}
	rng := rand.New(rand.NewSource(7))

	X := mat.NewDense(n, 2, nil)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		c := i % 3
		labels[i] = c
		X.Set(i, 0, centers[c][0]+rng.NormFloat64()*0.3)
		X.Set(i, 1, centers[c][1]+rng.NormFloat64()*0.3)
	}
	return X, labels
}

func TestKMeansRecoversClusters(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X, truth := threeWellSeparatedClusters(150)

	km, err := NewKMeans(KMeansConfig{NClusters: 3, Seed: 1})
	require.NoError(t, err)

	labels, err := km.FitPredict(X)
	require.NoError(t, err)
	require.Len(t, labels, 150)

	// Every true cluster must map to exactly one predicted cluster.
	mapping := map[int]int{}
	for i, l := range labels {
		if prev, ok := mapping[truth[i]]; ok {
			assert.Equal(t, prev, l, "true cluster %d split across predictions", truth[i])
		} else {
			mapping[truth[i]] = l
		}
	}
	assert.Len(t, mapping, 3)

	assert.Positive(t, km.NIter)
	assert.Positive(t, km.Inertia)

	centroids, err := km.Centroids()
	require.NoError(t, err)
	r, c := centroids.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
}

func TestKMeansPredictConsistentAcrossDevices(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X, _ := threeWellSeparatedClusters(90)

	km, err := NewKMeans(KMeansConfig{NClusters: 3, Seed: 3})
	require.NoError(t, err)
	require.NoError(t, km.Fit(X))

	cpuLabels, err := km.Predict(X)
	require.NoError(t, err)

	var gpuLabels []int
	err = accel.UsingDeviceType(accel.DeviceGPU, func() error {
		var perr error
		gpuLabels, perr = km.Predict(X)
		return perr
	})
	require.NoError(t, err)

	assert.Equal(t, cpuLabels, gpuLabels)
}

func TestKMeansValidation(t *testing.T) {
	_, err := NewKMeans(KMeansConfig{NClusters: -2})
	assert.True(t, accel.IsInvalidArgError(err))

	km, err := NewKMeans(KMeansConfig{NClusters: 5})
	require.NoError(t, err)

	_, err = km.Predict(mat.NewDense(2, 2, nil))
	assert.True(t, accel.IsNotFittedError(err))

	_, err = km.Centroids()
	assert.True(t, accel.IsNotFittedError(err))

	withDevice(t, accel.DeviceCPU)
	err = km.Fit(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}))
	assert.True(t, accel.IsInvalidArgError(err), "fewer rows than clusters must fail")
}

func TestKMeansDefaults(t *testing.T) {
	km, err := NewKMeans(KMeansConfig{})
	require.NoError(t, err)

	params := km.GetParams()
	assert.Equal(t, 8, params["n_clusters"])
	assert.Equal(t, 300, params["max_iter"])
}
