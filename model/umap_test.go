package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
	"github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF/dataset"
)

func allFinite(t *testing.T, m *mat.Dense) {
	t.Helper()
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(m.At(i, j)) || math.IsInf(m.At(i, j), 0) {
				t.Fatalf("non-finite embedding value at (%d,%d): %g", i, j, m.At(i, j))
			}
		}
	}
}

func TestUMAPFitTransformShape(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X, _, err := dataset.MakeBlobs(120, 5, 3, 0.5, 42)
	require.NoError(t, err)

	u, err := NewUMAP(UMAPConfig{NNeighbors: 10, NEpochs: 100, Seed: 1})
	require.NoError(t, err)

	emb, err := u.FitTransform(X)
	require.NoError(t, err)

	r, c := emb.Dims()
	assert.Equal(t, 120, r)
	assert.Equal(t, 2, c)
	allFinite(t, emb)
}

func TestUMAPSeparatesDistantClusters(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X, truth := threeWellSeparatedClusters(120)

	u, err := NewUMAP(UMAPConfig{NNeighbors: 8, NEpochs: 200, Seed: 5})
	require.NoError(t, err)

	emb, err := u.FitTransform(X)
	require.NoError(t, err)

	// Points sharing a cluster should sit closer together in the embedding
	// than points from different clusters, on average.
	var intra, inter float64
	var nIntra, nInter int
	for i := 0; i < 120; i++ {
		for j := i + 1; j < 120; j++ {
			d := math.Hypot(emb.At(i, 0)-emb.At(j, 0), emb.At(i, 1)-emb.At(j, 1))
			if truth[i] == truth[j] {
				intra += d
				nIntra++
			} else {
				inter += d
				nInter++
			}
		}
	}
	assert.Less(t, intra/float64(nIntra), inter/float64(nInter),
		"mean intra-cluster embedding distance should be below inter-cluster distance")
}

func TestUMAPFitDeterministicOnCPU(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X, _, err := dataset.MakeBlobs(80, 4, 2, 0.6, 9)
	require.NoError(t, err)

	fit := func() *mat.Dense {
		u, err := NewUMAP(UMAPConfig{NNeighbors: 8, NEpochs: 60, Seed: 17})
		require.NoError(t, err)
		emb, err := u.FitTransform(X)
		require.NoError(t, err)
		return emb
	}

	a, b := fit(), fit()
	assert.True(t, mat.Equal(a, b), "same seed on the sequential device must reproduce the layout")
}

func TestUMAPNotFittedErrors(t *testing.T) {
	u, err := NewUMAP(DefaultUMAPConfig())
	require.NoError(t, err)

	_, err = u.Transform(mat.NewDense(3, 2, nil))
	assert.True(t, accel.IsNotFittedError(err), "Transform before Fit must fail, got %v", err)

	_, err = u.Embedding()
	assert.True(t, accel.IsNotFittedError(err))
}

func TestUMAPTransformShapeAndDeterminism(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X, _, err := dataset.MakeBlobs(90, 4, 3, 0.5, 2)
	require.NoError(t, err)
	XTrain, XTest, _, _, err := dataset.TrainTestSplit(X, nil, 0.2, 3)
	require.NoError(t, err)

	u, err := NewUMAP(UMAPConfig{NNeighbors: 6, NEpochs: 60, Seed: 11})
	require.NoError(t, err)
	require.NoError(t, u.Fit(XTrain))

	out1, err := u.Transform(XTest)
	require.NoError(t, err)
	out2, err := u.Transform(XTest)
	require.NoError(t, err)

	r, c := out1.Dims()
	testRows, _ := XTest.Dims()
	assert.Equal(t, testRows, r)
	assert.Equal(t, 2, c)
	allFinite(t, out1)
	assert.True(t, mat.Equal(out1, out2), "Transform must be deterministic for fixed state")
}

func TestUMAPTransformDeviceParity(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X, _, err := dataset.MakeBlobs(70, 3, 2, 0.5, 6)
	require.NoError(t, err)

	u, err := NewUMAP(UMAPConfig{NNeighbors: 6, NEpochs: 50, Seed: 23})
	require.NoError(t, err)
	require.NoError(t, u.Fit(X))

	cpuOut, err := u.Transform(X)
	require.NoError(t, err)

	var gpuOut *mat.Dense
	err = accel.UsingDeviceType(accel.DeviceGPU, func() error {
		var terr error
		gpuOut, terr = u.Transform(X)
		return terr
	})
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(cpuOut, gpuOut, 1e-9),
		"transform of a fitted estimator must not depend on the device")
}

func TestUMAPFitOnAccelerator(t *testing.T) {
	withDevice(t, accel.DeviceGPU)

	X, _, err := dataset.MakeBlobs(100, 4, 2, 0.5, 13)
	require.NoError(t, err)

	u, err := NewUMAP(UMAPConfig{NNeighbors: 8, NEpochs: 50, Seed: 3})
	require.NoError(t, err)

	emb, err := u.FitTransform(X)
	require.NoError(t, err)

	r, c := emb.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 2, c)
	allFinite(t, emb)
}

func TestUMAPConfigValidation(t *testing.T) {
	cases := []UMAPConfig{
		{NNeighbors: 1},
		{NComponents: -1},
		{MinDist: 2, Spread: 1},
		{MinDist: -0.5},
		{LearningRate: -1},
		{NegativeSampleRate: -2},
		{NEpochs: -10},
	}
	for i, cfg := range cases {
		if _, err := NewUMAP(cfg); !accel.IsInvalidArgError(err) {
			t.Errorf("case %d: expected invalid argument error, got %v", i, err)
		}
	}
}

func TestUMAPFitTooFewRows(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	u, err := NewUMAP(UMAPConfig{NNeighbors: 15})
	require.NoError(t, err)

	err = u.Fit(mat.NewDense(10, 3, nil))
	assert.True(t, accel.IsInvalidArgError(err))
}

func TestUMAPSetParams(t *testing.T) {
	u, err := NewUMAP(DefaultUMAPConfig())
	require.NoError(t, err)

	require.NoError(t, u.SetParams(map[string]interface{}{
		"n_neighbors": 25,
		"min_dist":    0.25,
	}))
	assert.Equal(t, 25, u.Config.NNeighbors)
	assert.Equal(t, 0.25, u.Config.MinDist)

	assert.Error(t, u.SetParams(map[string]interface{}{"bandwidth": 2}))
	assert.Error(t, u.SetParams(map[string]interface{}{"min_dist": "tiny"}))

	withDevice(t, accel.DeviceCPU)
	X, _, err := dataset.MakeBlobs(60, 3, 2, 0.5, 1)
	require.NoError(t, err)
	u2, err := NewUMAP(UMAPConfig{NNeighbors: 5, NEpochs: 20})
	require.NoError(t, err)
	require.NoError(t, u2.Fit(X))
	err = u2.SetParams(map[string]interface{}{"n_neighbors": 3})
	assert.True(t, accel.IsInvalidArgError(err), "parameters are immutable once fitted")
}

func TestFitABParamsDefaults(t *testing.T) {
	a, b := fitABParams(0.1, 1.0)

	// Reference implementations fit roughly a=1.58, b=0.90 for the default
	// min_dist/spread; the grid fit should land in the neighborhood.
	assert.InDelta(t, 1.58, a, 0.3)
	assert.InDelta(t, 0.90, b, 0.15)
}

func TestSmoothKNNDistances(t *testing.T) {
	dists := [][]float64{
		{0.5, 1.0, 1.5, 2.0},
		{0.1, 0.2, 0.3, 0.4},
	}
	rhos, sigmas := smoothKNNDistances(dists, 4)

	assert.Equal(t, 0.5, rhos[0])
	assert.Equal(t, 0.1, rhos[1])

	// The calibrated sum of membership strengths must hit log2(k).
	for i, row := range dists {
		var psum float64
		for _, d := range row {
			if adj := d - rhos[i]; adj > 0 {
				psum += math.Exp(-adj / sigmas[i])
			} else {
				psum += 1
			}
		}
		assert.InDelta(t, 2.0, psum, 1e-3, "point %d", i)
	}
}
