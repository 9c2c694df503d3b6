package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// withDevice pins the process-wide device type for the duration of a test.
func withDevice(t *testing.T, dev accel.DeviceType) {
	t.Helper()
	prev := accel.GetDeviceType()
	require.NoError(t, accel.SetDeviceType(dev))
	t.Cleanup(func() {
		require.NoError(t, accel.SetDeviceType(prev))
	})
}

func TestStandardScalerFitTransform(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X := mat.NewDense(4, 2, []float64{
		1, 100,
		2, 100,
		3, 100,
		4, 100,
	})

	s := NewStandardScaler()
	out, err := s.FitTransform(X)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, s.Mean[0], 1e-12)
	assert.InDelta(t, 100, s.Mean[1], 1e-12)
	// The constant column keeps scale 1 instead of dividing by zero.
	assert.Equal(t, 1.0, s.Scale[1])

	// First column standardized to zero mean, unit variance.
	var sum, sq float64
	for i := 0; i < 4; i++ {
		v := out.At(i, 0)
		sum += v
		sq += v * v
	}
	assert.InDelta(t, 0, sum, 1e-12)
	assert.InDelta(t, 4, sq, 1e-9)

	// Constant column maps to zero.
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0.0, out.At(i, 1))
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	s := NewStandardScaler()
	_, err := s.Transform(mat.NewDense(2, 2, nil))
	assert.True(t, accel.IsNotFittedError(err), "Transform before Fit must fail, got %v", err)
}

func TestStandardScalerFeatureMismatch(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	s := NewStandardScaler()
	require.NoError(t, s.Fit(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})))

	_, err := s.Transform(mat.NewDense(3, 5, nil))
	assert.True(t, accel.IsInvalidArgError(err))
}

func TestStandardScalerDeviceParity(t *testing.T) {
	withDevice(t, accel.DeviceCPU)

	X, _, err := makeTestBlobs(t, 200, 6)
	require.NoError(t, err)

	cpu := NewStandardScaler()
	outCPU, err := cpu.FitTransform(X)
	require.NoError(t, err)

	gpu := NewStandardScaler()
	var outGPU *mat.Dense
	err = accel.UsingDeviceType(accel.DeviceGPU, func() error {
		var ferr error
		outGPU, ferr = gpu.FitTransform(X)
		return ferr
	})
	require.NoError(t, err)

	tol := accel.DefaultTolerance()
	r, c := outCPU.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.True(t, tol.NearEqual(outCPU.At(i, j), outGPU.At(i, j)),
				"cpu/gpu mismatch at (%d,%d): %g vs %g", i, j, outCPU.At(i, j), outGPU.At(i, j))
		}
	}
}
