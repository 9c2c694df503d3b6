package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// writePickle drops raw protocol-0 pickle bytes into a temp file.
func writePickle(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.pkl")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadPickledParams(t *testing.T) {
	// pickle.dumps({'n_neighbors': 25, 'min_dist': 0.25}, protocol=0)
	path := writePickle(t, []byte("(dp0\nS'n_neighbors'\np1\nI25\nsS'min_dist'\np2\nF0.25\ns."))

	params, err := LoadPickledParams(path)
	require.NoError(t, err)
	require.Len(t, params, 2)

	nn, err := asInt(params["n_neighbors"])
	require.NoError(t, err)
	assert.Equal(t, 25, nn)

	md, err := asFloat(params["min_dist"])
	require.NoError(t, err)
	assert.Equal(t, 0.25, md)
}

func TestLoadPickledParamsIntoEstimator(t *testing.T) {
	path := writePickle(t, []byte("(dp0\nS'n_neighbors'\np1\nI25\nsS'min_dist'\np2\nF0.25\ns."))

	params, err := LoadPickledParams(path)
	require.NoError(t, err)

	u, err := NewUMAP(DefaultUMAPConfig())
	require.NoError(t, err)
	require.NoError(t, u.SetParams(params))

	assert.Equal(t, 25, u.Config.NNeighbors)
	assert.Equal(t, 0.25, u.Config.MinDist)
}

func TestLoadPickledParamsNotADict(t *testing.T) {
	// pickle.dumps([1, 2], protocol=0)
	path := writePickle(t, []byte("(lp0\nI1\naI2\na."))

	_, err := LoadPickledParams(path)
	assert.True(t, accel.IsSerializationError(err),
		"a pickled list is not a parameter dict, got %v", err)
}

func TestLoadPickledParamsMissingFile(t *testing.T) {
	_, err := LoadPickledParams(filepath.Join(t.TempDir(), "absent.pkl"))
	assert.True(t, accel.IsSerializationError(err))
}

func TestLoadPickledParamsGarbage(t *testing.T) {
	path := writePickle(t, []byte{0xde, 0xad, 0xbe, 0xef})

	_, err := LoadPickledParams(path)
	assert.True(t, accel.IsSerializationError(err))
}

func TestParamConversions(t *testing.T) {
	n, err := asInt(int64(7))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = asInt(float64(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = asInt(3.5)
	assert.Error(t, err)

	f, err := asFloat(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)

	_, err = asFloat("fast")
	assert.Error(t, err)
}
