package dataset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

func TestMakeBlobsShapeAndDeterminism(t *testing.T) {
	X1, labels1, err := MakeBlobs(300, 4, 3, 0.5, 42)
	require.NoError(t, err)

	r, c := X1.Dims()
	assert.Equal(t, 300, r)
	assert.Equal(t, 4, c)
	assert.Len(t, labels1, 300)
	for _, l := range labels1 {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 3)
	}

	X2, labels2, err := MakeBlobs(300, 4, 3, 0.5, 42)
	require.NoError(t, err)
	assert.True(t, mat.Equal(X1, X2), "same seed must reproduce the dataset")
	assert.Empty(t, cmp.Diff(labels1, labels2))

	X3, _, err := MakeBlobs(300, 4, 3, 0.5, 43)
	require.NoError(t, err)
	assert.False(t, mat.Equal(X1, X3), "different seeds must differ")
}

func TestMakeBlobsValidation(t *testing.T) {
	_, _, err := MakeBlobs(0, 4, 3, 0.5, 1)
	assert.True(t, accel.IsInvalidArgError(err))

	_, _, err = MakeBlobs(10, 4, 3, -1, 1)
	assert.True(t, accel.IsInvalidArgError(err))
}

func TestMakeMoons(t *testing.T) {
	X, labels, err := MakeMoons(201, 0.05, 7)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 201, r)
	assert.Equal(t, 2, c)

	zeros, ones := 0, 0
	for _, l := range labels {
		switch l {
		case 0:
			zeros++
		case 1:
			ones++
		default:
			t.Fatalf("unexpected label %d", l)
		}
	}
	assert.Equal(t, 100, zeros)
	assert.Equal(t, 101, ones)
}

func TestMakeSwissRoll(t *testing.T) {
	X, pos, err := MakeSwissRoll(150, 0, 3)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 150, r)
	assert.Equal(t, 3, c)
	require.Len(t, pos, 150)
	for _, p := range pos {
		assert.GreaterOrEqual(t, p, 1.5*3.14159)
	}
}

func TestMakeRegressionRecoverable(t *testing.T) {
	X, y, coef, err := MakeRegression(50, 3, 0, 9)
	require.NoError(t, err)
	require.Len(t, coef, 3)

	// With zero noise, y must equal X*coef exactly up to rounding.
	for i := 0; i < 50; i++ {
		var dot float64
		for j := 0; j < 3; j++ {
			dot += X.At(i, j) * coef[j]
		}
		assert.InDelta(t, dot, y[i], 1e-9)
	}
}

func TestTrainTestSplit(t *testing.T) {
	X, labelInts, err := MakeBlobs(100, 5, 2, 1.0, 5)
	require.NoError(t, err)
	y := make([]float64, len(labelInts))
	for i, l := range labelInts {
		y[i] = float64(l)
	}

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, 0.2, 1)
	require.NoError(t, err)

	trainRows, _ := XTrain.Dims()
	testRows, _ := XTest.Dims()
	assert.Equal(t, 80, trainRows)
	assert.Equal(t, 20, testRows)
	assert.Len(t, yTrain, 80)
	assert.Len(t, yTest, 20)

	// Each split row must still pair with its label: every row of XTest came
	// from X at an index whose label matches.
	rowLabel := map[string]float64{}
	for i := 0; i < 100; i++ {
		rowLabel[fmt.Sprint(X.RawRowView(i))] = y[i]
	}
	for i := 0; i < testRows; i++ {
		assert.Equal(t, rowLabel[fmt.Sprint(XTest.RawRowView(i))], yTest[i], "row %d lost its label in the split", i)
	}
}

func TestTrainTestSplitValidation(t *testing.T) {
	X := mat.NewDense(10, 2, nil)

	_, _, _, _, err := TrainTestSplit(X, make([]float64, 5), 0.2, 1)
	assert.True(t, accel.IsInvalidArgError(err))

	_, _, _, _, err = TrainTestSplit(X, nil, 0, 1)
	assert.True(t, accel.IsInvalidArgError(err))

	_, _, _, _, err = TrainTestSplit(X, nil, 1.5, 1)
	assert.True(t, accel.IsInvalidArgError(err))
}

func TestShuffleKeepsRowsPaired(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{0, 1, 2, 3, 4, 5})
	y := []float64{0, 1, 2, 3, 4, 5}

	Xs, ys, err := Shuffle(X, y, 3)
	require.NoError(t, err)

	seen := map[float64]bool{}
	for i := 0; i < 6; i++ {
		assert.Equal(t, Xs.At(i, 0), ys[i], "row %d separated from its label", i)
		seen[ys[i]] = true
	}
	assert.Len(t, seen, 6, "shuffle must be a permutation")
}

func TestFromCSV(t *testing.T) {
	in := "a,b,c\n1,2,3\n4,5,6\n"
	X, header, err := FromCSV(strings.NewReader(in), true)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff([]string{"a", "b", "c"}, header))
	r, c := X.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	assert.Equal(t, 6.0, X.At(1, 2))
}

func TestFromCSVErrors(t *testing.T) {
	_, _, err := FromCSV(strings.NewReader("h1,h2\n"), true)
	assert.Error(t, err)

	_, _, err = FromCSV(strings.NewReader("1,2\n3,oops\n"), false)
	assert.True(t, accel.IsInvalidArgError(err))
}
