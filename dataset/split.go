package dataset

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// TrainTestSplit shuffles the rows of X and y in unison and splits them into
// train and test partitions. testRatio is the fraction of rows assigned to
// the test partition.
func TrainTestSplit(X *mat.Dense, y []float64, testRatio float64, seed int64) (XTrain, XTest *mat.Dense, yTrain, yTest []float64, err error) {
	n, d := X.Dims()
	if y != nil && len(y) != n {
		return nil, nil, nil, nil, accel.NewInvalidArgError("TrainTestSplit",
			fmt.Sprintf("X has %d rows but y has %d entries", n, len(y)))
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, nil, nil, accel.NewInvalidArgError("TrainTestSplit",
			fmt.Sprintf("testRatio must be in (0, 1), got %g", testRatio))
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)
	nTest := int(float64(n) * testRatio)
	if nTest == 0 {
		nTest = 1
	}
	nTrain := n - nTest

	XTrain = mat.NewDense(nTrain, d, nil)
	XTest = mat.NewDense(nTest, d, nil)
	if y != nil {
		yTrain = make([]float64, nTrain)
		yTest = make([]float64, nTest)
	}

	for i, idx := range indices {
		if i < nTest {
			XTest.SetRow(i, X.RawRowView(idx))
			if y != nil {
				yTest[i] = y[idx]
			}
		} else {
			XTrain.SetRow(i-nTest, X.RawRowView(idx))
			if y != nil {
				yTrain[i-nTest] = y[idx]
			}
		}
	}
	return XTrain, XTest, yTrain, yTest, nil
}

// Shuffle returns copies of X and y with rows permuted in unison.
func Shuffle(X *mat.Dense, y []float64, seed int64) (*mat.Dense, []float64, error) {
	n, d := X.Dims()
	if y != nil && len(y) != n {
		return nil, nil, accel.NewInvalidArgError("Shuffle",
			fmt.Sprintf("X has %d rows but y has %d entries", n, len(y)))
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)

	Xs := mat.NewDense(n, d, nil)
	var ys []float64
	if y != nil {
		ys = make([]float64, n)
	}
	for i, idx := range indices {
		Xs.SetRow(i, X.RawRowView(idx))
		if y != nil {
			ys[i] = y[idx]
		}
	}
	return Xs, ys, nil
}
