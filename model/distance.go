package model

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// Distance metrics understood by the neighbor-based estimators.
const (
	MetricEuclidean = "euclidean"
	MetricManhattan = "manhattan"
)

func validMetric(m string) bool {
	return m == MetricEuclidean || m == MetricManhattan
}

// rowDistance computes the distance between two feature rows.
func rowDistance(metric string, a, b []float64) float64 {
	switch metric {
	case MetricManhattan:
		var sum float64
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	default:
		var sum float64
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	}
}

// knnSearch finds the k nearest rows of train for every row of query.
// When excludeSelf is true, a train row with the same index as the query row
// is skipped (used when query and train are the same matrix).
//
// The search runs one kernel thread per query row; each thread fills a full
// distance row in a workspace buffer and then selects the k smallest.
func knnSearch(train, query *mat.Dense, k int, excludeSelf bool, metric string) ([][]int, [][]float64) {
	nTrain, _ := train.Dims()
	nQuery, _ := query.Dims()

	indices := make([][]int, nQuery)
	dists := make([][]float64, nQuery)
	wp := accel.Workspace()

	// Errors are impossible: the thread body never panics for validated
	// inputs, and nQuery is non-negative.
	_ = accel.For(nQuery, func(i int) {
		q := query.RawRowView(i)
		buf := wp.Get(nTrain)
		for j := 0; j < nTrain; j++ {
			buf[j] = rowDistance(metric, q, train.RawRowView(j))
		}

		type pair struct {
			d   float64
			idx int
		}
		nbrs := make([]pair, 0, k+1)
		for j := 0; j < nTrain; j++ {
			if excludeSelf && j == i {
				continue
			}
			p := pair{d: buf[j], idx: j}
			if len(nbrs) < k {
				nbrs = append(nbrs, p)
				sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
			} else if p.d < nbrs[len(nbrs)-1].d {
				nbrs[len(nbrs)-1] = p
				sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
			}
		}
		wp.Put(buf)

		indices[i] = make([]int, len(nbrs))
		dists[i] = make([]float64, len(nbrs))
		for j, p := range nbrs {
			indices[i][j] = p.idx
			dists[i][j] = p.d
		}
	})

	return indices, dists
}
