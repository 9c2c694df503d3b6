package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// KMeansConfig is the construction-time configuration of a KMeans estimator.
type KMeansConfig struct {
	NClusters int
	MaxIter   int
	Tol       float64
	Seed      int64
}

// DefaultKMeansConfig mirrors the common library defaults.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{NClusters: 8, MaxIter: 300, Tol: 1e-4}
}

// KMeans clusters rows into NClusters groups with Lloyd iterations and
// kmeans++ initialization. The assignment step runs one kernel thread per
// row on the current device.
type KMeans struct {
	BaseEstimator

	Config KMeansConfig

	// Fitted state, exported for serialization.
	CentroidData []float64
	NFeatures    int
	Inertia      float64
	NIter        int
}

// NewKMeans creates a KMeans estimator. Zero-valued fields are filled with
// defaults.
func NewKMeans(cfg KMeansConfig) (*KMeans, error) {
	def := DefaultKMeansConfig()
	if cfg.NClusters == 0 {
		cfg.NClusters = def.NClusters
	}
	if cfg.MaxIter == 0 {
		cfg.MaxIter = def.MaxIter
	}
	if cfg.Tol == 0 {
		cfg.Tol = def.Tol
	}
	if cfg.NClusters < 1 {
		return nil, accel.NewInvalidArgError("NewKMeans",
			fmt.Sprintf("NClusters must be at least 1, got %d", cfg.NClusters))
	}
	if cfg.MaxIter < 1 {
		return nil, accel.NewInvalidArgError("NewKMeans",
			fmt.Sprintf("MaxIter must be at least 1, got %d", cfg.MaxIter))
	}
	return &KMeans{Config: cfg}, nil
}

// Centroids returns the fitted cluster centers, one row per cluster.
func (km *KMeans) Centroids() (*mat.Dense, error) {
	if err := km.requireFitted("KMeans.Centroids"); err != nil {
		return nil, err
	}
	return mat.NewDense(km.Config.NClusters, km.NFeatures, km.CentroidData), nil
}

// Fit runs Lloyd iterations until the centroid shift falls below Tol or
// MaxIter is reached.
func (km *KMeans) Fit(X mat.Matrix) error {
	if err := checkNonEmpty("KMeans.Fit", X); err != nil {
		return err
	}
	data := denseCopy(X)
	rows, cols := data.Dims()
	k := km.Config.NClusters
	if rows < k {
		return accel.NewInvalidArgError("KMeans.Fit",
			fmt.Sprintf("need at least NClusters=%d rows, got %d", k, rows))
	}

	rng := rand.New(rand.NewSource(km.Config.Seed))
	centroids := kmeansPlusPlusInit(data, k, rng)

	labels := make([]int, rows)
	rowDist := make([]float64, rows)

	for iter := 0; iter < km.Config.MaxIter; iter++ {
		km.NIter = iter + 1

		assignToCentroids(data, centroids, labels, rowDist)

		// Recompute centers from the assignment.
		next := mat.NewDense(k, cols, nil)
		counts := make([]int, k)
		for i := 0; i < rows; i++ {
			c := labels[i]
			counts[c]++
			for j := 0; j < cols; j++ {
				next.Set(c, j, next.At(c, j)+data.At(i, j))
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Reseed an empty cluster from a random row.
				next.SetRow(c, data.RawRowView(rng.Intn(rows)))
				continue
			}
			for j := 0; j < cols; j++ {
				next.Set(c, j, next.At(c, j)/float64(counts[c]))
			}
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			shift += rowDistance(MetricEuclidean, centroids.RawRowView(c), next.RawRowView(c))
		}
		centroids = next
		if shift < km.Config.Tol {
			break
		}
	}

	assignToCentroids(data, centroids, labels, rowDist)
	km.Inertia = 0
	for _, d := range rowDist {
		km.Inertia += d * d
	}

	km.CentroidData = append([]float64(nil), centroids.RawMatrix().Data...)
	km.NFeatures = cols
	km.SetFitted()
	return nil
}

// Predict returns the nearest centroid index for every row of X.
func (km *KMeans) Predict(X mat.Matrix) ([]int, error) {
	if err := km.requireFitted("KMeans.Predict"); err != nil {
		return nil, err
	}
	if err := checkFeatures("KMeans.Predict", X, km.NFeatures); err != nil {
		return nil, err
	}

	data := denseCopy(X)
	rows, _ := data.Dims()
	centroids := mat.NewDense(km.Config.NClusters, km.NFeatures, km.CentroidData)

	labels := make([]int, rows)
	dists := make([]float64, rows)
	assignToCentroids(data, centroids, labels, dists)
	return labels, nil
}

// FitPredict fits the estimator and returns the training assignment.
func (km *KMeans) FitPredict(X mat.Matrix) ([]int, error) {
	if err := km.Fit(X); err != nil {
		return nil, err
	}
	return km.Predict(X)
}

// GetParams returns the construction-time hyperparameters.
func (km *KMeans) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_clusters":   km.Config.NClusters,
		"max_iter":     km.Config.MaxIter,
		"tol":          km.Config.Tol,
		"random_state": km.Config.Seed,
	}
}

// assignToCentroids writes the nearest centroid index and distance for every
// row of data. One kernel thread per row.
func assignToCentroids(data, centroids *mat.Dense, labels []int, dists []float64) {
	rows, _ := data.Dims()
	k, _ := centroids.Dims()

	_ = accel.For(rows, func(i int) {
		row := data.RawRowView(i)
		best, bestD := 0, math.Inf(1)
		for c := 0; c < k; c++ {
			d := rowDistance(MetricEuclidean, row, centroids.RawRowView(c))
			if d < bestD {
				best, bestD = c, d
			}
		}
		labels[i] = best
		dists[i] = bestD
	})
}

// kmeansPlusPlusInit seeds centroids with the kmeans++ scheme: each new
// center is sampled proportionally to the squared distance from the nearest
// existing center.
func kmeansPlusPlusInit(data *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	rows, cols := data.Dims()
	centroids := mat.NewDense(k, cols, nil)

	centroids.SetRow(0, data.RawRowView(rng.Intn(rows)))

	minSq := make([]float64, rows)
	for i := range minSq {
		minSq[i] = math.Inf(1)
	}

	for c := 1; c < k; c++ {
		var total float64
		for i := 0; i < rows; i++ {
			d := rowDistance(MetricEuclidean, data.RawRowView(i), centroids.RawRowView(c-1))
			if sq := d * d; sq < minSq[i] {
				minSq[i] = sq
			}
			total += minSq[i]
		}

		target := rng.Float64() * total
		chosen := rows - 1
		var cum float64
		for i := 0; i < rows; i++ {
			cum += minSq[i]
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids.SetRow(c, data.RawRowView(chosen))
	}
	return centroids
}
