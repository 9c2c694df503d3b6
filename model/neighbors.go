package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// NearestNeighborsConfig is the construction-time configuration of a
// NearestNeighbors estimator. It is read-only after construction.
type NearestNeighborsConfig struct {
	// NNeighbors is the default neighbor count for Kneighbors queries.
	NNeighbors int

	// Metric selects the distance metric (MetricEuclidean or
	// MetricManhattan).
	Metric string
}

// DefaultNearestNeighborsConfig mirrors the common library defaults.
func DefaultNearestNeighborsConfig() NearestNeighborsConfig {
	return NearestNeighborsConfig{NNeighbors: 5, Metric: MetricEuclidean}
}

// NearestNeighbors is a brute-force nearest neighbor index. Fit stores the
// training rows; Kneighbors runs the distance kernels on whichever device is
// selected when it is called.
type NearestNeighbors struct {
	BaseEstimator

	Config NearestNeighborsConfig

	// Fitted state, exported for serialization.
	TrainData []float64
	NSamples  int
	NFeatures int
}

// NewNearestNeighbors creates a nearest neighbor estimator with the given
// configuration. Zero-valued fields are filled with defaults.
func NewNearestNeighbors(cfg NearestNeighborsConfig) (*NearestNeighbors, error) {
	if cfg.NNeighbors == 0 {
		cfg.NNeighbors = DefaultNearestNeighborsConfig().NNeighbors
	}
	if cfg.Metric == "" {
		cfg.Metric = MetricEuclidean
	}
	if cfg.NNeighbors < 1 {
		return nil, accel.NewInvalidArgError("NewNearestNeighbors",
			fmt.Sprintf("NNeighbors must be at least 1, got %d", cfg.NNeighbors))
	}
	if !validMetric(cfg.Metric) {
		return nil, accel.NewInvalidArgError("NewNearestNeighbors",
			fmt.Sprintf("unknown metric %q", cfg.Metric))
	}
	return &NearestNeighbors{Config: cfg}, nil
}

// Fit stores the training data.
func (nn *NearestNeighbors) Fit(X mat.Matrix) error {
	if err := checkNonEmpty("NearestNeighbors.Fit", X); err != nil {
		return err
	}
	r, c := X.Dims()
	if r < nn.Config.NNeighbors {
		return accel.NewInvalidArgError("NearestNeighbors.Fit",
			fmt.Sprintf("need at least NNeighbors=%d rows, got %d", nn.Config.NNeighbors, r))
	}

	data := denseCopy(X)
	nn.TrainData = append([]float64(nil), data.RawMatrix().Data...)
	nn.NSamples = r
	nn.NFeatures = c
	nn.SetFitted()
	return nil
}

// train returns a matrix view over the stored training rows.
func (nn *NearestNeighbors) train() *mat.Dense {
	return mat.NewDense(nn.NSamples, nn.NFeatures, nn.TrainData)
}

// Kneighbors returns the k nearest training rows for every row of Q as a
// distance matrix and an index list, both with one row per query. k <= 0
// uses the configured NNeighbors.
func (nn *NearestNeighbors) Kneighbors(Q mat.Matrix, k int) (*mat.Dense, [][]int, error) {
	if err := nn.requireFitted("NearestNeighbors.Kneighbors"); err != nil {
		return nil, nil, err
	}
	if k <= 0 {
		k = nn.Config.NNeighbors
	}
	if k > nn.NSamples {
		return nil, nil, accel.NewInvalidArgError("NearestNeighbors.Kneighbors",
			fmt.Sprintf("k=%d exceeds the %d stored rows", k, nn.NSamples))
	}
	if err := checkFeatures("NearestNeighbors.Kneighbors", Q, nn.NFeatures); err != nil {
		return nil, nil, err
	}

	query := denseCopy(Q)
	indices, dists := knnSearch(nn.train(), query, k, false, nn.Config.Metric)

	nQuery, _ := query.Dims()
	distMat := mat.NewDense(nQuery, k, nil)
	for i, row := range dists {
		distMat.SetRow(i, row)
	}
	return distMat, indices, nil
}

// GetParams returns the construction-time hyperparameters.
func (nn *NearestNeighbors) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": nn.Config.NNeighbors,
		"metric":      nn.Config.Metric,
	}
}

// SetParams replaces hyperparameters. It fails once the estimator is fitted:
// configuration is immutable after Fit.
func (nn *NearestNeighbors) SetParams(params map[string]interface{}) error {
	if nn.IsFitted() {
		return accel.NewInvalidArgError("NearestNeighbors.SetParams",
			"cannot change parameters of a fitted estimator")
	}
	for k, v := range params {
		switch k {
		case "n_neighbors":
			n, err := asInt(v)
			if err != nil || n < 1 {
				return accel.NewInvalidArgError("NearestNeighbors.SetParams",
					fmt.Sprintf("invalid n_neighbors %v", v))
			}
			nn.Config.NNeighbors = n
		case "metric":
			s, ok := v.(string)
			if !ok || !validMetric(s) {
				return accel.NewInvalidArgError("NearestNeighbors.SetParams",
					fmt.Sprintf("invalid metric %v", v))
			}
			nn.Config.Metric = s
		default:
			return accel.NewInvalidArgError("NearestNeighbors.SetParams",
				fmt.Sprintf("unknown parameter %q", k))
		}
	}
	return nil
}
