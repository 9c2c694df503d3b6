package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

// UMAPConfig is the construction-time configuration of a UMAP estimator.
// It is read-only after construction.
type UMAPConfig struct {
	// NNeighbors balances local versus global structure.
	NNeighbors int

	// NComponents is the embedding dimensionality.
	NComponents int

	// MinDist is the minimum spacing between embedded points.
	MinDist float64

	// Spread scales the embedded cluster sizes together with MinDist.
	Spread float64

	// NEpochs is the number of optimization epochs; 0 selects automatically
	// from the dataset size.
	NEpochs int

	// LearningRate is the initial SGD step size.
	LearningRate float64

	// NegativeSampleRate is the number of repulsive samples per attractive
	// update.
	NegativeSampleRate int

	// Seed makes fitting reproducible on the general-purpose device.
	Seed int64
}

// DefaultUMAPConfig mirrors the common library defaults.
func DefaultUMAPConfig() UMAPConfig {
	return UMAPConfig{
		NNeighbors:         15,
		NComponents:        2,
		MinDist:            0.1,
		Spread:             1.0,
		LearningRate:       1.0,
		NegativeSampleRate: 5,
	}
}

// UMAP learns a low-dimensional embedding that preserves the fuzzy
// topological structure of the input: a k-nearest-neighbor graph is
// converted to edge membership strengths, and stochastic gradient descent
// lays the points out with attractive forces along edges and sampled
// repulsive forces elsewhere.
//
// The k-NN search, layout epochs, and out-of-sample transform all run
// through the device runtime; fitting on the general-purpose device is
// deterministic for a fixed Seed, while the accelerator trades exact
// reproducibility for concurrent updates.
type UMAP struct {
	BaseEstimator

	Config UMAPConfig

	// Fitted state, exported for serialization. The fitted state carries no
	// device information, so an artifact written under one device context
	// loads and transforms under the other.
	TrainData     []float64
	EmbeddingData []float64
	NSamples      int
	NFeatures     int
	A, B          float64
}

// NewUMAP creates a UMAP estimator. Zero-valued fields are filled with
// defaults.
func NewUMAP(cfg UMAPConfig) (*UMAP, error) {
	def := DefaultUMAPConfig()
	if cfg.NNeighbors == 0 {
		cfg.NNeighbors = def.NNeighbors
	}
	if cfg.NComponents == 0 {
		cfg.NComponents = def.NComponents
	}
	if cfg.MinDist == 0 {
		cfg.MinDist = def.MinDist
	}
	if cfg.Spread == 0 {
		cfg.Spread = def.Spread
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.NegativeSampleRate == 0 {
		cfg.NegativeSampleRate = def.NegativeSampleRate
	}

	switch {
	case cfg.NNeighbors < 2:
		return nil, accel.NewInvalidArgError("NewUMAP",
			fmt.Sprintf("NNeighbors must be at least 2, got %d", cfg.NNeighbors))
	case cfg.NComponents < 1:
		return nil, accel.NewInvalidArgError("NewUMAP",
			fmt.Sprintf("NComponents must be at least 1, got %d", cfg.NComponents))
	case cfg.MinDist < 0 || cfg.MinDist > cfg.Spread:
		return nil, accel.NewInvalidArgError("NewUMAP",
			fmt.Sprintf("MinDist must be in [0, Spread=%g], got %g", cfg.Spread, cfg.MinDist))
	case cfg.LearningRate <= 0:
		return nil, accel.NewInvalidArgError("NewUMAP", "LearningRate must be positive")
	case cfg.NegativeSampleRate < 1:
		return nil, accel.NewInvalidArgError("NewUMAP", "NegativeSampleRate must be at least 1")
	case cfg.NEpochs < 0:
		return nil, accel.NewInvalidArgError("NewUMAP", "NEpochs must be non-negative")
	}
	return &UMAP{Config: cfg}, nil
}

// umapEdge is one undirected edge of the fuzzy graph.
type umapEdge struct {
	i, j   int
	weight float64
}

// Fit learns the embedding of X.
func (u *UMAP) Fit(X mat.Matrix) error {
	if err := checkNonEmpty("UMAP.Fit", X); err != nil {
		return err
	}
	data := denseCopy(X)
	rows, cols := data.Dims()
	if rows <= u.Config.NNeighbors {
		return accel.NewInvalidArgError("UMAP.Fit",
			fmt.Sprintf("need more than NNeighbors=%d rows, got %d", u.Config.NNeighbors, rows))
	}

	indices, dists := knnSearch(data, data, u.Config.NNeighbors, true, MetricEuclidean)
	rhos, sigmas := smoothKNNDistances(dists, u.Config.NNeighbors)
	edges := fuzzySimplicialSet(indices, dists, rhos, sigmas, rows)
	if len(edges) == 0 {
		return accel.NewNumericalError("UMAP.Fit", "empty neighbor graph")
	}

	u.A, u.B = fitABParams(u.Config.MinDist, u.Config.Spread)

	nEpochs := u.Config.NEpochs
	if nEpochs == 0 {
		if rows <= 10000 {
			nEpochs = 500
		} else {
			nEpochs = 200
		}
	}

	embedding := u.initEmbedding(rows)
	u.optimizeLayout(embedding, edges, rows, nEpochs)

	u.TrainData = append([]float64(nil), data.RawMatrix().Data...)
	u.EmbeddingData = embedding
	u.NSamples = rows
	u.NFeatures = cols
	u.SetFitted()
	return nil
}

// FitTransform fits the estimator and returns the training embedding.
func (u *UMAP) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := u.Fit(X); err != nil {
		return nil, err
	}
	return u.Embedding()
}

// Embedding returns a copy of the fitted training embedding.
func (u *UMAP) Embedding() (*mat.Dense, error) {
	if err := u.requireFitted("UMAP.Embedding"); err != nil {
		return nil, err
	}
	data := append([]float64(nil), u.EmbeddingData...)
	return mat.NewDense(u.NSamples, u.Config.NComponents, data), nil
}

// Transform embeds unseen rows by the distance-weighted average of their
// nearest training neighbors' embedded positions.
func (u *UMAP) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := u.requireFitted("UMAP.Transform"); err != nil {
		return nil, err
	}
	if err := checkFeatures("UMAP.Transform", X, u.NFeatures); err != nil {
		return nil, err
	}

	query := denseCopy(X)
	nQuery, _ := query.Dims()
	train := mat.NewDense(u.NSamples, u.NFeatures, u.TrainData)
	dim := u.Config.NComponents

	indices, dists := knnSearch(train, query, u.Config.NNeighbors, false, MetricEuclidean)

	out := mat.NewDense(nQuery, dim, nil)
	if err := accel.For(nQuery, func(qi int) {
		var wsum float64
		pos := make([]float64, dim)
		for n, ti := range indices[qi] {
			w := 1.0 / (dists[qi][n] + accel.MinPositiveDistance)
			wsum += w
			for c := 0; c < dim; c++ {
				pos[c] += w * u.EmbeddingData[ti*dim+c]
			}
		}
		for c := 0; c < dim; c++ {
			out.Set(qi, c, pos[c]/wsum)
		}
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetParams returns the construction-time hyperparameters.
func (u *UMAP) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors":          u.Config.NNeighbors,
		"n_components":         u.Config.NComponents,
		"min_dist":             u.Config.MinDist,
		"spread":               u.Config.Spread,
		"n_epochs":             u.Config.NEpochs,
		"learning_rate":        u.Config.LearningRate,
		"negative_sample_rate": u.Config.NegativeSampleRate,
		"random_state":         u.Config.Seed,
	}
}

// SetParams replaces hyperparameters. It fails once the estimator is fitted:
// configuration is immutable after Fit.
func (u *UMAP) SetParams(params map[string]interface{}) error {
	if u.IsFitted() {
		return accel.NewInvalidArgError("UMAP.SetParams",
			"cannot change parameters of a fitted estimator")
	}
	cfg := u.Config
	for k, v := range params {
		var err error
		switch k {
		case "n_neighbors":
			cfg.NNeighbors, err = asInt(v)
		case "n_components":
			cfg.NComponents, err = asInt(v)
		case "min_dist":
			cfg.MinDist, err = asFloat(v)
		case "spread":
			cfg.Spread, err = asFloat(v)
		case "n_epochs":
			cfg.NEpochs, err = asInt(v)
		case "learning_rate":
			cfg.LearningRate, err = asFloat(v)
		case "negative_sample_rate":
			cfg.NegativeSampleRate, err = asInt(v)
		case "random_state":
			var seed int
			seed, err = asInt(v)
			cfg.Seed = int64(seed)
		default:
			return accel.NewInvalidArgError("UMAP.SetParams",
				fmt.Sprintf("unknown parameter %q", k))
		}
		if err != nil {
			return accel.NewInvalidArgError("UMAP.SetParams",
				fmt.Sprintf("invalid value for %q: %v", k, v))
		}
	}

	fresh, err := NewUMAP(cfg)
	if err != nil {
		return err
	}
	u.Config = fresh.Config
	return nil
}

// initEmbedding places points uniformly in [-10, 10]^NComponents.
func (u *UMAP) initEmbedding(rows int) []float64 {
	rng := rand.New(rand.NewSource(u.Config.Seed))
	dim := u.Config.NComponents
	embedding := make([]float64, rows*dim)
	for i := range embedding {
		embedding[i] = rng.Float64()*20 - 10
	}
	return embedding
}

// optimizeLayout runs the SGD epochs over the edge list. On the
// general-purpose device edges are processed in order, which makes the
// layout deterministic for a fixed seed; the accelerator processes edge
// chunks concurrently with unsynchronized position updates, the usual
// trade for parallel layout.
func (u *UMAP) optimizeLayout(embedding []float64, edges []umapEdge, rows, nEpochs int) {
	dim := u.Config.NComponents
	alpha0 := u.Config.LearningRate
	negRate := u.Config.NegativeSampleRate
	a, b := u.A, u.B

	maxW := 0.0
	for _, e := range edges {
		if e.weight > maxW {
			maxW = e.weight
		}
	}

	epochsPerSample := make([]float64, len(edges))
	epochOfNext := make([]float64, len(edges))
	for i, e := range edges {
		epochsPerSample[i] = maxW / e.weight
		epochOfNext[i] = epochsPerSample[i]
	}

	for epoch := 0; epoch < nEpochs; epoch++ {
		alpha := alpha0 * (1 - float64(epoch)/float64(nEpochs))

		_ = accel.For(len(edges), func(ei int) {
			if epochOfNext[ei] > float64(epoch) {
				return
			}
			epochOfNext[ei] += epochsPerSample[ei]

			e := edges[ei]
			yi := embedding[e.i*dim : (e.i+1)*dim]
			yj := embedding[e.j*dim : (e.j+1)*dim]

			applyAttraction(yi, yj, a, b, alpha)

			// Repulse the head from sampled points. The hash-based stream
			// keeps sampling deterministic per (seed, epoch, edge) without a
			// shared generator.
			state := hashSeed(uint64(u.Config.Seed), uint64(epoch), uint64(ei))
			for t := 0; t < negRate; t++ {
				r := int(nextRandom(&state) % uint64(rows))
				if r == e.i {
					continue
				}
				yr := embedding[r*dim : (r+1)*dim]
				applyRepulsion(yi, yr, a, b, alpha)
			}
		})
	}
}

// applyAttraction moves both endpoints of an edge toward each other along
// the gradient of the embedding membership curve.
func applyAttraction(yi, yj []float64, a, b, alpha float64) {
	d2 := sqDist(yi, yj)
	if d2 <= 0 {
		return
	}
	coeff := -2 * a * b * math.Pow(d2, b-1) / (1 + a*math.Pow(d2, b))
	for c := range yi {
		g := clipGrad(coeff * (yi[c] - yj[c]))
		yi[c] += alpha * g
		yj[c] -= alpha * g
	}
}

// applyRepulsion pushes yi away from the sampled point yr.
func applyRepulsion(yi, yr []float64, a, b, alpha float64) {
	d2 := sqDist(yi, yr)
	coeff := 2 * b / ((0.001 + d2) * (1 + a*math.Pow(d2, b)))
	for c := range yi {
		var g float64
		if d2 > 0 {
			g = clipGrad(coeff * (yi[c] - yr[c]))
		} else {
			g = 4
		}
		yi[c] += alpha * g
	}
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// clipGrad limits a gradient component to [-4, 4].
func clipGrad(g float64) float64 {
	if g > 4 {
		return 4
	}
	if g < -4 {
		return -4
	}
	return g
}

// hashSeed mixes the seed, epoch, and edge index into an initial state for
// the sampling stream.
func hashSeed(seed, epoch, edge uint64) uint64 {
	h := seed ^ 0x9e3779b97f4a7c15
	h = (h ^ epoch*0xbf58476d1ce4e5b9) * 0x94d049bb133111eb
	h = (h ^ edge*0xbf58476d1ce4e5b9) * 0x94d049bb133111eb
	if h == 0 {
		h = 1
	}
	return h
}

// nextRandom advances an xorshift64 state.
func nextRandom(state *uint64) uint64 {
	x := *state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*state = x
	return x
}

// smoothKNNDistances computes, per point, the distance to the nearest
// neighbor (rho) and the bandwidth (sigma) that normalizes the remaining
// neighbor distances so their membership strengths sum to log2(k).
func smoothKNNDistances(dists [][]float64, k int) (rhos, sigmas []float64) {
	n := len(dists)
	rhos = make([]float64, n)
	sigmas = make([]float64, n)
	target := math.Log2(float64(k))

	for i, row := range dists {
		for _, d := range row {
			if d > accel.MinPositiveDistance {
				rhos[i] = d
				break
			}
		}

		lo, hi, mid := 0.0, math.Inf(1), 1.0
		for iter := 0; iter < 64; iter++ {
			var psum float64
			for _, d := range row {
				if adj := d - rhos[i]; adj > 0 {
					psum += math.Exp(-adj / mid)
				} else {
					psum += 1
				}
			}
			if math.Abs(psum-target) < 1e-5 {
				break
			}
			if psum > target {
				hi = mid
				mid = (lo + hi) / 2
			} else {
				lo = mid
				if math.IsInf(hi, 1) {
					mid *= 2
				} else {
					mid = (lo + hi) / 2
				}
			}
		}
		if mid < accel.MinPositiveDistance {
			mid = accel.MinPositiveDistance
		}
		sigmas[i] = mid
	}
	return rhos, sigmas
}

// fuzzySimplicialSet converts the k-NN graph to an undirected weighted edge
// list using the probabilistic t-conorm: w = wij + wji - wij*wji.
func fuzzySimplicialSet(indices [][]int, dists [][]float64, rhos, sigmas []float64, rows int) []umapEdge {
	directed := make(map[[2]int]float64, rows*len(indices[0]))
	for i, nbrs := range indices {
		for n, j := range nbrs {
			w := 1.0
			if adj := dists[i][n] - rhos[i]; adj > 0 {
				w = math.Exp(-adj / sigmas[i])
			}
			directed[[2]int{i, j}] = w
		}
	}

	seen := make(map[[2]int]bool, len(directed))
	edges := make([]umapEdge, 0, len(directed))
	for key := range directed {
		i, j := key[0], key[1]
		if i > j {
			i, j = j, i
		}
		if seen[[2]int{i, j}] {
			continue
		}
		seen[[2]int{i, j}] = true

		wij := directed[[2]int{i, j}]
		wji := directed[[2]int{j, i}]
		combined := wij + wji - wij*wji
		if combined > 0 {
			edges = append(edges, umapEdge{i: i, j: j, weight: combined})
		}
	}

	// Map iteration order is random; sort for a reproducible layout.
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].i != edges[b].i {
			return edges[a].i < edges[b].i
		}
		return edges[a].j < edges[b].j
	})
	return edges
}

// fitABParams fits the differentiable curve 1/(1 + a*x^(2b)) to the target
// membership function defined by minDist and spread, by iteratively refined
// grid search over (a, b).
func fitABParams(minDist, spread float64) (a, b float64) {
	const samples = 300
	xs := make([]float64, samples)
	ys := make([]float64, samples)
	for i := 0; i < samples; i++ {
		x := 3 * spread * float64(i+1) / samples
		xs[i] = x
		if x <= minDist {
			ys[i] = 1
		} else {
			ys[i] = math.Exp(-(x - minDist) / spread)
		}
	}

	sse := func(a, b float64) float64 {
		var s float64
		for i := range xs {
			f := 1 / (1 + a*math.Pow(xs[i], 2*b))
			d := f - ys[i]
			s += d * d
		}
		return s
	}

	aLo, aHi := 0.001, 5.0
	bLo, bHi := 0.1, 2.5
	bestA, bestB := 1.0, 1.0
	for round := 0; round < 4; round++ {
		const steps = 40
		best := math.Inf(1)
		for ai := 0; ai <= steps; ai++ {
			ca := aLo + (aHi-aLo)*float64(ai)/steps
			for bi := 0; bi <= steps; bi++ {
				cb := bLo + (bHi-bLo)*float64(bi)/steps
				if s := sse(ca, cb); s < best {
					best, bestA, bestB = s, ca, cb
				}
			}
		}
		// Shrink the search window around the best cell.
		aw := (aHi - aLo) / steps * 2
		bw := (bHi - bLo) / steps * 2
		aLo, aHi = math.Max(0.001, bestA-aw), bestA+aw
		bLo, bHi = math.Max(0.01, bestB-bw), bestB+bw
	}
	return bestA, bestB
}
