package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
	"github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF/dataset"
	"github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF/model"
)

func newDemoCommand() *cobra.Command {
	var (
		samples   int
		features  int
		centers   int
		neighbors int
		epochs    int
		seed      int64
		dataFile  string
		paramFile string
		savePath  string
		loadPath  string
		plotPath  string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the scale-embed-cluster pipeline end to end",
		Long: `Demo generates (or loads) a dataset, standardizes it, embeds it in two
dimensions, clusters the embedding, and demonstrates that a fitted
estimator serialized under one device transforms identically under the
other.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			X, err := demoData(dataFile, samples, features, centers, seed)
			if err != nil {
				return err
			}
			rows, cols := X.Dims()
			slog.Info("dataset ready", "rows", rows, "cols", cols)

			scaler := model.NewStandardScaler()
			scaled, err := scaler.FitTransform(X)
			if err != nil {
				return err
			}

			reducer, err := demoReducer(loadPath, paramFile, neighbors, epochs, seed)
			if err != nil {
				return err
			}

			if !reducer.IsFitted() {
				start := time.Now()
				if err := reducer.Fit(scaled); err != nil {
					return err
				}
				slog.Info("embedding fitted",
					"device", accel.GetDeviceType().String(),
					"duration", time.Since(start))
			}

			embedding, err := reducer.Transform(scaled)
			if err != nil {
				return err
			}

			// The same fitted state must produce the same output under a
			// scoped switch to the other device.
			other := accel.DeviceCPU
			if accel.GetDeviceType() == accel.DeviceCPU {
				other = accel.DeviceGPU
			}
			var crossCheck *mat.Dense
			if err := accel.UsingDeviceType(other, func() error {
				var terr error
				crossCheck, terr = reducer.Transform(scaled)
				return terr
			}); err != nil {
				return err
			}
			if !mat.EqualApprox(embedding, crossCheck, 1e-9) {
				return accel.NewNumericalError("demo",
					"transform output differs across devices")
			}
			slog.Info("cross-device transform verified",
				"primary", accel.GetDeviceType().String(), "secondary", other.String())

			km, err := model.NewKMeans(model.KMeansConfig{NClusters: centers, Seed: seed})
			if err != nil {
				return err
			}
			labels, err := km.FitPredict(embedding)
			if err != nil {
				return err
			}
			printClusterSummary(labels, centers, km.Inertia)

			if savePath != "" {
				if err := reducer.Save(savePath); err != nil {
					return err
				}
				slog.Info("artifact written", "path", savePath)
			}
			if plotPath != "" {
				if err := plotEmbedding(embedding, labels, centers, plotPath); err != nil {
					return err
				}
				slog.Info("plot written", "path", plotPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 500, "number of generated samples")
	cmd.Flags().IntVar(&features, "features", 10, "number of generated features")
	cmd.Flags().IntVar(&centers, "centers", 4, "number of clusters to generate and fit")
	cmd.Flags().IntVar(&neighbors, "neighbors", 15, "embedding neighborhood size")
	cmd.Flags().IntVar(&epochs, "epochs", 200, "embedding optimization epochs")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&dataFile, "data", "", "CSV file to load instead of generating blobs")
	cmd.Flags().StringVar(&paramFile, "params", "", "pickled hyperparameter dict to apply")
	cmd.Flags().StringVar(&savePath, "save", "", "write the fitted embedding artifact here")
	cmd.Flags().StringVar(&loadPath, "load", "", "load a fitted embedding artifact instead of fitting")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write an embedding scatter plot (PNG)")
	return cmd
}

func demoData(dataFile string, samples, features, centers int, seed int64) (*mat.Dense, error) {
	if dataFile != "" {
		X, header, err := dataset.FromCSVFile(dataFile, true)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded CSV", "path", dataFile, "columns", len(header))
		return X, nil
	}
	X, _, err := dataset.MakeBlobs(samples, features, centers, 1.0, seed)
	return X, err
}

// demoReducer builds the embedding estimator, from an artifact when
// loadPath is set and from flags (plus an optional pickled parameter dict)
// otherwise.
func demoReducer(loadPath, paramFile string, neighbors, epochs int, seed int64) (*model.UMAP, error) {
	if loadPath != "" {
		u, err := model.NewUMAP(model.DefaultUMAPConfig())
		if err != nil {
			return nil, err
		}
		if err := u.Load(loadPath); err != nil {
			return nil, err
		}
		slog.Info("artifact loaded", "path", loadPath)
		return u, nil
	}

	u, err := model.NewUMAP(model.UMAPConfig{
		NNeighbors: neighbors,
		NEpochs:    epochs,
		Seed:       seed,
	})
	if err != nil {
		return nil, err
	}
	if paramFile != "" {
		params, err := model.LoadPickledParams(paramFile)
		if err != nil {
			return nil, err
		}
		if err := u.SetParams(params); err != nil {
			return nil, err
		}
		slog.Info("applied pickled parameters", "path", paramFile, "count", len(params))
	}
	return u, nil
}

func printClusterSummary(labels []int, centers int, inertia float64) {
	counts := make([]int, centers)
	for _, l := range labels {
		counts[l]++
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Cluster", "Size"})
	for c, n := range counts {
		table.Append([]string{fmt.Sprint(c), fmt.Sprint(n)})
	}
	table.SetFooter([]string{"inertia", fmt.Sprintf("%.2f", inertia)})
	table.Render()
}

func plotEmbedding(embedding *mat.Dense, labels []int, centers int, path string) error {
	p := plot.New()
	p.Title.Text = "Embedding"
	p.X.Label.Text = "dim 0"
	p.Y.Label.Text = "dim 1"

	rows, _ := embedding.Dims()
	for c := 0; c < centers; c++ {
		var pts plotter.XYs
		for i := 0; i < rows; i++ {
			if labels[i] == c {
				pts = append(pts, plotter.XY{X: embedding.At(i, 0), Y: embedding.At(i, 1)})
			}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = plotutil.Color(c)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("cluster %d", c), s)
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
