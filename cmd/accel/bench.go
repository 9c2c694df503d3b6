package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
	"github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF/dataset"
	"github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF/model"
)

func newBenchCommand() *cobra.Command {
	var (
		samples  int
		features int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time estimator workloads on both devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := accel.InitBenchmarkLogger("bench")
			if err != nil {
				return err
			}
			slog.Info("benchmark session started", "run_id", runID)

			X, _, err := dataset.MakeBlobs(samples, features, 4, 1.0, seed)
			if err != nil {
				return err
			}

			workloads := []struct {
				name string
				run  func(X *mat.Dense) error
			}{
				{"scaler_fit_transform", func(X *mat.Dense) error {
					_, err := model.NewStandardScaler().FitTransform(X)
					return err
				}},
				{"kmeans_fit", func(X *mat.Dense) error {
					km, err := model.NewKMeans(model.KMeansConfig{NClusters: 4, Seed: seed})
					if err != nil {
						return err
					}
					return km.Fit(X)
				}},
				{"umap_fit", func(X *mat.Dense) error {
					u, err := model.NewUMAP(model.UMAPConfig{
						NNeighbors: 15,
						NEpochs:    100,
						Seed:       seed,
					})
					if err != nil {
						return err
					}
					return u.Fit(X)
				}},
			}

			timings := map[string]map[accel.DeviceType]time.Duration{}
			for _, w := range workloads {
				timings[w.name] = map[accel.DeviceType]time.Duration{}
				for _, dev := range []accel.DeviceType{accel.DeviceCPU, accel.DeviceGPU} {
					var elapsed time.Duration
					runErr := accel.UsingDeviceType(dev, func() error {
						start := time.Now()
						err := w.run(X)
						elapsed = time.Since(start)
						return err
					})

					result := accel.BenchmarkResult{
						Name:     w.name,
						Device:   dev.String(),
						Status:   "pass",
						Rows:     samples,
						Cols:     features,
						Duration: elapsed,
					}
					if runErr != nil {
						result.Status = "fail"
						result.Error = runErr.Error()
					}
					accel.LogBenchmarkResult(result)

					if runErr != nil {
						return runErr
					}
					timings[w.name][dev] = elapsed
					slog.Debug("workload finished",
						"name", w.name, "device", dev.String(), "duration", elapsed)
				}
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Workload", "CPU", "GPU", "Speedup"})
			for _, w := range workloads {
				cpu := timings[w.name][accel.DeviceCPU]
				gpu := timings[w.name][accel.DeviceGPU]
				table.Append([]string{
					w.name,
					cpu.Round(time.Microsecond).String(),
					gpu.Round(time.Microsecond).String(),
					fmt.Sprintf("%.2fx", float64(cpu)/float64(gpu)),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 2000, "number of generated samples")
	cmd.Flags().IntVar(&features, "features", 20, "number of generated features")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	return cmd
}
