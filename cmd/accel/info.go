package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show available devices and host CPU features",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Type", "Memory", "Cores", "Workers"})
			for id := 0; id < accel.GetDeviceCount(); id++ {
				dev, err := accel.GetDeviceProperties(id)
				if err != nil {
					return err
				}
				current := ""
				if dev.Type == accel.GetDeviceType() {
					current = " *"
				}
				table.Append([]string{
					fmt.Sprint(dev.ID),
					dev.Name,
					dev.Type.String() + current,
					fmt.Sprintf("%.1f GB", float64(dev.TotalMem)/(1<<30)),
					fmt.Sprint(dev.NumCores),
					fmt.Sprint(dev.MaxThreads),
				})
			}
			table.Render()

			feats := accel.HostFeatures()
			ft := tablewriter.NewWriter(os.Stdout)
			ft.SetHeader([]string{"Feature", "Available"})
			for _, row := range [][2]interface{}{
				{"SSE4", feats.HasSSE4},
				{"AVX", feats.HasAVX},
				{"AVX2", feats.HasAVX2},
				{"AVX-512F", feats.HasAVX512F},
				{"FMA", feats.HasFMA},
				{"NEON", feats.HasNEON},
			} {
				ft.Append([]string{row[0].(string), fmt.Sprint(row[1])})
			}
			ft.Render()

			fmt.Printf("float64 vector width: %d\n", accel.VectorWidth())
			return nil
		},
	}
}
