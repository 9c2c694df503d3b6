package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	accel "github.com/angelinemar/Acceleration-Using-cuDF-and-Dask-cuDF"
)

var (
	flagDevice  string
	flagVerbose bool
)

func newRootCommand() *cobra.Command {
	version, _ := accel.Version()
	root := &cobra.Command{
		Use:           "accel",
		Short:         "Device-switchable machine learning estimators",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))

			if flagDevice != "" {
				dt, err := accel.ParseDeviceType(flagDevice)
				if err != nil {
					return err
				}
				accel.SetDeviceType(dt)
			}
			slog.Debug("device context", "device", accel.GetDeviceType().String())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagDevice, "device", "",
		fmt.Sprintf("execution device (cpu or gpu; default %s or $ACCEL_DEVICE_TYPE)",
			accel.GetDeviceType()))
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newInfoCommand())
	root.AddCommand(newDemoCommand())
	root.AddCommand(newBenchCommand())
	return root
}
