// Command accel runs the estimator toolkit from the command line: device
// inventory, an end-to-end pipeline demo, and CPU-versus-accelerator
// benchmarks.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
