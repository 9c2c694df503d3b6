// Package accel provides a runtime-switchable execution context for
// machine-learning estimator workloads. Numeric kernels are written once and
// dispatched at call time to the currently selected device: the accelerator
// device executes a kernel grid across CPU cores through a stream engine,
// while the general-purpose device runs the same grid sequentially.
//
// The device selection is a process-wide default that can be changed
// permanently with SetDeviceType or overridden for the duration of a block
// with UsingDeviceType:
//
//	err := accel.UsingDeviceType(accel.DeviceGPU, func() error {
//		return reducer.Fit(X)
//	})
//
// Estimators built on this runtime live in the model package; dataset
// generation and loading live in the dataset package.
package accel
