package accel

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// DeviceType selects the execution target for kernel launches.
// The zero value is DeviceCPU.
type DeviceType int

const (
	// DeviceCPU executes kernels sequentially on the calling goroutine.
	DeviceCPU DeviceType = iota

	// DeviceGPU executes kernels through the accelerator stream engine,
	// fanning blocks out across CPU cores.
	DeviceGPU
)

// String returns the lowercase name of the device type.
func (t DeviceType) String() string {
	switch t {
	case DeviceCPU:
		return "cpu"
	case DeviceGPU:
		return "gpu"
	default:
		return fmt.Sprintf("DeviceType(%d)", int(t))
	}
}

// Valid reports whether t names a known device type.
func (t DeviceType) Valid() bool {
	return t == DeviceCPU || t == DeviceGPU
}

// ParseDeviceType converts a device name ("cpu" or "gpu", case-insensitive)
// to a DeviceType.
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu", "host":
		return DeviceCPU, nil
	case "gpu", "device", "accelerator":
		return DeviceGPU, nil
	default:
		return DeviceCPU, NewInvalidArgError("ParseDeviceType",
			fmt.Sprintf("unknown device type %q", s))
	}
}

// Process-wide device selection. Kernels read this at the moment they
// execute, never earlier, so a fitted estimator carries no device state.
var (
	deviceMu      sync.RWMutex
	currentDevice = deviceTypeFromEnv()
)

// deviceTypeFromEnv resolves the initial default from ACCEL_DEVICE_TYPE.
// The accelerator is the default when the variable is unset or invalid.
func deviceTypeFromEnv() DeviceType {
	if v := os.Getenv("ACCEL_DEVICE_TYPE"); v != "" {
		if t, err := ParseDeviceType(v); err == nil {
			return t
		}
	}
	return DeviceGPU
}

// GetDeviceType returns the current process-wide device type.
func GetDeviceType() DeviceType {
	deviceMu.RLock()
	defer deviceMu.RUnlock()
	return currentDevice
}

// SetDeviceType permanently changes the process-wide device type.
// It stays in effect until changed again.
func SetDeviceType(t DeviceType) error {
	if !t.Valid() {
		return ErrInvalidDevice
	}
	deviceMu.Lock()
	currentDevice = t
	deviceMu.Unlock()
	return nil
}

// UsingDeviceType runs fn with the process-wide device type overridden to t,
// and restores the previous value on every exit path, including a panic
// inside fn.
//
// The override is process-wide, not goroutine-scoped: concurrent scoped
// overrides from multiple goroutines will interleave. This mirrors the
// save/restore semantics of a global execution flag.
//
// Example:
//
//	accel.SetDeviceType(accel.DeviceCPU)
//	err := accel.UsingDeviceType(accel.DeviceGPU, func() error {
//		_, err := nn.Kneighbors(query, 5) // runs on the accelerator
//		return err
//	})
//	// process-wide default is DeviceCPU again here
func UsingDeviceType(t DeviceType, fn func() error) error {
	if !t.Valid() {
		return ErrInvalidDevice
	}
	deviceMu.Lock()
	prev := currentDevice
	currentDevice = t
	deviceMu.Unlock()

	defer func() {
		deviceMu.Lock()
		currentDevice = prev
		deviceMu.Unlock()
	}()

	return fn()
}
