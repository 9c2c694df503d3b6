package accel

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Device describes an execution target. Both devices are backed by the host
// CPU: the accelerator device is the stream engine running kernel grids in
// parallel, the general-purpose device is sequential execution.
type Device struct {
	ID         int        // Unique device identifier
	Type       DeviceType // Execution target this device implements
	Name       string     // Human-readable device name
	TotalMem   uint64     // Total available memory in bytes
	NumCores   int        // Number of CPU cores
	MaxThreads int        // Maximum concurrent worker goroutines
}

// Context manages streams, scratch memory, and kernel execution for a
// process. A default context is created at package init; most callers use
// the package-level Launch, For, and Synchronize functions instead of
// creating their own.
type Context struct {
	mu            sync.Mutex
	streams       map[int]*Stream
	streamID      int32
	workers       int
	workspace     *WorkspacePool
	defaultStream *Stream
}

// Stream is an ordered sequence of kernel launches. Launches within a stream
// execute in submission order; the accelerator device parallelizes inside a
// launch, never across launches.
type Stream struct {
	id    int
	tasks chan func()
	wg    sync.WaitGroup

	errMu sync.Mutex
	err   error // first execution error since the last Synchronize
}

// Dim3 represents 3D dimensions for grid and block configurations.
type Dim3 struct {
	X, Y, Z int
}

// Size returns the total number of elements.
func (d Dim3) Size() int {
	return d.X * d.Y * d.Z
}

// ThreadID identifies a thread's position within a kernel grid.
type ThreadID struct {
	BlockIdx  Dim3 // Block index within the grid
	ThreadIdx Dim3 // Thread index within the block
	BlockDim  Dim3 // Dimensions of the block
	GridDim   Dim3 // Dimensions of the grid
}

// Global returns the linear global thread index along X.
func (tid ThreadID) Global() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// Kernel is a unit of compute executed across a grid of threads.
// Execute is called concurrently on the accelerator device and must be
// safe for concurrent use.
type Kernel interface {
	Execute(tid ThreadID, args ...interface{})
}

// KernelFunc adapts a function to the Kernel interface.
type KernelFunc func(tid ThreadID, args ...interface{})

// Execute implements Kernel.
func (fn KernelFunc) Execute(tid ThreadID, args ...interface{}) {
	fn(tid, args...)
}

var (
	devices        []*Device
	defaultContext *Context
	initOnce       sync.Once

	// Per-device launch counters, observable through LaunchCount.
	launchCounts [2]atomic.Uint64
)

func init() {
	initOnce.Do(func() {
		cores := runtime.NumCPU()
		mem := systemMemory()
		devices = []*Device{
			{
				ID:         0,
				Type:       DeviceGPU,
				Name:       "Emulated Accelerator",
				TotalMem:   mem,
				NumCores:   cores,
				MaxThreads: workersFromEnv(),
			},
			{
				ID:         1,
				Type:       DeviceCPU,
				Name:       "CPU (sequential)",
				TotalMem:   mem,
				NumCores:   cores,
				MaxThreads: 1,
			},
		}

		defaultContext = NewContext()
	})
}

// workersFromEnv resolves the accelerator worker count from
// ACCEL_NUM_WORKERS, defaulting to the number of CPUs.
func workersFromEnv() int {
	if v := os.Getenv("ACCEL_NUM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// NewContext creates an execution context with its own streams and
// workspace pool.
func NewContext() *Context {
	ctx := &Context{
		streams:   make(map[int]*Stream),
		workers:   workersFromEnv(),
		workspace: NewWorkspacePool(),
	}
	ctx.defaultStream = ctx.CreateStream()
	return ctx
}

// CreateStream creates a new execution stream owned by the context.
func (ctx *Context) CreateStream() *Stream {
	id := int(atomic.AddInt32(&ctx.streamID, 1))
	stream := &Stream{
		id:    id,
		tasks: make(chan func(), streamQueueDepth),
	}
	go stream.worker()

	ctx.mu.Lock()
	ctx.streams[id] = stream
	ctx.mu.Unlock()
	return stream
}

// Synchronize waits for all streams in the context to drain and returns the
// first execution error observed since the previous Synchronize.
func (ctx *Context) Synchronize() error {
	ctx.mu.Lock()
	streams := make([]*Stream, 0, len(ctx.streams))
	for _, s := range ctx.streams {
		streams = append(streams, s)
	}
	ctx.mu.Unlock()

	var first error
	for _, s := range streams {
		if err := s.Synchronize(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// worker drains the stream's task queue in order.
func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
}

// Submit enqueues a task on the stream.
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// Synchronize blocks until every submitted task has finished and returns the
// first execution error recorded since the previous call, clearing it.
func (s *Stream) Synchronize() error {
	s.wg.Wait()
	s.errMu.Lock()
	err := s.err
	s.err = nil
	s.errMu.Unlock()
	return err
}

func (s *Stream) recordError(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()
}

// GetDevice returns the device backing the current process-wide device type.
func GetDevice() *Device {
	t := GetDeviceType()
	for _, d := range devices {
		if d.Type == t {
			return d
		}
	}
	return devices[0]
}

// GetDeviceCount returns the number of available devices.
func GetDeviceCount() int {
	return len(devices)
}

// GetDeviceProperties returns the properties of the device with the given ID.
func GetDeviceProperties(id int) (*Device, error) {
	if id < 0 || id >= len(devices) {
		return nil, NewInvalidArgError("GetDeviceProperties",
			fmt.Sprintf("invalid device ID: %d", id))
	}
	return devices[id], nil
}

// LaunchCount returns the number of kernel launches executed on the given
// device type since process start or the last ResetLaunchCounts.
func LaunchCount(t DeviceType) uint64 {
	if !t.Valid() {
		return 0
	}
	return launchCounts[t].Load()
}

// ResetLaunchCounts zeroes the per-device launch counters.
func ResetLaunchCounts() {
	launchCounts[DeviceCPU].Store(0)
	launchCounts[DeviceGPU].Store(0)
}

// systemMemory returns total system memory in bytes.
// A fixed figure is reported when the platform query is unavailable.
func systemMemory() uint64 {
	return 16 * 1024 * 1024 * 1024
}
