package accel

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Launch executes a kernel across the given grid on the default stream of
// the default context. The device type is read when the launch executes, not
// when it is submitted. Execution errors (including recovered kernel panics)
// are reported by Synchronize.
func Launch(kernel Kernel, grid, block Dim3, args ...interface{}) error {
	return defaultContext.Launch(kernel, grid, block, args...)
}

// LaunchFunc executes a kernel function on the default stream.
func LaunchFunc(fn KernelFunc, grid, block Dim3, args ...interface{}) error {
	return defaultContext.LaunchFunc(fn, grid, block, args...)
}

// Synchronize waits for all launches on the default context to complete.
func Synchronize() error {
	return defaultContext.Synchronize()
}

// For executes fn(i) for every i in [0, n) on the current device and waits
// for completion. On the accelerator device iterations run concurrently in
// blocks; on the general-purpose device they run sequentially in order.
// fn must be safe for concurrent invocation.
func For(n int, fn func(i int)) error {
	return defaultContext.For(n, fn)
}

// Launch executes a kernel across the grid on the context's default stream.
func (ctx *Context) Launch(kernel Kernel, grid, block Dim3, args ...interface{}) error {
	return ctx.LaunchStream(kernel, grid, block, ctx.defaultStream, args...)
}

// LaunchFunc executes a kernel function on the context's default stream.
func (ctx *Context) LaunchFunc(fn KernelFunc, grid, block Dim3, args ...interface{}) error {
	return ctx.LaunchStream(fn, grid, block, ctx.defaultStream, args...)
}

// LaunchStream executes a kernel across the grid on a specific stream.
func (ctx *Context) LaunchStream(kernel Kernel, grid, block Dim3, stream *Stream, args ...interface{}) error {
	if grid.X < 0 || grid.Y < 0 || grid.Z < 0 {
		return NewInvalidArgError("Launch", fmt.Sprintf("negative grid dimensions: %+v", grid))
	}
	if block.Size() <= 0 {
		return NewInvalidArgError("Launch", fmt.Sprintf("empty block dimensions: %+v", block))
	}

	stream.Submit(func() {
		// Device type is sampled here, at execution time.
		dev := GetDeviceType()
		launchCounts[dev].Add(1)
		stream.recordError(ctx.runGrid(dev, kernel, grid, block, args...))
	})
	return nil
}

// For executes fn(i) for i in [0, n) and waits for completion.
func (ctx *Context) For(n int, fn func(i int)) error {
	if n < 0 {
		return NewInvalidArgError("For", fmt.Sprintf("negative iteration count %d", n))
	}
	if n == 0 {
		return nil
	}
	block := Dim3{X: DefaultBlockSize, Y: 1, Z: 1}
	grid := Dim3{X: (n + DefaultBlockSize - 1) / DefaultBlockSize, Y: 1, Z: 1}

	kernel := KernelFunc(func(tid ThreadID, _ ...interface{}) {
		if i := tid.Global(); i < n {
			fn(i)
		}
	})
	if err := ctx.LaunchStream(kernel, grid, block, ctx.defaultStream); err != nil {
		return err
	}
	return ctx.defaultStream.Synchronize()
}

// runGrid executes every thread of the grid on the given device type.
func (ctx *Context) runGrid(dev DeviceType, kernel Kernel, grid, block Dim3, args ...interface{}) error {
	gridSize := grid.Size()
	if gridSize == 0 {
		return nil
	}

	if dev == DeviceCPU {
		return runBlocksSequential(kernel, grid, block, 0, gridSize, args...)
	}

	workers := ctx.workers
	if gridSize < workers {
		workers = gridSize
	}
	blocksPerWorker := (gridSize + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * blocksPerWorker
		end := start + blocksPerWorker
		if end > gridSize {
			end = gridSize
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			return runBlocksSequential(kernel, grid, block, start, end, args...)
		})
	}
	return g.Wait()
}

// runBlocksSequential executes blocks [startBlock, endBlock) one thread at a
// time, converting a kernel panic into an execution error.
func runBlocksSequential(kernel Kernel, grid, block Dim3, startBlock, endBlock int, args ...interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewExecutionError("Launch", fmt.Sprintf("kernel panic: %v", r), nil)
		}
	}()

	for blockID := startBlock; blockID < endBlock; blockID++ {
		blockIdx := linearTo3D(blockID, grid)
		for z := 0; z < block.Z; z++ {
			for y := 0; y < block.Y; y++ {
				for x := 0; x < block.X; x++ {
					kernel.Execute(ThreadID{
						BlockIdx:  blockIdx,
						ThreadIdx: Dim3{X: x, Y: y, Z: z},
						BlockDim:  block,
						GridDim:   grid,
					}, args...)
				}
			}
		}
	}
	return nil
}

// linearTo3D converts a linear block ID to its 3D grid coordinates.
func linearTo3D(id int, grid Dim3) Dim3 {
	x := id % grid.X
	y := (id / grid.X) % grid.Y
	z := id / (grid.X * grid.Y)
	return Dim3{X: x, Y: y, Z: z}
}
