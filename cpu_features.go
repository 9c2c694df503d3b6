package accel

import (
	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks instruction set extensions available on the host.
// The accelerator device reports them through GetDeviceProperties and the
// CLI, and tests use them to decide which comparisons are meaningful.
type CPUFeatures struct {
	HasSSE4    bool
	HasAVX     bool
	HasAVX2    bool
	HasAVX512F bool
	HasFMA     bool
	HasNEON    bool
}

var cpuFeatures CPUFeatures

func init() {
	detectCPUFeatures()
}

// detectCPUFeatures populates the global cpuFeatures struct.
func detectCPUFeatures() {
	cpuFeatures = CPUFeatures{
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasFMA:     cpu.X86.HasFMA,
		HasNEON:    cpu.ARM64.HasASIMD,
	}
}

// HostFeatures returns the detected CPU instruction set extensions.
func HostFeatures() CPUFeatures {
	return cpuFeatures
}

// VectorWidth returns the widest float64 SIMD lane count the host supports,
// used as a hint when sizing kernel blocks.
func VectorWidth() int {
	switch {
	case cpuFeatures.HasAVX512F:
		return 8
	case cpuFeatures.HasAVX2, cpuFeatures.HasAVX:
		return 4
	case cpuFeatures.HasNEON, cpuFeatures.HasSSE4:
		return 2
	default:
		return 1
	}
}
