package accel

import (
	"math"
	"math/rand"
	"testing"
)

func TestReductionsMatchSequential(t *testing.T) {
	saveDevice(t)

	rng := rand.New(rand.NewSource(11))
	x := make([]float64, 40000)
	for i := range x {
		x[i] = rng.NormFloat64()
	}

	var wantSum, wantSq float64
	wantMax, wantMin := math.Inf(-1), math.Inf(1)
	for _, v := range x {
		wantSum += v
		wantSq += v * v
		if v > wantMax {
			wantMax = v
		}
		if v < wantMin {
			wantMin = v
		}
	}

	tol := RelaxedTolerance()
	for _, dev := range []DeviceType{DeviceCPU, DeviceGPU} {
		if err := SetDeviceType(dev); err != nil {
			t.Fatal(err)
		}

		if got := Sum(x); !tol.NearEqual(got, wantSum) {
			t.Errorf("device %v: Sum = %g, want %g", dev, got, wantSum)
		}
		if got := SumSquares(x); !tol.NearEqual(got, wantSq) {
			t.Errorf("device %v: SumSquares = %g, want %g", dev, got, wantSq)
		}
		if got := Mean(x); !tol.NearEqual(got, wantSum/float64(len(x))) {
			t.Errorf("device %v: Mean = %g", dev, got)
		}
		if got := Max(x); got != wantMax {
			t.Errorf("device %v: Max = %g, want %g", dev, got, wantMax)
		}
		if got := Min(x); got != wantMin {
			t.Errorf("device %v: Min = %g, want %g", dev, got, wantMin)
		}
	}
}

func TestReductionsEmptyInput(t *testing.T) {
	if got := Sum(nil); got != 0 {
		t.Errorf("Sum(nil) = %g", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %g", got)
	}
	if got := Max(nil); !math.IsInf(got, -1) {
		t.Errorf("Max(nil) = %g, want -Inf", got)
	}
	if got := Min(nil); !math.IsInf(got, 1) {
		t.Errorf("Min(nil) = %g, want +Inf", got)
	}
	if got := ArgMin(nil); got != -1 {
		t.Errorf("ArgMin(nil) = %d, want -1", got)
	}
}

func TestArgMin(t *testing.T) {
	x := []float64{3, 1, 4, 1.5, 0.5, 9}
	if got := ArgMin(x); got != 4 {
		t.Errorf("ArgMin = %d, want 4", got)
	}
}
