package smooth

import (
	"math"
	"testing"
)

func TestConvergesAfterRampTime(t *testing.T) {
	tests := []struct {
		name        string
		sampleRate  float64
		rampSeconds float64
		initial     float64
		target      float64
	}{
		{name: "cutoff up", sampleRate: 48000, rampSeconds: 0.05, initial: 1000, target: 18000},
		{name: "cutoff down", sampleRate: 44100, rampSeconds: 0.05, initial: 20000, target: 20},
		{name: "gain", sampleRate: 96000, rampSeconds: 0.02, initial: -24, target: 12},
		{name: "slope", sampleRate: 48000, rampSeconds: 0.1, initial: 0, target: 2},
		{name: "tiny", sampleRate: 48000, rampSeconds: 0.02, initial: 0.1, target: 0.1000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.sampleRate, tt.rampSeconds, tt.initial)
			v.SetTarget(tt.target)

			n := int(tt.rampSeconds * tt.sampleRate)
			var got float64
			for range n {
				got = v.Next()
			}

			if rel := math.Abs(got-tt.target) / math.Max(math.Abs(tt.target), 1e-12); rel > 1e-4 {
				t.Fatalf("after %d samples value = %v, want %v (rel err %g)", n, got, tt.target, rel)
			}

			if v.IsSmoothing() {
				t.Fatal("still smoothing after the ramp time")
			}

			if v.Next() != tt.target {
				t.Fatalf("Next() after ramp = %v, want exactly %v", v.Current(), tt.target)
			}
		})
	}
}

func TestMonotonicWithoutOvershoot(t *testing.T) {
	for _, target := range []float64{-24, 12, 0.5, 20000} {
		v := New(48000, 0.02, 1)
		v.SetTarget(target)

		prev := v.Current()
		rising := target > prev
		for i := range 2000 {
			x := v.Next()
			if rising && (x < prev || x > target) {
				t.Fatalf("target %v sample %d: %v after %v", target, i, x, prev)
			}
			if !rising && (x > prev || x < target) {
				t.Fatalf("target %v sample %d: %v after %v", target, i, x, prev)
			}
			prev = x
		}
	}
}

func TestSnapModes(t *testing.T) {
	tests := []struct {
		name        string
		sampleRate  float64
		rampSeconds float64
	}{
		{name: "zero ramp", sampleRate: 48000, rampSeconds: 0},
		{name: "negative ramp", sampleRate: 48000, rampSeconds: -1},
		{name: "zero rate", sampleRate: 0, rampSeconds: 0.05},
		{name: "nan rate", sampleRate: math.NaN(), rampSeconds: 0.05},
		{name: "inf ramp", sampleRate: 48000, rampSeconds: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.sampleRate, tt.rampSeconds, 3)
			v.SetTarget(7)
			if got := v.Next(); got != 7 {
				t.Fatalf("Next() = %v, want immediate 7", got)
			}
			if v.RampSamples() != 0 {
				t.Fatalf("RampSamples() = %d, want 0", v.RampSamples())
			}
		})
	}
}

func TestZeroValueSnaps(t *testing.T) {
	var v Value
	v.SetTarget(4)
	if got := v.Next(); got != 4 {
		t.Fatalf("Next() = %v, want 4", got)
	}
}

func TestRetargetStartsFromCurrent(t *testing.T) {
	v := New(1000, 0.1, 0) // 100 samples
	v.SetTarget(1)
	for range 50 {
		v.Next()
	}

	mid := v.Current()
	if math.Abs(mid-0.5) > 1e-9 {
		t.Fatalf("halfway value = %v, want 0.5", mid)
	}

	v.SetTarget(-1)
	if v.Current() != mid {
		t.Fatalf("SetTarget moved the current value: %v -> %v", mid, v.Current())
	}

	next := v.Next()
	if math.Abs(next-mid) > 1.5/100+1e-12 {
		t.Fatalf("jump after retarget: %v -> %v", mid, next)
	}

	for range 99 {
		v.Next()
	}
	if v.Current() != -1 {
		t.Fatalf("value after full ramp = %v, want -1", v.Current())
	}
}

func TestSameTargetKeepsRamp(t *testing.T) {
	v := New(1000, 0.01, 0) // 10 samples
	v.SetTarget(1)
	for range 5 {
		v.Next()
	}
	v.SetTarget(1)
	for range 5 {
		v.Next()
	}
	if v.Current() != 1 || v.IsSmoothing() {
		t.Fatalf("value = %v smoothing = %v, want settled at 1", v.Current(), v.IsSmoothing())
	}
}

func TestSkipMatchesNext(t *testing.T) {
	a := New(48000, 0.05, 100)
	b := New(48000, 0.05, 100)
	a.SetTarget(5000)
	b.SetTarget(5000)

	for range 1000 {
		a.Next()
	}
	got := b.Skip(1000)

	if math.Abs(got-a.Current()) > 1e-6 {
		t.Fatalf("Skip(1000) = %v, Next x1000 = %v", got, a.Current())
	}

	if b.Skip(1e6) != 5000 {
		t.Fatalf("Skip past the end = %v, want 5000", b.Current())
	}
}
