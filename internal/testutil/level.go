package testutil

import (
	"math"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
)

// RMS returns the root-mean-square level of data (0 for empty input).
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum float64
	for _, v := range data {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(data)))
}

// PeakAbs returns the largest absolute sample value.
func PeakAbs(data []float64) float64 {
	var peak float64
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	return peak
}

// GainDB returns the RMS level of out relative to in, in dB.
// Returns -Inf when out is silent and +Inf when in is silent.
func GainDB(in, out []float64) float64 {
	return core.LinearToDB(RMS(out) / RMS(in))
}

// ToneMix generates the sum of sines at freqs with the given amplitudes,
// divided by the sum of amplitudes so the peak stays within [-1, 1].
func ToneMix(freqs, amps []float64, sampleRate float64, length int) []float64 {
	out := make([]float64, length)

	var total float64
	for k, f := range freqs {
		if k >= len(amps) {
			break
		}

		total += math.Abs(amps[k])
		step := 2 * math.Pi * f / sampleRate
		for i := range out {
			out[i] += amps[k] * math.Sin(step*float64(i))
		}
	}

	if total > 0 {
		for i := range out {
			out[i] /= total
		}
	}

	return out
}
