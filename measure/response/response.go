// Package response measures the frequency response of a block processor.
//
// [Measure] captures an impulse response after letting the processor
// settle and evaluates its spectrum with an FFT. [SineGainDB] measures the
// steady-state gain of a single sine, which is slower but includes every
// nonlinear stage of the signal path.
package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by measurement functions.
var (
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: FFT size must be a power of two >= 16")
	ErrInvalidBlockSize  = errors.New("response: block size must be positive")
	ErrNoFrequencies     = errors.New("response: no frequencies requested")
	ErrInvalidFrequency  = errors.New("response: frequency must be in (0, nyquist)")
)

// impulseLevel keeps the excitation below the output limiter ceiling.
const impulseLevel = 0.5

// Processor is a mono-capable in-place block processor.
type Processor interface {
	Process(buf [][]float64)
}

// Config controls a measurement.
type Config struct {
	SampleRate float64
	// FFTSize is the impulse response length captured and transformed.
	FFTSize int
	// BlockSize is the size of the blocks handed to the processor.
	BlockSize int
	// Settle is the number of silent samples processed before the impulse
	// so parameter smoothing can finish.
	Settle int
}

// DefaultConfig returns an 8192-point measurement at sampleRate with
// 512-sample blocks and 200 ms settling.
func DefaultConfig(sampleRate float64) Config {
	return Config{
		SampleRate: sampleRate,
		FFTSize:    8192,
		BlockSize:  512,
		Settle:     int(0.2 * sampleRate),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 0) {
		return ErrInvalidSampleRate
	}

	if c.FFTSize < 16 || c.FFTSize&(c.FFTSize-1) != 0 {
		return ErrInvalidFFTSize
	}

	if c.BlockSize <= 0 {
		return ErrInvalidBlockSize
	}

	return nil
}

// Point is the measured magnitude at one frequency.
type Point struct {
	FreqHz      float64
	MagnitudeDB float64
}

// ImpulseResponse settles p and returns FFTSize samples of its response
// to a unit impulse.
func ImpulseResponse(p Processor, cfg Config) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	settle := make([]float64, cfg.BlockSize)
	for done := 0; done < cfg.Settle; done += cfg.BlockSize {
		n := min(cfg.BlockSize, cfg.Settle-done)
		clear(settle)
		p.Process([][]float64{settle[:n]})
	}

	ir := make([]float64, cfg.FFTSize)
	ir[0] = impulseLevel
	for start := 0; start < len(ir); start += cfg.BlockSize {
		end := min(start+cfg.BlockSize, len(ir))
		p.Process([][]float64{ir[start:end]})
	}

	out := make([]float64, len(ir))
	vecmath.ScaleBlock(out, ir, 1/impulseLevel)

	return out, nil
}

// Measure returns the magnitude response of p at freqs. Magnitudes
// between FFT bins are interpolated linearly.
func Measure(p Processor, cfg Config, freqs []float64) ([]Point, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(freqs) == 0 {
		return nil, ErrNoFrequencies
	}

	nyquist := cfg.SampleRate / 2
	for _, f := range freqs {
		if !(f > 0) || f >= nyquist {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrequency, f)
		}
	}

	ir, err := ImpulseResponse(p, cfg)
	if err != nil {
		return nil, err
	}

	mag, err := Spectrum(ir)
	if err != nil {
		return nil, err
	}

	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	points := make([]Point, len(freqs))
	for i, f := range freqs {
		pos := f / binHz
		k := int(pos)
		frac := pos - float64(k)
		m := mag[k]*(1-frac) + mag[k+1]*frac
		points[i] = Point{FreqHz: f, MagnitudeDB: 20 * math.Log10(m)}
	}

	return points, nil
}

// Spectrum returns |X[k]| for k in [0, len(x)/2] of the FFT of x.
// len(x) must be a power of two.
func Spectrum(x []float64) ([]float64, error) {
	n := len(x)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, n)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// SineGainDB feeds one second of a sine at freqHz through p in blocks
// of blockSize and returns the RMS gain over the second half, in dB.
func SineGainDB(p Processor, sampleRate, freqHz float64, blockSize int) (float64, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, ErrInvalidSampleRate
	}

	if blockSize <= 0 {
		return 0, ErrInvalidBlockSize
	}

	if !(freqHz > 0) || freqHz >= sampleRate/2 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrequency, freqHz)
	}

	n := int(sampleRate)
	buf := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate

	var in float64
	for i := range buf {
		buf[i] = impulseLevel * math.Sin(step*float64(i))
		if i >= n/2 {
			in += buf[i] * buf[i]
		}
	}

	for start := 0; start < n; start += blockSize {
		end := min(start+blockSize, n)
		p.Process([][]float64{buf[start:end]})
	}

	var out float64
	for _, y := range buf[n/2:] {
		out += y * y
	}

	return 10 * math.Log10(out/in), nil
}
