package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrLengthMismatch is returned when paired slices differ in length.
	ErrLengthMismatch = errors.New("signal: length mismatch")
	// ErrEmpty is returned when an input must not be empty.
	ErrEmpty = errors.New("signal: empty input")
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SetSeed changes the noise seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// MultiTone generates the sum of sines at freqs with per-tone amplitudes.
func (g *Generator) MultiTone(freqs, amps []float64, samples int) ([]float64, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("multitone frequencies: %w", ErrEmpty)
	}
	if len(freqs) != len(amps) {
		return nil, fmt.Errorf("multitone: %w: %d frequencies, %d amplitudes", ErrLengthMismatch, len(freqs), len(amps))
	}

	out, err := g.Sine(freqs[0], amps[0], samples)
	if err != nil {
		return nil, err
	}
	for k := 1; k < len(freqs); k++ {
		tone, err := g.Sine(freqs[k], amps[k], samples)
		if err != nil {
			return nil, err
		}
		vecmath.AddBlockInPlace(out, tone)
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// LogSweep generates an exponential sine sweep from startHz to endHz.
func (g *Generator) LogSweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sweep samples must be > 0: %d", samples)
	}
	nyquist := g.cfg.SampleRate / 2
	if startHz <= 0 || endHz <= startHz || endHz > nyquist {
		return nil, fmt.Errorf("sweep range must satisfy 0 < start < end <= %f: %f..%f", nyquist, startHz, endHz)
	}

	out := make([]float64, samples)
	duration := float64(samples) / g.cfg.SampleRate
	rate := math.Log(endHz / startHz)
	k := 2 * math.Pi * startHz * duration / rate
	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		out[i] = amplitude * math.Sin(k*(math.Exp(t/duration*rate)-1))
	}
	return out, nil
}

// Impulse generates a single sample of the given amplitude at pos.
func (g *Generator) Impulse(amplitude float64, samples, pos int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position out of range [0, %d): %d", samples, pos)
	}
	out := make([]float64, samples)
	out[pos] = amplitude
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input: %w", ErrEmpty)
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/maxAbs)
	return out, nil
}

// Mix adds src into dst.
func Mix(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("mix: %w: %d vs %d", ErrLengthMismatch, len(dst), len(src))
	}
	vecmath.AddBlockInPlace(dst, src)
	return nil
}
