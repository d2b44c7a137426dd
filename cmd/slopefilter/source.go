package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
	"github.com/cwbudde/algo-slopefilter/dsp/signal"
)

// sourceFlags describes the generated test signal shared by render and play.
type sourceFlags struct {
	kind     string
	freq     float64
	amp      float64
	duration time.Duration
	seed     int64
}

func (s *sourceFlags) register(fs *flag.FlagSet, defaultDuration time.Duration) {
	fs.StringVar(&s.kind, "source", "sweep", "test signal: sine, tones, noise, sweep or impulse")
	fs.Float64Var(&s.freq, "freq", 440, "sine frequency in Hz")
	fs.Float64Var(&s.amp, "amp", 0.5, "peak amplitude")
	fs.DurationVar(&s.duration, "duration", defaultDuration, "signal length")
	fs.Int64Var(&s.seed, "seed", 1, "noise seed")
}

// generate returns a mono signal of the configured kind at sampleRate.
func (s *sourceFlags) generate(sampleRate float64) ([]float64, error) {
	n := int(s.duration.Seconds() * sampleRate)
	if n <= 0 {
		return nil, fmt.Errorf("duration %v is too short", s.duration)
	}

	g := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(sampleRate)},
		signal.WithSeed(s.seed),
	)

	switch s.kind {
	case "sine":
		return g.Sine(s.freq, s.amp, n)
	case "tones":
		mix, err := g.MultiTone([]float64{110, 440, 1760, 7040}, []float64{1, 1, 1, 1}, n)
		if err != nil {
			return nil, err
		}
		return signal.Normalize(mix, s.amp)
	case "noise":
		return g.WhiteNoise(s.amp, n)
	case "sweep":
		return g.LogSweep(20, 0.45*sampleRate, s.amp, n)
	case "impulse":
		return g.Impulse(s.amp, n, 0)
	default:
		return nil, fmt.Errorf("unknown source %q", s.kind)
	}
}
