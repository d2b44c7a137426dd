package engine

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cwbudde/algo-slopefilter/dsp/filter/slope"
	"github.com/cwbudde/algo-slopefilter/dsp/param"
	"github.com/sirupsen/logrus"
)

const (
	defaultLimiterCeilingDB = -0.1
	defaultLimiterReleaseMs = 5.0

	minLimiterCeilingDB = -24.0
	maxLimiterCeilingDB = 0.0
	minLimiterReleaseMs = 0.1
	maxLimiterReleaseMs = 1000.0
)

// RampTimes holds the smoothing time of each continuous parameter and of
// the slope crossfade.
type RampTimes struct {
	Cutoff    time.Duration
	Resonance time.Duration
	Gain      time.Duration
	Slope     time.Duration
}

// DefaultRampTimes are 50 ms for cutoff, 20 ms for resonance and gain and
// 100 ms for the slope crossfade.
var DefaultRampTimes = RampTimes{
	Cutoff:    50 * time.Millisecond,
	Resonance: 20 * time.Millisecond,
	Gain:      20 * time.Millisecond,
	Slope:     100 * time.Millisecond,
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	store     *param.Store
	ramps     RampTimes
	ceilingDB float64
	releaseMs float64
	resonance slope.ResonanceScale
	logger    logrus.FieldLogger
}

func defaultConfig() config {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	return config{
		ramps:     DefaultRampTimes,
		ceilingDB: defaultLimiterCeilingDB,
		releaseMs: defaultLimiterReleaseMs,
		resonance: slope.DefaultResonanceScale,
		logger:    discard,
	}
}

// WithStore makes the processor read parameters from store instead of a
// private store.
func WithStore(store *param.Store) Option {
	return func(cfg *config) error {
		if store == nil {
			return errors.New("engine: store must not be nil")
		}

		cfg.store = store

		return nil
	}
}

// WithRampTimes overrides the smoothing times. A zero duration disables
// smoothing for that parameter.
func WithRampTimes(ramps RampTimes) Option {
	return func(cfg *config) error {
		if ramps.Cutoff < 0 || ramps.Resonance < 0 || ramps.Gain < 0 || ramps.Slope < 0 {
			return fmt.Errorf("engine: ramp times must be >= 0: %+v", ramps)
		}

		cfg.ramps = ramps

		return nil
	}
}

// WithLimiterCeilingDB sets the output ceiling in [-24, 0] dBFS.
func WithLimiterCeilingDB(dB float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(dB, minLimiterCeilingDB, maxLimiterCeilingDB, "limiter ceiling"); err != nil {
			return err
		}

		cfg.ceilingDB = dB

		return nil
	}
}

// WithLimiterRelease sets the limiter release time in [0.1, 1000] ms.
func WithLimiterRelease(ms float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(ms, minLimiterReleaseMs, maxLimiterReleaseMs, "limiter release"); err != nil {
			return err
		}

		cfg.releaseMs = ms

		return nil
	}
}

// WithResonanceScale overrides the per-stage Q factors used for cascaded
// slopes.
func WithResonanceScale(scale slope.ResonanceScale) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(scale.Two, 0.01, 10, "two-stage resonance scale"); err != nil {
			return err
		}

		if err := validateFiniteRange(scale.Four, 0.01, 10, "four-stage resonance scale"); err != nil {
			return err
		}

		cfg.resonance = scale

		return nil
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return errors.New("engine: logger must not be nil")
		}

		cfg.logger = logger

		return nil
	}
}

func validateFiniteRange(value, min, max float64, name string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("engine: %s must be finite: %v", name, value)
	}

	if value < min || value > max {
		return fmt.Errorf("engine: %s must be in [%g, %g]: %f", name, min, max, value)
	}

	return nil
}
