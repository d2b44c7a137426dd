package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
)

const (
	defaultPeakLimiterCeilingDB = -0.1
	defaultPeakLimiterReleaseMs = 5.0

	minPeakLimiterCeilingDB = -24.0
	maxPeakLimiterCeilingDB = 0.0
	minPeakLimiterReleaseMs = 0.1
	maxPeakLimiterReleaseMs = 1000.0
)

// PeakLimiter is an instant-attack peak limiter with exponential release.
//
// Each channel keeps its own envelope. The envelope jumps to |x| when the
// input exceeds it and decays with the release time constant otherwise;
// the gain is ceiling/envelope whenever the envelope is above the ceiling.
// Since the envelope is never below |x|, no output sample exceeds the
// ceiling.
type PeakLimiter struct {
	sampleRate float64
	ceilingDB  float64
	releaseMs  float64

	ceiling      float64
	releaseCoeff float64

	env [core.MaxChannels]float64

	lastGain float64
	minGain  float64
}

// NewPeakLimiter creates a limiter with a -0.1 dBFS ceiling and 5 ms
// release.
func NewPeakLimiter(sampleRate float64) (*PeakLimiter, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("peak limiter sample rate must be positive and finite: %f", sampleRate)
	}

	l := &PeakLimiter{
		sampleRate: sampleRate,
		lastGain:   1,
		minGain:    1,
	}

	if err := l.SetCeilingDB(defaultPeakLimiterCeilingDB); err != nil {
		return nil, err
	}

	if err := l.SetRelease(defaultPeakLimiterReleaseMs); err != nil {
		return nil, err
	}

	return l, nil
}

// SetCeilingDB sets the output ceiling in dBFS.
func (l *PeakLimiter) SetCeilingDB(dB float64) error {
	if dB < minPeakLimiterCeilingDB || dB > maxPeakLimiterCeilingDB || !core.IsFinite(dB) {
		return fmt.Errorf("peak limiter ceiling must be in [%f, %f]: %f",
			minPeakLimiterCeilingDB, maxPeakLimiterCeilingDB, dB)
	}

	l.ceilingDB = dB
	l.ceiling = core.DBToLinear(dB)

	return nil
}

// SetRelease sets the release time in milliseconds.
func (l *PeakLimiter) SetRelease(ms float64) error {
	if ms < minPeakLimiterReleaseMs || ms > maxPeakLimiterReleaseMs || !core.IsFinite(ms) {
		return fmt.Errorf("peak limiter release must be in [%f, %f]: %f",
			minPeakLimiterReleaseMs, maxPeakLimiterReleaseMs, ms)
	}

	l.releaseMs = ms
	l.updateRelease()

	return nil
}

// SetSampleRate updates the sample rate and the release coefficient.
func (l *PeakLimiter) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("peak limiter sample rate must be positive and finite: %f", sampleRate)
	}

	l.sampleRate = sampleRate
	l.updateRelease()

	return nil
}

func (l *PeakLimiter) updateRelease() {
	l.releaseCoeff = math.Exp(-1000 / (l.releaseMs * l.sampleRate))
}

// Reset clears all envelopes and meters.
func (l *PeakLimiter) Reset() {
	l.env = [core.MaxChannels]float64{}
	l.lastGain = 1
	l.minGain = 1
}

// ProcessSample limits one sample of channel ch. Non-finite input is
// treated as silence.
func (l *PeakLimiter) ProcessSample(ch int, x float64) float64 {
	if !core.IsFinite(x) {
		x = 0
	}

	env := core.FlushDenormals(l.env[ch] * l.releaseCoeff)
	if a := math.Abs(x); a > env {
		env = a
	}
	l.env[ch] = env

	gain := 1.0
	if env > l.ceiling {
		gain = l.ceiling / env
	}

	l.lastGain = gain
	if gain < l.minGain {
		l.minGain = gain
	}

	return core.Clamp(x*gain, -l.ceiling, l.ceiling)
}

// ProcessInPlace limits buf as channel ch.
func (l *PeakLimiter) ProcessInPlace(ch int, buf []float64) {
	for i, x := range buf {
		buf[i] = l.ProcessSample(ch, x)
	}
}

// Ceiling returns the linear output ceiling.
func (l *PeakLimiter) Ceiling() float64 { return l.ceiling }

// CeilingDB returns the output ceiling in dBFS.
func (l *PeakLimiter) CeilingDB() float64 { return l.ceilingDB }

// Release returns the release time in milliseconds.
func (l *PeakLimiter) Release() float64 { return l.releaseMs }

// SampleRate returns the current sample rate.
func (l *PeakLimiter) SampleRate() float64 { return l.sampleRate }

// GainReductionDB returns the gain reduction applied to the last processed
// sample as a non-negative dB value.
func (l *PeakLimiter) GainReductionDB() float64 {
	return math.Max(0, -core.LinearToDB(l.lastGain))
}

// TakePeakReductionDB returns the largest gain reduction since the
// previous call, as a non-negative dB value, and restarts the measurement.
func (l *PeakLimiter) TakePeakReductionDB() float64 {
	db := math.Max(0, -core.LinearToDB(l.minGain))
	l.minGain = 1

	return db
}
