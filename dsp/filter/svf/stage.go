package svf

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
)

const (
	// MinCutoffHz is the lowest cutoff accepted by SetParameters.
	MinCutoffHz = 1.0
	// MaxCutoffRatio bounds the cutoff to this fraction of the sample rate.
	MaxCutoffRatio = 0.49
	// MinQ and MaxQ bound the resonance accepted by SetParameters.
	MinQ = 0.01
	MaxQ = 100.0

	defaultCutoffHz = 1000.0
	defaultQ        = 0.70710678118654752440
)

var (
	// ErrInvalidSampleRate is returned by Prepare for a non-positive or
	// non-finite sample rate.
	ErrInvalidSampleRate = errors.New("svf: sample rate must be > 0 and finite")
	// ErrInvalidChannels is returned by Prepare when the channel count is
	// outside [1, core.MaxChannels].
	ErrInvalidChannels = errors.New("svf: invalid channel count")
)

// Stage is a two-pole TPT state-variable filter with per-channel state.
//
// A zero Stage produces silence until Prepare has been called.
type Stage struct {
	sampleRate float64
	channels   int

	cutoff float64
	q      float64

	g  float64
	r2 float64
	h  float64

	state [core.MaxChannels][2]float64
}

// Prepare sets the sample rate and channel count, clears all state and
// recomputes coefficients for the current cutoff and Q (1 kHz, Q 0.707 for
// a fresh stage).
func (s *Stage) Prepare(sampleRate float64, channels int) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if channels < 1 || channels > core.MaxChannels {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidChannels, channels, core.MaxChannels)
	}

	cutoff, q := s.cutoff, s.q
	if cutoff == 0 {
		cutoff, q = defaultCutoffHz, defaultQ
	}

	s.sampleRate = sampleRate
	s.channels = channels
	s.cutoff, s.q = 0, 0
	s.Reset()
	s.SetParameters(cutoff, q)

	return nil
}

// Reset clears the integrator state of every channel.
func (s *Stage) Reset() {
	s.state = [core.MaxChannels][2]float64{}
}

// SetParameters retunes the stage. cutoffHz is clamped to
// [MinCutoffHz, MaxCutoffRatio*sampleRate] and q to [MinQ, MaxQ].
// Non-finite arguments, or coefficients that come out non-finite, leave
// the previous tuning in place.
func (s *Stage) SetParameters(cutoffHz, q float64) {
	if !core.IsFinite(cutoffHz) || !core.IsFinite(q) || s.sampleRate <= 0 {
		return
	}

	cutoffHz = core.Clamp(cutoffHz, MinCutoffHz, MaxCutoffRatio*s.sampleRate)
	q = core.Clamp(q, MinQ, MaxQ)

	if cutoffHz == s.cutoff && q == s.q {
		return
	}

	g := math.Tan(math.Pi * cutoffHz / s.sampleRate)
	r2 := 1 / q
	h := 1 / (1 + r2*g + g*g)

	if !core.IsFinite(g) || !core.IsFinite(h) {
		return
	}

	s.cutoff, s.q = cutoffHz, q
	s.g, s.r2, s.h = g, r2, h
}

// ProcessSample filters x on channel ch and returns the output selected by
// mode. A non-finite input is treated as silence; if the channel state
// becomes non-finite it is cleared and 0 is returned.
func (s *Stage) ProcessSample(ch int, x float64, mode Mode) float64 {
	if !core.IsFinite(x) {
		x = 0
	}

	st := &s.state[ch]
	s1, s2 := st[0], st[1]

	hp := s.h * (x - s1*(s.g+s.r2) - s2)
	bp := s.g*hp + s1
	lp := s.g*bp + s2

	s1 = core.FlushDenormals(s.g*hp + bp)
	s2 = core.FlushDenormals(s.g*bp + lp)

	if !core.IsFinite(s1) || !core.IsFinite(s2) {
		*st = [2]float64{}
		return 0
	}

	st[0], st[1] = s1, s2

	switch mode {
	case ModeHighPass:
		return hp
	case ModeBandPass:
		return bp
	default:
		return lp
	}
}

// ProcessInPlace filters buf on channel ch in place.
func (s *Stage) ProcessInPlace(ch int, buf []float64, mode Mode) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(ch, x, mode)
	}
}

// State returns the integrator state of channel ch.
func (s *Stage) State(ch int) [2]float64 { return s.state[ch] }

// SetState restores the integrator state of channel ch.
func (s *Stage) SetState(ch int, state [2]float64) { s.state[ch] = state }

// SampleRate returns the prepared sample rate (0 before Prepare).
func (s *Stage) SampleRate() float64 { return s.sampleRate }

// Channels returns the prepared channel count.
func (s *Stage) Channels() int { return s.channels }

// Cutoff returns the effective (clamped) cutoff frequency in Hz.
func (s *Stage) Cutoff() float64 { return s.cutoff }

// Q returns the effective (clamped) resonance.
func (s *Stage) Q() float64 { return s.q }
