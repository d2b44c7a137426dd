package smooth

import "math"

// Value is a linear parameter smoother.
//
// The zero value is usable and snaps to every new target immediately.
type Value struct {
	current float64
	target  float64
	step    float64

	stepsToTarget int
	countdown     int
}

// New returns a Value reset with the given sample rate, ramp length and
// initial value.
func New(sampleRate, rampSeconds, initial float64) *Value {
	v := &Value{}
	v.Reset(sampleRate, rampSeconds, initial)

	return v
}

// Reset sets current and target to initial and derives the ramp length in
// samples from sampleRate and rampSeconds. A non-positive or non-finite
// rate or ramp time selects snap mode: targets are applied immediately.
func (v *Value) Reset(sampleRate, rampSeconds, initial float64) {
	v.stepsToTarget = rampSamples(sampleRate, rampSeconds)
	v.SetCurrentAndTarget(initial)
}

// SetCurrentAndTarget jumps to value without ramping.
func (v *Value) SetCurrentAndTarget(value float64) {
	v.current = value
	v.target = value
	v.step = 0
	v.countdown = 0
}

// SetTarget starts a ramp from the current value toward target. Writing
// the target that is already pending leaves the running ramp untouched.
func (v *Value) SetTarget(target float64) {
	if target == v.target {
		return
	}

	if v.stepsToTarget <= 0 {
		v.SetCurrentAndTarget(target)
		return
	}

	v.target = target
	v.countdown = v.stepsToTarget
	v.step = (v.target - v.current) / float64(v.countdown)
}

// Next advances the ramp by one sample and returns the new current value.
// Once the target is reached it is held exactly.
func (v *Value) Next() float64 {
	if v.countdown <= 0 {
		return v.target
	}

	v.countdown--
	if v.countdown > 0 {
		v.current += v.step
	} else {
		v.current = v.target
	}

	return v.current
}

// Skip advances the ramp by n samples at once and returns the new current
// value.
func (v *Value) Skip(n int) float64 {
	if n <= 0 {
		return v.current
	}

	if n >= v.countdown {
		v.current = v.target
		v.countdown = 0

		return v.current
	}

	v.current += v.step * float64(n)
	v.countdown -= n

	return v.current
}

// Current returns the current value without advancing.
func (v *Value) Current() float64 { return v.current }

// Target returns the value the ramp is heading for.
func (v *Value) Target() float64 { return v.target }

// IsSmoothing reports whether a ramp is in progress.
func (v *Value) IsSmoothing() bool { return v.countdown > 0 }

// RampSamples returns the ramp length in samples (0 in snap mode).
func (v *Value) RampSamples() int { return v.stepsToTarget }

func rampSamples(sampleRate, rampSeconds float64) int {
	if !(sampleRate > 0) || !(rampSeconds > 0) ||
		math.IsInf(sampleRate, 0) || math.IsInf(rampSeconds, 0) {
		return 0
	}

	return int(math.Floor(rampSeconds * sampleRate))
}
