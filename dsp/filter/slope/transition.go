package slope

import "math"

// Transition describes which slope configurations contribute to the
// current sample and how they are weighted.
type Transition struct {
	// Prev is the lower slope index, Next the upper one.
	Prev, Next int
	// Weight is the contribution of Next, in [0, 1).
	Weight float64
}

// Resolve converts a smoothed slope value into a Transition. An integral
// value resolves to a single configuration with weight 0. A fractional
// value s resolves to floor(s) and ceil(s) with weight s-floor(s). Values
// are clamped to [0, NumSlopes-1]; NaN resolves to 0.
func Resolve(smoothed float64) Transition {
	if !(smoothed > 0) {
		return Transition{}
	}

	if smoothed >= NumSlopes-1 {
		return Transition{Prev: NumSlopes - 1, Next: NumSlopes - 1}
	}

	lo := math.Floor(smoothed)
	if lo == smoothed {
		i := int(lo)
		return Transition{Prev: i, Next: i}
	}

	return Transition{
		Prev:   int(lo),
		Next:   int(lo) + 1,
		Weight: smoothed - lo,
	}
}

// Active reports whether two configurations must be evaluated.
func (t Transition) Active() bool {
	return t.Weight > 0 && t.Prev != t.Next
}

// Blend crossfades linearly: prev*(1-weight) + next*weight.
func Blend(prev, next, weight float64) float64 {
	return prev*(1-weight) + next*weight
}
