package slope

// Slope is the user-facing roll-off choice.
type Slope int

const (
	Slope6dB Slope = iota
	Slope12dB
	Slope24dB
)

// NumSlopes is the number of slope choices.
const NumSlopes = 3

// FromIndex maps a choice index to a Slope. Out-of-range indices map to
// Slope6dB.
func FromIndex(i int) Slope {
	if i < 0 || i >= NumSlopes {
		return Slope6dB
	}

	return Slope(i)
}

// String returns the display label of s.
func (s Slope) String() string {
	switch s {
	case Slope6dB:
		return "6 dB/oct"
	case Slope12dB:
		return "12 dB/oct"
	case Slope24dB:
		return "24 dB/oct"
	default:
		return "unknown"
	}
}

// DBPerOctave returns the nominal roll-off of s.
func (s Slope) DBPerOctave() float64 {
	switch s {
	case Slope12dB:
		return 12
	case Slope24dB:
		return 24
	default:
		return 6
	}
}

// Stages returns the number of cascaded stages used for s.
func (s Slope) Stages() int { return StageCount(int(s)) }

// StageCount maps a slope index to the number of active stages:
// 0 -> 1, 1 -> 2, 2 -> 4. Anything else maps to 1.
func StageCount(index int) int {
	switch index {
	case 1:
		return 2
	case 2:
		return 4
	default:
		return 1
	}
}

// ResonanceScale holds the factors applied to the user Q when two or four
// stages are cascaded, so the peak at the cutoff does not stack up.
//
// The default factors are empirical, not a Butterworth or Linkwitz-Riley
// pole placement.
type ResonanceScale struct {
	Two  float64
	Four float64
}

// DefaultResonanceScale is 0.707/0.707 for two stages and 0.54/0.707 for
// four stages.
var DefaultResonanceScale = ResonanceScale{
	Two:  0.707 / 0.707,
	Four: 0.54 / 0.707,
}

// EffectiveQ returns the per-stage Q for a cascade of the given number of
// stages.
func (r ResonanceScale) EffectiveQ(q float64, stages int) float64 {
	switch stages {
	case 2:
		return q * r.Two
	case 4:
		return q * r.Four
	default:
		return q
	}
}
