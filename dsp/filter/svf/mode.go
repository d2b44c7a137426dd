package svf

// Mode selects the filter output of a [Stage].
type Mode int

const (
	// ModeLowPass passes content below the cutoff.
	ModeLowPass Mode = iota
	// ModeHighPass passes content above the cutoff.
	ModeHighPass
	// ModeBandPass passes content around the cutoff. Its peak gain equals Q.
	ModeBandPass
)

// NumModes is the number of defined modes.
const NumModes = 3

// ModeFromIndex maps a choice index to a Mode. Unknown indices map to
// ModeLowPass.
func ModeFromIndex(i int) Mode {
	if i < 0 || i >= NumModes {
		return ModeLowPass
	}

	return Mode(i)
}

// String returns a short display name.
func (m Mode) String() string {
	switch m {
	case ModeLowPass:
		return "Low-pass"
	case ModeHighPass:
		return "High-pass"
	case ModeBandPass:
		return "Band-pass"
	default:
		return "Unknown"
	}
}
