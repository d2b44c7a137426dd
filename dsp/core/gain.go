package core

// minGainDB is the level at and below which DBToGain returns silence.
const minGainDB = -100.0

// DBToGain converts a gain in dB to a linear factor for the audio path.
// Levels at or below -100 dB map to exactly 0. The exponential is
// evaluated by mathExp, which is swapped for a fast approximation when
// built with the fastmath tag.
func DBToGain(db float64) float64 {
	if db <= minGainDB || !IsFinite(db) {
		return 0
	}

	return mathExp(db * ln10Over20)
}

// ln10Over20 converts dB to the natural-log domain: 10^(db/20) = e^(db*ln10/20).
const ln10Over20 = 0.11512925464970228420089957273422
