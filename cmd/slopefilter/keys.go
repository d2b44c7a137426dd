package main

import (
	"github.com/cwbudde/algo-slopefilter/dsp/param"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1B

	// normStep is the normalized change per key press for continuous
	// parameters.
	normStep = 0.02
)

const keyHelp = "c/C cutoff  r/R resonance  g/G gain  1-3 slope  l/h/b type  0 reset  q quit"

// handleKey applies one key press to store. It reports whether the key
// asks to quit and whether a parameter was written.
func handleKey(store *param.Store, key byte) (quit, changed bool) {
	nudge := func(id param.ID, dir float64) {
		store.SetNormalized(id, store.GetNormalized(id)+dir*normStep)
		changed = true
	}

	switch key {
	case 'q', 'Q', keyCtrlC, keyEsc:
		return true, false
	case 'c':
		nudge(param.Cutoff, -1)
	case 'C':
		nudge(param.Cutoff, 1)
	case 'r':
		nudge(param.Resonance, -1)
	case 'R':
		nudge(param.Resonance, 1)
	case 'g':
		store.Set(param.Gain, store.Get(param.Gain)-1)
		changed = true
	case 'G':
		store.Set(param.Gain, store.Get(param.Gain)+1)
		changed = true
	case '1', '2', '3':
		store.Set(param.Slope, float64(key-'1'))
		changed = true
	case 'l':
		store.Set(param.FilterType, 0)
		changed = true
	case 'h':
		store.Set(param.FilterType, 1)
		changed = true
	case 'b':
		store.Set(param.FilterType, 2)
		changed = true
	case '0':
		store.Reset()
		changed = true
	}
	return false, changed
}
