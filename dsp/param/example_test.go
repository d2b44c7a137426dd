package param_test

import (
	"fmt"

	"github.com/cwbudde/algo-slopefilter/dsp/param"
)

func ExampleStore() {
	s := param.NewStore()
	s.Set(param.Cutoff, 2500)
	s.SetNormalized(param.Slope, 1)

	for _, p := range param.All() {
		fmt.Printf("%s: %s\n", p.Name, p.Format(s.Get(p.ID)))
	}

	// Output:
	// Cutoff: 2500 Hz
	// Resonance: 0.71 Q
	// Gain: 0.0 dB
	// Slope: 24 dB/oct
	// Filter Type: Low-pass
}
