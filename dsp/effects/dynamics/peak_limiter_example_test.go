package dynamics_test

import (
	"fmt"

	"github.com/cwbudde/algo-slopefilter/dsp/effects/dynamics"
)

func ExamplePeakLimiter() {
	l, err := dynamics.NewPeakLimiter(48000)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.4f\n", l.ProcessSample(0, 10))
	fmt.Printf("%.4f\n", l.ProcessSample(0, 0.25))
	fmt.Printf("%.1f dB\n", l.TakePeakReductionDB())

	// Output:
	// 0.9886
	// 0.0248
	// 20.1 dB
}
