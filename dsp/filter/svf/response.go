package svf

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
)

// Coefficients holds the transfer function of one stage output as a
// normalized biquad (a0 = 1):
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Coefficients returns the biquad equivalent of the stage for mode.
func (s *Stage) Coefficients(mode Mode) Coefficients {
	g, r2, h := s.g, s.r2, s.h
	c := Coefficients{
		A1: 2 * (g*g - 1) * h,
		A2: (1 - r2*g + g*g) * h,
	}

	switch mode {
	case ModeHighPass:
		c.B0, c.B1, c.B2 = h, -2*h, h
	case ModeBandPass:
		c.B0, c.B1, c.B2 = g*h, 0, -g*h
	default:
		gg := g * g * h
		c.B0, c.B1, c.B2 = gg, 2*gg, gg
	}

	return c
}

// Response computes the complex frequency response H(e^jw) at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w

	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression.
func (c Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw

	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return core.LinearPowerToDB(c.MagnitudeSquared(freqHz, sampleRate))
}

// MagnitudeDB returns the analytic magnitude of the stage output for mode
// at freqHz, in dB.
func (s *Stage) MagnitudeDB(freqHz float64, mode Mode) float64 {
	return s.Coefficients(mode).MagnitudeDB(freqHz, s.sampleRate)
}

// ImpulseResponse feeds a unit impulse through channel 0 and returns n
// output samples. The channel state is saved and restored.
func (s *Stage) ImpulseResponse(n int, mode Mode) []float64 {
	if n <= 0 {
		return nil
	}

	saved := s.State(0)
	s.SetState(0, [2]float64{})

	ir := make([]float64, n)
	ir[0] = s.ProcessSample(0, 1, mode)
	for i := 1; i < n; i++ {
		ir[i] = s.ProcessSample(0, 0, mode)
	}

	s.SetState(0, saved)

	return ir
}
