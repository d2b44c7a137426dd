package slope

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-slopefilter/dsp/filter/svf"
)

// MaxStages is the size of the fixed stage pool.
const MaxStages = 4

// Chain is a fixed pool of MaxStages identically tuned stages.
type Chain struct {
	stages [MaxStages]svf.Stage
}

// Prepare prepares every stage for sampleRate and channels.
func (c *Chain) Prepare(sampleRate float64, channels int) error {
	for i := range c.stages {
		if err := c.stages[i].Prepare(sampleRate, channels); err != nil {
			return fmt.Errorf("slope: stage %d: %w", i, err)
		}
	}

	return nil
}

// Reset clears the state of every stage.
func (c *Chain) Reset() {
	for i := range c.stages {
		c.stages[i].Reset()
	}
}

// SetParameters tunes all stages, active or not, to the same cutoff and Q.
func (c *Chain) SetParameters(cutoffHz, q float64) {
	for i := range c.stages {
		c.stages[i].SetParameters(cutoffHz, q)
	}
}

// ProcessStages runs x through the first active stages on channel ch.
// Stages beyond active are not touched.
func (c *Chain) ProcessStages(ch int, x float64, mode svf.Mode, active int) float64 {
	active = min(max(active, 0), MaxStages)
	for i := range active {
		x = c.stages[i].ProcessSample(ch, x, mode)
	}

	return x
}

// ProcessSample filters one sample on channel ch according to tr. Outside
// a transition only the tr.Next configuration runs. During a transition
// the tr.Prev configuration runs first and tr.Next second, both on the
// same stages, and the outputs are blended by tr.Weight.
//
// The shared stages advance twice per sample while a transition is
// active; the second advance lands on the tr.Next output, which starts
// the transition at weight 0.
func (c *Chain) ProcessSample(ch int, x float64, mode svf.Mode, tr Transition) float64 {
	if !tr.Active() {
		return c.ProcessStages(ch, x, mode, StageCount(tr.Next))
	}

	prev := c.ProcessStages(ch, x, mode, StageCount(tr.Prev))
	next := c.ProcessStages(ch, x, mode, StageCount(tr.Next))

	return Blend(prev, next, tr.Weight)
}

// Stage returns stage i of the pool.
func (c *Chain) Stage(i int) *svf.Stage { return &c.stages[i] }

// Response returns the analytic response of the first stages stages for
// mode at freqHz.
func (c *Chain) Response(freqHz float64, mode svf.Mode, stages int) complex128 {
	stages = min(max(stages, 0), MaxStages)

	h := complex(1, 0)
	for i := range stages {
		coeffs := c.stages[i].Coefficients(mode)
		h *= coeffs.Response(freqHz, c.stages[i].SampleRate())
	}

	return h
}

// MagnitudeDB returns the analytic cascade magnitude in dB.
func (c *Chain) MagnitudeDB(freqHz float64, mode svf.Mode, stages int) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, mode, stages)))
}
