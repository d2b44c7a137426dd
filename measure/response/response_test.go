package response

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-slopefilter/dsp/engine"
	"github.com/cwbudde/algo-slopefilter/dsp/filter/slope"
	"github.com/cwbudde/algo-slopefilter/dsp/filter/svf"
	"github.com/cwbudde/algo-slopefilter/dsp/param"
)

// gainProcessor scales every sample.
type gainProcessor float64

func (g gainProcessor) Process(buf [][]float64) {
	for _, ch := range buf {
		for i := range ch {
			ch[i] *= float64(g)
		}
	}
}

func newEngine(t *testing.T, cutoff float64, slopeIndex, filterType int) *engine.Processor {
	t.Helper()

	store := param.NewStore()
	store.Set(param.Cutoff, cutoff)
	store.Set(param.Slope, float64(slopeIndex))
	store.Set(param.FilterType, float64(filterType))

	p, err := engine.New(engine.WithStore(store))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Prepare(48000, 512, 1); err != nil {
		t.Fatal(err)
	}
	return p
}

func analyticDB(t *testing.T, cutoff, q float64, stages int, mode svf.Mode, freq float64) float64 {
	t.Helper()

	var c slope.Chain
	if err := c.Prepare(48000, 1); err != nil {
		t.Fatal(err)
	}
	c.SetParameters(cutoff, slope.DefaultResonanceScale.EffectiveQ(q, stages))
	return c.MagnitudeDB(freq, mode, stages)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"default", DefaultConfig(48000), nil},
		{"zero rate", Config{FFTSize: 1024, BlockSize: 64}, ErrInvalidSampleRate},
		{"odd fft", Config{SampleRate: 48000, FFTSize: 1000, BlockSize: 64}, ErrInvalidFFTSize},
		{"tiny fft", Config{SampleRate: 48000, FFTSize: 8, BlockSize: 64}, ErrInvalidFFTSize},
		{"zero block", Config{SampleRate: 48000, FFTSize: 1024}, ErrInvalidBlockSize},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestMeasureFlatGain(t *testing.T) {
	cfg := Config{SampleRate: 48000, FFTSize: 1024, BlockSize: 100}
	points, err := Measure(gainProcessor(0.5), cfg, []float64{100, 1000, 10000, 23000})
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	for _, p := range points {
		if math.Abs(p.MagnitudeDB-(-6.0206)) > 1e-3 {
			t.Errorf("%v Hz: %.4f dB, want -6.02", p.FreqHz, p.MagnitudeDB)
		}
	}
}

func TestMeasureErrors(t *testing.T) {
	cfg := DefaultConfig(48000)
	if _, err := Measure(gainProcessor(1), cfg, nil); !errors.Is(err, ErrNoFrequencies) {
		t.Fatalf("err = %v, want ErrNoFrequencies", err)
	}
	for _, f := range []float64{0, -5, 24000, math.NaN()} {
		if _, err := Measure(gainProcessor(1), cfg, []float64{f}); !errors.Is(err, ErrInvalidFrequency) {
			t.Fatalf("freq %v: err = %v, want ErrInvalidFrequency", f, err)
		}
	}
	if _, err := Measure(gainProcessor(1), Config{}, []float64{100}); err == nil {
		t.Fatal("expected config error")
	}
}

func TestMeasureEngineMatchesAnalytic(t *testing.T) {
	tests := []struct {
		name       string
		slopeIndex int
		stages     int
		mode       svf.Mode
	}{
		{"low-pass 1 stage", 0, 1, svf.ModeLowPass},
		{"low-pass 2 stages", 1, 2, svf.ModeLowPass},
		{"high-pass 4 stages", 2, 4, svf.ModeHighPass},
		{"band-pass 2 stages", 1, 2, svf.ModeBandPass},
	}

	freqs := []float64{250, 500, 1000, 2000, 4000}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newEngine(t, 1000, tt.slopeIndex, int(tt.mode))
			points, err := Measure(p, DefaultConfig(48000), freqs)
			if err != nil {
				t.Fatal(err)
			}
			for _, pt := range points {
				want := analyticDB(t, 1000, 0.707, tt.stages, tt.mode, pt.FreqHz)
				if want < -60 {
					continue
				}
				if math.Abs(pt.MagnitudeDB-want) > 0.25 {
					t.Errorf("%v Hz: measured %.3f dB, analytic %.3f dB", pt.FreqHz, pt.MagnitudeDB, want)
				}
			}
		})
	}
}

func TestSineGainDB(t *testing.T) {
	got, err := SineGainDB(gainProcessor(2), 48000, 1000, 256)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-6.0206) > 1e-3 {
		t.Fatalf("SineGainDB = %v, want 6.02", got)
	}

	p := newEngine(t, 1000, 1, 0)
	got, err = SineGainDB(p, 48000, 2000, 512)
	if err != nil {
		t.Fatal(err)
	}
	want := analyticDB(t, 1000, 0.707, 2, svf.ModeLowPass, 2000)
	if math.Abs(got-want) > 0.05 {
		t.Fatalf("engine 2 kHz: %.3f dB, analytic %.3f dB", got, want)
	}

	if _, err := SineGainDB(p, 0, 1000, 512); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("err = %v", err)
	}
	if _, err := SineGainDB(p, 48000, 30000, 512); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("err = %v", err)
	}
	if _, err := SineGainDB(p, 48000, 1000, 0); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("err = %v", err)
	}
}

func TestSpectrumOfImpulse(t *testing.T) {
	x := make([]float64, 64)
	x[0] = 1
	mag, err := Spectrum(x)
	if err != nil {
		t.Fatal(err)
	}
	if len(mag) != 33 {
		t.Fatalf("len = %d, want 33", len(mag))
	}
	for k, m := range mag {
		if math.Abs(m-1) > 1e-12 {
			t.Fatalf("bin %d = %v, want 1", k, m)
		}
	}
}
