package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-slopefilter/dsp/engine"
	"github.com/cwbudde/algo-slopefilter/dsp/filter/slope"
	"github.com/cwbudde/algo-slopefilter/dsp/filter/svf"
	"github.com/cwbudde/algo-slopefilter/measure/response"
)

func runResponse(args []string, stdout io.Writer, log *logrus.Logger) error {
	fs := flag.NewFlagSet("response", flag.ContinueOnError)
	rate := fs.Float64("rate", 48000, "sample rate in Hz")
	fftSize := fs.Int("fft", 8192, "impulse response length (power of two)")
	points := fs.Int("points", 31, "number of log-spaced frequencies from 20 Hz to 20 kHz")
	freqList := fs.String("freqs", "", "comma-separated frequencies in Hz (overrides -points)")
	statePath := fs.String("state", "", "load parameters from a saved state file")
	var set settings
	fs.Var(&set, "set", "override a parameter, e.g. slope=2 (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := buildStore(*statePath, set)
	if err != nil {
		return err
	}

	freqs, err := responseFreqs(*freqList, *points, *rate)
	if err != nil {
		return err
	}

	proc, err := engine.New(engine.WithStore(store), engine.WithLogger(log))
	if err != nil {
		return err
	}
	cfg := response.DefaultConfig(*rate)
	cfg.FFTSize = *fftSize
	if err := proc.Prepare(*rate, cfg.BlockSize, 1); err != nil {
		return err
	}
	defer proc.Release()

	measured, err := response.Measure(proc, cfg, freqs)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	stages := slope.StageCount(snap.SlopeIndex)
	mode := svf.ModeFromIndex(snap.FilterTypeIndex)

	var chain slope.Chain
	if err := chain.Prepare(*rate, 1); err != nil {
		return err
	}
	chain.SetParameters(snap.CutoffHz, slope.DefaultResonanceScale.EffectiveQ(snap.ResonanceQ, stages))

	fmt.Fprintf(stdout, "%s\n\n", describe(store))

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Freq [Hz]\tMeasured [dB]\tAnalytic [dB]\tDiff [dB]\t\n")
	for _, pt := range measured {
		want := chain.MagnitudeDB(pt.FreqHz, mode, stages) + snap.GainDB
		fmt.Fprintf(tw, "%.1f\t%.2f\t%.2f\t%+.2f\t\n", pt.FreqHz, pt.MagnitudeDB, want, pt.MagnitudeDB-want)
	}
	return tw.Flush()
}

func responseFreqs(list string, points int, rate float64) ([]float64, error) {
	if list != "" {
		var freqs []float64
		for _, field := range strings.Split(list, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("bad frequency %q: %w", field, err)
			}
			freqs = append(freqs, f)
		}
		return freqs, nil
	}

	if points < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", points)
	}
	hi := math.Min(20000, 0.45*rate)
	lo := 20.0
	freqs := make([]float64, points)
	for i := range freqs {
		freqs[i] = lo * math.Pow(hi/lo, float64(i)/float64(points-1))
	}
	return freqs, nil
}
