package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
	"github.com/cwbudde/algo-slopefilter/dsp/engine"
	"github.com/cwbudde/algo-slopefilter/internal/automation"
)

type renderOptions struct {
	rate     float64
	channels int
	block    int
	report   time.Duration
	script   string
	out      string
	save     string
}

func runRender(args []string, stdout io.Writer, log *logrus.Logger) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var src sourceFlags
	src.register(fs, 2*time.Second)
	var opts renderOptions
	fs.Float64Var(&opts.rate, "rate", 48000, "sample rate in Hz")
	fs.IntVar(&opts.channels, "channels", 2, "channel count")
	fs.IntVar(&opts.block, "block", 256, "processing block size")
	fs.DurationVar(&opts.report, "report", 250*time.Millisecond, "level report interval")
	fs.StringVar(&opts.script, "script", "", "Lua automation script defining automate(t)")
	fs.StringVar(&opts.out, "out", "", "write interleaved float32 little-endian output to this file")
	fs.StringVar(&opts.save, "save", "", "write the final parameter state to this file")
	statePath := fs.String("state", "", "load parameters from a saved state file")
	var set settings
	fs.Var(&set, "set", "override a parameter, e.g. cutoff=2000 (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := buildStore(*statePath, set)
	if err != nil {
		return err
	}

	input, err := src.generate(opts.rate)
	if err != nil {
		return err
	}

	var script *automation.Script
	if opts.script != "" {
		script, err = automation.LoadFile(opts.script)
		if err != nil {
			return err
		}
		defer script.Close()
	}

	proc, err := engine.New(engine.WithStore(store), engine.WithLogger(log))
	if err != nil {
		return err
	}
	if err := proc.Prepare(opts.rate, opts.block, opts.channels); err != nil {
		return err
	}
	defer proc.Release()

	output, err := render(proc, script, input, opts, stdout)
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := writeFloat32(opts.out, output, opts.channels); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"file":     opts.out,
			"frames":   len(input),
			"channels": opts.channels,
		}).Info("output written")
	}

	if opts.save != "" {
		return saveState(opts.save, store)
	}
	return nil
}

// render runs input through proc block by block, copying it to every
// channel, and prints one level row per report interval.
func render(proc *engine.Processor, script *automation.Script, input []float64, opts renderOptions, stdout io.Writer) ([][]float64, error) {
	output := make([][]float64, opts.channels)
	for ch := range output {
		output[ch] = make([]float64, len(input))
		core.CopyInto(output[ch], input)
	}

	reportEvery := max(1, int(opts.report.Seconds()*opts.rate))
	store := proc.Store()

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Time [s]\tCutoff\tSlope\tIn Peak [dB]\tOut Peak [dB]\tOut RMS [dB]\tGR [dB]\t\n")

	views := make([][]float64, opts.channels)
	var inPeak, outPeak, reduction, sumSq float64
	var count, rowStart int
	for start := 0; start < len(input); start += opts.block {
		end := min(start+opts.block, len(input))
		if script != nil {
			if err := script.Apply(store, float64(start)/opts.rate); err != nil {
				return nil, err
			}
		}

		for ch := range views {
			views[ch] = output[ch][start:end]
		}
		proc.Process(views)

		m := proc.Meter()
		inPeak = math.Max(inPeak, m.InputPeak)
		outPeak = math.Max(outPeak, m.OutputPeak)
		reduction = math.Max(reduction, m.GainReductionDB)
		for _, y := range views[0] {
			sumSq += y * y
		}
		count += end - start

		if count >= reportEvery || end == len(input) {
			snap := store.Snapshot()
			fmt.Fprintf(tw, "%.3f\t%.0f Hz\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
				float64(rowStart)/opts.rate,
				snap.CutoffHz,
				slopeLabel(snap.SlopeIndex),
				core.LinearToDB(inPeak),
				core.LinearToDB(outPeak),
				core.LinearToDB(math.Sqrt(sumSq/float64(count))),
				reduction,
			)
			inPeak, outPeak, reduction, sumSq, count = 0, 0, 0, 0, 0
			rowStart = end
		}
	}

	return output, tw.Flush()
}

// writeFloat32 stores planar data as interleaved float32 LE frames.
func writeFloat32(path string, planar [][]float64, channels int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	var sample [4]byte
	for i := range planar[0] {
		for ch := range channels {
			binary.LittleEndian.PutUint32(sample[:], math.Float32bits(float32(planar[ch][i])))
			if _, err := w.Write(sample[:]); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
