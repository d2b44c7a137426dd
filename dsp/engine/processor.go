package engine

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
	"github.com/cwbudde/algo-slopefilter/dsp/effects/dynamics"
	"github.com/cwbudde/algo-slopefilter/dsp/filter/slope"
	"github.com/cwbudde/algo-slopefilter/dsp/filter/svf"
	"github.com/cwbudde/algo-slopefilter/dsp/param"
	"github.com/cwbudde/algo-slopefilter/dsp/smooth"
	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

// MaxChannels is the largest channel count Prepare accepts.
const MaxChannels = core.MaxChannels

var (
	// ErrInvalidSampleRate is returned by Prepare for a non-positive or
	// non-finite sample rate.
	ErrInvalidSampleRate = errors.New("engine: sample rate must be > 0 and finite")
	// ErrInvalidBlockSize is returned by Prepare for a non-positive block size.
	ErrInvalidBlockSize = errors.New("engine: max block size must be > 0")
	// ErrInvalidChannels is returned by Prepare for a channel count outside
	// [1, MaxChannels].
	ErrInvalidChannels = errors.New("engine: invalid channel count")
)

// Meter holds levels measured over the most recent Process call.
type Meter struct {
	InputPeak       float64
	OutputPeak      float64
	GainReductionDB float64
}

// Processor is the slope filter block processor.
type Processor struct {
	cfg   config
	store *param.Store
	log   logrus.FieldLogger

	state      State
	sampleRate float64
	maxBlock   int
	channels   int

	cutoff    smooth.Value
	resonance smooth.Value
	gain      smooth.Value
	slope     smooth.Value

	chain   slope.Chain
	limiter *dynamics.PeakLimiter

	gainCurve []float64
	scratch   [MaxChannels][]float64
	views     [MaxChannels][]float64

	inPeak  atomic.Uint64
	outPeak atomic.Uint64
	reduced atomic.Uint64
}

// New constructs an unprepared processor.
func New(opts ...Option) (*Processor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	store := cfg.store
	if store == nil {
		store = param.NewStore()
	}

	return &Processor{
		cfg:   cfg,
		store: store,
		log:   cfg.logger,
	}, nil
}

// Prepare readies the processor for blocks of up to maxBlockSize samples
// on numChannels channels at sampleRate. It may be called again at any
// time outside Process, including after Release. Smoothers start at the
// current store values, so the first block does not ramp.
//
// On error the processor keeps its previous state.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, numChannels int) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if maxBlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlockSize)
	}

	if numChannels < 1 || numChannels > MaxChannels {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidChannels, numChannels, MaxChannels)
	}

	limiter, err := dynamics.NewPeakLimiter(sampleRate)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if err := limiter.SetCeilingDB(p.cfg.ceilingDB); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if err := limiter.SetRelease(p.cfg.releaseMs); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if err := p.chain.Prepare(sampleRate, numChannels); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	p.limiter = limiter
	p.sampleRate = sampleRate
	p.maxBlock = maxBlockSize
	p.channels = numChannels

	snap := p.store.Snapshot()
	ramps := p.cfg.ramps
	p.cutoff.Reset(sampleRate, ramps.Cutoff.Seconds(), snap.CutoffHz)
	p.resonance.Reset(sampleRate, ramps.Resonance.Seconds(), snap.ResonanceQ)
	p.gain.Reset(sampleRate, ramps.Gain.Seconds(), snap.GainDB)
	p.slope.Reset(sampleRate, ramps.Slope.Seconds(), float64(snap.SlopeIndex))

	stages := slope.StageCount(snap.SlopeIndex)
	p.chain.SetParameters(snap.CutoffHz, p.cfg.resonance.EffectiveQ(snap.ResonanceQ, stages))

	p.gainCurve = core.EnsureLen(p.gainCurve, maxBlockSize)
	for ch := range p.scratch {
		p.views[ch] = nil
		if ch >= numChannels {
			p.scratch[ch] = nil
			continue
		}

		p.scratch[ch] = core.EnsureLen(p.scratch[ch], maxBlockSize)
		core.Zero(p.scratch[ch])
	}

	p.resetMeters()
	p.state = StatePrepared

	p.log.WithFields(logrus.Fields{
		"sample_rate": sampleRate,
		"max_block":   maxBlockSize,
		"channels":    numChannels,
		"slope":       slope.FromIndex(snap.SlopeIndex).String(),
		"filter_type": svf.ModeFromIndex(snap.FilterTypeIndex).String(),
	}).Info("engine prepared")

	return nil
}

// Process filters buf in place. buf is channel-major: buf[ch][i]. The
// number of samples is len(buf[0]) and every channel must be at least
// that long. Blocks longer than the prepared maximum are processed in
// chunks; parameters are still read only once.
//
// Process panics when called before Prepare, after Release, or with more
// channels than prepared.
func (p *Processor) Process(buf [][]float64) {
	if !p.state.canProcess() {
		panic("engine: Process called in state " + p.state.String())
	}

	if len(buf) > p.channels {
		panic(fmt.Sprintf("engine: Process got %d channels, prepared for %d", len(buf), p.channels))
	}

	if len(buf) == 0 {
		return
	}

	p.state = StateProcessing

	snap := p.store.Snapshot()
	p.cutoff.SetTarget(snap.CutoffHz)
	p.resonance.SetTarget(snap.ResonanceQ)
	p.gain.SetTarget(snap.GainDB)
	p.slope.SetTarget(float64(snap.SlopeIndex))
	mode := svf.ModeFromIndex(snap.FilterTypeIndex)

	n := len(buf[0])

	var inPeak, outPeak float64
	for start := 0; start < n; start += p.maxBlock {
		end := min(start+p.maxBlock, n)
		in, out := p.processChunk(buf, start, end, mode)
		inPeak = math.Max(inPeak, in)
		outPeak = math.Max(outPeak, out)
	}

	p.inPeak.Store(math.Float64bits(inPeak))
	p.outPeak.Store(math.Float64bits(outPeak))
	p.reduced.Store(math.Float64bits(p.limiter.TakePeakReductionDB()))
}

func (p *Processor) processChunk(buf [][]float64, start, end int, mode svf.Mode) (inPeak, outPeak float64) {
	curve := p.gainCurve[:end-start]
	resonance := p.cfg.resonance

	for i := range curve {
		cutoff := p.cutoff.Next()
		q := p.resonance.Next()
		gainDB := p.gain.Next()
		tr := slope.Resolve(p.slope.Next())

		p.chain.SetParameters(cutoff, resonance.EffectiveQ(q, slope.StageCount(tr.Next)))
		curve[i] = core.DBToGain(gainDB)

		for ch := range buf {
			x := buf[ch][start+i]
			if a := math.Abs(x); a > inPeak {
				inPeak = a
			}

			buf[ch][start+i] = p.chain.ProcessSample(ch, x, mode, tr)
		}
	}

	for ch := range buf {
		seg := buf[ch][start:end]
		vecmath.MulBlockInPlace(seg, curve)
		p.limiter.ProcessInPlace(ch, seg)

		for _, y := range seg {
			if a := math.Abs(y); a > outPeak {
				outPeak = a
			}
		}
	}

	return inPeak, outPeak
}

// ProcessInterleaved32 filters an interleaved float32 buffer in place, as
// delivered by audio devices. len(buf) should be a multiple of channels;
// trailing samples of an incomplete frame are left untouched.
func (p *Processor) ProcessInterleaved32(buf []float32, channels int) {
	if !p.state.canProcess() {
		panic("engine: ProcessInterleaved32 called in state " + p.state.String())
	}

	if channels <= 0 {
		return
	}

	if channels > p.channels {
		panic(fmt.Sprintf("engine: ProcessInterleaved32 got %d channels, prepared for %d", channels, p.channels))
	}

	frames := len(buf) / channels
	for start := 0; start < frames; start += p.maxBlock {
		m := min(p.maxBlock, frames-start)
		base := start * channels

		for ch := range channels {
			dst := p.scratch[ch][:m]
			for i := range dst {
				dst[i] = float64(buf[base+i*channels+ch])
			}
			p.views[ch] = dst
		}

		p.Process(p.views[:channels])

		for ch := range channels {
			for i, y := range p.views[ch] {
				buf[base+i*channels+ch] = float32(y)
			}
		}
	}
}

// Release stops processing and clears the signal state. Process panics
// until Prepare is called again.
func (p *Processor) Release() {
	if p.state == StateUninitialized || p.state == StateReleased {
		p.state = StateReleased
		return
	}

	p.chain.Reset()
	p.limiter.Reset()
	p.resetMeters()
	p.state = StateReleased

	p.log.Info("engine released")
}

func (p *Processor) resetMeters() {
	p.inPeak.Store(0)
	p.outPeak.Store(0)
	p.reduced.Store(0)
}

// State returns the lifecycle state.
func (p *Processor) State() State { return p.state }

// Store returns the parameter store the processor reads from.
func (p *Processor) Store() *param.Store { return p.store }

// Parameters returns the parameter metadata.
func (p *Processor) Parameters() []param.Info { return param.All() }

// SampleRate returns the prepared sample rate.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// MaxBlockSize returns the prepared maximum block size.
func (p *Processor) MaxBlockSize() int { return p.maxBlock }

// Channels returns the prepared channel count.
func (p *Processor) Channels() int { return p.channels }

// LatencySamples reports the processing latency, which is always 0.
func (p *Processor) LatencySamples() int { return 0 }

// TailSeconds reports how long the output keeps ringing after the input
// stops. The filter tail is not reported, matching the host contract of a
// zero-latency insert effect.
func (p *Processor) TailSeconds() float64 { return 0 }

// Meter returns the levels of the most recent Process call. It is safe to
// call from any goroutine.
func (p *Processor) Meter() Meter {
	return Meter{
		InputPeak:       math.Float64frombits(p.inPeak.Load()),
		OutputPeak:      math.Float64frombits(p.outPeak.Load()),
		GainReductionDB: math.Float64frombits(p.reduced.Load()),
	}
}

// RestoreState writes st into the parameter store. The smoothers ramp to
// the restored values on the next Process call.
func (p *Processor) RestoreState(st param.State) error {
	if err := p.store.Restore(st); err != nil {
		return err
	}

	p.log.WithField("params", len(st)).Debug("engine state restored")

	return nil
}

// SaveState captures the current parameter values.
func (p *Processor) SaveState() param.State { return p.store.State() }
