package main

import (
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-slopefilter/dsp/engine"
)

// stream is the io.Reader handed to the audio player. Each Read takes the
// next frames of a looped mono source, copies them to every channel and
// filters them in place. It runs on the player goroutine only; parameter
// changes reach it through the engine's store.
type stream struct {
	proc     *engine.Processor
	source   []float64
	pos      int
	channels int
	buf      []float32
}

const bytesPerSample = 4

func newStream(proc *engine.Processor, source []float64, channels int) *stream {
	return &stream{
		proc:     proc,
		source:   source,
		channels: channels,
		buf:      make([]float32, 4096*channels),
	}
}

// Read fills p with whole float32 LE frames. A trailing partial frame is
// zero-filled so the player always gets len(p) bytes.
func (s *stream) Read(p []byte) (int, error) {
	frames := len(p) / (bytesPerSample * s.channels)
	samples := frames * s.channels
	if cap(s.buf) < samples {
		s.buf = make([]float32, samples)
	}
	buf := s.buf[:samples]

	for i := range frames {
		x := float32(s.source[s.pos])
		s.pos++
		if s.pos == len(s.source) {
			s.pos = 0
		}
		for ch := range s.channels {
			buf[i*s.channels+ch] = x
		}
	}

	if frames > 0 {
		s.proc.ProcessInterleaved32(buf, s.channels)
	}

	for i, y := range buf {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(y))
	}
	clear(p[samples*bytesPerSample:])

	return len(p), nil
}
