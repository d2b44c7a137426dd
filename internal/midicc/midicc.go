// Package midicc maps MIDI control change messages onto filter parameters.
package midicc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/rtmididrv"

	"github.com/cwbudde/algo-slopefilter/dsp/param"
)

// ErrNoInput is returned by Listen when no MIDI input port matches.
var ErrNoInput = errors.New("midicc: no MIDI input found")

// Mapping assigns a controller number to a parameter.
type Mapping map[uint8]param.ID

// DefaultMapping uses the conventional sound controller numbers where one
// exists (74 brightness, 71 resonance, 7 volume).
func DefaultMapping() Mapping {
	return Mapping{
		74: param.Cutoff,
		71: param.Resonance,
		7:  param.Gain,
		75: param.Slope,
		76: param.FilterType,
	}
}

// Apply decodes msg and, if it is a control change on a mapped
// controller, writes value/127 as the normalized parameter value.
// Channel is ignored. It reports whether the store was written.
func Apply(store *param.Store, m Mapping, msg []byte) bool {
	if len(msg) < 3 || msg[0]&0xF0 != 0xB0 {
		return false
	}
	id, ok := m[msg[1]&0x7F]
	if !ok {
		return false
	}
	store.SetNormalized(id, float64(msg[2]&0x7F)/127)
	return true
}

// Listen opens the first MIDI input whose name contains port (any input
// when port is empty) and applies incoming control changes to store
// until ctx is done.
func Listen(ctx context.Context, store *param.Store, m Mapping, port string, logger logrus.FieldLogger) error {
	drv, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("midicc: init driver: %w", err)
	}
	defer func() {
		if err := drv.Close(); err != nil {
			logger.WithError(err).Warn("failed to close MIDI driver")
		}
	}()

	ins, err := drv.Ins()
	if err != nil {
		return fmt.Errorf("midicc: list inputs: %w", err)
	}
	logger.WithField("inputs", len(ins)).Debug("MIDI inputs enumerated")

	idx := -1
	for i, in := range ins {
		if port == "" || strings.Contains(in.String(), port) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNoInput
	}
	in := ins[idx]

	if err := in.Open(); err != nil {
		return fmt.Errorf("midicc: open %s: %w", in.String(), err)
	}
	defer func() {
		if err := in.Close(); err != nil {
			logger.WithError(err).Warn("failed to close MIDI input")
		}
	}()

	log := logger.WithField("port", in.String())
	if err := in.SetListener(func(data []byte, _ int64) {
		if Apply(store, m, data) {
			log.WithField("cc", data[1]).Debug("control change")
		}
	}); err != nil {
		return fmt.Errorf("midicc: listen: %w", err)
	}
	defer func() {
		if err := in.StopListening(); err != nil {
			log.WithError(err).Warn("failed to stop listening")
		}
	}()

	log.Info("listening for MIDI control changes")
	<-ctx.Done()
	return nil
}
