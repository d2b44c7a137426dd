package midicc

import (
	"testing"

	"github.com/cwbudde/algo-slopefilter/dsp/param"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		msg   []byte
		want  bool
		id    param.ID
		value float64
	}{
		{"gain max", []byte{0xB0, 7, 127}, true, param.Gain, 12},
		{"gain min on channel 16", []byte{0xBF, 7, 0}, true, param.Gain, -24},
		{"slope top", []byte{0xB3, 75, 127}, true, param.Slope, 2},
		{"filter type mid", []byte{0xB0, 76, 64}, true, param.FilterType, 1},
		{"unmapped cc", []byte{0xB0, 1, 100}, false, param.Gain, 0},
		{"note on", []byte{0x90, 7, 100}, false, param.Gain, 0},
		{"short", []byte{0xB0, 7}, false, param.Gain, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := param.NewStore()
			if got := Apply(store, DefaultMapping(), tt.msg); got != tt.want {
				t.Fatalf("Apply = %v, want %v", got, tt.want)
			}
			if got := store.Get(tt.id); got != tt.value {
				t.Errorf("%s = %v, want %v", tt.id, got, tt.value)
			}
		})
	}
}

func TestApplyCutoffIsSkewed(t *testing.T) {
	store := param.NewStore()
	Apply(store, DefaultMapping(), []byte{0xB0, 74, 64})

	got := store.Get(param.Cutoff)
	want := param.Cutoff.Info().Denormalize(64.0 / 127)
	if got != want {
		t.Fatalf("cutoff = %v, want %v", got, want)
	}
	if got < 20 || got > 20000 {
		t.Fatalf("cutoff %v out of range", got)
	}
}

func TestCustomMapping(t *testing.T) {
	store := param.NewStore()
	m := Mapping{1: param.Resonance}
	if !Apply(store, m, []byte{0xB0, 1, 127}) {
		t.Fatal("Apply returned false for mapped controller")
	}
	if got := store.Get(param.Resonance); got != 5 {
		t.Errorf("resonance = %v, want 5", got)
	}
	if Apply(store, m, []byte{0xB0, 74, 0}) {
		t.Error("Apply wrote an unmapped controller")
	}
}
