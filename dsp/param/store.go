package param

import (
	"math"
	"sync/atomic"
)

// Store holds the current plain value of every parameter.
//
// Every value is read and written atomically, so any number of
// goroutines may call Set, SetNormalized, Reset and Restore while the
// audio goroutine reads with Get or Snapshot. Concurrent writers to the
// same parameter race last-write-wins, and a Snapshot may combine values
// from different writes.
type Store struct {
	values [NumParams]atomic.Uint64
}

// NewStore returns a store holding the default values.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset restores every parameter to its default.
func (s *Store) Reset() {
	for i := range infos {
		s.values[i].Store(math.Float64bits(infos[i].Default))
	}
}

// Set writes a plain value. The value is clamped to the parameter range;
// non-finite values and unknown IDs are ignored.
func (s *Store) Set(id ID, plain float64) {
	if !id.Valid() || math.IsNaN(plain) || math.IsInf(plain, 0) {
		return
	}
	s.values[id].Store(math.Float64bits(infos[id].Clamp(plain)))
}

// SetNormalized writes a value given in [0, 1].
func (s *Store) SetNormalized(id ID, norm float64) {
	if !id.Valid() || math.IsNaN(norm) {
		return
	}
	s.Set(id, infos[id].Denormalize(norm))
}

// Get returns the plain value of id (0 for an unknown ID).
func (s *Store) Get(id ID) float64 {
	if !id.Valid() {
		return 0
	}
	return math.Float64frombits(s.values[id].Load())
}

// GetNormalized returns the value of id mapped to [0, 1].
func (s *Store) GetNormalized(id ID) float64 {
	if !id.Valid() {
		return 0
	}
	return infos[id].Normalize(s.Get(id))
}

// Snapshot is a consistent-per-field copy of the store, read once per
// block by the audio thread.
type Snapshot struct {
	CutoffHz        float64
	ResonanceQ      float64
	GainDB          float64
	SlopeIndex      int
	FilterTypeIndex int
}

// Snapshot reads every parameter. It does not allocate.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		CutoffHz:        s.Get(Cutoff),
		ResonanceQ:      s.Get(Resonance),
		GainDB:          s.Get(Gain),
		SlopeIndex:      choiceIndex(s.Get(Slope), len(infos[Slope].Choices)),
		FilterTypeIndex: choiceIndex(s.Get(FilterType), len(infos[FilterType].Choices)),
	}
}

// choiceIndex rounds v and maps anything outside [0, n) to 0.
func choiceIndex(v float64, n int) int {
	i := int(math.Round(v))
	if i < 0 || i >= n {
		return 0
	}
	return i
}
