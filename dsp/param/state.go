package param

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// StateVersion is written into encoded state.
const StateVersion = 1

var (
	// ErrNonFinite is returned when a value is NaN or infinite.
	ErrNonFinite = errors.New("param: non-finite value")
	// ErrUnsupportedVersion is returned when decoding state written by a
	// newer format.
	ErrUnsupportedVersion = errors.New("param: unsupported state version")
)

// State is the persisted form of a store: parameter key to plain value.
type State map[string]float64

type encodedState struct {
	Version    int                `json:"version"`
	Parameters map[string]float64 `json:"parameters"`
}

// State captures the current value of every parameter.
func (s *Store) State() State {
	st := make(State, NumParams)
	for i := range infos {
		st[infos[i].Key] = s.Get(ID(i))
	}
	return st
}

// Restore writes the values in st into the store. Unknown keys are
// ignored and missing keys keep their current value. If any known value
// is non-finite nothing is written.
func (s *Store) Restore(st State) error {
	for key, v := range st {
		if _, ok := Lookup(key); !ok {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("param: restore %s: %w", key, ErrNonFinite)
		}
	}

	for key, v := range st {
		if id, ok := Lookup(key); ok {
			s.Set(id, v)
		}
	}
	return nil
}

// MarshalJSON encodes st with a format version. Keys are sorted.
func (st State) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodedState{
		Version:    StateVersion,
		Parameters: map[string]float64(st),
	})
}

// UnmarshalJSON decodes state written by MarshalJSON.
func (st *State) UnmarshalJSON(data []byte) error {
	var enc encodedState
	if err := json.Unmarshal(data, &enc); err != nil {
		return fmt.Errorf("param: decode state: %w", err)
	}
	if enc.Version < 1 || enc.Version > StateVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, enc.Version)
	}

	out := make(State, len(enc.Parameters))
	for k, v := range enc.Parameters {
		out[k] = v
	}
	*st = out
	return nil
}
