package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-slopefilter/dsp/filter/slope"
	"github.com/cwbudde/algo-slopefilter/dsp/param"
)

// settings collects repeated -set key=value flags.
type settings []setting

type setting struct {
	id    param.ID
	value float64
}

func (s *settings) String() string {
	parts := make([]string, len(*s))
	for i, st := range *s {
		parts[i] = st.id.Key() + "=" + st.id.Info().Format(st.value)
	}
	return strings.Join(parts, ",")
}

func (s *settings) Set(text string) error {
	key, value, ok := strings.Cut(text, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", text)
	}
	id, ok := param.Lookup(strings.TrimSpace(key))
	if !ok {
		return fmt.Errorf("unknown parameter %q", key)
	}
	v, err := id.Info().Parse(value)
	if err != nil {
		return err
	}
	*s = append(*s, setting{id: id, value: v})
	return nil
}

// buildStore loads statePath (if set) and then applies the explicit
// settings on top.
func buildStore(statePath string, set settings) (*param.Store, error) {
	store := param.NewStore()
	if statePath != "" {
		data, err := os.ReadFile(statePath)
		if err != nil {
			return nil, err
		}
		var st param.State
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("read state %s: %w", statePath, err)
		}
		if err := store.Restore(st); err != nil {
			return nil, err
		}
	}
	for _, s := range set {
		store.Set(s.id, s.value)
	}
	return store, nil
}

func saveState(path string, store *param.Store) error {
	data, err := json.MarshalIndent(store.State(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// describe renders the store as a one-line summary.
func describe(store *param.Store) string {
	parts := make([]string, 0, param.NumParams)
	for _, info := range param.All() {
		parts = append(parts, info.Key+"="+info.Format(store.Get(info.ID)))
	}
	return strings.Join(parts, " ")
}

func slopeLabel(index int) string { return slope.FromIndex(index).String() }
