package param

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestStateSaveMutateRestore(t *testing.T) {
	s := NewStore()
	s.Set(Cutoff, 2000)
	s.Set(Resonance, 1.5)
	s.Set(Gain, -6)
	s.Set(Slope, 1)
	s.Set(FilterType, 2)
	saved := s.State()
	want := s.Snapshot()

	s.Set(Cutoff, 500)
	s.Set(Resonance, 0.5)
	s.Set(Gain, 3)
	s.Set(Slope, 0)
	s.Set(FilterType, 0)

	if err := s.Restore(saved); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := s.Snapshot(); got != want {
		t.Fatalf("after restore %+v, want %+v", got, want)
	}
}

func TestRestorePartialAndUnknown(t *testing.T) {
	s := NewStore()
	s.Set(Gain, -3)

	if err := s.Restore(State{"cutoff": 800, "drive": 11}); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if s.Get(Cutoff) != 800 || s.Get(Gain) != -3 {
		t.Fatalf("cutoff=%v gain=%v", s.Get(Cutoff), s.Get(Gain))
	}
}

func TestRestoreRejectsNonFinite(t *testing.T) {
	s := NewStore()
	err := s.Restore(State{"cutoff": 800, "gain": math.NaN()})
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("err = %v, want ErrNonFinite", err)
	}
	if s.Get(Cutoff) != 1000 {
		t.Fatal("partial restore applied")
	}
	if err := s.Restore(State{"drive": math.Inf(1)}); err != nil {
		t.Fatalf("unknown non-finite key rejected: %v", err)
	}
}

func TestStateJSON(t *testing.T) {
	s := NewStore()
	s.Set(Cutoff, 1234)
	s.Set(FilterType, 1)

	data, err := json.Marshal(s.State())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, `{"version":1,"parameters":{"cutoff":1234,"filterType":1,`) {
		t.Fatalf("unexpected encoding %s", text)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	other := NewStore()
	if err := other.Restore(st); err != nil {
		t.Fatal(err)
	}
	if other.Snapshot() != s.Snapshot() {
		t.Fatalf("decoded %+v, want %+v", other.Snapshot(), s.Snapshot())
	}
}

func TestStateJSONVersion(t *testing.T) {
	var st State
	err := json.Unmarshal([]byte(`{"version":2,"parameters":{}}`), &st)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v, want ErrUnsupportedVersion", err)
	}
	if err := json.Unmarshal([]byte(`[1,2]`), &st); err == nil {
		t.Fatal("expected decode error")
	}
}
