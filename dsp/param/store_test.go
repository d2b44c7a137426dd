package param

import (
	"math"
	"sync"
	"testing"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore()
	want := Snapshot{CutoffHz: 1000, ResonanceQ: 0.707}
	if got := s.Snapshot(); got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestStoreSet(t *testing.T) {
	s := NewStore()

	s.Set(Cutoff, 5000)
	s.Set(Resonance, 99)
	s.Set(Gain, -100)
	s.Set(Slope, 2)
	s.Set(FilterType, 7)

	want := Snapshot{CutoffHz: 5000, ResonanceQ: 5, GainDB: -24, SlopeIndex: 2, FilterTypeIndex: 0}
	if got := s.Snapshot(); got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}

	s.Set(Cutoff, math.NaN())
	s.Set(Gain, math.Inf(1))
	s.Set(ID(42), 1)
	if s.Get(Cutoff) != 5000 || s.Get(Gain) != -24 {
		t.Fatal("non-finite write changed the store")
	}
	if s.Get(ID(42)) != 0 || s.GetNormalized(ID(-1)) != 0 {
		t.Fatal("unknown ID returned a value")
	}
}

func TestStoreNormalized(t *testing.T) {
	s := NewStore()
	s.SetNormalized(Cutoff, 1)
	if s.Get(Cutoff) != 20000 {
		t.Fatalf("cutoff = %v, want 20000", s.Get(Cutoff))
	}

	s.SetNormalized(Gain, 0.5)
	if math.Abs(s.Get(Gain)-(-6)) > 1e-12 {
		t.Fatalf("gain = %v, want -6", s.Get(Gain))
	}
	if math.Abs(s.GetNormalized(Gain)-0.5) > 1e-12 {
		t.Fatalf("GetNormalized(gain) = %v", s.GetNormalized(Gain))
	}

	s.SetNormalized(Slope, 0.9)
	if s.Snapshot().SlopeIndex != 2 {
		t.Fatalf("slope index = %d, want 2", s.Snapshot().SlopeIndex)
	}

	s.SetNormalized(Gain, math.NaN())
	if math.Abs(s.Get(Gain)-(-6)) > 1e-12 {
		t.Fatal("NaN normalized write changed the store")
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.Set(Cutoff, 300)
	s.Reset()
	if s.Get(Cutoff) != 1000 {
		t.Fatalf("cutoff after Reset = %v", s.Get(Cutoff))
	}
}

func TestSnapshotDoesNotAllocate(t *testing.T) {
	s := NewStore()
	var snap Snapshot
	allocs := testing.AllocsPerRun(100, func() {
		snap = s.Snapshot()
	})
	if allocs != 0 {
		t.Fatalf("Snapshot allocates %v times", allocs)
	}
	_ = snap
}

func TestStoreConcurrentWriterReader(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 10000 {
			s.Set(Cutoff, float64(20+i%19980))
			s.SetNormalized(Gain, float64(i%100)/100)
		}
	}()

	for range 10000 {
		snap := s.Snapshot()
		if snap.CutoffHz < 20 || snap.CutoffHz > 20000 || snap.GainDB < -24 || snap.GainDB > 12 {
			t.Errorf("out-of-range snapshot %+v", snap)
			break
		}
	}
	wg.Wait()
}

func TestStoreConcurrentWritersLastWriteWins(t *testing.T) {
	s := NewStore()
	written := []float64{250, 500, 1000, 2000, 4000, 8000}

	var wg sync.WaitGroup
	for _, v := range written {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				s.Set(Cutoff, v)
			}
		}()
	}
	wg.Wait()

	got := s.Get(Cutoff)
	for _, v := range written {
		if got == v {
			return
		}
	}
	t.Fatalf("Get(Cutoff)=%v, want one of %v", got, written)
}
