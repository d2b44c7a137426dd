package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestLinearPowerToDB(t *testing.T) {
	if db := LinearPowerToDB(2); !NearlyEqual(db, 3.0103, 1e-4) {
		t.Fatalf("LinearPowerToDB(2) = %v, want ~3.0103", db)
	}
	if db := LinearPowerToDB(0.01); !NearlyEqual(db, -20, 1e-10) {
		t.Fatalf("LinearPowerToDB(0.01) = %v, want -20", db)
	}

	if !math.IsInf(LinearPowerToDB(0), -1) {
		t.Fatal("expected -Inf for zero power")
	}
	if !math.IsNaN(LinearPowerToDB(-1)) {
		t.Fatal("expected NaN for negative power")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Fatal("expected 1.5 to be finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Fatal("expected NaN and Inf to be non-finite")
	}
}

func TestDBToGain(t *testing.T) {
	tests := []struct {
		db   float64
		want float64
	}{
		{db: 0, want: 1},
		{db: -6, want: 0.501187},
		{db: 12, want: 3.981072},
		{db: -24, want: 0.063096},
		{db: -100, want: 0},
		{db: math.Inf(-1), want: 0},
	}

	for _, tt := range tests {
		got := DBToGain(tt.db)
		if math.Abs(got-tt.want) > 1e-4 {
			t.Fatalf("DBToGain(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}

func TestDBToGainMatchesDBToLinear(t *testing.T) {
	for db := -24.0; db <= 12; db += 0.5 {
		if !NearlyEqual(DBToGain(db), DBToLinear(db), 1e-3) {
			t.Fatalf("DBToGain(%v) = %v, DBToLinear = %v", db, DBToGain(db), DBToLinear(db))
		}
	}
}
