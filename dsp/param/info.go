package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a parameter.
type ID int

const (
	Cutoff ID = iota
	Resonance
	Gain
	Slope
	FilterType
)

// NumParams is the number of parameters.
const NumParams = 5

// Info describes one parameter.
//
// Continuous parameters map plain values to the normalized range [0, 1]
// with norm = ((v-Min)/(Max-Min))^Skew. Choice parameters have Choices set
// and take integer plain values 0..len(Choices)-1.
type Info struct {
	ID       ID
	Key      string
	Name     string
	Unit     string
	Min      float64
	Max      float64
	Default  float64
	Interval float64
	Skew     float64
	Choices  []string
}

var infos = [NumParams]Info{
	{
		ID: Cutoff, Key: "cutoff", Name: "Cutoff", Unit: "Hz",
		Min: 20, Max: 20000, Default: 1000, Interval: 1, Skew: 0.3,
	},
	{
		ID: Resonance, Key: "resonance", Name: "Resonance", Unit: "Q",
		Min: 0.1, Max: 5, Default: 0.707, Interval: 0.01, Skew: 1,
	},
	{
		ID: Gain, Key: "gain", Name: "Gain", Unit: "dB",
		Min: -24, Max: 12, Default: 0, Interval: 0.1, Skew: 1,
	},
	{
		ID: Slope, Key: "slope", Name: "Slope",
		Min: 0, Max: 2, Default: 0, Interval: 1, Skew: 1,
		Choices: []string{"6 dB/oct", "12 dB/oct", "24 dB/oct"},
	},
	{
		ID: FilterType, Key: "filterType", Name: "Filter Type",
		Min: 0, Max: 2, Default: 0, Interval: 1, Skew: 1,
		Choices: []string{"Low-pass", "High-pass", "Band-pass"},
	},
}

// Valid reports whether id names a parameter.
func (id ID) Valid() bool { return id >= 0 && id < NumParams }

// Info returns the metadata of id. It panics for an invalid id.
func (id ID) Info() Info { return infos[id] }

// Key returns the persisted key of id, or "" for an invalid id.
func (id ID) Key() string {
	if !id.Valid() {
		return ""
	}
	return infos[id].Key
}

// String returns the display name of id.
func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return infos[id].Name
}

// Lookup returns the ID whose key is key.
func Lookup(key string) (ID, bool) {
	for i := range infos {
		if infos[i].Key == key {
			return ID(i), true
		}
	}
	return 0, false
}

// All returns the metadata of every parameter in ID order.
func All() []Info {
	out := make([]Info, NumParams)
	copy(out, infos[:])
	return out
}

// IsChoice reports whether the parameter takes one of a set of labels.
func (p Info) IsChoice() bool { return len(p.Choices) > 0 }

// Clamp limits v to [Min, Max]. Choice values are rounded to the nearest
// index, and an index outside the choices maps to the first choice.
func (p Info) Clamp(v float64) float64 {
	if p.IsChoice() {
		i := math.Round(v)
		if !(i >= p.Min && i <= p.Max) {
			return p.Min
		}
		return i
	}

	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	return v
}

// Snap rounds v to the nearest Interval step above Min and clamps it.
func (p Info) Snap(v float64) float64 {
	if p.Interval > 0 {
		v = p.Min + p.Interval*math.Round((v-p.Min)/p.Interval)
	}
	return p.Clamp(v)
}

// Normalize maps a plain value to [0, 1].
func (p Info) Normalize(v float64) float64 {
	x := (p.Clamp(v) - p.Min) / (p.Max - p.Min)
	if p.Skew != 1 && p.Skew > 0 && x > 0 {
		x = math.Pow(x, p.Skew)
	}
	return x
}

// Denormalize maps a normalized value in [0, 1] back to a plain value.
func (p Info) Denormalize(norm float64) float64 {
	norm = min(max(norm, 0), 1)
	if p.Skew != 1 && p.Skew > 0 && norm > 0 {
		norm = math.Exp(math.Log(norm) / p.Skew)
	}
	return p.Clamp(p.Min + (p.Max-p.Min)*norm)
}

// Format renders v for display: the choice label for choice parameters,
// otherwise the value with as many decimals as Interval implies and the
// unit.
func (p Info) Format(v float64) string {
	if p.IsChoice() {
		return p.Choices[int(p.Clamp(v))]
	}

	s := strconv.FormatFloat(p.Snap(v), 'f', p.decimals(), 64)
	if p.Unit == "" {
		return s
	}
	return s + " " + p.Unit
}

// Parse reads a value written by Format, a bare number, or a choice label
// (case-insensitive). The result is clamped.
func (p Info) Parse(text string) (float64, error) {
	text = strings.TrimSpace(text)

	if p.IsChoice() {
		for i, c := range p.Choices {
			if strings.EqualFold(c, text) {
				return float64(i), nil
			}
		}
	}

	num := strings.TrimSpace(strings.TrimSuffix(text, p.Unit))
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("param: %s: cannot parse %q: %w", p.Key, text, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("param: %s: %w", p.Key, ErrNonFinite)
	}
	return p.Clamp(v), nil
}

func (p Info) decimals() int {
	if p.Interval <= 0 || p.Interval >= 1 {
		return 0
	}
	return int(math.Ceil(-math.Log10(p.Interval) - 1e-9))
}
