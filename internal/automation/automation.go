// Package automation drives filter parameters from a Lua script.
//
// A script defines a global function automate(t) that receives the
// render time in seconds and returns a table keyed by parameter key:
//
//	function automate(t)
//	  return { cutoff = 200 + 4000 * t, slope = "24 dB/oct" }
//	end
//
// Numeric entries are plain values. String entries are parsed with the
// parameter's display format, so choice labels and "-6 dB" both work.
// A Script is not safe for concurrent use.
package automation

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/algo-slopefilter/dsp/param"
)

// FuncName is the global the script must define.
const FuncName = "automate"

var (
	// ErrNoFunction is returned when the script does not define automate.
	ErrNoFunction = errors.New("automation: script does not define " + FuncName)
	// ErrBadResult is returned when automate returns something other than a table.
	ErrBadResult = errors.New("automation: " + FuncName + " must return a table")
	// ErrClosed is returned by calls on a closed Script.
	ErrClosed = errors.New("automation: script closed")
)

// Script is a loaded automation script.
type Script struct {
	state *lua.LState
	fn    *lua.LFunction
}

// Load compiles and runs src, then resolves the automate function.
func Load(src string) (*Script, error) {
	L := lua.NewState()
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation: load: %w", err)
	}
	return bind(L)
}

// LoadFile is like Load but reads the script from path.
func LoadFile(path string) (*Script, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation: load %s: %w", path, err)
	}
	return bind(L)
}

func bind(L *lua.LState) (*Script, error) {
	fn, ok := L.GetGlobal(FuncName).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoFunction
	}
	return &Script{state: L, fn: fn}, nil
}

// Eval calls automate(t) and returns the resulting plain values by
// parameter ID. Unknown keys are ignored. Values are not clamped here;
// the store does that on Set.
func (s *Script) Eval(t float64) (map[param.ID]float64, error) {
	if s.state == nil {
		return nil, ErrClosed
	}
	if err := s.state.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, lua.LNumber(t)); err != nil {
		return nil, fmt.Errorf("automation: eval at %.3fs: %w", t, err)
	}
	ret := s.state.Get(-1)
	s.state.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		if ret == lua.LNil {
			return nil, nil
		}
		return nil, ErrBadResult
	}

	out := make(map[param.ID]float64, param.NumParams)
	var firstErr error
	tbl.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}
		id, ok := param.Lookup(k.String())
		if !ok {
			return
		}
		switch val := v.(type) {
		case lua.LNumber:
			out[id] = float64(val)
		case lua.LString:
			plain, err := id.Info().Parse(string(val))
			if err != nil {
				firstErr = fmt.Errorf("automation: %s: %w", id.Key(), err)
				return
			}
			out[id] = plain
		default:
			firstErr = fmt.Errorf("automation: %s: unsupported value type %s", id.Key(), v.Type())
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// Apply evaluates the script at t and writes the results into store.
func (s *Script) Apply(store *param.Store, t float64) error {
	values, err := s.Eval(t)
	if err != nil {
		return err
	}
	for id, v := range values {
		store.Set(id, v)
	}
	return nil
}

// Close releases the Lua state. It is safe to call more than once.
func (s *Script) Close() {
	if s.state != nil {
		s.state.Close()
		s.state = nil
		s.fn = nil
	}
}
