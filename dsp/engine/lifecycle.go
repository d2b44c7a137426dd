package engine

// State is the lifecycle state of a Processor.
type State int

const (
	StateUninitialized State = iota
	StatePrepared
	StateProcessing
	StateReleased
)

// String returns a lower-case name for s.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePrepared:
		return "prepared"
	case StateProcessing:
		return "processing"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

func (s State) canProcess() bool {
	return s == StatePrepared || s == StateProcessing
}
