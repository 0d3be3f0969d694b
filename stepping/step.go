package stepping

import "github.com/sarchlab/revstep/hooking"

// Direction tells which way a step went.
type Direction int

// The two step directions.
const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// HookPosStepForward marks a completed forward step.
var HookPosStepForward = &hooking.HookPos{Name: "StepForward"}

// HookPosStepBackward marks a completed backward step.
var HookPosStepBackward = &hooking.HookPos{Name: "StepBackward"}

// Step describes a single completed step. It is the Item of every hook a
// State invokes.
type Step struct {
	StateID   string
	StateName string
	Direction Direction

	// Time is the time index the die is keyed at. A forward step from t and
	// a backward step from t+1 share Time t.
	Time int64

	Die int

	// Replayed is true when the die came from the state's history rather
	// than from the die source.
	Replayed bool

	Before int64
	After  int64
}
