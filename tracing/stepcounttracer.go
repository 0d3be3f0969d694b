package tracing

import (
	"sync"

	"github.com/sarchlab/revstep/stepping"
)

// StepCountTracer counts steps by direction and by where the die came from,
// and remembers which time indices each state has crossed.
type StepCountTracer struct {
	lock     sync.Mutex
	forward  uint64
	backward uint64
	replayed uint64
	fresh    uint64
	visited  map[string]map[int64]bool
}

// NewStepCountTracer creates a StepCountTracer.
func NewStepCountTracer() *StepCountTracer {
	return &StepCountTracer{visited: make(map[string]map[int64]bool)}
}

// TraceStep counts the step.
func (t *StepCountTracer) TraceStep(step stepping.Step) {
	t.lock.Lock()
	defer t.lock.Unlock()

	switch step.Direction {
	case stepping.Forward:
		t.forward++
	case stepping.Backward:
		t.backward++
	}

	if step.Replayed {
		t.replayed++
	} else {
		t.fresh++
	}

	times, ok := t.visited[step.StateID]
	if !ok {
		times = make(map[int64]bool)
		t.visited[step.StateID] = times
	}

	times[step.Time] = true
}

// StepCount returns how many steps went in the given direction.
func (t *StepCountTracer) StepCount(dir stepping.Direction) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if dir == stepping.Forward {
		return t.forward
	}

	return t.backward
}

// ReplayedCount returns how many steps replayed a stored die.
func (t *StepCountTracer) ReplayedCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.replayed
}

// FreshCount returns how many steps rolled the die source.
func (t *StepCountTracer) FreshCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.fresh
}

// VisitedCount returns the number of distinct time indices the state with
// the given ID has crossed.
func (t *StepCountTracer) VisitedCount(stateID string) int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.visited[stateID])
}
