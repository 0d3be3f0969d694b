// Package driver steps several named states on a shared clock, choosing the
// transition each state takes at each time index through a Policy.
package driver

import (
	"fmt"

	"github.com/sarchlab/revstep/stepping"
)

// Lookup finds states by name.
type Lookup interface {
	State(name string) *stepping.State
}

// A Policy chooses the transition a state takes over the interval starting
// at time index t. It is asked again with the same t when that interval is
// crossed backward, so a policy that reads other states must read values
// that are the same at both moments.
type Policy func(t int64, states Lookup) stepping.Transition

type entry struct {
	name   string
	state  *stepping.State
	policy Policy
}

// Driver owns the clock shared by a group of states.
//
// Forward steps the states in the order they were added. Backward steps
// them in the reverse order, so a state that reads another state's
// macrostate sees, on the way back, the value it saw on the way forward.
type Driver struct {
	now     int64
	entries []entry
	index   map[string]int
}

// New creates an empty Driver.
func New() *Driver {
	return &Driver{index: make(map[string]int)}
}

// Add registers a state under a unique name. All states of a driver must be
// at the same time index.
func (d *Driver) Add(name string, s *stepping.State, p Policy) {
	if _, found := d.index[name]; found {
		panic(fmt.Sprintf("state %s already added", name))
	}

	if len(d.entries) == 0 {
		d.now = s.Time()
	} else if s.Time() != d.now {
		panic(fmt.Sprintf(
			"state %s is at t=%d, driver is at t=%d", name, s.Time(), d.now))
	}

	d.index[name] = len(d.entries)
	d.entries = append(d.entries, entry{name: name, state: s, policy: p})
}

// State returns the state with the given name, or nil.
func (d *Driver) State(name string) *stepping.State {
	i, found := d.index[name]
	if !found {
		return nil
	}

	return d.entries[i].state
}

// Names returns the state names in the order they were added.
func (d *Driver) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.name
	}

	return names
}

// Now returns the current time index.
func (d *Driver) Now() int64 {
	return d.now
}

// Forward advances every state by one step.
func (d *Driver) Forward() {
	t := d.now

	for _, e := range d.entries {
		e.state.StepForward(e.policy(t, d))
	}

	d.now++
}

// Backward moves every state back by one step.
func (d *Driver) Backward() {
	d.now--
	t := d.now

	for i := len(d.entries) - 1; i >= 0; i-- {
		e := d.entries[i]
		e.state.StepBackward(e.policy(t, d))
	}
}

// Run calls Forward n times.
func (d *Driver) Run(n int) {
	for i := 0; i < n; i++ {
		d.Forward()
	}
}

// Rewind calls Backward n times.
func (d *Driver) Rewind(n int) {
	for i := 0; i < n; i++ {
		d.Backward()
	}
}
