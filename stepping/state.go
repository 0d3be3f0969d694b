// Package stepping implements a reversible stochastic process.
//
// A State evolves a macrostate one time step at a time, forward or backward.
// The random outcome consumed by each step is kept on one of two stacks so
// that crossing the same time index again, in either direction, replays the
// outcome used before instead of drawing a new one. Outcomes for time
// indices never crossed come from a deterministic die keyed by the time
// index.
//
// A State is not safe for concurrent use.
package stepping

import (
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/sarchlab/revstep/dice"
	"github.com/sarchlab/revstep/hooking"
)

// State is a macrostate together with the dice that were, or will be,
// rolled around the current time index.
type State struct {
	*hooking.HookableBase

	id   string
	name string

	time       int64
	macrostate int64

	// past holds the dice consumed by forward steps, most recent last.
	past []int

	// future holds the dice consumed by backward steps, the one the next
	// forward step needs last.
	future []int

	die    dice.Roller
	newDie func(seed uint64) dice.Roller
}

// NewState creates a state at time 0 with a six-sided die seeded from seeds.
func NewState(macrostate int64, seeds dice.SeedSource) *State {
	return MakeBuilder().
		WithMacrostate(macrostate).
		WithSeedSource(seeds).
		Build()
}

// ID returns the unique ID of the state.
func (s *State) ID() string {
	return s.id
}

// Name returns the display name of the state, which may be empty.
func (s *State) Name() string {
	return s.name
}

// Time returns the current time index.
func (s *State) Time() int64 {
	return s.time
}

// Macrostate returns the current macrostate.
func (s *State) Macrostate() int64 {
	return s.macrostate
}

// PastOutcomes returns a copy of the dice behind the current time index,
// oldest first.
func (s *State) PastOutcomes() []int {
	return copyDice(s.past)
}

// FutureOutcomes returns a copy of the dice ahead of the current time index
// in stack order: the die the next forward step consumes is last.
func (s *State) FutureOutcomes() []int {
	return copyDice(s.future)
}

// Span returns the half-open range of time indices whose dice are known.
func (s *State) Span() (from, to int64) {
	return s.time - int64(len(s.past)), s.time + int64(len(s.future))
}

// StepForward advances the state by one time step.
func (s *State) StepForward(tr Transition) {
	before := s.macrostate

	die, replayed := pop(&s.future)
	if !replayed {
		die = s.die.Roll(s.time)
	}

	s.macrostate = tr.Forward(s.macrostate, die)
	s.past = append(s.past, die)
	s.time++

	s.invokeStepHook(HookPosStepForward, Step{
		Direction: Forward,
		Time:      s.time - 1,
		Die:       die,
		Replayed:  replayed,
		Before:    before,
		After:     s.macrostate,
	})
}

// StepBackward moves the state back by one time step. The time index is
// decremented before the die is looked up, so the die is keyed by the index
// a forward step over the same interval would have used.
func (s *State) StepBackward(tr Transition) {
	before := s.macrostate

	s.time--

	die, replayed := pop(&s.past)
	if !replayed {
		die = s.die.Roll(s.time)
	}

	s.macrostate = tr.Backward(s.macrostate, die)
	s.future = append(s.future, die)

	s.invokeStepHook(HookPosStepBackward, Step{
		Direction: Backward,
		Time:      s.time,
		Die:       die,
		Replayed:  replayed,
		Before:    before,
		After:     s.macrostate,
	})
}

func (s *State) invokeStepHook(pos *hooking.HookPos, step Step) {
	if s.NumHooks() == 0 {
		return
	}

	step.StateID = s.id
	step.StateName = s.name

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    pos,
		Item:   step,
	})
}

// Derive creates an independent continuation of s. The new state starts at
// s's time and macrostate with empty histories and a die of the same range
// seeded from seeds. It does not inherit s's dice or hooks.
func (s *State) Derive(seeds dice.SeedSource) *State {
	return &State{
		HookableBase: hooking.NewHookableBase(),
		id:           xid.New().String(),
		name:         s.name,
		time:         s.time,
		macrostate:   s.macrostate,
		die:          s.newDie(seeds.NextSeed()),
		newDie:       s.newDie,
	}
}

// Snapshot is a copy of everything that determines a state's future
// behavior except its die.
type Snapshot struct {
	Time       int64
	Macrostate int64
	Past       []int
	Future     []int
}

// Snapshot captures the current time, macrostate and histories.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Time:       s.time,
		Macrostate: s.macrostate,
		Past:       copyDice(s.past),
		Future:     copyDice(s.future),
	}
}

// String renders the known tape: past dice oldest first, the macrostate in
// parentheses, then future dice in the order they will be consumed.
func (s *State) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "State at t=%d: ...", s.time)

	for _, d := range s.past {
		fmt.Fprintf(&b, " %d", d)
	}

	fmt.Fprintf(&b, " (%d) ", s.macrostate)

	for i := len(s.future) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%d ", s.future[i])
	}

	b.WriteString("...")

	return b.String()
}

func pop(stack *[]int) (int, bool) {
	n := len(*stack)
	if n == 0 {
		return 0, false
	}

	v := (*stack)[n-1]
	*stack = (*stack)[:n-1]

	return v, true
}

func copyDice(src []int) []int {
	dst := make([]int, len(src))
	copy(dst, src)

	return dst
}
