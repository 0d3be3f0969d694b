package driver

import (
	"fmt"

	"github.com/sarchlab/revstep/dice"
	"github.com/sarchlab/revstep/stepping"
)

// Always returns a policy that always picks tr.
func Always(tr stepping.Transition) Policy {
	return func(int64, Lookup) stepping.Transition {
		return tr
	}
}

// At returns a policy that defers to p at time index t and to otherwise at
// every other time index.
func At(t int64, p Policy, otherwise Policy) Policy {
	return func(now int64, states Lookup) stepping.Transition {
		if now == t {
			return p(now, states)
		}

		return otherwise(now, states)
	}
}

// RecordOf returns a policy that records the current macrostate of the named
// state.
func RecordOf(name string) Policy {
	return func(_ int64, states Lookup) stepping.Transition {
		s := states.State(name)
		if s == nil {
			panic(fmt.Sprintf("state %s not found", name))
		}

		return stepping.RecordValue(s.Macrostate())
	}
}

// Names of the states in a recording scenario.
const (
	WalkName   = "walk"
	MemoryName = "memory"
)

// NewRecordingScenario creates two states at macrostate 0. The walk takes a
// random step at every time index except recordAt, where it idles while the
// memory records the walk's macrostate. The memory idles otherwise.
func NewRecordingScenario(
	seeds dice.SeedSource,
	sides int,
	recordAt int64,
) *Driver {
	walk := stepping.MakeBuilder().
		WithName(WalkName).
		WithSides(sides).
		WithSeedSource(seeds).
		Build()
	memory := stepping.MakeBuilder().
		WithName(MemoryName).
		WithSides(sides).
		WithSeedSource(seeds).
		Build()

	d := New()
	d.Add(WalkName, walk, At(recordAt,
		Always(stepping.Idle{}), Always(stepping.RandomStep{})))
	d.Add(MemoryName, memory, At(recordAt,
		RecordOf(WalkName), Always(stepping.Idle{})))

	return d
}
