package stepping

import (
	"github.com/rs/xid"
	"github.com/sarchlab/revstep/dice"
	"github.com/sarchlab/revstep/hooking"
)

// Builder creates States.
type Builder struct {
	name       string
	macrostate int64
	time       int64
	sides      int
	seeds      dice.SeedSource
	roller     dice.Roller
}

// MakeBuilder creates a Builder with a six-sided die and a crypto seed
// source.
func MakeBuilder() Builder {
	return Builder{
		sides: dice.DefaultSides,
		seeds: dice.CryptoSeedSource{},
	}
}

// WithName sets the display name of the state.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithMacrostate sets the initial macrostate.
func (b Builder) WithMacrostate(m int64) Builder {
	b.macrostate = m
	return b
}

// WithTime sets the initial time index.
func (b Builder) WithTime(t int64) Builder {
	b.time = t
	return b
}

// WithSides sets the number of faces of the die.
func (b Builder) WithSides(sides int) Builder {
	b.sides = sides
	return b
}

// WithSeedSource sets where the die seed comes from.
func (b Builder) WithSeedSource(seeds dice.SeedSource) Builder {
	b.seeds = seeds
	return b
}

// WithRoller replaces the die entirely. States derived from the built state
// still get uniform dice with the configured number of sides.
func (b Builder) WithRoller(r dice.Roller) Builder {
	b.roller = r
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.sides < 1 {
		panic("die must have at least one side")
	}

	if b.seeds == nil && b.roller == nil {
		panic("either a seed source or a roller must be set")
	}
}

// Build creates a new State.
func (b Builder) Build() *State {
	b.parametersMustBeValid()

	sides := b.sides
	newDie := func(seed uint64) dice.Roller {
		return dice.MustNew(seed, sides)
	}

	die := b.roller
	if die == nil {
		die = newDie(b.seeds.NextSeed())
	}

	return &State{
		HookableBase: hooking.NewHookableBase(),
		id:           xid.New().String(),
		name:         b.name,
		time:         b.time,
		macrostate:   b.macrostate,
		die:          die,
		newDie:       newDie,
	}
}
