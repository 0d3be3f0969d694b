// Package dice provides time-indexed deterministic dice.
//
// A die maps a time index to a pseudorandom outcome. The mapping is a pure
// function of the die's seed and the time index: every call builds a new
// ChaCha8 generator keyed from seed XOR t and draws a single value from it,
// so no generator state survives between calls and any outcome can be
// recomputed at any time, in any order.
package dice

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
)

// DefaultSides is the number of faces of a standard die.
const DefaultSides = 6

// ErrInvalidSides is returned when a die is configured with fewer than one
// face.
var ErrInvalidSides = errors.New("die must have at least one side")

// A Roller produces the outcome associated with a time index.
type Roller interface {
	Roll(t int64) int
}

// RollerFunc turns an ordinary function into a Roller.
type RollerFunc func(t int64) int

// Roll calls f(t).
func (f RollerFunc) Roll(t int64) int {
	return f(t)
}

// Die is a Roller with outcomes uniformly distributed in [0, Sides()).
type Die struct {
	seed  uint64
	sides int
}

// New creates a die with the given seed and number of sides.
func New(seed uint64, sides int) (Die, error) {
	if sides < 1 {
		return Die{}, errors.Wrapf(ErrInvalidSides, "sides = %d", sides)
	}

	return Die{seed: seed, sides: sides}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(seed uint64, sides int) Die {
	d, err := New(seed, sides)
	if err != nil {
		panic(err)
	}

	return d
}

// Uniform creates a six-sided die.
func Uniform(seed uint64) Die {
	return Die{seed: seed, sides: DefaultSides}
}

// UniformRolls returns the outcome function of a six-sided die bound to
// seed.
func UniformRolls(seed uint64) RollerFunc {
	return Uniform(seed).Roll
}

// Seed returns the seed of the die.
func (d Die) Seed() uint64 {
	return d.seed
}

// Sides returns the number of possible outcomes.
func (d Die) Sides() int {
	return d.sides
}

// Roll returns the outcome at time index t.
func (d Die) Roll(t int64) int {
	return Roll(d.seed, t, d.sides)
}

// Roll returns a value in [0, sides) that only depends on seed and t.
// Negative time indices are reinterpreted as unsigned 64-bit values.
// Roll panics if sides < 1.
func Roll(seed uint64, t int64, sides int) int {
	if sides < 1 {
		panic(errors.Wrapf(ErrInvalidSides, "sides = %d", sides))
	}

	rng := rand.New(rand.NewChaCha8(expandKey(seed ^ uint64(t))))

	return rng.IntN(sides)
}

// expandKey stretches a 64-bit value into a ChaCha8 key. The first word is
// the value itself; the rest are taken from a SplitMix64 stream over it.
func expandKey(v uint64) [32]byte {
	var key [32]byte

	binary.LittleEndian.PutUint64(key[0:], v)

	sm := splitMix64{state: v}
	for i := 8; i < len(key); i += 8 {
		binary.LittleEndian.PutUint64(key[i:], sm.next())
	}

	return key
}

type splitMix64 struct {
	state uint64
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB

	return z ^ (z >> 31)
}
