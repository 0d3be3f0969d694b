package stepping

// A Transition moves a macrostate one step forward or backward in time given
// the die rolled for that step.
//
// Implementations must satisfy Backward(Forward(m, d), d) == m for every
// macrostate m and every die value d the state's die can produce. The state
// never verifies this; a transition that breaks it silently corrupts every
// later replay.
type Transition interface {
	Forward(macrostate int64, die int) int64
	Backward(macrostate int64, die int) int64
}

// Idle leaves the macrostate unchanged in both directions.
type Idle struct{}

// Forward returns macrostate.
func (Idle) Forward(macrostate int64, _ int) int64 { return macrostate }

// Backward returns macrostate.
func (Idle) Backward(macrostate int64, _ int) int64 { return macrostate }

// RandomStep adds the die to the macrostate going forward and subtracts it
// going backward.
type RandomStep struct{}

// Forward returns macrostate + die.
func (RandomStep) Forward(macrostate int64, die int) int64 {
	return macrostate + int64(die)
}

// Backward returns macrostate - die.
func (RandomStep) Backward(macrostate int64, die int) int64 {
	return macrostate - int64(die)
}

// Record adds a fixed value, ignoring the die. The value is captured when
// the Record is created, so it can snapshot another state's macrostate.
type Record struct {
	Value int64
}

// RecordValue creates a Record transition for v.
func RecordValue(v int64) Record {
	return Record{Value: v}
}

// Forward returns macrostate + r.Value.
func (r Record) Forward(macrostate int64, _ int) int64 {
	return macrostate + r.Value
}

// Backward returns macrostate - r.Value.
func (r Record) Backward(macrostate int64, _ int) int64 {
	return macrostate - r.Value
}

// Scaled is an additive walk whose stride is the die times Factor.
type Scaled struct {
	Factor int64
}

// Forward returns macrostate + Factor*die.
func (s Scaled) Forward(macrostate int64, die int) int64 {
	return macrostate + s.Factor*int64(die)
}

// Backward returns macrostate - Factor*die.
func (s Scaled) Backward(macrostate int64, die int) int64 {
	return macrostate - s.Factor*int64(die)
}

var (
	_ Transition = Idle{}
	_ Transition = RandomStep{}
	_ Transition = Record{}
	_ Transition = Scaled{}
)
