package stepping

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/revstep/dice"
	"github.com/sarchlab/revstep/hooking"
)

// countingRoller rolls t mod 4 and counts how often it is asked.
type countingRoller struct {
	calls []int64
}

func (r *countingRoller) Roll(t int64) int {
	r.calls = append(r.calls, t)
	return int(((t % 4) + 4) % 4)
}

var _ = Describe("State", func() {
	var (
		mockCtrl *gomock.Controller
		seed     uint64
		s        *State
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		seed = 0x5EED
		s = NewState(0, dice.FixedSeedSource(seed))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start empty at time zero", func() {
		Expect(s.Time()).To(Equal(int64(0)))
		Expect(s.Macrostate()).To(Equal(int64(0)))
		Expect(s.PastOutcomes()).To(BeEmpty())
		Expect(s.FutureOutcomes()).To(BeEmpty())
		Expect(s.ID()).NotTo(BeEmpty())
	})

	It("should walk forward and back to where it started", func() {
		die := dice.Uniform(seed)

		var forwardDice []int
		var sum int64
		for i := 0; i < 10; i++ {
			s.StepForward(RandomStep{})
			d := die.Roll(int64(i))
			forwardDice = append(forwardDice, d)
			sum += int64(d)
		}

		Expect(s.Time()).To(Equal(int64(10)))
		Expect(s.Macrostate()).To(Equal(sum))
		Expect(s.PastOutcomes()).To(Equal(forwardDice))

		var backwardDice []int
		s.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			backwardDice = append(backwardDice, ctx.Item.(Step).Die)
		}))

		for i := 0; i < 10; i++ {
			s.StepBackward(RandomStep{})
		}

		Expect(s.Time()).To(Equal(int64(0)))
		Expect(s.Macrostate()).To(Equal(int64(0)))
		Expect(s.PastOutcomes()).To(BeEmpty())
		for i := range backwardDice {
			Expect(backwardDice[i]).To(Equal(forwardDice[9-i]))
		}
		Expect(s.FutureOutcomes()).To(Equal(backwardDice))
	})

	It("should replay dice instead of rolling again", func() {
		roller := &countingRoller{}
		s = MakeBuilder().WithRoller(roller).Build()

		s.StepForward(RandomStep{})
		s.StepForward(RandomStep{})
		s.StepBackward(RandomStep{})
		s.StepForward(RandomStep{})

		Expect(roller.calls).To(Equal([]int64{0, 1}))
		Expect(s.Macrostate()).To(Equal(int64(1)))
	})

	It("should roll dice for negative times when going back first", func() {
		roller := &countingRoller{}
		s = MakeBuilder().WithMacrostate(10).WithRoller(roller).Build()

		for i := 0; i < 3; i++ {
			s.StepBackward(RandomStep{})
		}

		Expect(s.Time()).To(Equal(int64(-3)))
		Expect(roller.calls).To(Equal([]int64{-1, -2, -3}))
		Expect(s.FutureOutcomes()).To(Equal([]int{3, 2, 1}))
		Expect(s.Macrostate()).To(Equal(int64(10 - 3 - 2 - 1)))

		for i := 0; i < 3; i++ {
			s.StepForward(RandomStep{})
		}

		Expect(roller.calls).To(HaveLen(3))
		Expect(s.Time()).To(Equal(int64(0)))
		Expect(s.Macrostate()).To(Equal(int64(10)))
		Expect(s.PastOutcomes()).To(Equal([]int{1, 2, 3}))
		Expect(s.FutureOutcomes()).To(BeEmpty())
	})

	It("should use the real die below zero", func() {
		die := dice.Uniform(seed)

		s.StepBackward(RandomStep{})
		s.StepBackward(RandomStep{})

		Expect(s.FutureOutcomes()).To(Equal([]int{die.Roll(-1), die.Roll(-2)}))
	})

	It("should hand the same die to forward and backward", func() {
		tr := NewMockTransition(mockCtrl)
		s = MakeBuilder().
			WithMacrostate(7).
			WithRoller(dice.RollerFunc(func(t int64) int { return 3 })).
			Build()

		tr.EXPECT().Forward(int64(7), 3).Return(int64(100))
		tr.EXPECT().Backward(int64(100), 3).Return(int64(7))

		s.StepForward(tr)
		Expect(s.Macrostate()).To(Equal(int64(100)))

		s.StepBackward(tr)
		Expect(s.Macrostate()).To(Equal(int64(7)))
	})

	It("should invoke hooks after each step", func() {
		hook := NewMockHook(mockCtrl)
		s = MakeBuilder().
			WithName("walk").
			WithRoller(dice.RollerFunc(func(t int64) int { return 2 })).
			Build()
		s.AcceptHook(hook)

		var steps []Step
		var positions []*hooking.HookPos
		hook.EXPECT().Func(gomock.Any()).
			Do(func(ctx hooking.HookCtx) {
				Expect(ctx.Domain).To(BeIdenticalTo(s))
				positions = append(positions, ctx.Pos)
				steps = append(steps, ctx.Item.(Step))
			}).Times(3)

		s.StepForward(RandomStep{})
		s.StepBackward(RandomStep{})
		s.StepBackward(RandomStep{})

		Expect(positions).To(Equal([]*hooking.HookPos{
			HookPosStepForward, HookPosStepBackward, HookPosStepBackward,
		}))
		Expect(steps[0]).To(Equal(Step{
			StateID: s.ID(), StateName: "walk", Direction: Forward,
			Time: 0, Die: 2, Replayed: false, Before: 0, After: 2,
		}))
		Expect(steps[1]).To(Equal(Step{
			StateID: s.ID(), StateName: "walk", Direction: Backward,
			Time: 0, Die: 2, Replayed: true, Before: 2, After: 0,
		}))
		Expect(steps[2]).To(Equal(Step{
			StateID: s.ID(), StateName: "walk", Direction: Backward,
			Time: -1, Die: 2, Replayed: false, Before: 0, After: -2,
		}))
	})

	It("should report the known span", func() {
		s.StepForward(Idle{})
		s.StepForward(Idle{})
		s.StepForward(Idle{})
		s.StepBackward(Idle{})

		from, to := s.Span()
		Expect(from).To(Equal(int64(0)))
		Expect(to).To(Equal(int64(3)))

		for i := 0; i < 4; i++ {
			s.StepBackward(Idle{})
		}

		from, to = s.Span()
		Expect(from).To(Equal(int64(-2)))
		Expect(to).To(Equal(int64(3)))
		Expect(s.FutureOutcomes()).To(HaveLen(5))
	})

	It("should render the tape", func() {
		s = MakeBuilder().WithRoller(&countingRoller{}).Build()
		Expect(s.String()).To(Equal("State at t=0: ... (0) ..."))

		for i := 0; i < 4; i++ {
			s.StepForward(RandomStep{})
		}
		s.StepBackward(RandomStep{})
		s.StepBackward(RandomStep{})

		Expect(s.String()).To(Equal("State at t=2: ... 0 1 (1) 2 3 ..."))
	})

	It("should derive an independent continuation", func() {
		seeds := dice.NewSequenceSeedSource(1)
		s = MakeBuilder().WithName("walk").WithSides(4).
			WithSeedSource(seeds).Build()

		for i := 0; i < 5; i++ {
			s.StepForward(RandomStep{})
		}

		child := s.Derive(seeds)

		Expect(child.ID()).NotTo(Equal(s.ID()))
		Expect(child.Name()).To(Equal("walk"))
		Expect(child.Time()).To(Equal(s.Time()))
		Expect(child.Macrostate()).To(Equal(s.Macrostate()))
		Expect(child.PastOutcomes()).To(BeEmpty())
		Expect(child.FutureOutcomes()).To(BeEmpty())
		Expect(child.NumHooks()).To(Equal(0))

		parent := s.Snapshot()
		for i := 0; i < 20; i++ {
			child.StepForward(RandomStep{})
			Expect(child.PastOutcomes()[i]).To(BeNumerically("<", 4))
		}
		Expect(s.Snapshot()).To(Equal(parent))

		for i := 0; i < 25; i++ {
			child.StepBackward(RandomStep{})
		}
		Expect(child.Time()).To(Equal(int64(0)))
	})

	It("should keep snapshots independent of the state", func() {
		s.StepForward(RandomStep{})
		snap := s.Snapshot()

		s.StepForward(RandomStep{})

		Expect(snap.Past).To(HaveLen(1))
		Expect(snap.Time).To(Equal(int64(1)))
	})
})

var _ = Describe("Builder", func() {
	It("should reject a die without sides", func() {
		Expect(func() { MakeBuilder().WithSides(0).Build() }).To(Panic())
	})

	It("should require a source of dice", func() {
		Expect(func() { MakeBuilder().WithSeedSource(nil).Build() }).To(Panic())
	})

	It("should start at the configured time", func() {
		s := MakeBuilder().WithTime(-4).WithMacrostate(3).
			WithSeedSource(dice.FixedSeedSource(1)).Build()

		Expect(s.Time()).To(Equal(int64(-4)))
		Expect(s.Macrostate()).To(Equal(int64(3)))
	})
})
