package driver_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/revstep/dice"
	"github.com/sarchlab/revstep/driver"
	"github.com/sarchlab/revstep/hooking"
	"github.com/sarchlab/revstep/stepping"
)

var _ = Describe("Driver", func() {
	var (
		seeds *dice.SequenceSeedSource
		d     *driver.Driver
	)

	BeforeEach(func() {
		seeds = dice.NewSequenceSeedSource(dice.DefaultSeed)
		d = driver.New()
	})

	It("should step all states on one clock", func() {
		a := stepping.NewState(0, seeds)
		b := stepping.NewState(100, seeds)
		d.Add("a", a, driver.Always(stepping.RandomStep{}))
		d.Add("b", b, driver.Always(stepping.Idle{}))

		d.Run(4)

		Expect(d.Now()).To(Equal(int64(4)))
		Expect(a.Time()).To(Equal(int64(4)))
		Expect(b.Time()).To(Equal(int64(4)))
		Expect(b.Macrostate()).To(Equal(int64(100)))
		Expect(d.Names()).To(Equal([]string{"a", "b"}))

		d.Rewind(6)

		Expect(d.Now()).To(Equal(int64(-2)))
		Expect(a.Time()).To(Equal(int64(-2)))
		Expect(b.Time()).To(Equal(int64(-2)))
	})

	It("should step backward in reverse order", func() {
		a := stepping.NewState(0, seeds)
		b := stepping.NewState(0, seeds)

		var order []string
		a.AcceptHook(hooking.HookFunc(func(hooking.HookCtx) { order = append(order, "a") }))
		b.AcceptHook(hooking.HookFunc(func(hooking.HookCtx) { order = append(order, "b") }))

		d.Add("a", a, driver.Always(stepping.Idle{}))
		d.Add("b", b, driver.Always(stepping.Idle{}))

		d.Forward()
		d.Backward()

		Expect(order).To(Equal([]string{"a", "b", "b", "a"}))
	})

	It("should ask policies with the interval start on both passes", func() {
		var asked []int64
		policy := func(t int64, _ driver.Lookup) stepping.Transition {
			asked = append(asked, t)
			return stepping.Idle{}
		}

		d.Add("a", stepping.NewState(0, seeds), policy)
		d.Run(2)
		d.Rewind(3)

		Expect(asked).To(Equal([]int64{0, 1, 1, 0, -1}))
	})

	It("should reject duplicated names and mismatched clocks", func() {
		d.Add("a", stepping.NewState(0, seeds), driver.Always(stepping.Idle{}))

		Expect(func() {
			d.Add("a", stepping.NewState(0, seeds), driver.Always(stepping.Idle{}))
		}).To(Panic())

		late := stepping.MakeBuilder().WithTime(3).WithSeedSource(seeds).Build()
		Expect(func() {
			d.Add("late", late, driver.Always(stepping.Idle{}))
		}).To(Panic())
	})

	It("should return nil for unknown states", func() {
		Expect(d.State("nobody")).To(BeNil())
		Expect(func() {
			driver.RecordOf("nobody")(0, d)
		}).To(Panic())
	})

	It("should pick the special policy only at its time", func() {
		p := driver.At(2,
			driver.Always(stepping.RecordValue(9)),
			driver.Always(stepping.Idle{}))

		Expect(p(2, d)).To(Equal(stepping.RecordValue(9)))
		Expect(p(1, d)).To(Equal(stepping.Idle{}))
		Expect(p(-2, d)).To(Equal(stepping.Idle{}))
	})
})

var _ = Describe("Recording scenario", func() {
	It("should record the walk at the chosen time and undo everything", func() {
		d := driver.NewRecordingScenario(
			dice.NewSequenceSeedSource(dice.DefaultSeed), 6, 5)
		walk := d.State(driver.WalkName)
		memory := d.State(driver.MemoryName)

		var walkAtRecord int64
		var recorded []stepping.Step
		memory.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			step := ctx.Item.(stepping.Step)
			if step.Time == 5 {
				recorded = append(recorded, step)
			}
		}))

		for t := 0; t < 10; t++ {
			if t == 5 {
				walkAtRecord = walk.Macrostate()
			}
			d.Forward()
		}

		Expect(memory.Macrostate()).To(Equal(walkAtRecord))
		Expect(walk.Macrostate()).To(BeNumerically(">=", walkAtRecord))

		var walkDice int64
		for i, die := range walk.PastOutcomes() {
			if i != 5 {
				walkDice += int64(die)
			}
		}
		Expect(walk.Macrostate()).To(Equal(walkDice))

		d.Rewind(10)

		Expect(walk.Macrostate()).To(Equal(int64(0)))
		Expect(memory.Macrostate()).To(Equal(int64(0)))
		Expect(walk.Time()).To(Equal(int64(0)))
		Expect(memory.Time()).To(Equal(int64(0)))

		Expect(recorded).To(HaveLen(2))
		Expect(recorded[0].After - recorded[0].Before).To(Equal(walkAtRecord))
		Expect(recorded[1].Before - recorded[1].After).To(Equal(walkAtRecord))
	})
})
