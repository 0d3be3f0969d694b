package stepping

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transitions", func() {
	macrostates := []int64{0, 1, -1, 42, -1000, math.MaxInt64, math.MinInt64}

	DescribeTable("should undo forward with backward for every die",
		func(tr Transition) {
			for _, m := range macrostates {
				for d := 0; d < 6; d++ {
					Expect(tr.Backward(tr.Forward(m, d), d)).To(Equal(m))
				}
			}
		},
		Entry("idle", Idle{}),
		Entry("random step", RandomStep{}),
		Entry("record", RecordValue(17)),
		Entry("record negative", RecordValue(-9)),
		Entry("scaled", Scaled{Factor: 3}),
	)

	It("should ignore the die when idle", func() {
		Expect(Idle{}.Forward(5, 3)).To(Equal(int64(5)))
		Expect(Idle{}.Backward(5, 3)).To(Equal(int64(5)))
	})

	It("should add the die on a random step", func() {
		Expect(RandomStep{}.Forward(5, 3)).To(Equal(int64(8)))
		Expect(RandomStep{}.Backward(5, 3)).To(Equal(int64(2)))
	})

	It("should add the captured value on a record", func() {
		r := RecordValue(10)
		Expect(r.Forward(5, 3)).To(Equal(int64(15)))
		Expect(r.Backward(15, 0)).To(Equal(int64(5)))
	})

	It("should name directions", func() {
		Expect(Forward.String()).To(Equal("forward"))
		Expect(Backward.String()).To(Equal("backward"))
		Expect(Direction(9).String()).To(Equal("unknown"))
	})
})
