package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/revstep/stepping"
)

func newWalkCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "walk",
		Short: "Walk forward, then walk back to the start.",
		Long: "`walk` takes --steps random steps forward and the same number " +
			"back, printing the state after every step.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := newSession(o, "walk")
			out := cmd.OutOrStdout()

			state := stepping.MakeBuilder().
				WithName("walk").
				WithSides(o.cfg.Sides).
				WithSeedSource(s.seeds).
				Build()
			s.trace(state)

			for i := 0; i < o.cfg.Steps; i++ {
				state.StepForward(stepping.RandomStep{})
				fmt.Fprintln(out, state)
			}

			for i := 0; i < o.cfg.Steps; i++ {
				state.StepBackward(stepping.RandomStep{})
				fmt.Fprintln(out, state)
			}

			s.finish(out)

			return nil
		},
	}
}
