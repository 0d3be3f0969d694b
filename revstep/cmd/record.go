package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/revstep/driver"
)

func newRecordCmd(o *options) *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Snapshot a walk into a second state, then undo both.",
		Long: "`record` drives two states. The walk takes a random step at " +
			"every time index except --record-at, where the memory records " +
			"the walk's macrostate instead. After --steps time indices both " +
			"states are stepped back to the start.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := newSession(o, "record")
			out := cmd.OutOrStdout()

			d := driver.NewRecordingScenario(s.seeds, o.cfg.Sides, o.cfg.RecordAt)
			for _, name := range d.Names() {
				s.trace(d.State(name))
			}

			for i := 0; i < o.cfg.Steps; i++ {
				d.Forward()
				printDriver(out, d)
			}

			for i := 0; i < o.cfg.Steps; i++ {
				d.Backward()
				printDriver(out, d)
			}

			s.finish(out)

			return nil
		},
	}

	recordCmd.Flags().Int64Var(&o.recordAt, "record-at", 5,
		"Time index at which the walk is recorded")

	return recordCmd
}

func printDriver(out io.Writer, d *driver.Driver) {
	for _, name := range d.Names() {
		fmt.Fprintf(out, "%-6s %s\n", name, d.State(name))
	}
}
